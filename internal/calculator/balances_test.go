package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shares(pairs ...string) []Share {
	// pairs alternate userID, amount
	out := make([]Share, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Share{UserID: pairs[i], Amount: dec(pairs[i+1])})
	}
	return out
}

func assertBalance(t *testing.T, balances map[string]decimal.Decimal, counterpart, want string) {
	t.Helper()
	got, ok := balances[counterpart]
	require.True(t, ok, "no balance entry for %s in %v", counterpart, balances)
	assert.True(t, got.Equal(dec(want)), "balance[%s] = %s, want %s", counterpart, got, want)
}

func TestResolveSplits(t *testing.T) {
	t.Run("prefers persisted rows", func(t *testing.T) {
		e := Expense{
			Amount:       dec("100.00"),
			PaidBy:       "alice",
			Splits:       shares("alice", "60.00", "bob", "40.00"),
			Participants: []string{"alice", "bob"},
		}
		resolved, ok := ResolveSplits(e)
		require.True(t, ok)
		assert.Equal(t, SplitsPersisted, resolved.Source)
		assert.True(t, resolved.Shares[0].Amount.Equal(dec("60.00")))
	})

	t.Run("derives equal split when no rows exist", func(t *testing.T) {
		e := Expense{
			Amount:       dec("100.00"),
			PaidBy:       "alice",
			Participants: []string{"alice", "bob"},
		}
		resolved, ok := ResolveSplits(e)
		require.True(t, ok)
		assert.Equal(t, SplitsDerived, resolved.Source)
		require.Len(t, resolved.Shares, 2)
		assert.True(t, resolved.Shares[0].Amount.Equal(dec("50")))
	})

	t.Run("unresolvable without rows or participants", func(t *testing.T) {
		_, ok := ResolveSplits(Expense{Amount: dec("100.00"), PaidBy: "alice"})
		assert.False(t, ok)
	})
}

func TestGroupBalancesSingleExpense(t *testing.T) {
	members := []string{"alice", "bob"}
	expenses := []Expense{{
		ID:           "t1",
		Amount:       dec("100.00"),
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}}

	fromAlice := GroupBalances("alice", expenses, nil, members)
	require.Len(t, fromAlice, 1)
	assertBalance(t, fromAlice, "bob", "50.00")

	fromBob := GroupBalances("bob", expenses, nil, members)
	require.Len(t, fromBob, 1)
	assertBalance(t, fromBob, "alice", "-50.00")
}

func TestGroupBalancesAntisymmetry(t *testing.T) {
	members := []string{"u", "v", "w"}
	expenses := []Expense{
		{ID: "t1", Amount: dec("33.33"), PaidBy: "u", Participants: []string{"u", "v", "w"}},
		{ID: "t2", Amount: dec("20.00"), PaidBy: "v", Participants: []string{"u", "v"}},
		{ID: "t3", Amount: dec("7.01"), PaidBy: "w", Participants: []string{"w", "u", "v"}},
	}

	for _, pair := range [][2]string{{"u", "v"}, {"u", "w"}, {"v", "w"}} {
		a, b := pair[0], pair[1]
		fromA := GroupBalances(a, expenses, nil, members)[b]
		fromB := GroupBalances(b, expenses, nil, members)[a]
		assert.True(t, fromA.Equal(fromB.Neg()),
			"balance %s->%s = %s, %s->%s = %s", a, b, fromA, b, a, fromB)
	}
}

func TestGroupBalancesNetting(t *testing.T) {
	// alice pays 20 split alice/bob, bob pays 40 split alice/bob:
	// bob owes alice 10, alice owes bob 20, net alice owes 10.
	members := []string{"alice", "bob"}
	expenses := []Expense{
		{ID: "t1", Amount: dec("20.00"), PaidBy: "alice", Participants: []string{"alice", "bob"}},
		{ID: "t2", Amount: dec("40.00"), PaidBy: "bob", Participants: []string{"alice", "bob"}},
	}

	balances := GroupBalances("alice", expenses, nil, members)
	require.Len(t, balances, 1)
	assertBalance(t, balances, "bob", "-10.00")
}

func TestGroupBalancesNearZeroSuppression(t *testing.T) {
	// Two expenses that cancel to the cent leave no entry behind.
	members := []string{"alice", "bob"}
	expenses := []Expense{
		{ID: "t1", Amount: dec("25.00"), PaidBy: "alice", Participants: []string{"alice", "bob"}},
		{ID: "t2", Amount: dec("25.00"), PaidBy: "bob", Participants: []string{"alice", "bob"}},
	}

	balances := GroupBalances("alice", expenses, nil, members)
	assert.Empty(t, balances)
}

func TestGroupBalancesPersistedSplitsWin(t *testing.T) {
	// Persisted rows disagree with an equal split; they are authoritative.
	members := []string{"alice", "bob"}
	expenses := []Expense{{
		ID:           "t1",
		Amount:       dec("100.00"),
		PaidBy:       "alice",
		Splits:       shares("alice", "70.00", "bob", "30.00"),
		Participants: []string{"alice", "bob"},
	}}

	balances := GroupBalances("alice", expenses, nil, members)
	assertBalance(t, balances, "bob", "30.00")
}

func TestGroupBalancesSkipsBadExpenses(t *testing.T) {
	members := []string{"alice", "bob"}
	expenses := []Expense{
		// Payer left the group: stale data, skipped entirely.
		{ID: "t1", Amount: dec("100.00"), PaidBy: "mallory", Participants: []string{"alice", "bob"}},
		// No payer recorded.
		{ID: "t2", Amount: dec("50.00"), Participants: []string{"alice", "bob"}},
		// Neither splits nor participants: unresolvable.
		{ID: "t3", Amount: dec("50.00"), PaidBy: "bob"},
		// Viewpoint not involved at all.
		{ID: "t4", Amount: dec("30.00"), PaidBy: "bob", Participants: []string{"bob"}},
	}

	balances := GroupBalances("alice", expenses, nil, members)
	assert.Empty(t, balances)
}

func TestGroupBalancesRemovedMemberShareDropped(t *testing.T) {
	// carol's share is excluded from what the viewpoint is owed once she is
	// no longer a member.
	members := []string{"alice", "bob"}
	expenses := []Expense{{
		ID:           "t1",
		Amount:       dec("30.00"),
		PaidBy:       "alice",
		Participants: []string{"alice", "bob", "carol"},
	}}

	balances := GroupBalances("alice", expenses, nil, members)
	require.Len(t, balances, 1)
	assertBalance(t, balances, "bob", "10.00")
}

func TestGroupBalancesSettlementNetting(t *testing.T) {
	members := []string{"alice", "bob"}
	expenses := []Expense{{
		ID:           "t1",
		Amount:       dec("100.00"),
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}}
	settlements := []Transfer{{From: "bob", To: "alice", Amount: dec("20.00")}}

	// bob owed 50, settled 20, still owes 30.
	balances := GroupBalances("alice", expenses, settlements, members)
	assertBalance(t, balances, "bob", "30.00")

	balances = GroupBalances("bob", expenses, settlements, members)
	assertBalance(t, balances, "alice", "-30.00")

	// Settling in full removes the entry.
	full := []Transfer{{From: "bob", To: "alice", Amount: dec("50.00")}}
	assert.Empty(t, GroupBalances("alice", expenses, full, members))
}

func TestMergeBalances(t *testing.T) {
	perGroup := map[string]map[string]decimal.Decimal{
		"g1": {"bob": dec("50.00"), "carol": dec("-20.00")},
		"g2": {"bob": dec("-10.00"), "dave": dec("5.00")},
		"g3": {"carol": dec("20.00")},
	}

	merged := MergeBalances(perGroup)
	require.Len(t, merged, 2)
	assertBalance(t, merged, "bob", "40.00")
	assertBalance(t, merged, "dave", "5.00")
	_, ok := merged["carol"] // nets to zero across groups
	assert.False(t, ok)

	// Inputs are not mutated by the merge.
	assert.True(t, perGroup["g1"]["bob"].Equal(dec("50.00")))
}

func TestMergeBalancesMatchesPerGroupSums(t *testing.T) {
	members := []string{"alice", "bob", "carol"}
	groups := map[string][]Expense{
		"g1": {
			{ID: "a", Amount: dec("90.00"), PaidBy: "alice", Participants: []string{"alice", "bob", "carol"}},
		},
		"g2": {
			{ID: "b", Amount: dec("45.50"), PaidBy: "bob", Participants: []string{"alice", "bob"}},
		},
	}

	perGroup := make(map[string]map[string]decimal.Decimal)
	for id, expenses := range groups {
		perGroup[id] = GroupBalances("alice", expenses, nil, members)
	}
	merged := MergeBalances(perGroup)

	for counterpart, total := range merged {
		sum := decimal.Zero
		for _, balances := range perGroup {
			sum = sum.Add(balances[counterpart])
		}
		assert.True(t, total.Equal(sum.Round(2)),
			"merged[%s] = %s, per-group sum = %s", counterpart, total, sum)
	}
}
