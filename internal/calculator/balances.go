package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/pkg/money"
)

// Expense carries the fields of an expense transaction that balance
// computation needs, along with its persisted splits when they exist.
type Expense struct {
	ID           string
	Amount       decimal.Decimal
	PaidBy       string
	Splits       []Share  // persisted split rows; nil if none were stored
	Participants []string // fallback list used to derive splits
}

// Transfer is a settlement payment from one user to another.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SplitSource identifies how an expense's shares were resolved.
type SplitSource int

const (
	// SplitsPersisted means stored split rows were used as-is.
	SplitsPersisted SplitSource = iota
	// SplitsDerived means shares were computed from the participant list.
	SplitsDerived
)

// ResolvedSplits is the outcome of resolving an expense's per-participant
// shares: either the persisted rows or a fresh equal-split allocation.
type ResolvedSplits struct {
	Source SplitSource
	Shares []Share
}

// ResolveSplits resolves the shares of an expense, preferring persisted
// split rows and falling back to deriving an equal split from the
// participant list. Returns ok=false when the expense has neither, i.e.
// its splits cannot be resolved at all.
func ResolveSplits(e Expense) (ResolvedSplits, bool) {
	if len(e.Splits) > 0 {
		return ResolvedSplits{Source: SplitsPersisted, Shares: e.Splits}, true
	}
	shares, err := Allocate(e.Amount, e.Participants)
	if err != nil || len(shares) == 0 {
		return ResolvedSplits{}, false
	}
	return ResolvedSplits{Source: SplitsDerived, Shares: shares}, true
}

// GroupBalances computes the viewpoint user's net pairwise balances against
// every other group member, from the group's expense history and recorded
// settlements.
//
// Sign convention: positive = counterpart owes the viewpoint user,
// negative = the viewpoint user owes the counterpart.
//
// Expenses whose payer is missing or no longer in memberIDs are skipped, as
// are expenses whose splits cannot be resolved. Settlements net against the
// expense balances: a payment from U to V shrinks U's debt toward V.
// Passing a nil settlements slice yields expense-only balances.
//
// Accumulated values are rounded to two decimal places and entries below
// one cent are dropped (treated as settled).
func GroupBalances(viewpointID string, expenses []Expense, settlements []Transfer, memberIDs []string) map[string]decimal.Decimal {
	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	acc := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		if e.PaidBy == "" || !members[e.PaidBy] {
			continue
		}
		resolved, ok := ResolveSplits(e)
		if !ok {
			continue
		}

		if e.PaidBy == viewpointID {
			// Every other participant owes the viewpoint their share.
			for _, sh := range resolved.Shares {
				if sh.UserID == viewpointID || !members[sh.UserID] {
					continue
				}
				acc[sh.UserID] = acc[sh.UserID].Add(sh.Amount)
			}
		} else {
			// The viewpoint owes the payer their own share, if involved.
			for _, sh := range resolved.Shares {
				if sh.UserID == viewpointID {
					acc[e.PaidBy] = acc[e.PaidBy].Sub(sh.Amount)
					break
				}
			}
		}
	}

	for _, s := range settlements {
		if !members[s.From] || !members[s.To] {
			continue
		}
		switch viewpointID {
		case s.From:
			acc[s.To] = acc[s.To].Add(s.Amount)
		case s.To:
			acc[s.From] = acc[s.From].Sub(s.Amount)
		}
	}

	out := make(map[string]decimal.Decimal, len(acc))
	for id, v := range acc {
		if id == viewpointID {
			continue
		}
		v = money.Round2(v)
		if money.IsNegligible(v) {
			continue
		}
		out[id] = v
	}
	return out
}
