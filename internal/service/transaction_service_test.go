package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/pkg/money"
)

func TestTransactionServiceCreateValidation(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice", "bob")

	base := func() *models.Transaction {
		return &models.Transaction{
			GroupID:      group.ID,
			Type:         models.TypeExpense,
			Amount:       dec("10.00"),
			Currency:     "USD",
			PaidBy:       "alice",
			Participants: []string{"alice", "bob"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*models.Transaction)
		wantErr error
	}{
		{
			name:    "negative amount",
			mutate:  func(txn *models.Transaction) { txn.Amount = dec("-10.00") },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			mutate:  func(txn *models.Transaction) { txn.Amount = dec("0") },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "sub-cent precision",
			mutate:  func(txn *models.Transaction) { txn.Amount = dec("10.001") },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown type",
			mutate:  func(txn *models.Transaction) { txn.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "lowercase currency",
			mutate:  func(txn *models.Transaction) { txn.Currency = "usd" },
			wantErr: money.ErrInvalidCurrency,
		},
		{
			name:    "missing currency",
			mutate:  func(txn *models.Transaction) { txn.Currency = "" },
			wantErr: money.ErrInvalidCurrency,
		},
		{
			name:    "payer outside participant list",
			mutate:  func(txn *models.Transaction) { txn.PaidBy = "carol" },
			wantErr: ErrPayerNotParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base()
			tt.mutate(txn)
			err := txns.Create(ctx, "alice", txn)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionServiceCreateDefaultsPayer(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice", "bob")

	txn := &models.Transaction{
		GroupID:      group.ID,
		Type:         models.TypeExpense,
		Amount:       dec("10.00"),
		Currency:     "USD",
		Participants: []string{"alice", "bob"},
	}
	require.NoError(t, txns.Create(ctx, "alice", txn))

	assert.Equal(t, "alice", txn.PaidBy)
	assert.Equal(t, "alice", txn.CreatedBy)
}

func TestTransactionServiceAutoAddsParticipants(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice")

	require.NoError(t, txns.Create(ctx, "alice", &models.Transaction{
		GroupID:      group.ID,
		Type:         models.TypeExpense,
		Amount:       dec("10.00"),
		Currency:     "USD",
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}))

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, got.HasMember("bob"), "bob should have been auto-added, members = %v", got.Members)
}

func TestTransactionServiceUpdateTypeChangeClearsSplits(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice", "bob")

	txn := &models.Transaction{
		GroupID:      group.ID,
		Type:         models.TypeExpense,
		Amount:       dec("10.00"),
		Currency:     "USD",
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}
	require.NoError(t, txns.Create(ctx, "alice", txn))

	splits, err := store.GetSplits(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, splits, 2)

	updated := *txn
	updated.Type = models.TypeIncome
	require.NoError(t, txns.Update(ctx, "alice", &updated))

	splits, err = store.GetSplits(ctx, txn.ID)
	require.NoError(t, err)
	assert.Empty(t, splits, "income transactions carry no splits")
}

func TestTransactionServiceUpdateKeepsOmittedFields(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice", "bob")

	txn := &models.Transaction{
		GroupID:      group.ID,
		Type:         models.TypeExpense,
		Amount:       dec("10.00"),
		Currency:     "EUR",
		Description:  "Groceries",
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}
	require.NoError(t, txns.Create(ctx, "alice", txn))

	// Only the amount travels in the update.
	require.NoError(t, txns.Update(ctx, "alice", &models.Transaction{
		ID:     txn.ID,
		Amount: dec("24.00"),
	}))

	got, err := txns.Get(ctx, "alice", txn.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.GroupID)
	assert.Equal(t, models.TypeExpense, got.Type)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "Groceries", got.Description)
	assert.Equal(t, "alice", got.PaidBy)
	assert.True(t, got.Amount.Equal(dec("24.00")))

	splits, err := store.GetSplits(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, splits, 2)
	for _, split := range splits {
		assert.True(t, split.Amount.Equal(dec("12")), "split %s = %s", split.UserID, split.Amount)
	}
}

func TestTransactionServiceAuthorization(t *testing.T) {
	store := newTestStore(t)
	txns := NewTransactionService(store)
	ctx := context.Background()

	group := createGroup(t, store, "Flat", "alice", "bob")

	groupTxn := &models.Transaction{
		GroupID:      group.ID,
		Type:         models.TypeExpense,
		Amount:       dec("10.00"),
		Currency:     "USD",
		PaidBy:       "alice",
		Participants: []string{"alice", "bob"},
	}
	require.NoError(t, txns.Create(ctx, "alice", groupTxn))

	_, err := txns.Get(ctx, "mallory", groupTxn.ID)
	assert.ErrorIs(t, err, ErrNotGroupMember)
	assert.ErrorIs(t, txns.Delete(ctx, "mallory", groupTxn.ID), ErrNotGroupMember)

	personal := &models.Transaction{
		Type:     models.TypeExpense,
		Amount:   dec("5.00"),
		Currency: "USD",
	}
	require.NoError(t, txns.Create(ctx, "alice", personal))

	_, err = txns.Get(ctx, "bob", personal.ID)
	assert.ErrorIs(t, err, ErrNotGroupMember, "personal transactions are owner-only")

	got, err := txns.Get(ctx, "alice", personal.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.CreatedBy)
}
