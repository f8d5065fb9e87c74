package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/calculator"
	"github.com/pmehta/splitbook/internal/models"
)

// SplitStore is the narrow persistence surface the maintainer needs.
// storage.Store satisfies it.
type SplitStore interface {
	GetSplits(ctx context.Context, txID string) ([]models.Split, error)
	ReplaceSplits(ctx context.Context, txID string, splits []models.Split) error
}

// SplitMaintainer keeps a transaction's split rows consistent with its
// amount and participant list. Splits are always recomputed and replaced as
// a whole, never patched, so a successful call leaves the rows summing
// exactly to the transaction amount.
//
// The read-compute-replace sequence is not serialized against concurrent
// edits of the same transaction; the transaction row's amount is the single
// source of truth that any later recomputation reconciles against.
type SplitMaintainer struct {
	store SplitStore
}

// NewSplitMaintainer creates a maintainer over the given split storage.
func NewSplitMaintainer(store SplitStore) *SplitMaintainer {
	return &SplitMaintainer{store: store}
}

// OnCreate generates the initial splits for a newly created transaction.
// Income and participant-less transactions produce no splits.
func (m *SplitMaintainer) OnCreate(ctx context.Context, txn *models.Transaction) error {
	if txn.Type != models.TypeExpense || len(txn.Participants) == 0 {
		return nil
	}
	return m.reallocate(ctx, txn.ID, txn.Amount, txn.Participants)
}

// OnParticipantsChanged recomputes splits against the transaction's current
// amount and the new participant list. All splits are replaced; partial
// patches would leave stale per-person amounts from the prior allocation.
// An empty new list clears the splits.
func (m *SplitMaintainer) OnParticipantsChanged(ctx context.Context, txn *models.Transaction, newParticipantIDs []string) error {
	if txn.Type != models.TypeExpense || len(newParticipantIDs) == 0 {
		return m.clear(ctx, txn.ID)
	}
	return m.reallocate(ctx, txn.ID, txn.Amount, newParticipantIDs)
}

// OnAmountChanged recomputes splits against the new amount, keeping the
// participant set of record. That set is re-derived from the persisted
// split rows, not from any client-supplied list: a client updating only
// the amount may carry a stale participant list in its payload.
func (m *SplitMaintainer) OnAmountChanged(ctx context.Context, txn *models.Transaction, newAmount decimal.Decimal) error {
	if txn.Type != models.TypeExpense {
		return m.clear(ctx, txn.ID)
	}

	existing, err := m.store.GetSplits(ctx, txn.ID)
	if err != nil {
		return &SplitPersistenceError{TransactionID: txn.ID, Err: err}
	}

	participants := make([]string, len(existing))
	for i, split := range existing {
		participants[i] = split.UserID
	}
	if len(participants) == 0 {
		// No splits were ever persisted; the transaction's own stored
		// list is the only participant set of record.
		participants = txn.Participants
	}
	if len(participants) == 0 {
		return nil
	}

	return m.reallocate(ctx, txn.ID, newAmount, participants)
}

// reallocate computes a fresh allocation and swaps it in.
func (m *SplitMaintainer) reallocate(ctx context.Context, txID string, amount decimal.Decimal, participantIDs []string) error {
	shares, err := calculator.Allocate(amount, participantIDs)
	if err != nil {
		return err
	}

	splits := make([]models.Split, len(shares))
	for i, share := range shares {
		splits[i] = models.Split{
			TransactionID: txID,
			UserID:        share.UserID,
			Amount:        share.Amount,
		}
	}

	if err := m.store.ReplaceSplits(ctx, txID, splits); err != nil {
		return &SplitPersistenceError{TransactionID: txID, Err: err}
	}

	m.verify(ctx, txID, amount)
	return nil
}

// clear removes all splits for a transaction that no longer produces any.
func (m *SplitMaintainer) clear(ctx context.Context, txID string) error {
	if err := m.store.ReplaceSplits(ctx, txID, nil); err != nil {
		return &SplitPersistenceError{TransactionID: txID, Err: err}
	}
	return nil
}

// verify re-reads the persisted splits and compares their sum against the
// transaction amount. A failed read or a mismatch is an integrity warning
// to log, not an error to return: the transaction row holds the
// authoritative amount and a later recomputation can repair the splits.
func (m *SplitMaintainer) verify(ctx context.Context, txID string, amount decimal.Decimal) {
	splits, err := m.store.GetSplits(ctx, txID)
	if err != nil {
		slog.Warn("split verification read failed", "transaction_id", txID, "error", err)
		return
	}

	sum := decimal.Zero
	for _, split := range splits {
		sum = sum.Add(split.Amount)
	}
	if !sum.Equal(amount) {
		slog.Warn("split sum does not match transaction amount",
			"transaction_id", txID,
			"split_sum", sum,
			"amount", amount,
		)
	}
}
