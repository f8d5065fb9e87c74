package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/storage"
	"github.com/pmehta/splitbook/pkg/money"
)

// TransactionService manages transaction lifecycle and keeps split rows in
// step with every mutation through the SplitMaintainer.
type TransactionService struct {
	store      storage.Store
	maintainer *SplitMaintainer
}

// NewTransactionService creates a new TransactionService with the given
// storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{
		store:      store,
		maintainer: NewSplitMaintainer(store),
	}
}

// validateAmount enforces positive amounts with at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 || amount.Exponent() < -2 {
		return ErrInvalidAmount
	}
	return nil
}

// isParticipant checks if the user is in the participants list.
func isParticipant(userID string, participants []string) bool {
	for _, p := range participants {
		if p == userID {
			return true
		}
	}
	return false
}

// validate checks the invariants every stored transaction must satisfy.
func (s *TransactionService) validate(txn *models.Transaction) error {
	if !txn.Type.Valid() {
		return ErrInvalidType
	}
	if err := validateAmount(txn.Amount); err != nil {
		return err
	}
	if err := money.ValidateCurrency(txn.Currency); err != nil {
		return err
	}
	if txn.IsGroupExpense() && txn.PaidBy != "" && !isParticipant(txn.PaidBy, txn.Participants) {
		return ErrPayerNotParticipant
	}
	return nil
}

// autoAddParticipantsToGroup adds any transaction participants (and the
// payer) not already in the group. Failures are logged, not returned: the
// transaction write already succeeded.
func (s *TransactionService) autoAddParticipantsToGroup(ctx context.Context, txn *models.Transaction) {
	if txn.GroupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, txn.GroupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", txn.GroupID, "error", err)
		return
	}

	var newMembers []string
	candidates := append([]string{}, txn.Participants...)
	if txn.PaidBy != "" {
		candidates = append(candidates, txn.PaidBy)
	}
	for _, id := range candidates {
		if id != "" && !group.HasMember(id) && !isParticipant(id, newMembers) {
			newMembers = append(newMembers, id)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, txn.GroupID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", txn.GroupID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", txn.GroupID, "new_members", newMembers)
}

// Create validates and persists a new transaction, then generates its
// splits. A split write failure is returned as a SplitPersistenceError but
// does not roll the transaction back.
func (s *TransactionService) Create(ctx context.Context, userID string, txn *models.Transaction) error {
	txn.CreatedBy = userID
	if txn.IsGroupExpense() && txn.PaidBy == "" {
		txn.PaidBy = userID
	}
	if err := s.validate(txn); err != nil {
		return err
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return err
	}

	s.autoAddParticipantsToGroup(ctx, txn)

	return s.maintainer.OnCreate(ctx, txn)
}

// Get retrieves a transaction the user is allowed to see.
func (s *TransactionService) Get(ctx context.Context, userID, txID string) (*models.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Update persists changes to a transaction and routes the mutation to the
// right split-maintenance rule: a participant change recomputes against the
// new list, while an amount-only change re-derives the participant set of
// record from the persisted splits. A nil Participants field in the update
// means "unchanged".
func (s *TransactionService) Update(ctx context.Context, userID string, txn *models.Transaction) error {
	existing, err := s.store.GetTransaction(ctx, txn.ID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, existing); err != nil {
		return err
	}

	applyDefaults(txn, existing)

	participantsChanged := txn.Participants != nil && !equalIDs(txn.Participants, existing.Participants)
	if txn.Participants == nil {
		txn.Participants = existing.Participants
	}
	amountChanged := !txn.Amount.Equal(existing.Amount)
	typeChanged := txn.Type != existing.Type

	if err := s.validate(txn); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return err
	}

	s.autoAddParticipantsToGroup(ctx, txn)

	switch {
	case typeChanged && txn.Type != models.TypeExpense:
		return s.maintainer.OnParticipantsChanged(ctx, txn, nil)
	case participantsChanged || (typeChanged && txn.Type == models.TypeExpense):
		return s.maintainer.OnParticipantsChanged(ctx, txn, txn.Participants)
	case amountChanged:
		return s.maintainer.OnAmountChanged(ctx, txn, txn.Amount)
	default:
		return nil
	}
}

// Delete removes a transaction; its splits go with it.
func (s *TransactionService) Delete(ctx context.Context, userID, txID string) error {
	existing, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, userID, existing); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, txID)
}

// ListByGroup retrieves a group's transactions for a member.
func (s *TransactionService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Transaction, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrNotGroupMember
	}
	return s.store.ListTransactionsByGroup(ctx, groupID)
}

// authorize checks that userID may act on txn: group transactions require
// membership, personal transactions require ownership.
func (s *TransactionService) authorize(ctx context.Context, userID string, txn *models.Transaction) error {
	if txn.GroupID == "" {
		if txn.CreatedBy != userID {
			return ErrNotGroupMember
		}
		return nil
	}
	group, err := s.store.GetGroup(ctx, txn.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return ErrNotGroupMember
	}
	return nil
}

// applyDefaults fills fields omitted from an update with the stored values,
// so a partial update never zeroes a column. Ownership and creation time are
// never client-settable.
func applyDefaults(txn, existing *models.Transaction) {
	if txn.GroupID == "" {
		txn.GroupID = existing.GroupID
	}
	if txn.Type == "" {
		txn.Type = existing.Type
	}
	if txn.Amount.IsZero() {
		txn.Amount = existing.Amount
	}
	if txn.Currency == "" {
		txn.Currency = existing.Currency
	}
	if txn.PaidBy == "" {
		txn.PaidBy = existing.PaidBy
	}
	if txn.Description == "" {
		txn.Description = existing.Description
	}
	txn.CreatedBy = existing.CreatedBy
	txn.CreatedAt = existing.CreatedAt
}

// equalIDs compares two ID lists element-wise; order matters because it
// decides who absorbs the allocation remainder.
func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
