package service

import (
	"context"
	"log/slog"

	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/storage"
	"github.com/pmehta/splitbook/pkg/money"
)

// SettlementService records and manages payments between group members.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Create validates and records a settlement between two group members.
func (s *SettlementService) Create(ctx context.Context, userID string, settlement *models.Settlement) error {
	if err := validateAmount(settlement.Amount); err != nil {
		return err
	}
	if err := money.ValidateCurrency(settlement.Currency); err != nil {
		return err
	}
	if settlement.FromUserID == settlement.ToUserID {
		return ErrSelfSettlement
	}

	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return ErrNotGroupMember
	}
	if !group.HasMember(settlement.FromUserID) || !group.HasMember(settlement.ToUserID) {
		return ErrNotGroupMember
	}

	settlement.CreatedBy = userID
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", settlement.GroupID, "error", err)
		return err
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
	)
	return nil
}

// ListByGroup retrieves a group's settlements for a member.
func (s *SettlementService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Settlement, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrNotGroupMember
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// Delete removes a settlement; the acting user must belong to its group.
func (s *SettlementService) Delete(ctx context.Context, userID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return ErrNotGroupMember
	}
	return s.store.DeleteSettlement(ctx, settlementID)
}
