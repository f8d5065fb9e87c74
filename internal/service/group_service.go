package service

import (
	"context"
	"log/slog"

	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/storage"
)

// GroupService manages groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a new group. The creating user is always a member.
func (s *GroupService) Create(ctx context.Context, userID, name string, members []string) (*models.Group, error) {
	if !isParticipant(userID, members) {
		members = append([]string{userID}, members...)
	}

	group := &models.Group{Name: name, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// Get retrieves a group the user belongs to.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrNotGroupMember
	}
	return group, nil
}

// List retrieves every group the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// Update updates a group's name and member list.
func (s *GroupService) Update(ctx context.Context, userID string, group *models.Group) (*models.Group, error) {
	existing, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if !existing.HasMember(userID) {
		return nil, ErrNotGroupMember
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, err
	}

	return s.store.GetGroup(ctx, group.ID)
}

// Delete removes a group the user belongs to; its transactions, splits and
// settlements cascade.
func (s *GroupService) Delete(ctx context.Context, userID, groupID string) error {
	existing, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !existing.HasMember(userID) {
		return ErrNotGroupMember
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}
