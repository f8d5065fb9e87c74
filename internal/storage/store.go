// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/pmehta/splitbook/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for Splitbook storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateTransaction persists a new transaction. The ID and CreatedAt
	// fields are populated by the store if unset.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// GetTransaction retrieves a transaction by ID, including its
	// participant list.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// UpdateTransaction updates an existing transaction and replaces its
	// participant list.
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// DeleteTransaction removes a transaction and its splits.
	DeleteTransaction(ctx context.Context, txID string) error

	// ListTransactionsByGroup retrieves a group's transactions, newest
	// first, with participant lists loaded. Split rows are fetched
	// separately via GetSplits.
	ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error)

	// GetSplits returns the persisted split rows for a transaction.
	GetSplits(ctx context.Context, txID string) ([]models.Split, error)

	// ReplaceSplits atomically deletes a transaction's split rows and
	// inserts the given set in their place.
	ReplaceSplits(ctx context.Context, txID string, splits []models.Split) error

	// CreateGroup persists a new group with its member list.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpdateGroup updates a group's name and replaces its member list.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds the given user IDs to a group, ignoring ones
	// that are already members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// ListGroupsByMember retrieves every group the user belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves all settlements for a group.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, or (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID, or (nil, nil) if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
