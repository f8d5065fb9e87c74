// Package service implements Splitbook's application services on top of the
// storage layer and the calculator engine.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned for non-positive amounts or amounts
	// with sub-cent precision.
	ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")

	// ErrInvalidType is returned for an unknown transaction type.
	ErrInvalidType = errors.New("transaction type must be income or expense")

	// ErrPayerNotParticipant is returned when a group expense's payer is
	// not in its participant list.
	ErrPayerNotParticipant = errors.New("payer must be one of the participants")

	// ErrNotGroupMember is returned when the acting user is not a member
	// of the group they are operating on.
	ErrNotGroupMember = errors.New("you must be a member of this group")

	// ErrSelfSettlement is returned for a settlement where payer and
	// payee are the same user.
	ErrSelfSettlement = errors.New("cannot settle with yourself")
)

// SplitPersistenceError reports that the recomputed splits for a transaction
// could not be written. The transaction row itself is not rolled back; it
// remains the source of truth and split repair may be retried out-of-band.
type SplitPersistenceError struct {
	TransactionID string
	Err           error
}

func (e *SplitPersistenceError) Error() string {
	return fmt.Sprintf("persisting splits for transaction %s: %v", e.TransactionID, e.Err)
}

func (e *SplitPersistenceError) Unwrap() error { return e.Err }

// BalanceComputationError reports that one group's balances could not be
// computed, tagged with the failing group so aggregation can continue with
// the remaining groups.
type BalanceComputationError struct {
	GroupID string
	Err     error
}

func (e *BalanceComputationError) Error() string {
	return fmt.Sprintf("computing balances for group %s: %v", e.GroupID, e.Err)
}

func (e *BalanceComputationError) Unwrap() error { return e.Err }
