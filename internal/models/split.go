package models

import "github.com/shopspring/decimal"

// Split is one participant's share of an expense transaction.
//
// Splits are fully owned by their transaction: they are deleted and
// regenerated as a unit whenever the transaction's amount or participant set
// changes, never patched individually. For any expense with at least one
// participant, the split amounts sum exactly to the transaction amount.
type Split struct {
	// TransactionID is the owning transaction.
	TransactionID string

	// UserID is the participant this share belongs to.
	UserID string

	// Amount is this participant's share of the transaction amount.
	Amount decimal.Decimal
}
