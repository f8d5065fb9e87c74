package models

import "github.com/shopspring/decimal"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction represents a monetary event.
// Expenses belonging to a group are split among Participants; income and
// personal transactions (empty GroupID) carry no splits.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// GroupID is the owning group. Empty for personal transactions.
	GroupID string

	// Type is either income or expense.
	Type TransactionType

	// Amount is the positive transaction amount.
	Amount decimal.Decimal

	// Currency is the mandatory 3-letter code attached to Amount.
	// It is never converted and never defaulted.
	Currency string

	// Description is a human-readable label (e.g., "Groceries").
	Description string

	// PaidBy is the user who paid. Meaningful only for group expenses.
	PaidBy string

	// Participants is the ordered list of user IDs splitting the expense.
	// Order matters: the first (deduplicated) participant absorbs the
	// rounding remainder when the amount is allocated.
	Participants []string

	// CreatedBy is the user who recorded the transaction.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the transaction was created.
	CreatedAt int64
}

// IsGroupExpense reports whether the transaction produces splits.
func (t *Transaction) IsGroupExpense() bool {
	return t.Type == TypeExpense && t.GroupID != ""
}
