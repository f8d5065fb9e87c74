package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pmehta/splitbook/internal/models"
	"github.com/pmehta/splitbook/internal/storage"
)

// CreateTransaction persists a new transaction and its participant list.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	// Generate IDs if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if txn.GroupID != "" {
		groupID = txn.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, group_id, type, amount, currency, description, paid_by, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, groupID, string(txn.Type), txn.Amount.String(), txn.Currency,
		txn.Description, txn.PaidBy, txn.CreatedBy, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertParticipants(ctx, tx, txn.ID, txn.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID, including its participants.
func (s *SQLiteStore) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var groupID sql.NullString
	var amount, txType string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, type, amount, currency, description, paid_by, created_by, created_at
		 FROM transactions WHERE id = ?`,
		txID,
	).Scan(&txn.ID, &groupID, &txType, &amount, &txn.Currency,
		&txn.Description, &txn.PaidBy, &txn.CreatedBy, &txn.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if groupID.Valid {
		txn.GroupID = groupID.String
	}
	txn.Type = models.TransactionType(txType)
	if txn.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	if txn.Participants, err = s.participants(ctx, txn.ID); err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateTransaction updates a transaction row and replaces its participant
// list. The splits are not touched here; split maintenance is the service
// layer's job.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if txn.GroupID != "" {
		groupID = txn.GroupID
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET group_id = ?, type = ?, amount = ?, currency = ?, description = ?, paid_by = ?
		 WHERE id = ?`,
		groupID, string(txn.Type), txn.Amount.String(), txn.Currency,
		txn.Description, txn.PaidBy, txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM transaction_participants WHERE transaction_id = ?", txn.ID,
	); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, txn.ID, txn.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a transaction; participants and splits cascade.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, txID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}
	return nil
}

// ListTransactionsByGroup retrieves a group's transactions, newest first,
// with participant lists loaded.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, type, amount, currency, description, paid_by, created_by, created_at
		 FROM transactions WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by group: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var gid sql.NullString
		var amount, txType string

		if err := rows.Scan(&txn.ID, &gid, &txType, &amount, &txn.Currency,
			&txn.Description, &txn.PaidBy, &txn.CreatedBy, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if gid.Valid {
			txn.GroupID = gid.String
		}
		txn.Type = models.TransactionType(txType)
		if txn.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	for _, txn := range txns {
		if txn.Participants, err = s.participants(ctx, txn.ID); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// participants loads a transaction's ordered participant list.
func (s *SQLiteStore) participants(ctx context.Context, txID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM transaction_participants WHERE transaction_id = ? ORDER BY position",
		txID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return ids, nil
}

// insertParticipants stores the ordered participant list inside tx.
// Position preserves input order; it decides who absorbs the rounding
// remainder on allocation.
func insertParticipants(ctx context.Context, tx *sql.Tx, txID string, participants []string) error {
	for i, userID := range participants {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO transaction_participants (transaction_id, user_id, position) VALUES (?, ?, ?)",
			txID, userID, i,
		); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}
