package sqlite

import (
	"context"
	"fmt"

	"github.com/pmehta/splitbook/internal/models"
)

// GetSplits returns the persisted split rows for a transaction, in the
// participant order they were written.
func (s *SQLiteStore) GetSplits(ctx context.Context, txID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT transaction_id, user_id, amount FROM splits WHERE transaction_id = ? ORDER BY rowid",
		txID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		var amount string
		if err := rows.Scan(&split.TransactionID, &split.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if split.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// ReplaceSplits deletes a transaction's split rows and inserts the given
// set in their place, inside one SQL transaction so readers never observe a
// partial set.
func (s *SQLiteStore) ReplaceSplits(ctx context.Context, txID string, splits []models.Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM splits WHERE transaction_id = ?", txID,
	); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}

	for _, split := range splits {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO splits (transaction_id, user_id, amount) VALUES (?, ?, ?)",
			txID, split.UserID, split.Amount.String(),
		); err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
