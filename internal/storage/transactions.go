package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// InsertTransaction inserts a new transaction row.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return insertTransaction(ctx, s.db, txn)
}

// ReplaceTransaction overwrites a transaction row under the same id.
// Fails with common.ErrNotFound if the transaction does not exist.
func (s *SQLiteStorage) ReplaceTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return replaceTransaction(ctx, s.db, txn)
}

// DeleteTransaction removes a transaction row. Absence is not an error.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteTransaction(ctx, s.db, id)
}

func (t *sqliteTx) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return insertTransaction(ctx, t.tx, txn)
}

func (t *sqliteTx) ReplaceTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return replaceTransaction(ctx, t.tx, txn)
}

func (t *sqliteTx) DeleteTransaction(ctx context.Context, id string) error {
	return deleteTransaction(ctx, t.tx, id)
}

func insertTransaction(ctx context.Context, q dbtx, txn *model.Transaction) error {
	attachments, err := marshalAttachments(txn.Attachments)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, category_id, account_id, target_account_id, debt_id, description, date, type, attachments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Amount, txn.CategoryID, txn.AccountID,
		nullString(txn.TargetAccountID), nullString(txn.DebtID),
		txn.Description, txn.Date, txn.Type, attachments,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func replaceTransaction(ctx context.Context, q dbtx, txn *model.Transaction) error {
	attachments, err := marshalAttachments(txn.Attachments)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, category_id = ?, account_id = ?, target_account_id = ?, debt_id = ?, description = ?, date = ?, type = ?, attachments = ?
		WHERE id = ?`,
		txn.Amount, txn.CategoryID, txn.AccountID,
		nullString(txn.TargetAccountID), nullString(txn.DebtID),
		txn.Description, txn.Date, txn.Type, attachments, txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace transaction: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check replace result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	return nil
}

func deleteTransaction(ctx context.Context, q dbtx, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// listTransactions reads all transactions most recent first. The
// secondary sort on created_at keeps same-date rows in newest-insertion
// order, matching the ledger's in-memory ordering.
func listTransactions(ctx context.Context, q dbtx) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, amount, category_id, account_id, target_account_id, debt_id, description, date, type, attachments
		FROM transactions
		ORDER BY date DESC, created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var target, debt, attachments sql.NullString
		if err := rows.Scan(
			&txn.ID, &txn.Amount, &txn.CategoryID, &txn.AccountID,
			&target, &debt, &txn.Description, &txn.Date, &txn.Type, &attachments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.TargetAccountID = target.String
		txn.DebtID = debt.String
		if attachments.Valid && attachments.String != "" {
			if err := json.Unmarshal([]byte(attachments.String), &txn.Attachments); err != nil {
				return nil, fmt.Errorf("failed to decode attachments for %s: %w", txn.ID, err)
			}
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func marshalAttachments(attachments []model.Attachment) (any, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}
	return string(data), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
