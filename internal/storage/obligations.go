package storage

import (
	"context"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// CreateObligation inserts a new obligation row.
func (s *SQLiteStorage) CreateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return insertObligation(ctx, s.db, obligation)
}

// UpdateObligation replaces an obligation row. Fails with
// common.ErrNotFound if the obligation does not exist.
func (s *SQLiteStorage) UpdateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return updateObligation(ctx, s.db, obligation)
}

// DeleteObligation removes an obligation row. Absence is not an error.
func (s *SQLiteStorage) DeleteObligation(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteObligation(ctx, s.db, id)
}

func (t *sqliteTx) CreateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return insertObligation(ctx, t.tx, obligation)
}

func (t *sqliteTx) UpdateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return updateObligation(ctx, t.tx, obligation)
}

func (t *sqliteTx) DeleteObligation(ctx context.Context, id string) error {
	return deleteObligation(ctx, t.tx, id)
}

func insertObligation(ctx context.Context, q dbtx, obligation *model.Obligation) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO obligations (id, description, amount, category_id, account_id, due_date, is_paid, is_recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		obligation.ID, obligation.Description, obligation.Amount,
		obligation.CategoryID, obligation.AccountID, obligation.DueDate,
		obligation.IsPaid, obligation.IsRecurring,
	)
	if err != nil {
		return fmt.Errorf("failed to insert obligation: %w", err)
	}
	return nil
}

func updateObligation(ctx context.Context, q dbtx, obligation *model.Obligation) error {
	res, err := q.ExecContext(ctx, `
		UPDATE obligations
		SET description = ?, amount = ?, category_id = ?, account_id = ?, due_date = ?, is_paid = ?, is_recurring = ?
		WHERE id = ?`,
		obligation.Description, obligation.Amount, obligation.CategoryID,
		obligation.AccountID, obligation.DueDate, obligation.IsPaid,
		obligation.IsRecurring, obligation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("obligation %s: %w", obligation.ID, common.ErrNotFound)
	}
	return nil
}

func deleteObligation(ctx context.Context, q dbtx, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM obligations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete obligation: %w", err)
	}
	return nil
}

func listObligations(ctx context.Context, q dbtx) ([]model.Obligation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, description, amount, category_id, account_id, due_date, is_paid, is_recurring
		FROM obligations
		ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query obligations: %w", err)
	}
	defer rows.Close()

	var obligations []model.Obligation
	for rows.Next() {
		var ob model.Obligation
		if err := rows.Scan(
			&ob.ID, &ob.Description, &ob.Amount, &ob.CategoryID,
			&ob.AccountID, &ob.DueDate, &ob.IsPaid, &ob.IsRecurring,
		); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligations: %w", err)
	}
	return obligations, nil
}
