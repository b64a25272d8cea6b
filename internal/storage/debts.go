package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// CreateDebt inserts a new debt row.
func (s *SQLiteStorage) CreateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDebt(debt); err != nil {
		return err
	}
	return insertDebt(ctx, s.db, debt)
}

// UpdateDebt replaces a debt row. Fails with common.ErrNotFound if the
// debt does not exist.
func (s *SQLiteStorage) UpdateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDebt(debt); err != nil {
		return err
	}
	return updateDebt(ctx, s.db, debt)
}

// DeleteDebt removes a debt row. Absence is not an error.
func (s *SQLiteStorage) DeleteDebt(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteDebt(ctx, s.db, id)
}

// AdjustDebtRemaining applies a signed delta to the remaining amount in
// one atomic statement, clamped to [0, total_amount] so no sequence of
// payments and reversals can push the balance out of range.
func (s *SQLiteStorage) AdjustDebtRemaining(ctx context.Context, id string, delta float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return adjustDebtRemaining(ctx, s.db, id, delta)
}

func (t *sqliteTx) CreateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return insertDebt(ctx, t.tx, debt)
}

func (t *sqliteTx) UpdateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return updateDebt(ctx, t.tx, debt)
}

func (t *sqliteTx) DeleteDebt(ctx context.Context, id string) error {
	return deleteDebt(ctx, t.tx, id)
}

func (t *sqliteTx) AdjustDebtRemaining(ctx context.Context, id string, delta float64) error {
	return adjustDebtRemaining(ctx, t.tx, id, delta)
}

func insertDebt(ctx context.Context, q dbtx, debt *model.Debt) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO debts (id, name, total_amount, remaining_amount, interest_rate, due_date, type, icon, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID, debt.Name, debt.TotalAmount, debt.RemainingAmount,
		debt.InterestRate, nullTime(debt.DueDate), debt.Type, debt.Icon, debt.Color,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

func updateDebt(ctx context.Context, q dbtx, debt *model.Debt) error {
	res, err := q.ExecContext(ctx, `
		UPDATE debts
		SET name = ?, total_amount = ?, remaining_amount = ?, interest_rate = ?, due_date = ?, type = ?, icon = ?, color = ?
		WHERE id = ?`,
		debt.Name, debt.TotalAmount, debt.RemainingAmount,
		debt.InterestRate, nullTime(debt.DueDate), debt.Type, debt.Icon, debt.Color, debt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("debt %s: %w", debt.ID, common.ErrNotFound)
	}
	return nil
}

func deleteDebt(ctx context.Context, q dbtx, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	return nil
}

func adjustDebtRemaining(ctx context.Context, q dbtx, id string, delta float64) error {
	res, err := q.ExecContext(ctx, `
		UPDATE debts
		SET remaining_amount = MIN(total_amount, MAX(0, remaining_amount + ?))
		WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust debt remaining amount: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjustment result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func listDebts(ctx context.Context, q dbtx) ([]model.Debt, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, total_amount, remaining_amount, interest_rate, due_date, type, icon, color
		FROM debts
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []model.Debt
	for rows.Next() {
		var debt model.Debt
		var due sql.NullTime
		if err := rows.Scan(
			&debt.ID, &debt.Name, &debt.TotalAmount, &debt.RemainingAmount,
			&debt.InterestRate, &due, &debt.Type, &debt.Icon, &debt.Color,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if due.Valid {
			d := due.Time
			debt.DueDate = &d
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debts: %w", err)
	}
	return debts, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
