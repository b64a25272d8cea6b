package storage

import (
	"context"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/model"
)

// UpsertBudget creates or overwrites the budget cap for a category.
func (s *SQLiteStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}
	return upsertBudget(ctx, s.db, budget)
}

func (t *sqliteTx) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}
	return upsertBudget(ctx, t.tx, budget)
}

func upsertBudget(ctx context.Context, q dbtx, budget *model.Budget) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (category_id, limit_amount)
		VALUES (?, ?)
		ON CONFLICT(category_id) DO UPDATE SET limit_amount = excluded.limit_amount`,
		budget.CategoryID, budget.Limit,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

func listBudgets(ctx context.Context, q dbtx) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `SELECT category_id, limit_amount FROM budgets ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.CategoryID, &b.Limit); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}
