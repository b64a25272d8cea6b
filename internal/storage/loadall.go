package storage

import (
	"context"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/model"
)

// LoadAll reads every entity set in one pass and assembles the snapshot
// the ledger works from.
func (s *SQLiteStorage) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	settings, err := loadSettings(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	accounts, err := listAccounts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	categories, err := listCategories(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	transactions, err := listTransactions(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	debts, err := listDebts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	obligations, err := listObligations(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	budgets, err := listBudgets(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return &model.Snapshot{
		Settings:     settings,
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
		Debts:        debts,
		Obligations:  obligations,
		Budgets:      budgets,
	}, nil
}
