package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// BudgetStatus is the evaluated state of one category budget for a
// period.
type BudgetStatus struct {
	CategoryID string
	Limit      float64
	Spent      float64
	Progress   float64
	IsOver     bool
}

// SetBudget creates or overwrites the spending cap for a category.
func (l *Ledger) SetBudget(ctx context.Context, categoryID string, limit float64) (*model.Budget, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Category(categoryID) == nil {
		return nil, common.NewValidationError("categoryId", fmt.Sprintf("category %q does not exist", categoryID))
	}
	if limit < 0 {
		return nil, common.NewValidationError("limit", "must not be negative")
	}

	budget := &model.Budget{CategoryID: categoryID, Limit: limit}
	if err := l.store.UpsertBudget(ctx, budget); err != nil {
		return nil, persistErr("set budget", err)
	}

	if existing := l.state.BudgetFor(categoryID); existing != nil {
		existing.Limit = limit
	} else {
		l.state.Budgets = append(l.state.Budgets, *budget)
	}

	slog.Info("budget set", "category", categoryID, "limit", limit)
	return budget, nil
}

// SpentForCategory sums expense transactions for the category inside the
// period.
func (l *Ledger) SpentForCategory(categoryID string, p model.Period) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return SpentForCategory(l.state, categoryID, p)
}

// BudgetStatus evaluates one category budget for the period.
func (l *Ledger) BudgetStatus(categoryID string, p model.Period) BudgetStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return EvaluateBudget(l.state, categoryID, p)
}

// BudgetStatuses evaluates every configured budget for the period.
func (l *Ledger) BudgetStatuses(p model.Period) []BudgetStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	statuses := make([]BudgetStatus, 0, len(l.state.Budgets))
	for _, b := range l.state.Budgets {
		statuses = append(statuses, EvaluateBudget(l.state, b.CategoryID, p))
	}
	return statuses
}

// SpentForCategory sums the amounts of expense transactions matching the
// category inside the period. Debt payments and transfers do not count
// against a budget.
func SpentForCategory(s *model.Snapshot, categoryID string, p model.Period) float64 {
	var spent float64
	for _, t := range s.Transactions {
		if t.Type == model.TypeExpense && t.CategoryID == categoryID && p.Contains(t.Date) {
			spent += t.Amount
		}
	}
	return spent
}

// EvaluateBudget computes spent-vs-limit for a category. A limit of zero
// means "no budget set": progress is zero and the overage flag never
// trips.
func EvaluateBudget(s *model.Snapshot, categoryID string, p model.Period) BudgetStatus {
	status := BudgetStatus{CategoryID: categoryID}
	if b := s.BudgetFor(categoryID); b != nil {
		status.Limit = b.Limit
	}
	status.Spent = SpentForCategory(s, categoryID, p)

	if status.Limit > 0 {
		status.Progress = status.Spent / status.Limit
		if status.Progress > 1 {
			status.Progress = 1
		}
		status.IsOver = status.Spent > status.Limit
	}
	return status
}
