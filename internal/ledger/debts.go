package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// DebtInput carries the caller-supplied fields for a new debt.
type DebtInput struct {
	DueDate         *time.Time
	Name            string
	Type            model.DebtType
	Icon            string
	Color           string
	TotalAmount     float64
	RemainingAmount float64
	InterestRate    float64
}

// DebtUpdate lists the debt fields that may change. A nil field is left
// untouched. RemainingAmount is not listed: it moves only through
// debt_payment transactions and their reversal.
type DebtUpdate struct {
	DueDate      *time.Time
	Name         *string
	Type         *model.DebtType
	Icon         *string
	Color        *string
	TotalAmount  *float64
	InterestRate *float64
}

// AddDebt registers a new liability.
func (l *Ledger) AddDebt(ctx context.Context, input DebtInput) (*model.Debt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if input.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if !input.Type.Valid() {
		return nil, common.NewValidationError("type", fmt.Sprintf("unknown debt type %q", input.Type))
	}
	if input.TotalAmount <= 0 {
		return nil, common.NewValidationError("totalAmount", "must be greater than zero")
	}
	if input.RemainingAmount < 0 || input.RemainingAmount > input.TotalAmount {
		return nil, common.NewValidationError("remainingAmount", "must be between zero and the total amount")
	}

	debt := &model.Debt{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Type:            input.Type,
		Icon:            input.Icon,
		Color:           input.Color,
		TotalAmount:     input.TotalAmount,
		RemainingAmount: input.RemainingAmount,
		InterestRate:    input.InterestRate,
		DueDate:         input.DueDate,
	}
	if err := l.store.CreateDebt(ctx, debt); err != nil {
		return nil, persistErr("create debt", err)
	}
	l.state.Debts = append(l.state.Debts, *debt)

	slog.Info("debt created", "id", debt.ID, "name", debt.Name, "total", debt.TotalAmount)
	return debt, nil
}

// UpdateDebt applies a partial update to a debt. Shrinking the total
// below the remaining amount clamps the remaining amount down with it.
func (l *Ledger) UpdateDebt(ctx context.Context, id string, update DebtUpdate) (*model.Debt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	debt := l.state.Debt(id)
	if debt == nil {
		return nil, fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
	}

	next := *debt
	if update.Name != nil {
		next.Name = *update.Name
	}
	if update.Type != nil {
		next.Type = *update.Type
	}
	if update.Icon != nil {
		next.Icon = *update.Icon
	}
	if update.Color != nil {
		next.Color = *update.Color
	}
	if update.TotalAmount != nil {
		next.TotalAmount = *update.TotalAmount
	}
	if update.InterestRate != nil {
		next.InterestRate = *update.InterestRate
	}
	if update.DueDate != nil {
		next.DueDate = update.DueDate
	}

	if next.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if !next.Type.Valid() {
		return nil, common.NewValidationError("type", fmt.Sprintf("unknown debt type %q", next.Type))
	}
	if next.TotalAmount <= 0 {
		return nil, common.NewValidationError("totalAmount", "must be greater than zero")
	}
	next.RemainingAmount = model.ClampRemaining(next.RemainingAmount, next.TotalAmount)

	if err := l.store.UpdateDebt(ctx, &next); err != nil {
		return nil, persistErr("update debt", err)
	}
	*debt = next
	return debt, nil
}

// DeleteDebt removes a debt. Payments already recorded against it keep
// their transactions and account effects; only the liability goes away.
func (l *Ledger) DeleteDebt(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Debt(id) == nil {
		return nil
	}
	if err := l.store.DeleteDebt(ctx, id); err != nil {
		return persistErr("delete debt", err)
	}
	for i := range l.state.Debts {
		if l.state.Debts[i].ID == id {
			l.state.Debts = append(l.state.Debts[:i], l.state.Debts[i+1:]...)
			break
		}
	}

	slog.Info("debt deleted", "id", id)
	return nil
}
