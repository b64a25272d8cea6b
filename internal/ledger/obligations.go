package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// ObligationInput carries the caller-supplied fields for a new
// obligation. New obligations always start unpaid.
type ObligationInput struct {
	DueDate     time.Time
	Description string
	CategoryID  string
	AccountID   string
	Amount      float64
	IsRecurring bool
}

// ObligationUpdate lists the obligation fields that may change. IsPaid
// is deliberately absent: the paid transition only happens through
// MarkObligationPaid and is never reversed.
type ObligationUpdate struct {
	DueDate     *time.Time
	Description *string
	CategoryID  *string
	AccountID   *string
	Amount      *float64
	IsRecurring *bool
}

// SettlementResult reports what MarkObligationPaid accomplished. When
// the returned error is non-nil the result still carries whichever of
// the settlement transaction and successor obligation succeeded.
type SettlementResult struct {
	Obligation *model.Obligation
	Settlement *model.Transaction
	Successor  *model.Obligation
}

// AddObligation schedules a new payment commitment.
func (l *Ledger) AddObligation(ctx context.Context, input ObligationInput) (*model.Obligation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addObligationLocked(ctx, input)
}

func (l *Ledger) addObligationLocked(ctx context.Context, input ObligationInput) (*model.Obligation, error) {
	if input.Description == "" {
		return nil, common.NewValidationError("description", "must not be empty")
	}
	if input.Amount <= 0 {
		return nil, common.NewValidationError("amount", "must be greater than zero")
	}
	if input.DueDate.IsZero() {
		return nil, common.NewValidationError("dueDate", "must be set")
	}
	if l.state.Category(input.CategoryID) == nil {
		return nil, common.NewValidationError("categoryId", fmt.Sprintf("category %q does not exist", input.CategoryID))
	}
	if l.state.Account(input.AccountID) == nil {
		return nil, common.NewValidationError("accountId", fmt.Sprintf("account %q does not exist", input.AccountID))
	}

	ob := &model.Obligation{
		ID:          uuid.NewString(),
		Description: input.Description,
		Amount:      input.Amount,
		CategoryID:  input.CategoryID,
		AccountID:   input.AccountID,
		DueDate:     input.DueDate,
		IsPaid:      false,
		IsRecurring: input.IsRecurring,
	}
	if err := l.store.CreateObligation(ctx, ob); err != nil {
		return nil, persistErr("create obligation", err)
	}
	l.state.Obligations = append(l.state.Obligations, *ob)

	slog.Info("obligation created",
		"id", ob.ID,
		"description", ob.Description,
		"due", ob.DueDate.Format("2006-01-02"),
		"recurring", ob.IsRecurring)
	return ob, nil
}

// UpdateObligation applies a partial update to an obligation.
func (l *Ledger) UpdateObligation(ctx context.Context, id string, update ObligationUpdate) (*model.Obligation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ob := l.state.Obligation(id)
	if ob == nil {
		return nil, fmt.Errorf("obligation %s: %w", id, common.ErrNotFound)
	}

	next := *ob
	if update.Description != nil {
		next.Description = *update.Description
	}
	if update.Amount != nil {
		next.Amount = *update.Amount
	}
	if update.CategoryID != nil {
		next.CategoryID = *update.CategoryID
	}
	if update.AccountID != nil {
		next.AccountID = *update.AccountID
	}
	if update.DueDate != nil {
		next.DueDate = *update.DueDate
	}
	if update.IsRecurring != nil {
		next.IsRecurring = *update.IsRecurring
	}

	if next.Description == "" {
		return nil, common.NewValidationError("description", "must not be empty")
	}
	if next.Amount <= 0 {
		return nil, common.NewValidationError("amount", "must be greater than zero")
	}
	if l.state.Category(next.CategoryID) == nil {
		return nil, common.NewValidationError("categoryId", fmt.Sprintf("category %q does not exist", next.CategoryID))
	}
	if l.state.Account(next.AccountID) == nil {
		return nil, common.NewValidationError("accountId", fmt.Sprintf("account %q does not exist", next.AccountID))
	}

	if err := l.store.UpdateObligation(ctx, &next); err != nil {
		return nil, persistErr("update obligation", err)
	}
	*ob = next
	return ob, nil
}

// MarkObligationPaid settles an obligation: it flips the paid flag,
// records the settlement expense transaction, and for recurring
// obligations spawns the successor one month out. The settlement and the
// successor are both attempted even if one fails; their failures are
// reported together and the result carries whatever succeeded. Calling
// this on an absent or already-paid obligation is a no-op.
func (l *Ledger) MarkObligationPaid(ctx context.Context, id string, now time.Time) (*SettlementResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ob := l.state.Obligation(id)
	if ob == nil || ob.IsPaid {
		slog.Debug("mark paid ignored", "id", id)
		return nil, nil
	}

	paid := *ob
	paid.IsPaid = true
	if err := l.store.UpdateObligation(ctx, &paid); err != nil {
		return nil, persistErr("mark obligation paid", err)
	}
	ob.IsPaid = true

	result := &SettlementResult{Obligation: ob}
	var settleErr, successorErr error

	settlement, err := l.addTransactionLocked(ctx, TransactionInput{
		Date:        truncateDay(now),
		Description: "Pago: " + ob.Description,
		CategoryID:  ob.CategoryID,
		AccountID:   ob.AccountID,
		Type:        model.TypeExpense,
		Amount:      ob.Amount,
	})
	if err != nil {
		settleErr = fmt.Errorf("settlement transaction: %w", err)
	} else {
		result.Settlement = settlement
	}

	if ob.IsRecurring {
		successor, err := l.addObligationLocked(ctx, ObligationInput{
			Description: ob.Description,
			Amount:      ob.Amount,
			CategoryID:  ob.CategoryID,
			AccountID:   ob.AccountID,
			DueDate:     AddOneMonth(ob.DueDate),
			IsRecurring: true,
		})
		if err != nil {
			successorErr = fmt.Errorf("successor obligation: %w", err)
		} else {
			result.Successor = successor
		}
	}

	slog.Info("obligation settled",
		"id", ob.ID,
		"settlement", settlement != nil,
		"successor", result.Successor != nil)
	return result, errors.Join(settleErr, successorErr)
}

// DeleteObligation removes an obligation unconditionally. A settlement
// transaction already created for it is not reversed.
func (l *Ledger) DeleteObligation(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Obligation(id) == nil {
		return nil
	}
	if err := l.store.DeleteObligation(ctx, id); err != nil {
		return persistErr("delete obligation", err)
	}
	for i := range l.state.Obligations {
		if l.state.Obligations[i].ID == id {
			l.state.Obligations = append(l.state.Obligations[:i], l.state.Obligations[i+1:]...)
			break
		}
	}

	slog.Info("obligation deleted", "id", id)
	return nil
}

// DueSoon returns the unpaid obligations inside the dashboard alert
// window, due-today ones included.
func (l *Ledger) DueSoon(today time.Time) []model.Obligation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return UpcomingObligations(l.state.Obligations, today, l.cfg.DashboardWindowDays)
}

// Upcoming returns the unpaid obligations inside the generic upcoming
// window.
func (l *Ledger) Upcoming(today time.Time) []model.Obligation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return UpcomingObligations(l.state.Obligations, today, l.cfg.UpcomingWindowDays)
}

// Overdue returns the unpaid obligations whose due date has passed.
func (l *Ledger) Overdue(today time.Time) []model.Obligation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return OverdueObligations(l.state.Obligations, today)
}
