package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

func seedObligation(t *testing.T, l *Ledger, desc string, due time.Time, recurring bool) *model.Obligation {
	t.Helper()
	acc := l.Accounts()[0]
	ob, err := l.AddObligation(context.Background(), ObligationInput{
		Description: desc,
		Amount:      120,
		CategoryID:  firstCategoryID(t, l),
		AccountID:   acc.ID,
		DueDate:     due,
		IsRecurring: recurring,
	})
	if err != nil {
		t.Fatalf("Failed to seed obligation %q: %v", desc, err)
	}
	return ob
}

func TestAddObligation_Validation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := l.Accounts()[0]
	catID := firstCategoryID(t, l)

	base := ObligationInput{
		Description: "Alquiler",
		Amount:      800,
		CategoryID:  catID,
		AccountID:   acc.ID,
		DueDate:     day(2025, 7, 1),
	}
	tests := []struct {
		name   string
		mutate func(*ObligationInput)
	}{
		{name: "empty description", mutate: func(in *ObligationInput) { in.Description = "" }},
		{name: "zero amount", mutate: func(in *ObligationInput) { in.Amount = 0 }},
		{name: "zero due date", mutate: func(in *ObligationInput) { in.DueDate = time.Time{} }},
		{name: "unknown category", mutate: func(in *ObligationInput) { in.CategoryID = "ghost" }},
		{name: "unknown account", mutate: func(in *ObligationInput) { in.AccountID = "ghost" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			_, err := l.AddObligation(ctx, input)
			var vErr *common.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestMarkObligationPaid_Settlement(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := l.Accounts()[0]
	ob := seedObligation(t, l, "Internet", day(2025, 1, 15), false)

	now := day(2025, 1, 14)
	result, err := l.MarkObligationPaid(ctx, ob.ID, now)
	if err != nil {
		t.Fatalf("Failed to mark paid: %v", err)
	}
	if result == nil || result.Settlement == nil {
		t.Fatal("Expected settlement transaction in result")
	}

	if !result.Obligation.IsPaid {
		t.Error("Expected obligation flagged paid")
	}
	if result.Successor != nil {
		t.Error("Non-recurring obligation must not spawn a successor")
	}

	settlement := result.Settlement
	if settlement.Description != "Pago: Internet" {
		t.Errorf("Unexpected settlement description %q", settlement.Description)
	}
	if settlement.Type != model.TypeExpense {
		t.Errorf("Expected expense settlement, got %s", settlement.Type)
	}
	if settlement.Amount != 120 {
		t.Errorf("Expected settlement amount 120, got %v", settlement.Amount)
	}
	if !settlement.Date.Equal(day(2025, 1, 14)) {
		t.Errorf("Expected settlement dated on the payment day, got %v", settlement.Date)
	}
	if got := accountBalance(t, l, acc.ID); got != -120 {
		t.Errorf("Expected account debited to -120, got %v", got)
	}
}

func TestMarkObligationPaid_RecurringSpawnsSuccessor(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	ob := seedObligation(t, l, "Alquiler", day(2025, 1, 15), true)

	result, err := l.MarkObligationPaid(ctx, ob.ID, day(2025, 1, 15))
	if err != nil {
		t.Fatalf("Failed to mark paid: %v", err)
	}
	if result.Successor == nil {
		t.Fatal("Expected successor obligation")
	}

	successor := result.Successor
	if !successor.DueDate.Equal(day(2025, 2, 15)) {
		t.Errorf("Expected successor due Feb 15, got %v", successor.DueDate)
	}
	if successor.IsPaid {
		t.Error("Successor must start unpaid")
	}
	if !successor.IsRecurring {
		t.Error("Successor must stay recurring")
	}
	if successor.Description != ob.Description || successor.Amount != ob.Amount {
		t.Errorf("Successor must copy description and amount: %+v", successor)
	}
	if successor.ID == ob.ID {
		t.Error("Successor must be a distinct obligation instance")
	}

	if got := len(l.Obligations()); got != 2 {
		t.Errorf("Expected paid instance plus successor, got %d obligations", got)
	}
}

func TestMarkObligationPaid_NoOpCases(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	// Absent id.
	result, err := l.MarkObligationPaid(ctx, "ghost", day(2025, 1, 1))
	if result != nil || err != nil {
		t.Errorf("Expected silent no-op for absent id, got %+v, %v", result, err)
	}

	// Already paid: the second call must not double-charge or spawn a
	// second successor.
	ob := seedObligation(t, l, "Luz", day(2025, 3, 1), true)
	if _, err := l.MarkObligationPaid(ctx, ob.ID, day(2025, 3, 1)); err != nil {
		t.Fatalf("Failed to mark paid: %v", err)
	}
	txnsBefore := len(l.Transactions())
	obsBefore := len(l.Obligations())

	result, err = l.MarkObligationPaid(ctx, ob.ID, day(2025, 3, 2))
	if result != nil || err != nil {
		t.Errorf("Expected silent no-op for paid obligation, got %+v, %v", result, err)
	}
	if got := len(l.Transactions()); got != txnsBefore {
		t.Errorf("Repeat settlement recorded a transaction: %d -> %d", txnsBefore, got)
	}
	if got := len(l.Obligations()); got != obsBefore {
		t.Errorf("Repeat settlement spawned an obligation: %d -> %d", obsBefore, got)
	}
}

func TestMarkObligationPaid_PartialFailureKeepsPaidFlag(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	acc := seedAccount(t, l, "Puente", 0)
	ob, err := l.AddObligation(ctx, ObligationInput{
		Description: "Seguro",
		Amount:      90,
		CategoryID:  firstCategoryID(t, l),
		AccountID:   acc.ID,
		DueDate:     day(2025, 5, 1),
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("Failed to seed obligation: %v", err)
	}

	// The obligation's account disappears before settlement day, so both
	// the settlement transaction and the recurring successor must fail
	// their reference checks.
	if err := l.DeleteAccount(ctx, acc.ID); err != nil {
		t.Fatalf("Failed to delete account: %v", err)
	}

	result, err := l.MarkObligationPaid(ctx, ob.ID, day(2025, 5, 1))
	if err == nil {
		t.Fatal("Expected settlement and successor failures")
	}
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected validation failure inside the joined error, got %v", err)
	}
	if !strings.Contains(err.Error(), "settlement transaction") {
		t.Errorf("Settlement failure not reported: %v", err)
	}
	if !strings.Contains(err.Error(), "successor obligation") {
		t.Errorf("Successor failure not reported: %v", err)
	}

	// The paid flag was committed before the follow-on writes, so it
	// sticks; the result carries nothing that failed.
	if result == nil || result.Obligation == nil || !result.Obligation.IsPaid {
		t.Fatalf("Expected obligation kept paid despite failures, got %+v", result)
	}
	if result.Settlement != nil {
		t.Errorf("Unexpected settlement transaction: %+v", result.Settlement)
	}
	if result.Successor != nil {
		t.Errorf("Unexpected successor obligation: %+v", result.Successor)
	}
	if got := len(l.Transactions()); got != 0 {
		t.Errorf("Failed settlement recorded a transaction: %d", got)
	}
	if got := len(l.Obligations()); got != 1 {
		t.Errorf("Failed successor still spawned an obligation: %d", got)
	}

	// The paid transition is one-shot: repeating the call does not retry
	// the failed settlement.
	result, err = l.MarkObligationPaid(ctx, ob.ID, day(2025, 5, 2))
	if result != nil || err != nil {
		t.Errorf("Expected silent no-op on repeat, got %+v, %v", result, err)
	}
	if got := len(l.Transactions()); got != 0 {
		t.Errorf("Repeat call recorded a transaction: %d", got)
	}
}

func TestUpdateObligation_CannotTouchPaidFlag(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	ob := seedObligation(t, l, "Agua", day(2025, 4, 1), false)

	if _, err := l.MarkObligationPaid(ctx, ob.ID, day(2025, 4, 1)); err != nil {
		t.Fatalf("Failed to mark paid: %v", err)
	}

	// A later edit keeps the paid flag set.
	desc := "Agua y saneamiento"
	updated, err := l.UpdateObligation(ctx, ob.ID, ObligationUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Failed to update obligation: %v", err)
	}
	if !updated.IsPaid {
		t.Error("Update reset the paid flag")
	}
}

func TestDeleteObligation_KeepsSettlement(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	ob := seedObligation(t, l, "Gimnasio", day(2025, 2, 1), false)

	if _, err := l.MarkObligationPaid(ctx, ob.ID, day(2025, 2, 1)); err != nil {
		t.Fatalf("Failed to mark paid: %v", err)
	}
	if err := l.DeleteObligation(ctx, ob.ID); err != nil {
		t.Fatalf("Failed to delete obligation: %v", err)
	}

	if got := len(l.Obligations()); got != 0 {
		t.Errorf("Expected obligation removed, %d remain", got)
	}
	txns := l.Transactions()
	if len(txns) != 1 || !strings.HasPrefix(txns[0].Description, "Pago: ") {
		t.Errorf("Expected settlement transaction kept, got %+v", txns)
	}
}

func TestObligationWindows(t *testing.T) {
	l, _ := newTestLedger(t)
	today := day(2025, 6, 10)

	seedObligation(t, l, "vencida", day(2025, 6, 5), false)
	seedObligation(t, l, "hoy", day(2025, 6, 10), false)
	seedObligation(t, l, "pronto", day(2025, 6, 12), false)
	seedObligation(t, l, "semana", day(2025, 6, 16), false)
	seedObligation(t, l, "lejana", day(2025, 7, 20), false)

	overdue := l.Overdue(today)
	if len(overdue) != 1 || overdue[0].Description != "vencida" {
		t.Errorf("Unexpected overdue set: %+v", overdue)
	}

	// Generic window is 3 days: today and the 12th qualify.
	upcoming := l.Upcoming(today)
	if len(upcoming) != 2 {
		t.Fatalf("Expected 2 upcoming obligations, got %d", len(upcoming))
	}
	if upcoming[0].Description != "hoy" || upcoming[1].Description != "pronto" {
		t.Errorf("Unexpected upcoming order: %+v", upcoming)
	}

	// Dashboard window is 7 days: the 16th joins.
	dueSoon := l.DueSoon(today)
	if len(dueSoon) != 3 {
		t.Errorf("Expected 3 obligations in dashboard window, got %d", len(dueSoon))
	}
}
