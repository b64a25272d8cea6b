package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

func TestAddDebt_Validation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input DebtInput
	}{
		{name: "empty name", input: DebtInput{Type: model.DebtTypeLoan, TotalAmount: 100}},
		{name: "unknown type", input: DebtInput{Name: "X", Type: "iou", TotalAmount: 100}},
		{name: "zero total", input: DebtInput{Name: "X", Type: model.DebtTypeLoan}},
		{name: "remaining above total", input: DebtInput{Name: "X", Type: model.DebtTypeLoan, TotalAmount: 100, RemainingAmount: 150}},
		{name: "negative remaining", input: DebtInput{Name: "X", Type: model.DebtTypeLoan, TotalAmount: 100, RemainingAmount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddDebt(ctx, tt.input)
			var vErr *common.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestDebtPayment_RoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 1000)
	debt := seedDebt(t, l, "Préstamo", 2000, 800)

	txn, err := l.AddTransaction(ctx, TransactionInput{
		Date:        day(2025, 5, 1),
		Description: "cuota",
		CategoryID:  firstCategoryID(t, l),
		AccountID:   acc.ID,
		DebtID:      debt.ID,
		Type:        model.TypeDebtPayment,
		Amount:      300,
	})
	if err != nil {
		t.Fatalf("Failed to add debt payment: %v", err)
	}

	if got := accountBalance(t, l, acc.ID); got != 700 {
		t.Errorf("Expected account at 700, got %v", got)
	}
	if got := debtRemaining(t, l, debt.ID); got != 500 {
		t.Errorf("Expected remaining 500, got %v", got)
	}
	if got := l.TotalExpense(); got != 300 {
		t.Errorf("Expected debt payment counted as expense, got %v", got)
	}

	// Deleting the payment restores both sides.
	if err := l.DeleteTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("Failed to delete payment: %v", err)
	}
	if got := accountBalance(t, l, acc.ID); got != 1000 {
		t.Errorf("Expected account restored to 1000, got %v", got)
	}
	if got := debtRemaining(t, l, debt.ID); got != 800 {
		t.Errorf("Expected remaining restored to 800, got %v", got)
	}
}

func TestDebtPayment_OverpaymentClampsAtZero(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 1000)
	debt := seedDebt(t, l, "Resto", 500, 120)

	if _, err := l.AddTransaction(ctx, TransactionInput{
		Date:        day(2025, 5, 2),
		Description: "liquidación",
		CategoryID:  firstCategoryID(t, l),
		AccountID:   acc.ID,
		DebtID:      debt.ID,
		Type:        model.TypeDebtPayment,
		Amount:      200,
	}); err != nil {
		t.Fatalf("Failed to add overpayment: %v", err)
	}

	if got := debtRemaining(t, l, debt.ID); got != 0 {
		t.Errorf("Expected remaining clamped at 0, got %v", got)
	}
	// The account is still debited the full amount.
	if got := accountBalance(t, l, acc.ID); got != 800 {
		t.Errorf("Expected account at 800, got %v", got)
	}
}

func TestUpdateDebt_TotalShrinkClampsRemaining(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	debt := seedDebt(t, l, "Hipoteca", 1000, 900)

	newTotal := 600.0
	updated, err := l.UpdateDebt(ctx, debt.ID, DebtUpdate{TotalAmount: &newTotal})
	if err != nil {
		t.Fatalf("Failed to update debt: %v", err)
	}
	if updated.RemainingAmount != 600 {
		t.Errorf("Expected remaining clamped to new total, got %v", updated.RemainingAmount)
	}
}

func TestDeleteDebt_KeepsPaymentHistory(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 1000)
	debt := seedDebt(t, l, "Temporal", 400, 400)

	if _, err := l.AddTransaction(ctx, TransactionInput{
		Date:        day(2025, 5, 3),
		Description: "pago parcial",
		CategoryID:  firstCategoryID(t, l),
		AccountID:   acc.ID,
		DebtID:      debt.ID,
		Type:        model.TypeDebtPayment,
		Amount:      150,
	}); err != nil {
		t.Fatalf("Failed to add payment: %v", err)
	}

	if err := l.DeleteDebt(ctx, debt.ID); err != nil {
		t.Fatalf("Failed to delete debt: %v", err)
	}
	if got := len(l.Debts()); got != 0 {
		t.Errorf("Expected debt removed, %d remain", got)
	}
	// The payment transaction and its account effect stay.
	if got := len(l.Transactions()); got != 1 {
		t.Errorf("Expected payment history kept, got %d transactions", got)
	}
	if got := accountBalance(t, l, acc.ID); got != 850 {
		t.Errorf("Expected account unchanged at 850, got %v", got)
	}
}
