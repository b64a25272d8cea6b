package ledger

import (
	"context"
	"testing"

	"github.com/finanzaspro/finanzas/internal/model"
)

func TestSetBudget(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	catID := firstCategoryID(t, l)

	if _, err := l.SetBudget(ctx, catID, 300); err != nil {
		t.Fatalf("Failed to set budget: %v", err)
	}
	// Overwrite, not duplicate.
	if _, err := l.SetBudget(ctx, catID, 500); err != nil {
		t.Fatalf("Failed to overwrite budget: %v", err)
	}
	budgets := l.Budgets()
	if len(budgets) != 1 || budgets[0].Limit != 500 {
		t.Errorf("Unexpected budgets after overwrite: %+v", budgets)
	}

	if _, err := l.SetBudget(ctx, "ghost", 100); err == nil {
		t.Error("Expected error for unknown category")
	}
	if _, err := l.SetBudget(ctx, catID, -5); err == nil {
		t.Error("Expected error for negative limit")
	}
}

func TestBudgetStatus(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 10000)
	catID := firstCategoryID(t, l)
	otherCat := l.Categories()[1].ID
	march := model.Period{Month: 3, Year: 2025}

	spend := func(amount float64, cat string, d int, m int) {
		t.Helper()
		if _, err := l.AddTransaction(ctx, TransactionInput{
			Date:        day(2025, 3, d).AddDate(0, m, 0),
			Description: "gasto",
			CategoryID:  cat,
			AccountID:   acc.ID,
			Type:        model.TypeExpense,
			Amount:      amount,
		}); err != nil {
			t.Fatalf("Failed to spend: %v", err)
		}
	}

	if _, err := l.SetBudget(ctx, catID, 400); err != nil {
		t.Fatalf("Failed to set budget: %v", err)
	}
	spend(150, catID, 5, 0)
	spend(100, catID, 20, 0)
	spend(75, otherCat, 10, 0) // different category
	spend(500, catID, 1, 1)    // April, outside the period

	status := l.BudgetStatus(catID, march)
	if status.Spent != 250 {
		t.Errorf("Expected spent 250, got %v", status.Spent)
	}
	if status.Progress != 0.625 {
		t.Errorf("Expected progress 0.625, got %v", status.Progress)
	}
	if status.IsOver {
		t.Error("Budget not exceeded, IsOver must be false")
	}

	// Push over the limit: progress caps at 1 and the flag trips.
	spend(200, catID, 25, 0)
	status = l.BudgetStatus(catID, march)
	if status.Spent != 450 {
		t.Errorf("Expected spent 450, got %v", status.Spent)
	}
	if status.Progress != 1 {
		t.Errorf("Expected progress capped at 1, got %v", status.Progress)
	}
	if !status.IsOver {
		t.Error("Expected IsOver once spending passes the limit")
	}
}

func TestBudgetStatus_ZeroLimitMeansNoBudget(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 1000)
	catID := firstCategoryID(t, l)

	if _, err := l.AddTransaction(ctx, TransactionInput{
		Date:        day(2025, 3, 10),
		Description: "gasto sin tope",
		CategoryID:  catID,
		AccountID:   acc.ID,
		Type:        model.TypeExpense,
		Amount:      999,
	}); err != nil {
		t.Fatalf("Failed to spend: %v", err)
	}

	status := l.BudgetStatus(catID, model.Period{Month: 3, Year: 2025})
	if status.IsOver {
		t.Error("Zero limit means no budget, IsOver must stay false")
	}
	if status.Progress != 0 {
		t.Errorf("Expected zero progress without a budget, got %v", status.Progress)
	}
	if status.Spent != 999 {
		t.Errorf("Spent is still reported, got %v", status.Spent)
	}
}

func TestSpentForCategory_IgnoresNonExpense(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	acc := seedAccount(t, l, "Banco", 5000)
	target := seedAccount(t, l, "Caja", 0)
	debt := seedDebt(t, l, "Préstamo", 1000, 1000)
	catID := firstCategoryID(t, l)

	add := func(input TransactionInput) {
		t.Helper()
		if _, err := l.AddTransaction(ctx, input); err != nil {
			t.Fatalf("Failed to add transaction: %v", err)
		}
	}
	add(TransactionInput{Date: day(2025, 3, 1), CategoryID: catID, AccountID: acc.ID, Type: model.TypeExpense, Amount: 100})
	add(TransactionInput{Date: day(2025, 3, 2), CategoryID: catID, AccountID: acc.ID, Type: model.TypeIncome, Amount: 700})
	add(TransactionInput{Date: day(2025, 3, 3), CategoryID: catID, AccountID: acc.ID, DebtID: debt.ID, Type: model.TypeDebtPayment, Amount: 300})
	add(TransactionInput{Date: day(2025, 3, 4), CategoryID: catID, AccountID: acc.ID, TargetAccountID: target.ID, Type: model.TypeTransfer, Amount: 50})

	if got := l.SpentForCategory(catID, model.Period{Month: 3, Year: 2025}); got != 100 {
		t.Errorf("Only plain expenses count against a budget, got %v", got)
	}
}
