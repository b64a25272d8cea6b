package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testDate(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestMigrateSeedsDefaults(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	if len(snap.Categories) != 9 {
		t.Errorf("Expected 9 seeded categories, got %d", len(snap.Categories))
	}
	if snap.CategoryByName(model.TransferCategoryName) == nil {
		t.Error("Expected reserved transfer category to be seeded")
	}
	if len(snap.Accounts) != 2 {
		t.Errorf("Expected 2 seeded accounts, got %d", len(snap.Accounts))
	}
	if snap.Settings.UserName != "Usuario" {
		t.Errorf("Expected default user name, got %q", snap.Settings.UserName)
	}

	// Migrate must be idempotent.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}
	snap, err = store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to reload snapshot: %v", err)
	}
	if len(snap.Categories) != 9 {
		t.Errorf("Expected seeds untouched after re-migrate, got %d categories", len(snap.Categories))
	}
}

func TestSQLiteStorage_AccountCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	acc := &model.Account{ID: "acc-test", Name: "Ahorros", Type: model.AccountTypeBank, Balance: 100, Color: "#123456", Icon: "🏦"}
	if err := store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	acc.Name = "Ahorros 2"
	acc.Balance = 250
	if err := store.UpdateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to update account: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	got := snap.Account("acc-test")
	if got == nil {
		t.Fatal("Account not found after update")
	}
	if got.Name != "Ahorros 2" || got.Balance != 250 {
		t.Errorf("Unexpected account after update: %+v", got)
	}

	missing := &model.Account{ID: "nope", Name: "X", Type: model.AccountTypeCash}
	if err := store.UpdateAccount(ctx, missing); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating missing account, got %v", err)
	}

	if err := store.DeleteAccount(ctx, "acc-test"); err != nil {
		t.Fatalf("Failed to delete account: %v", err)
	}
	// Deleting again must not error.
	if err := store.DeleteAccount(ctx, "acc-test"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestSQLiteStorage_AdjustAccountBalance(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	acc := &model.Account{ID: "acc-adj", Name: "Caja", Type: model.AccountTypeCash, Balance: 1000}
	if err := store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	if err := store.AdjustAccountBalance(ctx, "acc-adj", -200); err != nil {
		t.Fatalf("Failed to adjust balance: %v", err)
	}
	if err := store.AdjustAccountBalance(ctx, "acc-adj", 50); err != nil {
		t.Fatalf("Failed to adjust balance: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if got := snap.Account("acc-adj").Balance; got != 850 {
		t.Errorf("Expected balance 850, got %v", got)
	}

	if err := store.AdjustAccountBalance(ctx, "ghost", 10); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound adjusting missing account, got %v", err)
	}
}

func TestSQLiteStorage_AdjustDebtRemainingClamps(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	debt := &model.Debt{ID: "d1", Name: "Tarjeta", Type: model.DebtTypeCreditCard, TotalAmount: 500, RemainingAmount: 300}
	if err := store.CreateDebt(ctx, debt); err != nil {
		t.Fatalf("Failed to create debt: %v", err)
	}

	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{name: "payment", delta: -100, want: 200},
		{name: "overpayment clamps at zero", delta: -400, want: 0},
		{name: "reversal clamps at total", delta: 600, want: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.AdjustDebtRemaining(ctx, "d1", tt.delta); err != nil {
				t.Fatalf("Failed to adjust debt: %v", err)
			}
			snap, err := store.LoadAll(ctx)
			if err != nil {
				t.Fatalf("Failed to load snapshot: %v", err)
			}
			if got := snap.Debt("d1").RemainingAmount; got != tt.want {
				t.Errorf("Expected remaining %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSQLiteStorage_TransactionOrdering(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txns := []*model.Transaction{
		{ID: "t-old", Date: testDate(1), Description: "old", Type: model.TypeExpense, Amount: 10, AccountID: "a1", CategoryID: "1"},
		{ID: "t-new", Date: testDate(20), Description: "new", Type: model.TypeExpense, Amount: 10, AccountID: "a1", CategoryID: "1"},
		{ID: "t-mid", Date: testDate(10), Description: "mid", Type: model.TypeIncome, Amount: 10, AccountID: "a1", CategoryID: "6"},
		{ID: "t-mid2", Date: testDate(10), Description: "mid later insert", Type: model.TypeExpense, Amount: 10, AccountID: "a1", CategoryID: "1"},
	}
	for _, txn := range txns {
		if err := store.InsertTransaction(ctx, txn); err != nil {
			t.Fatalf("Failed to insert %s: %v", txn.ID, err)
		}
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}

	wantOrder := []string{"t-new", "t-mid2", "t-mid", "t-old"}
	if len(snap.Transactions) != len(wantOrder) {
		t.Fatalf("Expected %d transactions, got %d", len(wantOrder), len(snap.Transactions))
	}
	for i, id := range wantOrder {
		if snap.Transactions[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, snap.Transactions[i].ID)
		}
	}
}

func TestSQLiteStorage_TransactionAttachmentsRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	txn := &model.Transaction{
		ID:          "t-att",
		Date:        testDate(5),
		Description: "with receipt",
		Type:        model.TypeExpense,
		Amount:      42,
		AccountID:   "a1",
		CategoryID:  "1",
		Attachments: []model.Attachment{
			{Name: "receipt.png", ContentType: "image/png", Data: "aGVsbG8="},
		},
	}
	if err := store.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to insert transaction: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	got := snap.Transaction("t-att")
	if got == nil {
		t.Fatal("Transaction not found")
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Name != "receipt.png" {
		t.Errorf("Unexpected attachments: %+v", got.Attachments)
	}
}

func TestSQLiteStorage_TxRollback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	acc := &model.Account{ID: "acc-tx", Name: "Banco", Type: model.AccountTypeBank, Balance: 500}
	if err := store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	txn := &model.Transaction{ID: "t-rb", Date: testDate(3), Description: "doomed", Type: model.TypeExpense, Amount: 100, AccountID: "acc-tx", CategoryID: "1"}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to insert in tx: %v", err)
	}
	if err := tx.AdjustAccountBalance(ctx, "acc-tx", -100); err != nil {
		t.Fatalf("Failed to adjust in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap.Transaction("t-rb") != nil {
		t.Error("Rolled-back transaction should not be visible")
	}
	if got := snap.Account("acc-tx").Balance; got != 500 {
		t.Errorf("Expected balance 500 after rollback, got %v", got)
	}
}

func TestSQLiteStorage_TxCommit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	txn := &model.Transaction{ID: "t-ok", Date: testDate(3), Description: "kept", Type: model.TypeExpense, Amount: 100, AccountID: "a1", CategoryID: "1"}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to insert in tx: %v", err)
	}
	if err := tx.AdjustAccountBalance(ctx, "a1", -100); err != nil {
		t.Fatalf("Failed to adjust in tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap.Transaction("t-ok") == nil {
		t.Error("Committed transaction missing")
	}
	if got := snap.Account("a1").Balance; got != -100 {
		t.Errorf("Expected balance -100 after commit, got %v", got)
	}
}

func TestSQLiteStorage_BudgetUpsert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertBudget(ctx, &model.Budget{CategoryID: "1", Limit: 300}); err != nil {
		t.Fatalf("Failed to upsert budget: %v", err)
	}
	if err := store.UpsertBudget(ctx, &model.Budget{CategoryID: "1", Limit: 450}); err != nil {
		t.Fatalf("Failed to overwrite budget: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(snap.Budgets) != 1 {
		t.Fatalf("Expected single budget entry, got %d", len(snap.Budgets))
	}
	if got := snap.BudgetFor("1").Limit; got != 450 {
		t.Errorf("Expected limit 450, got %v", got)
	}
}

func TestSQLiteStorage_SettingsRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	settings := model.DefaultSettings()
	settings.UserName = "Ana"
	settings.Currency = "€"
	if err := store.UpsertSettings(ctx, &settings); err != nil {
		t.Fatalf("Failed to upsert settings: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap.Settings.UserName != "Ana" || snap.Settings.Currency != "€" {
		t.Errorf("Unexpected settings: %+v", snap.Settings)
	}
}
