package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

func createTestJSONStorage(t *testing.T) (*JSONStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finanzas.json")
	store, err := NewJSONStorage(path)
	if err != nil {
		t.Fatalf("Failed to create JSON storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store, path
}

func TestJSONStorage_MigrateSeedsFreshStore(t *testing.T) {
	store, path := createTestJSONStorage(t)
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if len(snap.Categories) != 9 || len(snap.Accounts) != 2 {
		t.Errorf("Unexpected seeds: %d categories, %d accounts", len(snap.Categories), len(snap.Accounts))
	}
	if snap.Settings.UserName != "Usuario" {
		t.Errorf("Expected default settings, got %+v", snap.Settings)
	}

	// Migrate flushed the seeds to disk.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected store file on disk: %v", err)
	}
}

func TestJSONStorage_PersistsAcrossReopen(t *testing.T) {
	store, path := createTestJSONStorage(t)
	ctx := context.Background()

	acc := &model.Account{ID: "acc-1", Name: "Nómina", Type: model.AccountTypeBank, Balance: 1234.5}
	if err := store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	reopened, err := NewJSONStorage(path)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	snap, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	got := snap.Account("acc-1")
	if got == nil || got.Balance != 1234.5 {
		t.Errorf("Expected persisted account, got %+v", got)
	}
}

func TestJSONStorage_UpdateMissingFails(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	acc := &model.Account{ID: "ghost", Name: "X", Type: model.AccountTypeCash}
	if err := store.UpdateAccount(ctx, acc); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.AdjustAccountBalance(ctx, "ghost", 5); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestJSONStorage_DeleteIsIdempotent(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	if err := store.DeleteDebt(ctx, "never"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
	if err := store.DeleteTransaction(ctx, "never"); err != nil {
		t.Errorf("Expected idempotent delete, got %v", err)
	}
}

func TestJSONStorage_DuplicateCreateFails(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	cat := &model.Category{ID: "c-1", Name: "Nueva"}
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if err := store.CreateCategory(ctx, cat); !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestJSONStorage_AdjustDebtRemainingClamps(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	debt := &model.Debt{ID: "d-1", Name: "Coche", Type: model.DebtTypeVehicle, TotalAmount: 300, RemainingAmount: 100}
	if err := store.CreateDebt(ctx, debt); err != nil {
		t.Fatalf("Failed to create debt: %v", err)
	}

	if err := store.AdjustDebtRemaining(ctx, "d-1", -250); err != nil {
		t.Fatalf("Failed to adjust debt: %v", err)
	}
	snap, _ := store.LoadAll(ctx)
	if got := snap.Debt("d-1").RemainingAmount; got != 0 {
		t.Errorf("Expected clamp at 0, got %v", got)
	}

	if err := store.AdjustDebtRemaining(ctx, "d-1", 1000); err != nil {
		t.Fatalf("Failed to adjust debt: %v", err)
	}
	snap, _ = store.LoadAll(ctx)
	if got := snap.Debt("d-1").RemainingAmount; got != 300 {
		t.Errorf("Expected clamp at total, got %v", got)
	}
}

func TestJSONStorage_TxRollbackDiscardsWrites(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}
	txn := &model.Transaction{ID: "t-1", Date: testDate(1), Type: model.TypeExpense, Amount: 10, AccountID: "a1", CategoryID: "1"}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to insert in tx: %v", err)
	}
	if err := tx.AdjustAccountBalance(ctx, "a1", -10); err != nil {
		t.Fatalf("Failed to adjust in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap.Transaction("t-1") != nil {
		t.Error("Rolled-back transaction is visible")
	}
	if got := snap.Account("a1").Balance; got != 0 {
		t.Errorf("Expected balance untouched, got %v", got)
	}
}

func TestJSONStorage_TxCommitIsAtomic(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}
	txn := &model.Transaction{ID: "t-2", Date: testDate(2), Type: model.TypeTransfer, Amount: 40, AccountID: "a1", TargetAccountID: "a2", CategoryID: "7"}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		t.Fatalf("Failed to insert in tx: %v", err)
	}
	if err := tx.AdjustAccountBalance(ctx, "a1", -40); err != nil {
		t.Fatalf("Failed to adjust source: %v", err)
	}
	if err := tx.AdjustAccountBalance(ctx, "a2", 40); err != nil {
		t.Fatalf("Failed to adjust target: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if snap.Transaction("t-2") == nil {
		t.Error("Committed transaction missing")
	}
	if snap.Account("a1").Balance != -40 || snap.Account("a2").Balance != 40 {
		t.Errorf("Unexpected balances: %v / %v", snap.Account("a1").Balance, snap.Account("a2").Balance)
	}
}

func TestJSONStorage_LoadAllReturnsCopy(t *testing.T) {
	store, _ := createTestJSONStorage(t)
	ctx := context.Background()

	snap, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	snap.Accounts[0].Balance = 9999

	fresh, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("Failed to reload snapshot: %v", err)
	}
	if fresh.Accounts[0].Balance == 9999 {
		t.Error("Caller mutation leaked into the store")
	}
}
