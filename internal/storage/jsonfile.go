package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/service"
)

// JSONStorage persists the whole profile as a single JSON document. It
// is the local, dependency-free backend: everything lives in memory and
// every commit rewrites the file atomically via a temp file and rename.
type JSONStorage struct {
	path string
	mu   sync.Mutex
	data *model.Snapshot
}

var _ service.Storage = (*JSONStorage)(nil)

// NewJSONStorage opens or creates a JSON-backed store at path.
func NewJSONStorage(path string) (*JSONStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path", ErrEmptyString)
	}
	s := &JSONStorage{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStorage) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = &model.Snapshot{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to parse store file %s: %w", s.path, err)
	}
	s.data = &snap
	return nil
}

// Migrate seeds a fresh store with the default categories, accounts, and
// settings. Existing data is left untouched.
func (s *JSONStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if len(s.data.Categories) == 0 {
		s.data.Categories = model.DefaultCategories()
		changed = true
	}
	if len(s.data.Accounts) == 0 {
		s.data.Accounts = model.DefaultAccounts()
		changed = true
	}
	if s.data.Settings == (model.Settings{}) {
		s.data.Settings = model.DefaultSettings()
		changed = true
	}
	if !changed {
		return nil
	}
	return s.save(s.data)
}

// LoadAll returns a deep copy of the stored snapshot.
func (s *JSONStorage) LoadAll(ctx context.Context) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.data), nil
}

// Close is a no-op; every commit already flushed to disk.
func (s *JSONStorage) Close() error {
	return nil
}

// BeginTx stages writes against a deep copy of the snapshot. Commit
// persists the copy and swaps it in; Rollback discards it.
func (s *JSONStorage) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &jsonTx{store: s, staged: copySnapshot(s.data)}, nil
}

// save writes snap to the store path atomically. Callers hold s.mu.
func (s *JSONStorage) save(snap *model.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".finanzas-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// mutate runs fn against a staged copy and commits it in one step. Used
// for the single-write Mutator methods outside an explicit transaction.
func (s *JSONStorage) mutate(ctx context.Context, fn func(*model.Snapshot) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := copySnapshot(s.data)
	if err := fn(staged); err != nil {
		return err
	}
	if err := s.save(staged); err != nil {
		return err
	}
	s.data = staged
	return nil
}

// jsonTx holds the store lock for its whole lifetime, so writes from
// other goroutines serialize behind it.
type jsonTx struct {
	store  *JSONStorage
	staged *model.Snapshot
	done   bool
}

func (t *jsonTx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.done = true
	defer t.store.mu.Unlock()
	if err := t.store.save(t.staged); err != nil {
		return err
	}
	t.store.data = t.staged
	return nil
}

func (t *jsonTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *jsonTx) apply(fn func(*model.Snapshot) error) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	return fn(t.staged)
}

// Account operations

func (s *JSONStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapCreateAccount(snap, account) })
}

func (s *JSONStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapUpdateAccount(snap, account) })
}

func (s *JSONStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapDeleteAccount(snap, id) })
}

func (s *JSONStorage) AdjustAccountBalance(ctx context.Context, id string, delta float64) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapAdjustAccountBalance(snap, id, delta) })
}

func (t *jsonTx) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapCreateAccount(snap, account) })
}

func (t *jsonTx) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapUpdateAccount(snap, account) })
}

func (t *jsonTx) DeleteAccount(ctx context.Context, id string) error {
	return t.apply(func(snap *model.Snapshot) error { return snapDeleteAccount(snap, id) })
}

func (t *jsonTx) AdjustAccountBalance(ctx context.Context, id string, delta float64) error {
	return t.apply(func(snap *model.Snapshot) error { return snapAdjustAccountBalance(snap, id, delta) })
}

// Category operations

func (s *JSONStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapCreateCategory(snap, category) })
}

func (s *JSONStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapUpdateCategory(snap, category) })
}

func (s *JSONStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapDeleteCategory(snap, id) })
}

func (t *jsonTx) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapCreateCategory(snap, category) })
}

func (t *jsonTx) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapUpdateCategory(snap, category) })
}

func (t *jsonTx) DeleteCategory(ctx context.Context, id string) error {
	return t.apply(func(snap *model.Snapshot) error { return snapDeleteCategory(snap, id) })
}

// Transaction operations

func (s *JSONStorage) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapInsertTransaction(snap, txn) })
}

func (s *JSONStorage) ReplaceTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapReplaceTransaction(snap, txn) })
}

func (s *JSONStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapDeleteTransaction(snap, id) })
}

func (t *jsonTx) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapInsertTransaction(snap, txn) })
}

func (t *jsonTx) ReplaceTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapReplaceTransaction(snap, txn) })
}

func (t *jsonTx) DeleteTransaction(ctx context.Context, id string) error {
	return t.apply(func(snap *model.Snapshot) error { return snapDeleteTransaction(snap, id) })
}

// Debt operations

func (s *JSONStorage) CreateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapCreateDebt(snap, debt) })
}

func (s *JSONStorage) UpdateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapUpdateDebt(snap, debt) })
}

func (s *JSONStorage) DeleteDebt(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapDeleteDebt(snap, id) })
}

func (s *JSONStorage) AdjustDebtRemaining(ctx context.Context, id string, delta float64) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapAdjustDebtRemaining(snap, id, delta) })
}

func (t *jsonTx) CreateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapCreateDebt(snap, debt) })
}

func (t *jsonTx) UpdateDebt(ctx context.Context, debt *model.Debt) error {
	if err := validateDebt(debt); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapUpdateDebt(snap, debt) })
}

func (t *jsonTx) DeleteDebt(ctx context.Context, id string) error {
	return t.apply(func(snap *model.Snapshot) error { return snapDeleteDebt(snap, id) })
}

func (t *jsonTx) AdjustDebtRemaining(ctx context.Context, id string, delta float64) error {
	return t.apply(func(snap *model.Snapshot) error { return snapAdjustDebtRemaining(snap, id, delta) })
}

// Obligation operations

func (s *JSONStorage) CreateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapCreateObligation(snap, obligation) })
}

func (s *JSONStorage) UpdateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapUpdateObligation(snap, obligation) })
}

func (s *JSONStorage) DeleteObligation(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapDeleteObligation(snap, id) })
}

func (t *jsonTx) CreateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapCreateObligation(snap, obligation) })
}

func (t *jsonTx) UpdateObligation(ctx context.Context, obligation *model.Obligation) error {
	if err := validateObligation(obligation); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapUpdateObligation(snap, obligation) })
}

func (t *jsonTx) DeleteObligation(ctx context.Context, id string) error {
	return t.apply(func(snap *model.Snapshot) error { return snapDeleteObligation(snap, id) })
}

// Budget and settings upserts

func (s *JSONStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error { return snapUpsertBudget(snap, budget) })
}

func (s *JSONStorage) UpsertSettings(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	return s.mutate(ctx, func(snap *model.Snapshot) error {
		snap.Settings = *settings
		return nil
	})
}

func (t *jsonTx) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}
	return t.apply(func(snap *model.Snapshot) error { return snapUpsertBudget(snap, budget) })
}

func (t *jsonTx) UpsertSettings(ctx context.Context, settings *model.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	return t.apply(func(snap *model.Snapshot) error {
		snap.Settings = *settings
		return nil
	})
}

// Snapshot mutation helpers shared by the store and its transactions.
// Semantics mirror the SQLite adapter: updates require presence, deletes
// tolerate absence, adjustments clamp where the schema clamps.

func snapCreateAccount(snap *model.Snapshot, account *model.Account) error {
	if snap.Account(account.ID) != nil {
		return fmt.Errorf("account %s: %w", account.ID, common.ErrDuplicateEntry)
	}
	snap.Accounts = append(snap.Accounts, *account)
	return nil
}

func snapUpdateAccount(snap *model.Snapshot, account *model.Account) error {
	existing := snap.Account(account.ID)
	if existing == nil {
		return fmt.Errorf("account %s: %w", account.ID, common.ErrNotFound)
	}
	*existing = *account
	return nil
}

func snapDeleteAccount(snap *model.Snapshot, id string) error {
	for i := range snap.Accounts {
		if snap.Accounts[i].ID == id {
			snap.Accounts = append(snap.Accounts[:i], snap.Accounts[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapAdjustAccountBalance(snap *model.Snapshot, id string, delta float64) error {
	acc := snap.Account(id)
	if acc == nil {
		return fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}
	acc.Balance += delta
	return nil
}

func snapCreateCategory(snap *model.Snapshot, category *model.Category) error {
	if snap.Category(category.ID) != nil {
		return fmt.Errorf("category %s: %w", category.ID, common.ErrDuplicateEntry)
	}
	snap.Categories = append(snap.Categories, *category)
	return nil
}

func snapUpdateCategory(snap *model.Snapshot, category *model.Category) error {
	existing := snap.Category(category.ID)
	if existing == nil {
		return fmt.Errorf("category %s: %w", category.ID, common.ErrNotFound)
	}
	*existing = *category
	return nil
}

func snapDeleteCategory(snap *model.Snapshot, id string) error {
	for i := range snap.Categories {
		if snap.Categories[i].ID == id {
			snap.Categories = append(snap.Categories[:i], snap.Categories[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapInsertTransaction(snap *model.Snapshot, txn *model.Transaction) error {
	if snap.Transaction(txn.ID) != nil {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
	}
	// Keep the most-recent-first order; a new entry lands ahead of
	// anything with the same date.
	idx := len(snap.Transactions)
	for i := range snap.Transactions {
		if !snap.Transactions[i].Date.After(txn.Date) {
			idx = i
			break
		}
	}
	snap.Transactions = append(snap.Transactions, model.Transaction{})
	copy(snap.Transactions[idx+1:], snap.Transactions[idx:])
	snap.Transactions[idx] = *txn
	return nil
}

func snapReplaceTransaction(snap *model.Snapshot, txn *model.Transaction) error {
	if snap.Transaction(txn.ID) == nil {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	if err := snapDeleteTransaction(snap, txn.ID); err != nil {
		return err
	}
	return snapInsertTransaction(snap, txn)
}

func snapDeleteTransaction(snap *model.Snapshot, id string) error {
	for i := range snap.Transactions {
		if snap.Transactions[i].ID == id {
			snap.Transactions = append(snap.Transactions[:i], snap.Transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapCreateDebt(snap *model.Snapshot, debt *model.Debt) error {
	if snap.Debt(debt.ID) != nil {
		return fmt.Errorf("debt %s: %w", debt.ID, common.ErrDuplicateEntry)
	}
	snap.Debts = append(snap.Debts, *debt)
	return nil
}

func snapUpdateDebt(snap *model.Snapshot, debt *model.Debt) error {
	existing := snap.Debt(debt.ID)
	if existing == nil {
		return fmt.Errorf("debt %s: %w", debt.ID, common.ErrNotFound)
	}
	*existing = *debt
	return nil
}

func snapDeleteDebt(snap *model.Snapshot, id string) error {
	for i := range snap.Debts {
		if snap.Debts[i].ID == id {
			snap.Debts = append(snap.Debts[:i], snap.Debts[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapAdjustDebtRemaining(snap *model.Snapshot, id string, delta float64) error {
	debt := snap.Debt(id)
	if debt == nil {
		return fmt.Errorf("debt %s: %w", id, common.ErrNotFound)
	}
	debt.RemainingAmount = model.ClampRemaining(debt.RemainingAmount+delta, debt.TotalAmount)
	return nil
}

func snapCreateObligation(snap *model.Snapshot, obligation *model.Obligation) error {
	if snap.Obligation(obligation.ID) != nil {
		return fmt.Errorf("obligation %s: %w", obligation.ID, common.ErrDuplicateEntry)
	}
	snap.Obligations = append(snap.Obligations, *obligation)
	return nil
}

func snapUpdateObligation(snap *model.Snapshot, obligation *model.Obligation) error {
	existing := snap.Obligation(obligation.ID)
	if existing == nil {
		return fmt.Errorf("obligation %s: %w", obligation.ID, common.ErrNotFound)
	}
	*existing = *obligation
	return nil
}

func snapDeleteObligation(snap *model.Snapshot, id string) error {
	for i := range snap.Obligations {
		if snap.Obligations[i].ID == id {
			snap.Obligations = append(snap.Obligations[:i], snap.Obligations[i+1:]...)
			return nil
		}
	}
	return nil
}

func snapUpsertBudget(snap *model.Snapshot, budget *model.Budget) error {
	if existing := snap.BudgetFor(budget.CategoryID); existing != nil {
		existing.Limit = budget.Limit
		return nil
	}
	snap.Budgets = append(snap.Budgets, *budget)
	return nil
}

// copySnapshot deep-copies every slice so callers can never alias the
// stored state.
func copySnapshot(src *model.Snapshot) *model.Snapshot {
	dst := &model.Snapshot{
		Settings:     src.Settings,
		Accounts:     append([]model.Account(nil), src.Accounts...),
		Categories:   append([]model.Category(nil), src.Categories...),
		Transactions: append([]model.Transaction(nil), src.Transactions...),
		Debts:        append([]model.Debt(nil), src.Debts...),
		Obligations:  append([]model.Obligation(nil), src.Obligations...),
		Budgets:      append([]model.Budget(nil), src.Budgets...),
	}
	for i := range dst.Transactions {
		if len(dst.Transactions[i].Attachments) > 0 {
			dst.Transactions[i].Attachments = append([]model.Attachment(nil), dst.Transactions[i].Attachments...)
		}
	}
	for i := range dst.Debts {
		if dst.Debts[i].DueDate != nil {
			due := *dst.Debts[i].DueDate
			dst.Debts[i].DueDate = &due
		}
	}
	return dst
}
