// Package ledger implements the core mutation engine that keeps account
// balances, debt balances, and transaction records mutually consistent.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/service"
)

// Config holds tunable behavior for the ledger.
type Config struct {
	// DashboardWindowDays is the look-ahead window for dashboard
	// obligation alerts.
	DashboardWindowDays int
	// UpcomingWindowDays is the look-ahead window for generic upcoming
	// obligation queries.
	UpcomingWindowDays int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DashboardWindowDays: 7,
		UpcomingWindowDays:  3,
	}
}

// Ledger owns the single in-memory finance snapshot and pushes every
// mutation through the injected persistence adapter. Writes are durable
// first: the snapshot is only updated after the adapter commit succeeds,
// so a failed write never leaves the cache diverged.
type Ledger struct {
	store service.Storage
	state *model.Snapshot
	cfg   Config
	mu    sync.Mutex
}

// New creates a ledger with the default configuration.
func New(store service.Storage) *Ledger {
	return NewWithConfig(store, DefaultConfig())
}

// NewWithConfig creates a ledger with custom configuration.
func NewWithConfig(store service.Storage, cfg Config) *Ledger {
	if cfg.DashboardWindowDays <= 0 {
		cfg.DashboardWindowDays = 7
	}
	if cfg.UpcomingWindowDays <= 0 {
		cfg.UpcomingWindowDays = 3
	}
	return &Ledger{store: store, cfg: cfg}
}

// Load performs the bulk read that initializes the in-memory snapshot.
// It must be called before any other method.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger state: %w", err)
	}
	l.state = snap
	return nil
}

// Settings returns the current profile settings.
func (l *Ledger) Settings() model.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Settings
}

// Snapshot returns a point-in-time copy of the read model for
// consumers that need the whole picture at once, like the AI advisor.
func (l *Ledger) Snapshot() *model.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := model.Snapshot{
		Settings:     l.state.Settings,
		Accounts:     append([]model.Account(nil), l.state.Accounts...),
		Categories:   append([]model.Category(nil), l.state.Categories...),
		Transactions: append([]model.Transaction(nil), l.state.Transactions...),
		Debts:        append([]model.Debt(nil), l.state.Debts...),
		Obligations:  append([]model.Obligation(nil), l.state.Obligations...),
		Budgets:      append([]model.Budget(nil), l.state.Budgets...),
	}
	return &snap
}

// Accounts returns a copy of the account set.
func (l *Ledger) Accounts() []model.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Account(nil), l.state.Accounts...)
}

// Categories returns a copy of the category set.
func (l *Ledger) Categories() []model.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Category(nil), l.state.Categories...)
}

// Transactions returns a copy of the transaction list, most recent first.
func (l *Ledger) Transactions() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Transaction(nil), l.state.Transactions...)
}

// Debts returns a copy of the debt set.
func (l *Ledger) Debts() []model.Debt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Debt(nil), l.state.Debts...)
}

// Obligations returns a copy of the obligation set.
func (l *Ledger) Obligations() []model.Obligation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Obligation(nil), l.state.Obligations...)
}

// Budgets returns a copy of the budget set.
func (l *Ledger) Budgets() []model.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Budget(nil), l.state.Budgets...)
}

// NetWorth is the sum of all account balances.
func (l *Ledger) NetWorth() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.NetWorth()
}

// TotalOutstandingDebt is the sum of remaining amounts across all debts.
func (l *Ledger) TotalOutstandingDebt() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TotalOutstandingDebt()
}

// TotalIncome sums all income transactions on record.
func (l *Ledger) TotalIncome() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TotalIncome()
}

// TotalExpense sums all expense and debt payment transactions on record.
func (l *Ledger) TotalExpense() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.TotalExpense()
}

// IncomeForPeriod sums income transactions inside the period.
func (l *Ledger) IncomeForPeriod(p model.Period) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.IncomeForPeriod(p)
}

// ExpenseForPeriod sums expense and debt payment transactions inside the
// period.
func (l *Ledger) ExpenseForPeriod(p model.Period) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.ExpenseForPeriod(p)
}

// UpdateSettings replaces the profile settings.
func (l *Ledger) UpdateSettings(ctx context.Context, settings model.Settings) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.UpsertSettings(ctx, &settings); err != nil {
		return persistErr("update settings", err)
	}
	l.state.Settings = settings
	return nil
}
