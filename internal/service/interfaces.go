// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/finanzaspro/finanzas/internal/model"
)

// Mutator is the set of entity writes a persistence adapter must
// support. Update methods fail with common.ErrNotFound when the entity
// is absent; Delete methods are idempotent and treat absence as success.
type Mutator interface {
	// Account operations
	CreateAccount(ctx context.Context, account *model.Account) error
	UpdateAccount(ctx context.Context, account *model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	// AdjustAccountBalance applies a signed delta atomically at the
	// storage layer, closing the read-modify-write race between clients.
	AdjustAccountBalance(ctx context.Context, id string, delta float64) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Transaction operations
	InsertTransaction(ctx context.Context, txn *model.Transaction) error
	ReplaceTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Debt operations
	CreateDebt(ctx context.Context, debt *model.Debt) error
	UpdateDebt(ctx context.Context, debt *model.Debt) error
	DeleteDebt(ctx context.Context, id string) error
	// AdjustDebtRemaining applies a signed delta to a debt's remaining
	// amount, clamped to [0, total_amount] at the storage layer.
	AdjustDebtRemaining(ctx context.Context, id string, delta float64) error

	// Obligation operations
	CreateObligation(ctx context.Context, obligation *model.Obligation) error
	UpdateObligation(ctx context.Context, obligation *model.Obligation) error
	DeleteObligation(ctx context.Context, id string) error

	// Budget and settings upserts
	UpsertBudget(ctx context.Context, budget *model.Budget) error
	UpsertSettings(ctx context.Context, settings *model.Settings) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	Mutator

	// LoadAll performs the bulk read used on initialization.
	LoadAll(ctx context.Context) (*model.Snapshot, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx scopes a group of writes so they commit or roll back together.
// The ledger relies on this for transfer effects and reverse+reapply
// updates, which must be all-or-nothing.
type Tx interface {
	Commit() error
	Rollback() error
	Mutator
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
