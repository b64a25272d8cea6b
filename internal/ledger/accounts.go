package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// AccountInput carries the caller-supplied fields for a new account.
type AccountInput struct {
	Name    string
	Type    model.AccountType
	Color   string
	Icon    string
	Balance float64
}

// AccountUpdate lists the account fields that may change. A nil field is
// left untouched. Balance here is an explicit correction, the one path
// that bypasses transaction effects.
type AccountUpdate struct {
	Name    *string
	Type    *model.AccountType
	Color   *string
	Icon    *string
	Balance *float64
}

// AddAccount creates a new account.
func (l *Ledger) AddAccount(ctx context.Context, input AccountInput) (*model.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if input.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if !input.Type.Valid() {
		return nil, common.NewValidationError("type", fmt.Sprintf("unknown account type %q", input.Type))
	}

	acc := &model.Account{
		ID:      uuid.NewString(),
		Name:    input.Name,
		Type:    input.Type,
		Color:   input.Color,
		Icon:    input.Icon,
		Balance: input.Balance,
	}
	if err := l.store.CreateAccount(ctx, acc); err != nil {
		return nil, persistErr("create account", err)
	}
	l.state.Accounts = append(l.state.Accounts, *acc)

	slog.Info("account created", "id", acc.ID, "name", acc.Name, "type", acc.Type)
	return acc, nil
}

// UpdateAccount applies a partial update to an account.
func (l *Ledger) UpdateAccount(ctx context.Context, id string, update AccountUpdate) (*model.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.state.Account(id)
	if acc == nil {
		return nil, fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}

	next := *acc
	if update.Name != nil {
		next.Name = *update.Name
	}
	if update.Type != nil {
		next.Type = *update.Type
	}
	if update.Color != nil {
		next.Color = *update.Color
	}
	if update.Icon != nil {
		next.Icon = *update.Icon
	}
	if update.Balance != nil {
		next.Balance = *update.Balance
	}

	if next.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if !next.Type.Valid() {
		return nil, common.NewValidationError("type", fmt.Sprintf("unknown account type %q", next.Type))
	}

	if err := l.store.UpdateAccount(ctx, &next); err != nil {
		return nil, persistErr("update account", err)
	}
	*acc = next

	if update.Balance != nil {
		slog.Info("account balance corrected", "id", id, "balance", next.Balance)
	}
	return acc, nil
}

// DeleteAccount removes an account. The account set is never allowed to
// become empty; deleting an absent account is a no-op.
func (l *Ledger) DeleteAccount(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Account(id) == nil {
		return nil
	}
	if len(l.state.Accounts) <= 1 {
		return common.ErrLastAccount
	}

	if err := l.store.DeleteAccount(ctx, id); err != nil {
		return persistErr("delete account", err)
	}
	for i := range l.state.Accounts {
		if l.state.Accounts[i].ID == id {
			l.state.Accounts = append(l.state.Accounts[:i], l.state.Accounts[i+1:]...)
			break
		}
	}

	slog.Info("account deleted", "id", id)
	return nil
}
