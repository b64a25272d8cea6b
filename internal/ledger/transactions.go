package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// TransactionInput carries the caller-supplied fields for a new or
// replacement transaction.
type TransactionInput struct {
	Date            time.Time
	Description     string
	CategoryID      string
	AccountID       string
	TargetAccountID string
	DebtID          string
	Type            model.TransactionType
	Attachments     []model.Attachment
	Amount          float64
}

// AddTransaction validates the input, assigns an id, persists the
// transaction together with its balance effects in a single adapter
// transaction, and then applies the effect to the in-memory snapshot.
func (l *Ledger) AddTransaction(ctx context.Context, input TransactionInput) (*model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addTransactionLocked(ctx, input)
}

func (l *Ledger) addTransactionLocked(ctx context.Context, input TransactionInput) (*model.Transaction, error) {
	txn, err := l.buildTransaction(uuid.NewString(), input)
	if err != nil {
		return nil, err
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return nil, persistErr("create transaction", err)
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		_ = tx.Rollback()
		return nil, persistErr("create transaction", err)
	}
	if err := persistEffect(ctx, tx, effectOf(txn)); err != nil {
		_ = tx.Rollback()
		return nil, persistErr("create transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistErr("create transaction", err)
	}

	l.insertSorted(*txn)
	l.applyToSnapshot(effectOf(txn))

	slog.Info("transaction recorded",
		"id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount,
		"account", txn.AccountID)
	return txn, nil
}

// UpdateTransaction replaces an existing transaction. The old effect is
// reversed and the new effect applied as one reverse+reapply unit, so
// balances stay consistent even when type, amount, or account references
// change between versions.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, input TransactionInput) (*model.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.state.Transaction(id)
	if old == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	oldCopy := *old

	txn, err := l.buildTransaction(id, input)
	if err != nil {
		return nil, err
	}

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return nil, persistErr("update transaction", err)
	}
	if err := tx.ReplaceTransaction(ctx, txn); err != nil {
		_ = tx.Rollback()
		return nil, persistErr("update transaction", err)
	}
	if err := persistEffect(ctx, tx, reverseEffectOf(&oldCopy)); err != nil {
		_ = tx.Rollback()
		return nil, persistErr("update transaction", err)
	}
	if err := persistEffect(ctx, tx, effectOf(txn)); err != nil {
		_ = tx.Rollback()
		return nil, persistErr("update transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, persistErr("update transaction", err)
	}

	l.removeTransaction(id)
	l.applyToSnapshot(reverseEffectOf(&oldCopy))
	l.insertSorted(*txn)
	l.applyToSnapshot(effectOf(txn))

	slog.Info("transaction updated", "id", id, "type", txn.Type, "amount", txn.Amount)
	return txn, nil
}

// DeleteTransaction removes a transaction and reverses its balance
// effect. Deleting an id that does not exist is a successful no-op so
// client retries stay safe.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.state.Transaction(id)
	if old == nil {
		slog.Debug("delete of absent transaction ignored", "id", id)
		return nil
	}
	oldCopy := *old

	tx, err := l.store.BeginTx(ctx)
	if err != nil {
		return persistErr("delete transaction", err)
	}
	if err := tx.DeleteTransaction(ctx, id); err != nil {
		_ = tx.Rollback()
		return persistErr("delete transaction", err)
	}
	if err := persistEffect(ctx, tx, reverseEffectOf(&oldCopy)); err != nil {
		_ = tx.Rollback()
		return persistErr("delete transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("delete transaction", err)
	}

	l.removeTransaction(id)
	l.applyToSnapshot(reverseEffectOf(&oldCopy))

	slog.Info("transaction deleted", "id", id, "type", oldCopy.Type, "amount", oldCopy.Amount)
	return nil
}

// buildTransaction validates input against the current snapshot and
// produces a fully-formed transaction. No state is mutated here; every
// validation failure aborts before any balance effect is computed.
func (l *Ledger) buildTransaction(id string, input TransactionInput) (*model.Transaction, error) {
	if input.Amount <= 0 {
		return nil, common.NewValidationError("amount", "must be greater than zero")
	}
	if !input.Type.Valid() {
		return nil, common.NewValidationError("type", fmt.Sprintf("unknown transaction type %q", input.Type))
	}
	if input.Date.IsZero() {
		return nil, common.NewValidationError("date", "must be set")
	}
	if l.state.Account(input.AccountID) == nil {
		return nil, common.NewValidationError("accountId", fmt.Sprintf("account %q does not exist", input.AccountID))
	}

	categoryID := input.CategoryID
	if categoryID == "" && input.Type == model.TypeTransfer {
		// Transfers fall back to the reserved transfer category.
		if cat := l.state.CategoryByName(model.TransferCategoryName); cat != nil {
			categoryID = cat.ID
		}
	}
	if l.state.Category(categoryID) == nil {
		return nil, common.NewValidationError("categoryId", fmt.Sprintf("category %q does not exist", categoryID))
	}

	txn := &model.Transaction{
		ID:          id,
		Date:        input.Date,
		Description: input.Description,
		CategoryID:  categoryID,
		AccountID:   input.AccountID,
		Type:        input.Type,
		Attachments: input.Attachments,
		Amount:      input.Amount,
	}

	switch input.Type {
	case model.TypeTransfer:
		if input.TargetAccountID == "" {
			return nil, common.NewValidationError("targetAccountId", "required for transfers")
		}
		if input.TargetAccountID == input.AccountID {
			return nil, common.NewValidationError("targetAccountId", "must differ from the source account")
		}
		if l.state.Account(input.TargetAccountID) == nil {
			return nil, common.NewValidationError("targetAccountId", fmt.Sprintf("account %q does not exist", input.TargetAccountID))
		}
		txn.TargetAccountID = input.TargetAccountID
	case model.TypeDebtPayment:
		if input.DebtID == "" {
			return nil, common.NewValidationError("debtId", "required for debt payments")
		}
		if l.state.Debt(input.DebtID) == nil {
			return nil, common.NewValidationError("debtId", fmt.Sprintf("debt %q does not exist", input.DebtID))
		}
		txn.DebtID = input.DebtID
	default:
		// TargetAccountID and DebtID are only meaningful for transfers
		// and debt payments; anything else is dropped.
	}

	return txn, nil
}

// insertSorted places a transaction into the snapshot keeping the list
// most-recent-first by date, ties broken by insertion order (newer
// insertions first).
func (l *Ledger) insertSorted(txn model.Transaction) {
	txns := l.state.Transactions
	i := 0
	for i < len(txns) && txns[i].Date.After(txn.Date) {
		i++
	}
	txns = append(txns, model.Transaction{})
	copy(txns[i+1:], txns[i:])
	txns[i] = txn
	l.state.Transactions = txns
}

func (l *Ledger) removeTransaction(id string) {
	txns := l.state.Transactions
	for i := range txns {
		if txns[i].ID == id {
			l.state.Transactions = append(txns[:i], txns[i+1:]...)
			return
		}
	}
}
