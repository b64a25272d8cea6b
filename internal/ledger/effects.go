package ledger

import (
	"context"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/service"
)

// effect is the set of balance writes a transaction implies: signed
// deltas per account and per debt. Applying a transfer's effect touches
// two accounts and nets to zero across the account set.
type effect struct {
	accounts map[string]float64
	debts    map[string]float64
}

// effectOf computes the balance effect of applying a transaction.
func effectOf(t *model.Transaction) effect {
	e := effect{
		accounts: make(map[string]float64, 2),
		debts:    make(map[string]float64, 1),
	}
	switch t.Type {
	case model.TypeIncome:
		e.accounts[t.AccountID] += t.Amount
	case model.TypeExpense:
		e.accounts[t.AccountID] -= t.Amount
	case model.TypeDebtPayment:
		e.accounts[t.AccountID] -= t.Amount
		e.debts[t.DebtID] -= t.Amount
	case model.TypeTransfer:
		e.accounts[t.AccountID] -= t.Amount
		e.accounts[t.TargetAccountID] += t.Amount
	}
	return e
}

// reverseEffectOf computes the inverse effect, used when a transaction
// is deleted or replaced.
func reverseEffectOf(t *model.Transaction) effect {
	return effectOf(t).reversed()
}

func (e effect) reversed() effect {
	r := effect{
		accounts: make(map[string]float64, len(e.accounts)),
		debts:    make(map[string]float64, len(e.debts)),
	}
	for id, delta := range e.accounts {
		r.accounts[id] = -delta
	}
	for id, delta := range e.debts {
		r.debts[id] = -delta
	}
	return r
}

// persistEffect issues the balance adjustments for an effect inside an
// adapter transaction. The adjustments are atomic increments applied at
// the storage layer, not read-modify-write cycles.
func persistEffect(ctx context.Context, tx service.Tx, e effect) error {
	for id, delta := range e.accounts {
		if err := tx.AdjustAccountBalance(ctx, id, delta); err != nil {
			return err
		}
	}
	for id, delta := range e.debts {
		if err := tx.AdjustDebtRemaining(ctx, id, delta); err != nil {
			return err
		}
	}
	return nil
}

// applyToSnapshot mirrors an already-persisted effect onto the in-memory
// state. Debt remaining amounts clamp to [0, total], matching the
// storage-layer adjustment.
func (l *Ledger) applyToSnapshot(e effect) {
	for id, delta := range e.accounts {
		if acc := l.state.Account(id); acc != nil {
			acc.Balance += delta
		}
	}
	for id, delta := range e.debts {
		if d := l.state.Debt(id); d != nil {
			d.RemainingAmount = model.ClampRemaining(d.RemainingAmount+delta, d.TotalAmount)
		}
	}
}

func persistErr(op string, err error) error {
	return common.NewPersistenceError(op, err)
}
