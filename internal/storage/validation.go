// Package storage provides the persistence adapters for the finanzas ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finanzaspro/finanzas/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidAccount    = errors.New("invalid account")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidTxn        = errors.New("invalid transaction")
	ErrInvalidDebt       = errors.New("invalid debt")
	ErrInvalidObligation = errors.New("invalid obligation")
	ErrInvalidBudget     = errors.New("invalid budget")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateAccount(acc *model.Account) error {
	if acc == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if acc.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if acc.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	if !acc.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, acc.Type)
	}
	return nil
}

func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if cat.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if cat.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTxn)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	if txn.AccountID == "" {
		return fmt.Errorf("%w: missing account ID", ErrInvalidTxn)
	}
	if txn.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidTxn)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTxn, txn.Type)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTxn)
	}
	return nil
}

func validateDebt(debt *model.Debt) error {
	if debt == nil {
		return fmt.Errorf("%w: debt", ErrNilParameter)
	}
	if debt.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidDebt)
	}
	if debt.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDebt)
	}
	if !debt.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDebt, debt.Type)
	}
	return nil
}

func validateObligation(ob *model.Obligation) error {
	if ob == nil {
		return fmt.Errorf("%w: obligation", ErrNilParameter)
	}
	if ob.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidObligation)
	}
	if ob.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidObligation)
	}
	if ob.DueDate.IsZero() {
		return fmt.Errorf("%w: missing due date", ErrInvalidObligation)
	}
	return nil
}

func validateBudget(b *model.Budget) error {
	if b == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if b.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidBudget)
	}
	if b.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidBudget)
	}
	return nil
}
