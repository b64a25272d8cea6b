// Package model defines the domain entities for the finanzas ledger.
package model

import "time"

// TransactionType identifies how a transaction affects account balances.
type TransactionType string

const (
	// TypeIncome credits the source account.
	TypeIncome TransactionType = "income"
	// TypeExpense debits the source account.
	TypeExpense TransactionType = "expense"
	// TypeTransfer debits the source account and credits the target account.
	TypeTransfer TransactionType = "transfer"
	// TypeDebtPayment debits the source account and reduces a debt's remaining amount.
	TypeDebtPayment TransactionType = "debt_payment"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer, TypeDebtPayment:
		return true
	}
	return false
}

// Attachment is a file attached to a transaction (receipt, invoice).
// Data is base64-encoded; the adapter stores attachments as a JSON blob.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

// Transaction represents a single recorded movement of money.
// TargetAccountID is set only for transfers; DebtID only for debt payments.
type Transaction struct {
	Date            time.Time    `json:"date"`
	ID              string       `json:"id"`
	Description     string       `json:"description"`
	CategoryID      string       `json:"categoryId"`
	AccountID       string       `json:"accountId"`
	TargetAccountID string       `json:"targetAccountId,omitempty"`
	DebtID          string       `json:"debtId,omitempty"`
	Type            TransactionType `json:"type"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	Amount          float64      `json:"amount"`
}
