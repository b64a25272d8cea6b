package model

import "time"

// DebtType identifies the kind of liability.
type DebtType string

const (
	// DebtTypeCreditCard is revolving credit card debt.
	DebtTypeCreditCard DebtType = "credit_card"
	// DebtTypeLoan is a personal loan.
	DebtTypeLoan DebtType = "loan"
	// DebtTypeMortgage is a home mortgage.
	DebtTypeMortgage DebtType = "mortgage"
	// DebtTypeVehicle is a vehicle loan.
	DebtTypeVehicle DebtType = "vehicle"
	// DebtTypeOther covers any other liability.
	DebtTypeOther DebtType = "other"
)

// Valid reports whether t is a known debt type.
func (t DebtType) Valid() bool {
	switch t {
	case DebtTypeCreditCard, DebtTypeLoan, DebtTypeMortgage, DebtTypeVehicle, DebtTypeOther:
		return true
	}
	return false
}

// Debt is a liability with a shrinking remaining balance. RemainingAmount
// is mutated exclusively by debt_payment transactions and their reversal,
// and always stays within [0, TotalAmount].
type Debt struct {
	DueDate         *time.Time `json:"dueDate,omitempty"`
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            DebtType   `json:"type"`
	Icon            string     `json:"icon"`
	Color           string     `json:"color"`
	TotalAmount     float64    `json:"totalAmount"`
	RemainingAmount float64    `json:"remainingAmount"`
	InterestRate    float64    `json:"interestRate,omitempty"`
}

// ClampRemaining returns remaining bounded to [0, total].
func ClampRemaining(remaining, total float64) float64 {
	if remaining < 0 {
		return 0
	}
	if remaining > total {
		return total
	}
	return remaining
}
