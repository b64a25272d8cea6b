package model

// AccountType identifies the kind of balance-holding account.
type AccountType string

const (
	// AccountTypeBank is a checking or savings account.
	AccountTypeBank AccountType = "bank"
	// AccountTypeCash is physical cash on hand.
	AccountTypeCash AccountType = "cash"
	// AccountTypeCard is a payment card account.
	AccountTypeCard AccountType = "card"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCard:
		return true
	}
	return false
}

// Account is a named balance-holding entity. Balance is a cached running
// total mutated only through transaction effects, never edited directly
// except by an explicit correction.
type Account struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Type    AccountType `json:"type"`
	Color   string      `json:"color"`
	Icon    string      `json:"icon"`
	Balance float64     `json:"balance"`
}

// DefaultAccounts returns the accounts seeded into a fresh profile.
func DefaultAccounts() []Account {
	return []Account{
		{ID: "a1", Name: "Efectivo", Type: AccountTypeCash, Balance: 0, Color: "#10b981", Icon: "💵"},
		{ID: "a2", Name: "Banco Principal", Type: AccountTypeBank, Balance: 0, Color: "#6366f1", Icon: "🏦"},
	}
}
