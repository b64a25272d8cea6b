package model

import "time"

// Period selects a month/year window for aggregations. The zero value
// means "all time".
type Period struct {
	Month time.Month
	Year  int
}

// AllTime is the unbounded period.
var AllTime = Period{}

// Contains reports whether date falls inside the period.
func (p Period) Contains(date time.Time) bool {
	if p.Year == 0 {
		return true
	}
	return date.Year() == p.Year && date.Month() == p.Month
}

// String renders the period for display.
func (p Period) String() string {
	if p.Year == 0 {
		return "all"
	}
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Snapshot is the in-memory read model: every entity set plus the
// derived aggregates the UI needs. Transactions are kept most-recent
// first by date, ties broken by insertion order.
type Snapshot struct {
	Settings     Settings
	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
	Debts        []Debt
	Obligations  []Obligation
	Budgets      []Budget
}

// NetWorth is the sum of all account balances.
func (s *Snapshot) NetWorth() float64 {
	var sum float64
	for _, acc := range s.Accounts {
		sum += acc.Balance
	}
	return sum
}

// TotalOutstandingDebt is the sum of remaining amounts across all debts.
func (s *Snapshot) TotalOutstandingDebt() float64 {
	var sum float64
	for _, d := range s.Debts {
		sum += d.RemainingAmount
	}
	return sum
}

// TotalIncome sums all income transactions.
func (s *Snapshot) TotalIncome() float64 {
	return s.IncomeForPeriod(AllTime)
}

// TotalExpense sums all expense and debt_payment transactions.
func (s *Snapshot) TotalExpense() float64 {
	return s.ExpenseForPeriod(AllTime)
}

// IncomeForPeriod sums income transactions inside the period.
func (s *Snapshot) IncomeForPeriod(p Period) float64 {
	var sum float64
	for _, t := range s.Transactions {
		if t.Type == TypeIncome && p.Contains(t.Date) {
			sum += t.Amount
		}
	}
	return sum
}

// ExpenseForPeriod sums expense and debt_payment transactions inside the
// period. Transfers move money between accounts and count toward neither
// income nor expense.
func (s *Snapshot) ExpenseForPeriod(p Period) float64 {
	var sum float64
	for _, t := range s.Transactions {
		if (t.Type == TypeExpense || t.Type == TypeDebtPayment) && p.Contains(t.Date) {
			sum += t.Amount
		}
	}
	return sum
}

// Account returns the account with the given id, or nil.
func (s *Snapshot) Account(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// Category returns the category with the given id, or nil.
func (s *Snapshot) Category(id string) *Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// CategoryByName returns the category with the given name, or nil.
func (s *Snapshot) CategoryByName(name string) *Category {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}
	return nil
}

// Debt returns the debt with the given id, or nil.
func (s *Snapshot) Debt(id string) *Debt {
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return &s.Debts[i]
		}
	}
	return nil
}

// Transaction returns the transaction with the given id, or nil.
func (s *Snapshot) Transaction(id string) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// Obligation returns the obligation with the given id, or nil.
func (s *Snapshot) Obligation(id string) *Obligation {
	for i := range s.Obligations {
		if s.Obligations[i].ID == id {
			return &s.Obligations[i]
		}
	}
	return nil
}

// BudgetFor returns the budget entry for a category, or nil when no
// budget is set.
func (s *Snapshot) BudgetFor(categoryID string) *Budget {
	for i := range s.Budgets {
		if s.Budgets[i].CategoryID == categoryID {
			return &s.Budgets[i]
		}
	}
	return nil
}
