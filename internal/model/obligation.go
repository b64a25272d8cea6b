package model

import "time"

// Obligation is a scheduled future payment commitment, distinct from a
// realized transaction. The IsPaid transition is monotonic: an obligation
// instance moves from pending to paid exactly once and never back.
type Obligation struct {
	DueDate     time.Time `json:"dueDate"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId"`
	AccountID   string    `json:"accountId"`
	Amount      float64   `json:"amount"`
	IsPaid      bool      `json:"isPaid"`
	IsRecurring bool      `json:"isRecurring"`
}
