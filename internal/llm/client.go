// Package llm provides the AI collaborator clients used for financial
// analysis and free-text transaction parsing.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for AI providers.
type Client interface {
	// Analyze sends a financial analysis prompt and returns the
	// rendered advice text.
	Analyze(ctx context.Context, prompt string) (AnalysisResponse, error)
	// ParseTransaction reads a free-text movement description into a
	// structured draft.
	ParseTransaction(ctx context.Context, prompt string) (DraftTransaction, error)
}

// AnalysisResponse contains the AI's analysis result.
type AnalysisResponse struct {
	Text string
}

// DraftTransaction is the structured reading of a spoken or typed
// movement description. Category and account are referenced by name;
// resolution against the ledger happens at the caller.
type DraftTransaction struct {
	Description       string  `json:"description"`
	CategoryName      string  `json:"category"`
	AccountName       string  `json:"account"`
	TargetAccountName string  `json:"targetAccount,omitempty"`
	Type              string  `json:"type"`
	Date              string  `json:"date,omitempty"`
	Amount            float64 `json:"amount"`
}

// Config holds the provider configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
