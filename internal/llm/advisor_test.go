package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// stubClient returns canned responses or a fixed error.
type stubClient struct {
	analysis AnalysisResponse
	draft    DraftTransaction
	err      error
	prompts  []string
}

func (s *stubClient) Analyze(_ context.Context, prompt string) (AnalysisResponse, error) {
	s.prompts = append(s.prompts, prompt)
	return s.analysis, s.err
}

func (s *stubClient) ParseTransaction(_ context.Context, prompt string) (DraftTransaction, error) {
	s.prompts = append(s.prompts, prompt)
	return s.draft, s.err
}

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Settings:   model.Settings{Currency: "€"},
		Accounts:   model.DefaultAccounts(),
		Categories: model.DefaultCategories(),
		Transactions: []model.Transaction{
			{ID: "t1", Description: "Supermercado", Type: model.TypeExpense, Amount: 85.4, Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
		},
		Debts:   []model.Debt{{ID: "d1", Name: "Préstamo coche", Type: model.DebtTypeVehicle, TotalAmount: 9000, RemainingAmount: 4200}},
		Budgets: []model.Budget{{CategoryID: "1", Limit: 400}},
	}
}

func testAdvisor(client Client) *Advisor {
	return NewAdvisorWithClient(client, Config{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		RateLimit:  600,
	})
}

func TestAdvisorAnalyze(t *testing.T) {
	stub := &stubClient{analysis: AnalysisResponse{Text: "Tu salud financiera es Buena."}}
	advisor := testAdvisor(stub)
	defer advisor.Close()

	got := advisor.Analyze(context.Background(), testSnapshot())
	if got != "Tu salud financiera es Buena." {
		t.Errorf("Unexpected analysis text: %q", got)
	}

	if len(stub.prompts) != 1 {
		t.Fatalf("Expected one prompt, got %d", len(stub.prompts))
	}
	prompt := stub.prompts[0]
	for _, fragment := range []string{"Supermercado", "Préstamo coche", "Moneda: €", "FINANZAS PRO"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("Analysis prompt missing %q", fragment)
		}
	}
}

func TestAdvisorAnalyze_DegradesToFallback(t *testing.T) {
	stub := &stubClient{err: errors.New("connection refused")}
	advisor := testAdvisor(stub)
	defer advisor.Close()

	got := advisor.Analyze(context.Background(), testSnapshot())
	if got != AnalysisFallback {
		t.Errorf("Expected fallback text, got %q", got)
	}
}

func TestAdvisorParseTransaction(t *testing.T) {
	stub := &stubClient{draft: DraftTransaction{Description: "Taxi", Amount: 12, Type: "expense"}}
	advisor := testAdvisor(stub)
	defer advisor.Close()

	draft, err := advisor.ParseTransaction(context.Background(), "12 euros de taxi", testSnapshot())
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	if draft.Description != "Taxi" || draft.Amount != 12 {
		t.Errorf("Unexpected draft: %+v", draft)
	}
}

func TestAdvisorParseTransaction_ReportsServiceError(t *testing.T) {
	stub := &stubClient{err: errors.New("status 500")}
	advisor := testAdvisor(stub)
	defer advisor.Close()

	_, err := advisor.ParseTransaction(context.Background(), "algo", testSnapshot())
	var svcErr *common.ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Errorf("Expected ExternalServiceError, got %v", err)
	}
}

func TestBuildAnalysisPrompt_CapsTransactionCount(t *testing.T) {
	snap := testSnapshot()
	for i := 0; i < 50; i++ {
		snap.Transactions = append(snap.Transactions, model.Transaction{
			ID:          "bulk",
			Description: "relleno",
			Type:        model.TypeExpense,
			Amount:      1,
		})
	}

	prompt := BuildAnalysisPrompt(snap)
	if got := strings.Count(prompt, `"relleno"`); got > maxPromptTransactions {
		t.Errorf("Expected at most %d transactions in prompt, found %d", maxPromptTransactions, got)
	}
}
