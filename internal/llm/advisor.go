package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/service"
)

const analysisSystemPrompt = "Eres un asesor financiero senior. Respondes en español, " +
	"con un tono motivador pero profesional, usando Markdown para el formato."

const parseSystemPrompt = "Eres un asistente que convierte descripciones de movimientos " +
	"financieros en JSON. Respondes SOLO con un objeto JSON válido, sin texto adicional, " +
	"sin formato markdown. Empieza tu respuesta directamente con { y termina con }."

// AnalysisFallback is returned whenever the AI collaborator cannot be
// reached. The advisor never lets a provider failure surface to the
// caller as an error on the analysis path.
const AnalysisFallback = "No pude realizar el análisis en este momento. Por favor, intenta más tarde."

// maxPromptTransactions caps how many recent movements are included in
// the analysis prompt.
const maxPromptTransactions = 30

// Advisor wraps an AI client with rate limiting, retries, and the
// prompt construction for financial analysis and free-text parsing.
type Advisor struct {
	client  Client
	limiter *rateLimiter
	retry   service.RetryOptions
}

// NewAdvisor creates an advisor for the configured provider.
func NewAdvisor(cfg Config) (*Advisor, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return NewAdvisorWithClient(client, cfg), nil
}

// NewAdvisorWithClient wraps an existing client. Used directly by tests.
func NewAdvisorWithClient(client Client, cfg Config) *Advisor {
	retry := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
	}
	return &Advisor{
		client:  client,
		limiter: newRateLimiter(cfg.RateLimit),
		retry:   retry,
	}
}

// Close releases the advisor's rate limiter.
func (a *Advisor) Close() {
	a.limiter.Close()
}

// Analyze builds the financial-health prompt from the snapshot and asks
// the AI for advice. Provider failures degrade into a fallback message;
// this method never returns an error because advice is strictly
// best-effort and must not block any ledger workflow.
func (a *Advisor) Analyze(ctx context.Context, snap *model.Snapshot) string {
	prompt := BuildAnalysisPrompt(snap)

	var response AnalysisResponse
	err := common.WithRetry(ctx, func() error {
		if err := a.limiter.wait(ctx); err != nil {
			return err
		}
		var genErr error
		response, genErr = a.client.Analyze(ctx, prompt)
		return genErr
	}, a.retry)
	if err != nil {
		slog.Error("financial analysis failed",
			"error", common.NewExternalServiceError("AI advisor", err))
		return AnalysisFallback
	}
	return response.Text
}

// ParseTransaction reads a free-text movement description into a draft.
// Unlike Analyze, callers need the structured result, so failures are
// reported as an ExternalServiceError.
func (a *Advisor) ParseTransaction(ctx context.Context, text string, snap *model.Snapshot) (DraftTransaction, error) {
	prompt := BuildParsePrompt(text, snap)

	var draft DraftTransaction
	err := common.WithRetry(ctx, func() error {
		if err := a.limiter.wait(ctx); err != nil {
			return err
		}
		var genErr error
		draft, genErr = a.client.ParseTransaction(ctx, prompt)
		return genErr
	}, a.retry)
	if err != nil {
		return DraftTransaction{}, common.NewExternalServiceError("AI advisor", err)
	}
	return draft, nil
}

// BuildAnalysisPrompt renders the analysis request: the most recent
// movements, the budgets, the debts, and the profile currency.
func BuildAnalysisPrompt(snap *model.Snapshot) string {
	txns := snap.Transactions
	if len(txns) > maxPromptTransactions {
		txns = txns[:maxPromptTransactions]
	}

	var b strings.Builder
	b.WriteString("Como un experto asesor financiero senior, analiza los siguientes datos ")
	b.WriteString("de la aplicación FINANZAS PRO y proporciona consejos accionables.\n\n")
	b.WriteString("DATOS:\n")
	fmt.Fprintf(&b, "- Movimientos recientes: %s\n", compactJSON(txns))
	fmt.Fprintf(&b, "- Presupuestos: %s\n", compactJSON(snap.Budgets))
	fmt.Fprintf(&b, "- Deudas: %s\n", compactJSON(snap.Debts))
	fmt.Fprintf(&b, "- Moneda: %s\n\n", snap.Settings.Currency)
	b.WriteString("PROPORCIONA:\n")
	b.WriteString("1. Un resumen breve del estado de salud financiera actual (Excelente, Bueno, Regular, Crítico).\n")
	b.WriteString("2. Identificación de patrones de gasto inusuales o excesivos.\n")
	b.WriteString("3. 3 consejos específicos para reducir gastos basados en las categorías más altas.\n")
	b.WriteString("4. Un comentario sobre la gestión de deudas.\n\n")
	b.WriteString("Formato: Máximo 300 palabras.\n")
	return b.String()
}

// BuildParsePrompt renders the free-text parsing request, listing the
// category and account names the model may reference.
func BuildParsePrompt(text string, snap *model.Snapshot) string {
	categories := make([]string, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		categories = append(categories, c.Name)
	}
	accounts := make([]string, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		accounts = append(accounts, a.Name)
	}

	var b strings.Builder
	b.WriteString("Convierte esta descripción de un movimiento financiero en JSON con los campos: ")
	b.WriteString(`description (string), amount (número positivo), type ("income", "expense", "transfer" o "debt_payment"), `)
	b.WriteString("category (uno de los nombres listados), account (uno de los nombres listados), ")
	b.WriteString("targetAccount (solo para transferencias), date (YYYY-MM-DD, omite si no se menciona).\n\n")
	fmt.Fprintf(&b, "Categorías disponibles: %s\n", strings.Join(categories, ", "))
	fmt.Fprintf(&b, "Cuentas disponibles: %s\n\n", strings.Join(accounts, ", "))
	fmt.Fprintf(&b, "Descripción: %s\n", text)
	return b.String()
}

func compactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
