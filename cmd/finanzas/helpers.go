package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/config"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/llm"
	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/service"
	"github.com/finanzaspro/finanzas/internal/storage"
)

// initStorage initializes the configured persistence backend with proper
// path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	backend := viper.GetString("storage.backend")

	var store service.Storage
	var err error

	switch backend {
	case "", "sqlite":
		dbPath := viper.GetString("database.path")
		if dbPath == "" {
			dbPath = config.DefaultDataPath("finanzas.db")
		}
		store, err = storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	case "json":
		snapPath := viper.GetString("snapshot.path")
		if snapPath == "" {
			snapPath = config.DefaultDataPath("finanzas.json")
		}
		store, err = storage.NewJSONStorage(config.ExpandPath(snapPath))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want sqlite or json)", backend)
	}
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initLedger opens storage and loads the full snapshot into a ledger.
// The caller owns the returned storage and must close it.
func initLedger(ctx context.Context) (*ledger.Ledger, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	led := ledger.New(store)
	if err := led.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return led, store, nil
}

// initAdvisor builds the AI advisor. An API key stored in settings takes
// precedence over the config file and environment.
func initAdvisor(settings model.Settings) (*llm.Advisor, error) {
	cfg := config.LoadLLMConfig()
	if settings.AIAPIKey != "" {
		cfg.APIKey = settings.AIAPIKey
	}
	if cfg.APIKey == "" {
		return nil, common.NewUserError(
			"no AI API key configured: set ai.api_key, the provider's environment variable, or 'finanzas settings set --ai-api-key'", nil)
	}
	return llm.NewAdvisor(cfg)
}

// findAccount resolves an account by id or (case-insensitive) name.
func findAccount(accounts []model.Account, key string) (*model.Account, error) {
	for i := range accounts {
		if accounts[i].ID == key || strings.EqualFold(accounts[i].Name, key) {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account %q not found", key)
}

// findCategory resolves a category by id or (case-insensitive) name.
func findCategory(categories []model.Category, key string) (*model.Category, error) {
	for i := range categories {
		if categories[i].ID == key || strings.EqualFold(categories[i].Name, key) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q not found", key)
}

// findDebt resolves a debt by id or (case-insensitive) name.
func findDebt(debts []model.Debt, key string) (*model.Debt, error) {
	for i := range debts {
		if debts[i].ID == key || strings.EqualFold(debts[i].Name, key) {
			return &debts[i], nil
		}
	}
	return nil, fmt.Errorf("debt %q not found", key)
}

// findObligation resolves an obligation by id or (case-insensitive)
// description.
func findObligation(obligations []model.Obligation, key string) (*model.Obligation, error) {
	for i := range obligations {
		if obligations[i].ID == key || strings.EqualFold(obligations[i].Description, key) {
			return &obligations[i], nil
		}
	}
	return nil, fmt.Errorf("obligation %q not found", key)
}

// parseDate accepts YYYY-MM-DD dates plus the shorthands "today" and
// "yesterday". An empty value means today. The shorthands resolve on
// the local calendar day, pinned to UTC midnight like every stored
// transaction date.
func parseDate(value string) (time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch strings.ToLower(value) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return date, nil
}

// parsePeriod accepts YYYY-MM month selectors. An empty value means all
// time.
func parsePeriod(value string) (model.Period, error) {
	if value == "" {
		return model.AllTime, nil
	}

	date, err := time.Parse("2006-01", value)
	if err != nil {
		return model.Period{}, fmt.Errorf("invalid month %q (want YYYY-MM)", value)
	}
	return model.Period{Year: date.Year(), Month: date.Month()}, nil
}

// formatMoney renders an amount with the profile currency symbol.
func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}
