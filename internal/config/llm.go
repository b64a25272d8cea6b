package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/finanzaspro/finanzas/internal/llm"
)

// LoadLLMConfig builds the AI advisor configuration. It follows this
// precedence:
// 1. Viper configuration (from config file or FINANZAS_ env vars)
// 2. Provider-specific environment variables (GEMINI_API_KEY, ...)
// 3. Default values
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    viper.GetString("ai.provider"),
		APIKey:      viper.GetString("ai.api_key"),
		Model:       viper.GetString("ai.model"),
		MaxRetries:  viper.GetInt("ai.max_retries"),
		RateLimit:   viper.GetInt("ai.rate_limit"),
		Temperature: viper.GetFloat64("ai.temperature"),
		MaxTokens:   viper.GetInt("ai.max_tokens"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "gemini"
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 30
	}

	return cfg
}

func apiKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}
