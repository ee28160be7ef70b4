package config

import (
	"fmt"
	"os"
)

// Provider names for the generative text service.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port     string
	DBPath   string
	Timezone string
	Token    string // optional bearer token; empty disables auth

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string

	DifyAPIKey    string
	DifyDatasetID string
	DifyBaseURL   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("MULOG_PORT", "8080"),
		DBPath:   getEnv("MULOG_DB_PATH", ""),
		Timezone: getEnv("MULOG_TIMEZONE", "Asia/Seoul"),
		Token:    getEnv("MULOG_TOKEN", ""),

		LLMProvider:  getEnv("MULOG_LLM_PROVIDER", ProviderGemini),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		DifyAPIKey:    getEnv("DIFY_API_KEY", ""),
		DifyDatasetID: getEnv("DIFY_DATASET_ID", ""),
		DifyBaseURL:   getEnv("DIFY_BASE_URL", "https://api.dify.ai/v1"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("MULOG_DB_PATH is required")
	}
	if c.LLMProvider != ProviderGemini && c.LLMProvider != ProviderOpenAI {
		return fmt.Errorf("MULOG_LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLMProvider)
	}
	return nil
}

// LLMAPIKey returns the key for the selected provider. Absence is not a
// startup failure: CRUD endpoints must work without AI credentials, so the
// report and chat orchestrators check this at their own entry.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// RetrievalConfigured reports whether the Dify credentials are present.
func (c *Config) RetrievalConfigured() bool {
	return c.DifyAPIKey != "" && c.DifyDatasetID != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
