package llm

import (
	"context"

	"github.com/jiyunpark/mulog/internal/config"
	"github.com/jiyunpark/mulog/internal/models"
)

// Generator is the single operation the report and chat orchestrators need
// from a generative text service: one prompt in, full text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New builds the Generator selected by the configuration. A missing API key
// is a configuration fault, surfaced as such so request handlers can map it
// without reaching the network.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, models.ConfigurationError("OPENAI_API_KEY is not set")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		if cfg.GeminiAPIKey == "" {
			return nil, models.ConfigurationError("GEMINI_API_KEY is not set")
		}
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
