package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient constructs a Gemini-backed generator.
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the prompt and returns the full response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}
