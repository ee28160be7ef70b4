// Package chat answers free-form hydration questions by retrieving passages
// from the knowledge base and generating a grounded answer.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/jiyunpark/mulog/internal/llm"
	"github.com/jiyunpark/mulog/internal/models"
)

// TopK is the number of passages fetched per question.
const TopK = 3

const answerTimeout = 60 * time.Second

// Retriever fetches passages relevant to a query. *retrieval.Client
// satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]models.Passage, error)
}

// Service is the retrieve-then-generate answer pipeline.
type Service struct {
	retriever Retriever
	llm       llm.Generator
}

// NewService wires the pipeline. Both dependencies must be configured;
// absence is caught here rather than on the first question.
func NewService(retriever Retriever, gen llm.Generator) (*Service, error) {
	if retriever == nil {
		return nil, models.ConfigurationError("knowledge-base retrieval is not configured")
	}
	if gen == nil {
		return nil, models.ConfigurationError("generative service credentials are not configured")
	}
	return &Service{retriever: retriever, llm: gen}, nil
}

// Answer runs one question through retrieval and generation. The question is
// validated before either external service is touched. Zero retrieved
// passages is not an error; the answer is generated against an explicit
// no-material placeholder instead.
func (s *Service) Answer(ctx context.Context, question string) (*models.ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, models.ValidationError("question must not be empty")
	}

	passages, err := s.retriever.Retrieve(ctx, question, TopK)
	if err != nil {
		return nil, models.RetrievalError("failed to search the knowledge base", err)
	}

	prompt := BuildAnswerPrompt(question, passages)

	genCtx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()

	answer, err := s.llm.Generate(genCtx, prompt)
	if err != nil {
		return nil, models.GenerationError("failed to generate an answer, please try again shortly", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, models.GenerationError("the AI service returned an empty answer", nil)
	}

	if passages == nil {
		passages = []models.Passage{}
	}
	return &models.ChatResult{Answer: answer, Sources: passages}, nil
}
