package chat

import (
	"fmt"
	"strings"

	"github.com/jiyunpark/mulog/internal/models"
)

// noMaterialPlaceholder stands in for the context block when retrieval
// returned nothing, so the model is told explicitly that it has no material
// rather than being handed an empty section.
const noMaterialPlaceholder = "(no supporting material)"

const answerPromptTemplate = `You are a hydration coach for a personal water-intake tracking app.
Answer the user's question using only the reference material below.

## Reference material
%s

## Question
%s

## Instructions
- Ground your answer strictly in the reference material. If the material does not cover the question, say so honestly instead of guessing.
- Keep a warm but professional tone.
- Answer in markdown.
- End the answer by citing the sources you used.`

// BuildAnswerPrompt renders the retrieved passages and the question into the
// grounded-answer prompt.
func BuildAnswerPrompt(question string, passages []models.Passage) string {
	return fmt.Sprintf(answerPromptTemplate, formatPassages(passages), question)
}

func formatPassages(passages []models.Passage) string {
	if len(passages) == 0 {
		return noMaterialPlaceholder
	}
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("[source: %s]\n%s", p.Source, p.Content))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
