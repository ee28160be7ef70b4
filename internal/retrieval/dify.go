package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jiyunpark/mulog/internal/models"
)

// Client calls the Dify dataset retrieval API to find knowledge-base
// passages relevant to a question.
type Client struct {
	baseURL    string
	apiKey     string
	datasetID  string
	httpClient *http.Client
}

// NewClient creates a Dify retrieval client.
func NewClient(baseURL, apiKey, datasetID string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		datasetID: datasetID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type retrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type retrieveChunk struct {
	Content      string  `json:"content"`
	Score        float64 `json:"score,omitempty"`
	Source       string  `json:"source,omitempty"`
	ChunkID      string  `json:"chunk_id,omitempty"`
	DocumentID   string  `json:"document_id,omitempty"`
	DocumentName string  `json:"document_name,omitempty"`
}

type retrieveResponse struct {
	Chunks []retrieveChunk `json:"chunks"`
	Query  string          `json:"query"`
}

// Retrieve returns up to topK passages ranked by relevance to the query.
func (c *Client) Retrieve(ctx context.Context, query string, topK int) ([]models.Passage, error) {
	body, err := json.Marshal(retrieveRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/datasets/%s/retrieve", c.baseURL, c.datasetID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dify returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var retResp retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&retResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	passages := make([]models.Passage, 0, len(retResp.Chunks))
	for i, chunk := range retResp.Chunks {
		source := chunk.DocumentName
		if source == "" {
			source = chunk.Source
		}
		if source == "" {
			source = fmt.Sprintf("document %d", i+1)
		}
		passages = append(passages, models.Passage{
			Content:    chunk.Content,
			Source:     source,
			ChunkID:    chunk.ChunkID,
			DocumentID: chunk.DocumentID,
			Score:      chunk.Score,
		})
	}
	return passages, nil
}
