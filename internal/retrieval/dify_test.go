package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRetrieve(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody retrieveRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(retrieveResponse{
			Query: gotBody.Query,
			Chunks: []retrieveChunk{
				{Content: "Drink steadily.", DocumentName: "guide.md", Score: 0.9, ChunkID: "c1", DocumentID: "d1"},
				{Content: "Unnamed passage.", Score: 0.5},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "ds-1")

	passages, err := client.Retrieve(context.Background(), "how much water", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if gotPath != "/datasets/ds-1/retrieve" {
		t.Errorf("expected dataset retrieve path, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotBody.Query != "how much water" || gotBody.TopK != 3 {
		t.Errorf("unexpected request body %+v", gotBody)
	}

	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].Source != "guide.md" {
		t.Errorf("expected document name as source, got %q", passages[0].Source)
	}
	if passages[0].ChunkID != "c1" || passages[0].DocumentID != "d1" {
		t.Errorf("expected chunk metadata preserved, got %+v", passages[0])
	}
	// No name anywhere: positional fallback label
	if passages[1].Source != "document 2" {
		t.Errorf("expected fallback source label, got %q", passages[1].Source)
	}
}

func TestRetrieveUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "ds-1")

	_, err := client.Retrieve(context.Background(), "q", 3)
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestRetrieveEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(retrieveResponse{Query: "q"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "ds-1")

	passages, err := client.Retrieve(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("expected no passages, got %d", len(passages))
	}
}
