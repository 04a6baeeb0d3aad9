package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Input != "konnichiwa" {
			t.Errorf("input = %q", req.Input)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	vector, err := client.Embed(context.Background(), "konnichiwa")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vector) != 3 || vector[0] != 0.1 {
		t.Errorf("vector = %v", vector)
	}
}

func TestEmbedRetriesOnServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{1}},
			},
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	vector, err := client.Embed(context.Background(), "retry me")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(vector) != 1 {
		t.Errorf("vector = %v", vector)
	}
}

func TestEmbedDoesNotRetryClientError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.Embed(context.Background(), "bad"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (400 is not retryable)", calls)
	}
}

func TestEmbedEmptyText(t *testing.T) {
	client := NewClientWithBaseURL("http://unused")
	if _, err := client.Embed(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty text")
	}
}
