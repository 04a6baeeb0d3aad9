package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchDataset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed/data_verbs.json" {
			t.Errorf("path = %s, want /seed/data_verbs.json", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"v1"}]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	body, err := client.FetchDataset(context.Background(), DatasetVerbs)
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if string(body) != `[{"id":"v1"}]` {
		t.Errorf("body = %s", body)
	}
}

func TestFetchDatasetNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.FetchDataset(context.Background(), "missing.json"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchDatasetNoCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.FetchDataset(context.Background(), DatasetKana); err != nil {
			t.Fatalf("FetchDataset: %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("server saw %d calls, want 3", calls)
	}
}
