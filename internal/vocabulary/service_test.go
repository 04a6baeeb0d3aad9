package vocabulary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kotoba-nexus/backend/internal/content"
)

const (
	verbsJSON = `[
		{"id":"v1","japanese":"食べる","english":"to eat","romaji":"taberu"},
		{"id":"v2","japanese":"飲む","english":"to drink","romaji":"nomu"}
	]`
	adjectivesJSON = `[
		{"id":"a1","japanese":"大きい","english":"big","romaji":"ookii"},
		{"id":"a2","japanese":"高い","english":"tall, expensive","romaji":"takai"}
	]`
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/seed/data_verbs.json":
			w.Write([]byte(verbsJSON))
		case "/seed/data_adjectives.json":
			w.Write([]byte(adjectivesJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return NewService(content.NewClientWithBaseURL(server.URL))
}

func TestGetAllWords(t *testing.T) {
	svc := newTestService(t)

	list, err := svc.GetAllWords(context.Background())
	if err != nil {
		t.Fatalf("GetAllWords: %v", err)
	}
	if len(list.Verbs) != 2 || len(list.Adjectives) != 2 {
		t.Errorf("verbs=%d adjectives=%d, want 2/2", len(list.Verbs), len(list.Adjectives))
	}
	if list.TotalCount != 4 {
		t.Errorf("total_count = %d, want 4", list.TotalCount)
	}
}

func TestGetWordByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	word, err := svc.GetWordByID(ctx, "a2")
	if err != nil {
		t.Fatalf("GetWordByID: %v", err)
	}
	if word == nil {
		t.Fatal("word a2 not found")
	}
	if word.WordType != "adjective" {
		t.Errorf("word_type = %q, want adjective", word.WordType)
	}

	word, err = svc.GetWordByID(ctx, "v1")
	if err != nil {
		t.Fatalf("GetWordByID: %v", err)
	}
	if word == nil || word.WordType != "verb" {
		t.Errorf("v1 = %+v, want verb", word)
	}

	word, err = svc.GetWordByID(ctx, "zzz")
	if err != nil {
		t.Fatalf("GetWordByID: %v", err)
	}
	if word != nil {
		t.Errorf("unknown id returned %+v, want nil", word)
	}
}

func TestSearchWords(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		query   string
		wantIDs []string
	}{
		{"taberu", []string{"v1"}},
		{"TAKAI", []string{"a2"}},   // case-insensitive
		{"大きい", []string{"a1"}},     // japanese match
		{"i", []string{"v2", "a1", "a2"}}, // verbs ordered before adjectives
		{"xyzzy", nil},
	}

	for _, tt := range tests {
		results, err := svc.SearchWords(ctx, tt.query)
		if err != nil {
			t.Fatalf("SearchWords(%q): %v", tt.query, err)
		}
		if len(results) != len(tt.wantIDs) {
			t.Errorf("SearchWords(%q) returned %d results, want %d", tt.query, len(results), len(tt.wantIDs))
			continue
		}
		for i, id := range tt.wantIDs {
			if results[i].ID != id {
				t.Errorf("SearchWords(%q)[%d] = %s, want %s", tt.query, i, results[i].ID, id)
			}
		}
	}
}
