package listening

import (
	"math"
	"testing"

	"github.com/kotoba-nexus/backend/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 2}, []float32{2, 4}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1, 2, 3}, []float32{1, 2}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		got := cosineSimilarity(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: cosine = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTopMatches(t *testing.T) {
	matches := []models.TranscriptMatch{
		{Text: "low", Score: 0.1},
		{Text: "high", Score: 0.9},
		{Text: "mid", Score: 0.5},
		{Text: "mid2", Score: 0.5},
	}

	top := topMatches(matches, 3)
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	if top[0].Text != "high" {
		t.Errorf("top[0] = %s, want high", top[0].Text)
	}
	// Stable sort keeps equal-score entries in insertion order.
	if top[1].Text != "mid" || top[2].Text != "mid2" {
		t.Errorf("ties reordered: %s, %s", top[1].Text, top[2].Text)
	}

	if got := topMatches([]models.TranscriptMatch{{Text: "only", Score: 1}}, 5); len(got) != 1 {
		t.Errorf("k larger than corpus returned %d matches", len(got))
	}
	if got := topMatches(nil, 3); len(got) != 0 {
		t.Errorf("empty corpus returned %d matches", len(got))
	}
}
