package listening

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/kotoba-nexus/backend/internal/models"
)

const defaultScanLimit = 10000

// Embedder turns text into a vector. Satisfied by embedding.Client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore keeps transcript embeddings in Postgres and ranks them
// by cosine similarity in-process. The corpus is small enough that a
// bounded scan beats running a separate vector database.
type VectorStore struct {
	db        *sql.DB
	embedder  Embedder
	scanLimit int
}

func NewVectorStore(db *sql.DB, embedder Embedder) *VectorStore {
	scanLimit := defaultScanLimit
	if v := os.Getenv("TRANSCRIPT_SCAN_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			scanLimit = n
		}
	}
	return &VectorStore{db: db, embedder: embedder, scanLimit: scanLimit}
}

// AddTranscriptions embeds each text and persists it.
func (vs *VectorStore) AddTranscriptions(ctx context.Context, texts []string) error {
	for _, text := range texts {
		vector, err := vs.embedder.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("embed transcription: %w", err)
		}
		encoded, err := json.Marshal(vector)
		if err != nil {
			return fmt.Errorf("encode embedding: %w", err)
		}
		_, err = vs.db.ExecContext(ctx,
			`INSERT INTO transcripts (content, embedding) VALUES ($1, $2)`,
			text, encoded,
		)
		if err != nil {
			return fmt.Errorf("insert transcript: %w", err)
		}
	}
	return nil
}

// SearchSimilar embeds the query and returns the topK most similar
// stored transcripts.
func (vs *VectorStore) SearchSimilar(ctx context.Context, query string, topK int) ([]models.TranscriptMatch, error) {
	queryVector, err := vs.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := vs.db.QueryContext(ctx,
		`SELECT content, embedding FROM transcripts ORDER BY id DESC LIMIT $1`,
		vs.scanLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("scan transcripts: %w", err)
	}
	defer rows.Close()

	var matches []models.TranscriptMatch
	for rows.Next() {
		var content string
		var encoded []byte
		if err := rows.Scan(&content, &encoded); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		var vector []float32
		if err := json.Unmarshal(encoded, &vector); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		matches = append(matches, models.TranscriptMatch{
			Text:  content,
			Score: cosineSimilarity(queryVector, vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}

	return topMatches(matches, topK), nil
}

// topMatches sorts by score descending and keeps the first k.
func topMatches(matches []models.TranscriptMatch, k int) []models.TranscriptMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
