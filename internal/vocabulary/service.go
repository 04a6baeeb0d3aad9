package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kotoba-nexus/backend/internal/content"
	"github.com/kotoba-nexus/backend/internal/models"
)

// Service serves the vocabulary datasets. Words are fetched from the
// content host on every call; the datasets are small.
type Service struct {
	content *content.Client
}

func NewService(contentClient *content.Client) *Service {
	return &Service{content: contentClient}
}

func (s *Service) GetVerbs(ctx context.Context) ([]models.Word, error) {
	return s.fetchWords(ctx, content.DatasetVerbs)
}

func (s *Service) GetAdjectives(ctx context.Context) ([]models.Word, error) {
	return s.fetchWords(ctx, content.DatasetAdjectives)
}

// GetAllWords returns both datasets plus a combined count.
func (s *Service) GetAllWords(ctx context.Context) (*models.WordList, error) {
	verbs, err := s.GetVerbs(ctx)
	if err != nil {
		return nil, err
	}
	adjectives, err := s.GetAdjectives(ctx)
	if err != nil {
		return nil, err
	}
	return &models.WordList{
		Verbs:      verbs,
		Adjectives: adjectives,
		TotalCount: len(verbs) + len(adjectives),
	}, nil
}

// GetWordByID looks the id up in verbs first, then adjectives, and tags
// the result with its word type. Returns nil when no word matches.
func (s *Service) GetWordByID(ctx context.Context, wordID string) (*models.Word, error) {
	verbs, err := s.GetVerbs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range verbs {
		if verbs[i].ID == wordID {
			word := verbs[i]
			word.WordType = "verb"
			return &word, nil
		}
	}

	adjectives, err := s.GetAdjectives(ctx)
	if err != nil {
		return nil, err
	}
	for i := range adjectives {
		if adjectives[i].ID == wordID {
			word := adjectives[i]
			word.WordType = "adjective"
			return &word, nil
		}
	}

	return nil, nil
}

// SearchWords does a case-insensitive substring match over japanese,
// english and romaji. Verb matches come before adjective matches.
func (s *Service) SearchWords(ctx context.Context, query string) ([]models.Word, error) {
	verbs, err := s.GetVerbs(ctx)
	if err != nil {
		return nil, err
	}
	adjectives, err := s.GetAdjectives(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []models.Word{}
	for _, word := range verbs {
		if wordMatches(word, q) {
			results = append(results, word)
		}
	}
	for _, word := range adjectives {
		if wordMatches(word, q) {
			results = append(results, word)
		}
	}
	return results, nil
}

func wordMatches(word models.Word, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(word.Japanese), lowerQuery) ||
		strings.Contains(strings.ToLower(word.English), lowerQuery) ||
		strings.Contains(strings.ToLower(word.Romaji), lowerQuery)
}

func (s *Service) fetchWords(ctx context.Context, dataset string) ([]models.Word, error) {
	body, err := s.content.FetchDataset(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", dataset, err)
	}
	var words []models.Word
	if err := json.Unmarshal(body, &words); err != nil {
		return nil, fmt.Errorf("decode %s: %w", dataset, err)
	}
	return words, nil
}
