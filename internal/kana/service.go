package kana

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kotoba-nexus/backend/internal/content"
	"github.com/kotoba-nexus/backend/internal/models"
	"github.com/kotoba-nexus/backend/internal/vision"
)

const evaluatePrompt = `Please analyze this image containing a handwritten Japanese kana character.

1. Identify the kana character visible in the image
2. Indicate whether it's hiragana or katakana
3. Provide the romanization of the character
4. Rate the character formation on a scale of 1-10

Format your response as a JSON object with the fields:
- character: The identified kana character
- script: Either "hiragana" or "katakana"
- romanization: The romanization of the character
- quality_score: A number 1-10 rating how well-formed the character is
- feedback: Brief feedback on the character formation

Return only the JSON object, no other text.`

type Service struct {
	content *content.Client
	vision  vision.Client
}

func NewService(contentClient *content.Client, visionClient vision.Client) *Service {
	return &Service{content: contentClient, vision: visionClient}
}

// GetKana fetches the hiragana and katakana character tables.
func (s *Service) GetKana(ctx context.Context) (models.KanaData, error) {
	body, err := s.content.FetchDataset(ctx, content.DatasetKana)
	if err != nil {
		return nil, fmt.Errorf("fetch kana data: %w", err)
	}
	var data models.KanaData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode kana data: %w", err)
	}
	return data, nil
}

// SearchKana matches the query against characters and romaji across
// both scripts. Hiragana entries come before katakana entries.
func (s *Service) SearchKana(ctx context.Context, query string) ([]models.KanaSearchResult, error) {
	data, err := s.GetKana(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []models.KanaSearchResult{}
	for _, script := range []string{"hiragana", "katakana"} {
		for _, item := range data[script] {
			if strings.Contains(item.Character, q) || strings.Contains(strings.ToLower(item.Romaji), q) {
				results = append(results, models.KanaSearchResult{
					Character: item.Character,
					Romaji:    item.Romaji,
					Script:    script,
				})
			}
		}
	}
	return results, nil
}

// EvaluateImage sends the handwritten image to the vision gateway and
// parses the model's JSON verdict. An unparseable answer is still a
// success: the raw text and parse error are returned for the caller to
// surface. A gateway failure yields success=false with the error.
func (s *Service) EvaluateImage(ctx context.Context, imageData []byte, evalType, expectedKana string) *models.KanaEvaluation {
	prompt := evaluatePrompt
	if expectedKana != "" {
		prompt += fmt.Sprintf("\n\nThe expected kana character is '%s'. Please include a 'match' field in your response that is true if the written character matches the expected one, false otherwise.", expectedKana)
	}

	result, err := s.vision.ProcessImage(ctx, imageData, prompt)
	if err != nil || !result.Success {
		evaluation := &models.KanaEvaluation{Success: false}
		if result != nil && result.Error != "" {
			evaluation.Error = result.Error
		} else if err != nil {
			evaluation.Error = err.Error()
		}
		return evaluation
	}

	var evaluation models.KanaEvaluation
	if err := json.Unmarshal([]byte(extractJSON(result.Text)), &evaluation); err != nil {
		return &models.KanaEvaluation{
			Success:      true,
			RawResponse:  result.Text,
			ErrorParsing: err.Error(),
		}
	}
	evaluation.Success = true
	return &evaluation
}

// extractJSON pulls the JSON body out of a model answer that may wrap
// it in a markdown code fence anywhere in the text.
func extractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
