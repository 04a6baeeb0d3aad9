package listening

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/kotoba-nexus/backend/internal/models"
)

const questionSystemPrompt = `You write Japanese listening comprehension questions for language learners.
Always answer with a single JSON object, no prose and no markdown fences.`

// LLM is the interface both question generator backends satisfy.
type LLM interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// QuestionGenerator builds multiple-choice listening questions from
// transcript context or a vocabulary word.
type QuestionGenerator struct {
	llm LLM
}

func NewQuestionGenerator() *QuestionGenerator {
	if os.Getenv("MOCK_GENERATOR") == "true" {
		log.Println("Question generator using mock data")
		return &QuestionGenerator{llm: &mockLLM{}}
	}

	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-opus-4-5-20251101"
	}
	log.Println("Question generator using Anthropic API:", model)
	return &QuestionGenerator{llm: newAnthropicLLM(model)}
}

func NewQuestionGeneratorWithLLM(llm LLM) *QuestionGenerator {
	return &QuestionGenerator{llm: llm}
}

// FromContext builds a question grounded in retrieved transcript text.
func (g *QuestionGenerator) FromContext(ctx context.Context, transcriptContext, topic, difficulty string) (*models.ListeningQuestion, error) {
	if difficulty == "" {
		difficulty = "medium"
	}
	userPrompt := fmt.Sprintf(`Create one %s-difficulty listening comprehension question about "%s".
Base it on this transcript material:

%s

Respond with JSON fields:
- question: the question text in English
- options: exactly 4 answer options
- correct_answer: the correct option, copied verbatim from options
- context: the transcript sentence the question is based on`, difficulty, topic, transcriptContext)

	return g.generate(ctx, userPrompt)
}

// FromWord builds a question that tests one vocabulary word and the
// Japanese sentence to synthesize for it.
func (g *QuestionGenerator) FromWord(ctx context.Context, word *models.Word) (*models.ListeningQuestion, error) {
	userPrompt := fmt.Sprintf(`Create one listening comprehension question testing the Japanese word "%s" (%s, romaji: %s).
Respond with JSON fields:
- question: the question text in English
- options: exactly 4 answer options
- correct_answer: the correct option, copied verbatim from options
- context: a short explanation of the answer
- audio_text: one natural Japanese sentence using the word, to be spoken aloud`,
		word.Japanese, word.English, word.Romaji)

	return g.generate(ctx, userPrompt)
}

func (g *QuestionGenerator) generate(ctx context.Context, userPrompt string) (*models.ListeningQuestion, error) {
	answer, err := g.llm.Generate(ctx, questionSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	question, err := parseQuestion(answer)
	if err != nil {
		return nil, fmt.Errorf("parse question: %w", err)
	}
	return question, nil
}

func parseQuestion(answer string) (*models.ListeningQuestion, error) {
	var question models.ListeningQuestion
	if err := json.Unmarshal([]byte(stripCodeFences(answer)), &question); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}

	if question.Question == "" {
		return nil, fmt.Errorf("question text is empty")
	}
	if len(question.Options) != 4 {
		return nil, fmt.Errorf("expected 4 options, got %d", len(question.Options))
	}
	if question.CorrectAnswer == "" {
		return nil, fmt.Errorf("correct_answer is empty")
	}
	found := false
	for _, option := range question.Options {
		if option == question.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("correct_answer %q is not one of the options", question.CorrectAnswer)
	}
	return &question, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ── anthropicLLM — Anthropic SDK (Production) ──────────────

type anthropicLLM struct {
	client *anthropic.Client
	model  string
}

func newAnthropicLLM(model string) *anthropicLLM {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &anthropicLLM{client: &client, model: model}
}

func (l *anthropicLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(l.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic question call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := l.client.Messages.New(ctx, params)
		if err != nil {
			lastErr = err
			log.Printf("Anthropic question attempt %d failed: %v", attempt+1, err)
			continue
		}
		for _, block := range message.Content {
			if block.Type == "text" {
				return block.Text, nil
			}
		}
		return "", fmt.Errorf("no text content in API response")
	}
	return "", fmt.Errorf("anthropic question generation failed after retries: %w", lastErr)
}

// ── mockLLM — Local Development ────────────────────────────

type mockLLM struct{}

func (m *mockLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return `{
		"question": "[Mock] What does the speaker say they will do tomorrow?",
		"options": ["Go shopping", "Study Japanese", "Visit a friend", "Stay home"],
		"correct_answer": "Study Japanese",
		"context": "[Mock] 明日は日本語を勉強します。",
		"audio_text": "明日は日本語を勉強します。"
	}`, nil
}
