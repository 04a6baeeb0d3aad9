package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MaxImageBytes is the largest payload accepted for analysis. Larger
// uploads are rejected before any API call is made.
const MaxImageBytes = 5 << 20

// Client is the interface both vision implementations satisfy.
type Client interface {
	ProcessImage(ctx context.Context, imageData []byte, prompt string) (*Result, error)
}

// Result holds the model's text answer for an analyzed image.
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Model   string `json:"model,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewClient selects the implementation from the environment.
func NewClient() Client {
	if os.Getenv("MOCK_VISION") == "true" {
		log.Println("Vision using mock data")
		return NewMockClient()
	}

	model := os.Getenv("ANTHROPIC_VISION_MODEL")
	if model == "" {
		model = "claude-opus-4-5-20251101"
	}
	log.Println("Vision using Anthropic API:", model)
	return NewAPIClient(model)
}

// validateImage rejects payloads that are empty, oversized, or not a
// recognizable JPEG/PNG before the image ever reaches the API.
func validateImage(imageData []byte) error {
	if len(imageData) == 0 {
		return fmt.Errorf("empty image payload")
	}
	if len(imageData) > MaxImageBytes {
		return fmt.Errorf("image exceeds %d byte limit", MaxImageBytes)
	}
	if mediaType(imageData) == "" {
		return fmt.Errorf("unsupported image format, expected JPEG or PNG")
	}
	return nil
}

func mediaType(imageData []byte) string {
	if len(imageData) >= 3 && bytes.Equal(imageData[:3], []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg"
	}
	if len(imageData) >= 8 && bytes.Equal(imageData[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png"
	}
	return ""
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) ProcessImage(ctx context.Context, imageData []byte, prompt string) (*Result, error) {
	if err := validateImage(imageData); err != nil {
		return &Result{Success: false, Error: err.Error()}, fmt.Errorf("validate image: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				anthropic.NewImageBlockBase64(mediaType(imageData), base64.StdEncoding.EncodeToString(imageData)),
			),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		err := fmt.Errorf("no text content in API response")
		return &Result{Success: false, Error: err.Error()}, err
	}

	return &Result{
		Success: true,
		Text:    responseText,
		Model:   string(message.Model),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic vision call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic vision attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic vision failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ProcessImage(ctx context.Context, imageData []byte, prompt string) (*Result, error) {
	if err := validateImage(imageData); err != nil {
		return &Result{Success: false, Error: err.Error()}, fmt.Errorf("validate image: %w", err)
	}
	return &Result{
		Success: true,
		Text:    `{"character": "あ", "script": "hiragana", "romanization": "a", "quality_score": 8, "feedback": "[Mock] Clean strokes with good balance."}`,
		Model:   "mock",
	}, nil
}
