package kana

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kotoba-nexus/backend/internal/content"
	"github.com/kotoba-nexus/backend/internal/vision"
)

const kanaJSON = `{
	"hiragana": [
		{"character": "あ", "romaji": "a"},
		{"character": "か", "romaji": "ka"}
	],
	"katakana": [
		{"character": "ア", "romaji": "a"},
		{"character": "カ", "romaji": "ka"}
	]
}`

// fakeVision returns a canned answer or error without network calls.
type fakeVision struct {
	result *vision.Result
	err    error
}

func (f *fakeVision) ProcessImage(_ context.Context, _ []byte, _ string) (*vision.Result, error) {
	return f.result, f.err
}

func newTestService(t *testing.T, visionClient vision.Client) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seed/kana-data.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(kanaJSON))
	}))
	t.Cleanup(server.Close)
	return NewService(content.NewClientWithBaseURL(server.URL), visionClient)
}

func TestSearchKana(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	results, err := svc.SearchKana(ctx, "ka")
	if err != nil {
		t.Fatalf("SearchKana: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (hiragana and katakana ka)", len(results))
	}
	if results[0].Script != "hiragana" || results[1].Script != "katakana" {
		t.Errorf("scripts = %s/%s, want hiragana then katakana", results[0].Script, results[1].Script)
	}

	results, err = svc.SearchKana(ctx, "あ")
	if err != nil {
		t.Fatalf("SearchKana: %v", err)
	}
	if len(results) != 1 || results[0].Romaji != "a" {
		t.Errorf("character search results = %+v", results)
	}

	results, err = svc.SearchKana(ctx, "zo")
	if err != nil {
		t.Fatalf("SearchKana: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("no-match search returned %+v", results)
	}
}

func TestEvaluateImageParsesVerdict(t *testing.T) {
	fake := &fakeVision{result: &vision.Result{
		Success: true,
		Text:    "```json\n{\"character\": \"か\", \"script\": \"hiragana\", \"romanization\": \"ka\", \"quality_score\": 7, \"feedback\": \"Good balance.\", \"match\": true}\n```",
		Model:   "mock",
	}}
	svc := newTestService(t, fake)

	result := svc.EvaluateImage(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "character", "か")
	if !result.Success {
		t.Fatalf("success = false: %s", result.Error)
	}
	if result.Character != "か" || result.QualityScore != 7 {
		t.Errorf("parsed verdict = %+v", result)
	}
	if result.Match == nil || !*result.Match {
		t.Errorf("match = %v, want true", result.Match)
	}
	if result.ErrorParsing != "" || result.RawResponse != "" {
		t.Errorf("unexpected parse fallback fields: %+v", result)
	}
}

func TestEvaluateImageUnparseableAnswer(t *testing.T) {
	fake := &fakeVision{result: &vision.Result{
		Success: true,
		Text:    "The character looks like か, written quite well.",
		Model:   "mock",
	}}
	svc := newTestService(t, fake)

	result := svc.EvaluateImage(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "character", "")
	if !result.Success {
		t.Fatal("unparseable answer must still be a success")
	}
	if result.RawResponse == "" || result.ErrorParsing == "" {
		t.Errorf("missing raw_response/error_parsing: %+v", result)
	}
}

func TestEvaluateImageGatewayFailure(t *testing.T) {
	fake := &fakeVision{
		result: &vision.Result{Success: false, Error: "unsupported image format, expected JPEG or PNG"},
		err:    fmt.Errorf("validate image: unsupported image format"),
	}
	svc := newTestService(t, fake)

	result := svc.EvaluateImage(context.Background(), []byte("bogus"), "character", "")
	if result.Success {
		t.Fatal("gateway failure must not be a success")
	}
	if result.Error == "" {
		t.Error("error field is empty")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with preamble", "Here you go:\n```json\n{\"a\":1}\n```\nHope that helps.", `{"a":1}`},
		{"whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("%s: extractJSON = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUploadFileKey(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 30, 45, 0, time.UTC)
	got := uploadFileKey(now, "drawing.png")
	want := "user-uploads/20260828123045_drawing.png"
	if got != want {
		t.Errorf("uploadFileKey = %q, want %q", got, want)
	}
}
