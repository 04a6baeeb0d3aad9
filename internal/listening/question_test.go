package listening

import (
	"context"
	"testing"

	"github.com/kotoba-nexus/backend/internal/models"
)

const validQuestionJSON = `{
	"question": "What time does the train leave?",
	"options": ["7:00", "7:30", "8:00", "8:30"],
	"correct_answer": "7:30",
	"context": "電車は七時半に出発します。"
}`

func TestParseQuestion(t *testing.T) {
	question, err := parseQuestion(validQuestionJSON)
	if err != nil {
		t.Fatalf("parseQuestion: %v", err)
	}
	if question.Question == "" || question.CorrectAnswer != "7:30" {
		t.Errorf("question = %+v", question)
	}
	if len(question.Options) != 4 {
		t.Errorf("options = %d, want 4", len(question.Options))
	}
}

func TestParseQuestionFenced(t *testing.T) {
	question, err := parseQuestion("```json\n" + validQuestionJSON + "\n```")
	if err != nil {
		t.Fatalf("parseQuestion with fences: %v", err)
	}
	if question.CorrectAnswer != "7:30" {
		t.Errorf("correct_answer = %q", question.CorrectAnswer)
	}
}

func TestParseQuestionRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "the train leaves at 7:30"},
		{"empty question", `{"question":"","options":["a","b","c","d"],"correct_answer":"a"}`},
		{"three options", `{"question":"q","options":["a","b","c"],"correct_answer":"a"}`},
		{"five options", `{"question":"q","options":["a","b","c","d","e"],"correct_answer":"a"}`},
		{"missing correct answer", `{"question":"q","options":["a","b","c","d"],"correct_answer":""}`},
		{"answer not in options", `{"question":"q","options":["a","b","c","d"],"correct_answer":"z"}`},
	}

	for _, tt := range tests {
		if _, err := parseQuestion(tt.in); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestQuestionGeneratorFromContext(t *testing.T) {
	generator := NewQuestionGeneratorWithLLM(&mockLLM{})

	question, err := generator.FromContext(context.Background(), "transcript text", "train travel", "")
	if err != nil {
		t.Fatalf("FromContext: %v", err)
	}
	if len(question.Options) != 4 {
		t.Errorf("options = %d, want 4", len(question.Options))
	}
	if question.CorrectAnswer == "" {
		t.Error("correct_answer is empty")
	}
}

func TestQuestionGeneratorFromWord(t *testing.T) {
	generator := NewQuestionGeneratorWithLLM(&mockLLM{})
	word := &models.Word{ID: "v1", Japanese: "食べる", English: "to eat", Romaji: "taberu"}

	question, err := generator.FromWord(context.Background(), word)
	if err != nil {
		t.Fatalf("FromWord: %v", err)
	}
	if question.AudioText == "" {
		t.Error("audio_text is empty")
	}
}
