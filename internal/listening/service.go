package listening

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kotoba-nexus/backend/internal/models"
	"github.com/kotoba-nexus/backend/internal/speech"
	"github.com/kotoba-nexus/backend/internal/storage"
	"github.com/kotoba-nexus/backend/internal/vocabulary"
)

// Service wires the listening practice pipeline: caption lookup,
// transcript retrieval, question generation and audio synthesis.
type Service struct {
	youtube     *YouTubeClient
	store       *VectorStore
	questions   *QuestionGenerator
	synthesizer *speech.Synthesizer
	bucket      *storage.Bucket
	vocabulary  *vocabulary.Service
}

func NewService(
	youtube *YouTubeClient,
	store *VectorStore,
	questions *QuestionGenerator,
	synthesizer *speech.Synthesizer,
	bucket *storage.Bucket,
	vocabularyService *vocabulary.Service,
) *Service {
	return &Service{
		youtube:     youtube,
		store:       store,
		questions:   questions,
		synthesizer: synthesizer,
		bucket:      bucket,
		vocabulary:  vocabularyService,
	}
}

// Transcribe resolves the subtitle URL for a YouTube video. Lang
// defaults to "en" to match the frontend player.
func (s *Service) Transcribe(ctx context.Context, videoURL, lang string) (*models.Transcription, error) {
	if lang == "" {
		lang = "en"
	}
	subtitleURL, err := s.youtube.SubtitleURL(ctx, videoURL, lang)
	if err != nil {
		return nil, err
	}
	return &models.Transcription{
		VideoURL:    videoURL,
		SubtitleURL: subtitleURL,
	}, nil
}

// StoreTranscriptions embeds and persists the given texts.
func (s *Service) StoreTranscriptions(ctx context.Context, texts []string) error {
	return s.store.AddTranscriptions(ctx, texts)
}

// GenerateQuestion retrieves the three most relevant transcripts for
// the topic and asks the generator to build a question from them.
func (s *Service) GenerateQuestion(ctx context.Context, topic, difficulty string) (*models.ListeningQuestion, error) {
	matches, err := s.store.SearchSimilar(ctx, topic, 3)
	if err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}

	texts := make([]string, len(matches))
	for i, match := range matches {
		texts[i] = match.Text
	}
	transcriptContext := strings.Join(texts, " ")

	return s.questions.FromContext(ctx, transcriptContext, topic, difficulty)
}

// GenerateAudio synthesizes the text, uploads the MP3 to the bucket
// and returns its public URL.
func (s *Service) GenerateAudio(ctx context.Context, text, voice string) (string, error) {
	audio, err := s.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		return "", fmt.Errorf("synthesize audio: %w", err)
	}

	key := fmt.Sprintf("tts/%s.mp3", uuid.NewString())
	if err := s.bucket.Upload(ctx, key, "audio/mpeg", bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	return s.bucket.PublicURL(key), nil
}

// VocabularyToQuestion builds a question plus spoken audio for one
// vocabulary word. Returns nil when the word does not exist.
func (s *Service) VocabularyToQuestion(ctx context.Context, wordID string) (*models.VocabularyQuestionResponse, error) {
	word, err := s.vocabulary.GetWordByID(ctx, wordID)
	if err != nil {
		return nil, fmt.Errorf("look up word: %w", err)
	}
	if word == nil {
		return nil, nil
	}

	question, err := s.questions.FromWord(ctx, word)
	if err != nil {
		return nil, err
	}

	audioText := question.AudioText
	if audioText == "" {
		audioText = word.Japanese
	}
	audioURL, err := s.GenerateAudio(ctx, audioText, "")
	if err != nil {
		return nil, err
	}

	return &models.VocabularyQuestionResponse{
		Success:       true,
		Word:          word,
		Question:      question.Question,
		Options:       question.Options,
		CorrectAnswer: question.CorrectAnswer,
		AudioURL:      audioURL,
	}, nil
}
