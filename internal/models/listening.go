package models

// ── Transcription ────────────────────────────────────────

type TranscribeRequest struct {
	YouTubeURL string `json:"youtube_url"`
	Lang       string `json:"lang,omitempty"`
}

type Transcription struct {
	VideoURL    string `json:"video_url"`
	SubtitleURL string `json:"subtitle_url"`
}

type TranscribeResponse struct {
	Success       bool          `json:"success"`
	Transcription Transcription `json:"transcription"`
}

type StoreTranscriptionsRequest struct {
	Transcriptions []string `json:"transcriptions"`
}

// TranscriptMatch is one ranked hit from the transcript vector store.
type TranscriptMatch struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// ── Question Generation ──────────────────────────────────

type GenerateQuestionRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty,omitempty"`
}

type ListeningQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Context       string   `json:"context"`
	AudioText     string   `json:"audio_text,omitempty"`
}

type GenerateQuestionResponse struct {
	Success       bool     `json:"success"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Context       string   `json:"context"`
}

// ── Audio ────────────────────────────────────────────────

type GenerateAudioRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type GenerateAudioResponse struct {
	Success  bool   `json:"success"`
	AudioURL string `json:"audio_url"`
}

// ── Vocabulary → Question ────────────────────────────────

type VocabularyQuestionRequest struct {
	WordID string `json:"word_id"`
}

type VocabularyQuestionResponse struct {
	Success       bool     `json:"success"`
	Word          *Word    `json:"word"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	AudioURL      string   `json:"audio_url"`
}
