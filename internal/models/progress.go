package models

import (
	"encoding/json"
	"time"
)

// Proficiency levels run 0-10 inclusive and saturate at both ends.
const (
	MinProficiency = 0
	MaxProficiency = 10
)

// WordProgressRecord tracks one user's accumulated results for one word.
// An absent record is equivalent to the zero value with level 0 — there is
// no explicit creation call; the first review creates it.
type WordProgressRecord struct {
	UserID           string     `json:"user_id"`
	WordID           string     `json:"word_id"`
	CorrectCount     int        `json:"correct_count"`
	WrongCount       int        `json:"wrong_count"`
	ProficiencyLevel int        `json:"proficiency_level"`
	LastReviewed     *time.Time `json:"last_reviewed"`
}

// ReviewLogEntry is an immutable record of a single review event.
type ReviewLogEntry struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	SessionID  string          `json:"session_id"`
	WordID     string          `json:"word_id"`
	Correct    bool            `json:"correct"`
	Mistakes   json.RawMessage `json:"mistakes,omitempty"`
	AIFeedback string          `json:"ai_feedback,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// StudySessionAggregate holds per-session counters; they only grow.
type StudySessionAggregate struct {
	ID           string `json:"id"`
	ReviewCount  int    `json:"review_count"`
	CorrectCount int    `json:"correct_count"`
	WrongCount   int    `json:"wrong_count"`
}

type ReviewRequest struct {
	UserID     string          `json:"user_id,omitempty"`
	Correct    *bool           `json:"correct"`
	Mistakes   json.RawMessage `json:"mistakes,omitempty"`
	AIFeedback string          `json:"ai_feedback,omitempty"`
}

type ReviewOutcome struct {
	ReviewID         string    `json:"review_id"`
	SessionID        string    `json:"session_id"`
	WordID           string    `json:"word_id"`
	Correct          bool      `json:"correct"`
	Timestamp        time.Time `json:"timestamp"`
	ProficiencyLevel int       `json:"proficiency_level"`
}

// UserProgressSummary is computed on demand; it is never persisted.
// When Error is set the zero counters are not meaningful — callers must
// treat the error field as authoritative.
type UserProgressSummary struct {
	UserID                  string      `json:"user_id"`
	TotalWordsStudied       int         `json:"total_words_studied"`
	TotalCorrect            int         `json:"total_correct"`
	TotalWrong              int         `json:"total_wrong"`
	SuccessRate             float64     `json:"success_rate"`
	ProficiencyDistribution map[int]int `json:"proficiency_distribution,omitempty"`
	MasteredWords           int         `json:"mastered_words"`
	Error                   string      `json:"error,omitempty"`
}

type StreakResponse struct {
	UserID string `json:"user_id"`
	Streak int    `json:"streak"`
}
