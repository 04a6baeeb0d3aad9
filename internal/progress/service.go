package progress

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kotoba-nexus/backend/internal/models"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RecordReview applies one review: walk the proficiency level one step,
// bump exactly one counter, append the log entry, and update the session
// aggregate. A store failure is returned to the caller — a review that was
// not persisted must never look like one that was.
func (s *Service) RecordReview(ctx context.Context, userID, sessionID, wordID string, correct bool, mistakes []byte, aiFeedback string) (*models.ReviewOutcome, error) {
	current, err := s.store.GetWordProgress(ctx, userID, wordID)
	if err != nil {
		return nil, fmt.Errorf("record review: %w", err)
	}

	entry := models.ReviewLogEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		SessionID:  sessionID,
		WordID:     wordID,
		Correct:    correct,
		Mistakes:   mistakes,
		AIFeedback: aiFeedback,
		Timestamp:  s.now(),
	}

	newLevel := NextLevel(current.ProficiencyLevel, correct)

	updated, err := s.store.RecordReview(ctx, entry, newLevel)
	if err != nil {
		return nil, fmt.Errorf("record review: %w", err)
	}

	return &models.ReviewOutcome{
		ReviewID:         entry.ID,
		SessionID:        sessionID,
		WordID:           wordID,
		Correct:          correct,
		Timestamp:        entry.Timestamp,
		ProficiencyLevel: updated.ProficiencyLevel,
	}, nil
}

// GetSummary aggregates all of a user's word records into summary
// statistics. On a store error it reports zero counts plus an error
// indicator instead of failing the request; the error field is
// authoritative over the counts.
func (s *Service) GetSummary(ctx context.Context, userID string) *models.UserProgressSummary {
	records, err := s.store.QueryAllForUser(ctx, userID)
	if err != nil {
		log.Printf("[progress] summary query failed for user %s: %v", userID, err)
		return &models.UserProgressSummary{
			UserID: userID,
			Error:  err.Error(),
		}
	}

	totalCorrect, totalWrong := 0, 0
	distribution := make(map[int]int, models.MaxProficiency+1)
	for level := models.MinProficiency; level <= models.MaxProficiency; level++ {
		distribution[level] = 0
	}

	for _, rec := range records {
		totalCorrect += rec.CorrectCount
		totalWrong += rec.WrongCount
		level := rec.ProficiencyLevel
		if level < models.MinProficiency || level > models.MaxProficiency {
			level = models.MinProficiency
		}
		distribution[level]++
	}

	return &models.UserProgressSummary{
		UserID:                  userID,
		TotalWordsStudied:       len(records),
		TotalCorrect:            totalCorrect,
		TotalWrong:              totalWrong,
		SuccessRate:             successRate(totalCorrect, totalWrong),
		ProficiencyDistribution: distribution,
		MasteredWords:           distribution[models.MaxProficiency],
	}
}

// successRate returns the correct percentage rounded to one decimal.
// The max(1, total) denominator guard makes a user with no reviews read
// 0.0 instead of dividing by zero.
func successRate(correct, wrong int) float64 {
	total := correct + wrong
	if total < 1 {
		total = 1
	}
	rate := float64(correct) / float64(total) * 100
	return math.Round(rate*10) / 10
}

// GetStreak counts consecutive calendar days with at least one review,
// walking backward from today. A user who last studied yesterday but not
// today has a streak of 0.
func (s *Service) GetStreak(ctx context.Context, userID string) (int, error) {
	records, err := s.store.QueryAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get streak: %w", err)
	}

	days := make(map[string]bool)
	for _, rec := range records {
		if rec.LastReviewed != nil {
			days[rec.LastReviewed.Format("2006-01-02")] = true
		}
	}

	return StreakFromDays(days, s.now()), nil
}

// StreakFromDays walks backward from today over the set of study days
// (keys formatted "2006-01-02") and stops at the first gap.
func StreakFromDays(days map[string]bool, today time.Time) int {
	streak := 0
	for days[today.AddDate(0, 0, -streak).Format("2006-01-02")] {
		streak++
	}
	return streak
}
