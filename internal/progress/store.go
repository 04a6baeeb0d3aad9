package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kotoba-nexus/backend/internal/models"
)

// ErrStoreUnavailable wraps any failure to reach or write the backing
// store. Write operations must surface it — never fabricate a success.
var ErrStoreUnavailable = errors.New("progress store unavailable")

// Store is the persistence contract the progress service depends on.
// The service never assumes a particular engine behind it.
type Store interface {
	// GetWordProgress returns the record for (user, word), or a zero
	// record with level 0 when none exists. Absence is not an error.
	GetWordProgress(ctx context.Context, userID, wordID string) (*models.WordProgressRecord, error)

	// RecordReview applies one review as a single atomic unit: upsert the
	// word progress (set last_reviewed and level, increment exactly one
	// counter), append the immutable log entry, and bump the session
	// aggregate. Returns the updated progress record.
	RecordReview(ctx context.Context, entry models.ReviewLogEntry, newLevel int) (*models.WordProgressRecord, error)

	// QueryAllForUser returns every word progress record for a user,
	// bounded by the store's configured scan limit.
	QueryAllForUser(ctx context.Context, userID string) ([]models.WordProgressRecord, error)
}

// SQLStore implements Store on Postgres. Counter updates are single
// statements so concurrent reviews for the same (user, word) cannot lose
// increments, and RecordReview runs its three writes in one transaction.
type SQLStore struct {
	db        *sql.DB
	scanLimit int
}

func NewSQLStore(db *sql.DB, scanLimit int) *SQLStore {
	if scanLimit <= 0 {
		scanLimit = 10000
	}
	return &SQLStore{db: db, scanLimit: scanLimit}
}

func (s *SQLStore) GetWordProgress(ctx context.Context, userID, wordID string) (*models.WordProgressRecord, error) {
	rec := &models.WordProgressRecord{UserID: userID, WordID: wordID}
	err := s.db.QueryRowContext(ctx,
		`SELECT correct_count, wrong_count, proficiency_level, last_reviewed
		 FROM word_progress WHERE user_id = $1 AND word_id = $2`,
		userID, wordID,
	).Scan(&rec.CorrectCount, &rec.WrongCount, &rec.ProficiencyLevel, &rec.LastReviewed)
	if err == sql.ErrNoRows {
		// First review for this word: equivalent to an all-zero record.
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get word progress: %w: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

func (s *SQLStore) RecordReview(ctx context.Context, entry models.ReviewLogEntry, newLevel int) (*models.WordProgressRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin review tx: %w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	rec, err := upsertWordProgress(ctx, tx, entry, newLevel)
	if err != nil {
		return nil, err
	}
	if err := appendLog(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := incrementSessionCounters(ctx, tx, entry.SessionID, entry.Correct); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit review tx: %w: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

// upsertWordProgress sets last_reviewed and the proficiency level and
// increments exactly one of the two counters, in one statement.
func upsertWordProgress(ctx context.Context, tx *sql.Tx, entry models.ReviewLogEntry, newLevel int) (*models.WordProgressRecord, error) {
	rec := &models.WordProgressRecord{UserID: entry.UserID, WordID: entry.WordID}
	err := tx.QueryRowContext(ctx,
		`INSERT INTO word_progress (user_id, word_id, correct_count, wrong_count, proficiency_level, last_reviewed)
		 VALUES ($1, $2,
		         CASE WHEN $3 THEN 1 ELSE 0 END,
		         CASE WHEN $3 THEN 0 ELSE 1 END,
		         $4, $5)
		 ON CONFLICT (user_id, word_id) DO UPDATE SET
		     correct_count     = word_progress.correct_count + CASE WHEN $3 THEN 1 ELSE 0 END,
		     wrong_count       = word_progress.wrong_count   + CASE WHEN $3 THEN 0 ELSE 1 END,
		     proficiency_level = $4,
		     last_reviewed     = $5
		 RETURNING correct_count, wrong_count, proficiency_level, last_reviewed`,
		entry.UserID, entry.WordID, entry.Correct, newLevel, entry.Timestamp,
	).Scan(&rec.CorrectCount, &rec.WrongCount, &rec.ProficiencyLevel, &rec.LastReviewed)
	if err != nil {
		return nil, fmt.Errorf("upsert word progress: %w: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

func appendLog(ctx context.Context, tx *sql.Tx, entry models.ReviewLogEntry) error {
	var mistakes any
	if len(entry.Mistakes) > 0 {
		mistakes = []byte(entry.Mistakes)
	}
	var feedback any
	if entry.AIFeedback != "" {
		feedback = entry.AIFeedback
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO review_logs (id, user_id, session_id, word_id, correct, mistakes, ai_feedback, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.UserID, entry.SessionID, entry.WordID, entry.Correct, mistakes, feedback, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append review log: %w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func incrementSessionCounters(ctx context.Context, tx *sql.Tx, sessionID string, correct bool) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO study_sessions (id, review_count, correct_count, wrong_count)
		 VALUES ($1, 1,
		         CASE WHEN $2 THEN 1 ELSE 0 END,
		         CASE WHEN $2 THEN 0 ELSE 1 END)
		 ON CONFLICT (id) DO UPDATE SET
		     review_count  = study_sessions.review_count + 1,
		     correct_count = study_sessions.correct_count + CASE WHEN $2 THEN 1 ELSE 0 END,
		     wrong_count   = study_sessions.wrong_count   + CASE WHEN $2 THEN 0 ELSE 1 END,
		     updated_at    = NOW()`,
		sessionID, correct,
	)
	if err != nil {
		return fmt.Errorf("increment session counters: %w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLStore) QueryAllForUser(ctx context.Context, userID string) ([]models.WordProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, word_id, correct_count, wrong_count, proficiency_level, last_reviewed
		 FROM word_progress WHERE user_id = $1 LIMIT $2`,
		userID, s.scanLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("query user progress: %w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []models.WordProgressRecord
	for rows.Next() {
		var rec models.WordProgressRecord
		if err := rows.Scan(&rec.UserID, &rec.WordID, &rec.CorrectCount, &rec.WrongCount, &rec.ProficiencyLevel, &rec.LastReviewed); err != nil {
			return nil, fmt.Errorf("scan progress record: %w: %v", ErrStoreUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress records: %w: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}
