package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "kotoba_user")
	password := getEnv("DB_PASSWORD", "kotoba_password")
	dbname := getEnv("DB_NAME", "kotoba_nexus")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS word_progress (
		user_id           VARCHAR(100) NOT NULL,
		word_id           VARCHAR(100) NOT NULL,
		correct_count     INT NOT NULL DEFAULT 0 CHECK (correct_count >= 0),
		wrong_count       INT NOT NULL DEFAULT 0 CHECK (wrong_count >= 0),
		proficiency_level INT NOT NULL DEFAULT 0 CHECK (proficiency_level >= 0 AND proficiency_level <= 10),
		last_reviewed     TIMESTAMP WITH TIME ZONE,
		PRIMARY KEY (user_id, word_id)
	);

	CREATE INDEX IF NOT EXISTS idx_word_progress_user ON word_progress(user_id);

	CREATE TABLE IF NOT EXISTS review_logs (
		id          UUID PRIMARY KEY,
		user_id     VARCHAR(100) NOT NULL,
		session_id  VARCHAR(100) NOT NULL,
		word_id     VARCHAR(100) NOT NULL,
		correct     BOOLEAN NOT NULL,
		mistakes    JSONB,
		ai_feedback TEXT,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_review_logs_user ON review_logs(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_review_logs_session ON review_logs(session_id);

	CREATE TABLE IF NOT EXISTS study_sessions (
		id            VARCHAR(100) PRIMARY KEY,
		review_count  INT NOT NULL DEFAULT 0,
		correct_count INT NOT NULL DEFAULT 0,
		wrong_count   INT NOT NULL DEFAULT 0,
		created_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		id         BIGSERIAL PRIMARY KEY,
		content    TEXT NOT NULL,
		embedding  JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
