package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite

	"geoquiz-service/internal/domain"
)

// ProfileStore persists player profiles and their running statistics in a
// local SQLite file. It is the offline replacement for the browser-local
// profile the web app kept, exposed to the engine as a plain stats store.
type ProfileStore struct {
	db *sql.DB
}

// Open creates (or reuses) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*ProfileStore, error) {
	if path == "" {
		path = "file:geoquiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	// A single writer connection sidesteps SQLITE_BUSY under concurrent updates.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping profile store: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		return nil, err
	}
	return &ProfileStore{db: db}, nil
}

func (s *ProfileStore) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id    TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			is_guest   INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id         TEXT PRIMARY KEY,
			total_quizzes   INTEGER NOT NULL DEFAULT 0,
			total_correct   INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			best_score      INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("ensure profile schema: %w", err)
	}
	return nil
}

// SaveProfile inserts or refreshes a profile.
func (s *ProfileStore) SaveProfile(ctx context.Context, profile domain.Profile) error {
	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, username, is_guest, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET username=excluded.username`,
		profile.UserID, profile.Username, boolToInt(profile.IsGuest), createdAt.Unix())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadProfile returns domain.ErrProfileNotFound for unknown users.
func (s *ProfileStore) LoadProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var profile domain.Profile
	var isGuest int
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, is_guest, created_at FROM profiles WHERE user_id=?`, userID).
		Scan(&profile.UserID, &profile.Username, &isGuest, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	profile.IsGuest = isGuest != 0
	profile.CreatedAt = time.Unix(createdAt, 0)
	return profile, nil
}

func (s *ProfileStore) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	stats := domain.UserStats{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT total_quizzes, total_correct, total_questions, best_score
		FROM user_stats WHERE user_id=?`, userID).
		Scan(&stats.TotalQuizzes, &stats.TotalCorrect, &stats.TotalQuestions, &stats.BestScore)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load user stats: %w", err)
	}
	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}
	return stats, nil
}

func (s *ProfileStore) ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) (domain.UserStats, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, total_quizzes, total_correct, total_questions, best_score)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			total_quizzes   = user_stats.total_quizzes + excluded.total_quizzes,
			total_correct   = user_stats.total_correct + excluded.total_correct,
			total_questions = user_stats.total_questions + excluded.total_questions,
			best_score      = MAX(user_stats.best_score, excluded.best_score)`,
		userID, delta.TotalQuizzes, delta.TotalCorrect, delta.TotalQuestions, delta.LatestScore)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("update user stats: %w", err)
	}
	return s.Stats(ctx, userID)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
