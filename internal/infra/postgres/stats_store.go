package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"geoquiz-service/internal/domain"
)

// StatsStore persists per-user aggregates in the user_stats table.
type StatsStore struct {
	pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

func (s *StatsStore) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	stats := domain.UserStats{UserID: userID}
	err := s.pool.QueryRow(ctx, `
		SELECT total_quizzes, total_correct, total_questions, best_score
		FROM user_stats WHERE user_id=$1`, userID).
		Scan(&stats.TotalQuizzes, &stats.TotalCorrect, &stats.TotalQuestions, &stats.BestScore)
	if err == pgx.ErrNoRows {
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

// ApplyDelta folds a session delta into the row atomically; the upsert keeps
// concurrent completions serialized at the database.
func (s *StatsStore) ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) (domain.UserStats, error) {
	stats := domain.UserStats{UserID: userID}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO user_stats (user_id, total_quizzes, total_correct, total_questions, best_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_quizzes   = user_stats.total_quizzes + EXCLUDED.total_quizzes,
			total_correct   = user_stats.total_correct + EXCLUDED.total_correct,
			total_questions = user_stats.total_questions + EXCLUDED.total_questions,
			best_score      = GREATEST(user_stats.best_score, EXCLUDED.best_score)
		RETURNING total_quizzes, total_correct, total_questions, best_score`,
		userID, delta.TotalQuizzes, delta.TotalCorrect, delta.TotalQuestions, delta.LatestScore).
		Scan(&stats.TotalQuizzes, &stats.TotalCorrect, &stats.TotalQuestions, &stats.BestScore)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("update user stats: %w", err)
	}
	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}
	return stats, nil
}
