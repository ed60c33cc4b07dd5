package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"geoquiz-service/internal/domain"
)

// StatsStore keeps per-user aggregates in a Redis hash:
//
//	stats:{userID} -> {total_quizzes, total_correct, total_questions, best_score}
//
// Counter fields use HINCRBY; best_score is updated inside a WATCH
// transaction so concurrent session completions serialize correctly.
type StatsStore struct {
	client *redis.Client
}

func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

func (s *StatsStore) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("load user stats: %w", err)
	}
	return statsFromHash(userID, fields), nil
}

func (s *StatsStore) ApplyDelta(ctx context.Context, userID string, delta domain.StatsDelta) (domain.UserStats, error) {
	key := s.key(userID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		best, err := tx.HGet(ctx, key, "best_score").Int()
		if err != nil && err != redis.Nil {
			return err
		}
		if delta.LatestScore > best {
			best = delta.LatestScore
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HIncrBy(ctx, key, "total_quizzes", int64(delta.TotalQuizzes))
			pipe.HIncrBy(ctx, key, "total_correct", int64(delta.TotalCorrect))
			pipe.HIncrBy(ctx, key, "total_questions", int64(delta.TotalQuestions))
			pipe.HSet(ctx, key, "best_score", best)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("update user stats: %w", err)
	}

	return s.Stats(ctx, userID)
}

func (s *StatsStore) key(userID string) string {
	return "stats:" + userID
}

func statsFromHash(userID string, fields map[string]string) domain.UserStats {
	stats := domain.UserStats{UserID: userID}
	stats.TotalQuizzes = atoi(fields["total_quizzes"])
	stats.TotalCorrect = atoi(fields["total_correct"])
	stats.TotalQuestions = atoi(fields["total_questions"])
	stats.BestScore = atoi(fields["best_score"])
	if stats.TotalQuestions > 0 {
		stats.AverageScore = float64(stats.TotalCorrect) / float64(stats.TotalQuestions) * 100
	}
	return stats
}

func atoi(raw string) int {
	v, _ := strconv.Atoi(raw)
	return v
}
