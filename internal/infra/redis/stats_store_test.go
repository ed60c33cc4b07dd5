package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"geoquiz-service/internal/domain"
)

func testStatsStore(t *testing.T) *StatsStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewStatsStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestStatsStoreUnknownUser(t *testing.T) {
	store := testStatsStore(t)
	stats, err := store.Stats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuizzes != 0 || stats.BestScore != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestStatsStoreAccumulates(t *testing.T) {
	ctx := context.Background()
	store := testStatsStore(t)

	stats, err := store.ApplyDelta(ctx, "u1", domain.StatsDelta{TotalQuizzes: 1, TotalCorrect: 9, TotalQuestions: 10, LatestScore: 90})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.BestScore != 90 {
		t.Fatalf("expected best 90, got %+v", stats)
	}

	stats, err = store.ApplyDelta(ctx, "u1", domain.StatsDelta{TotalQuizzes: 1, TotalCorrect: 3, TotalQuestions: 10, LatestScore: 30})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.TotalQuizzes != 2 || stats.TotalCorrect != 12 || stats.TotalQuestions != 20 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AverageScore != 60 || stats.BestScore != 90 {
		t.Fatalf("unexpected aggregate %+v", stats)
	}
}
