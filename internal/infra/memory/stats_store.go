package memory

import (
	"context"
	"sync"

	"geoquiz-service/internal/domain"
)

// StatsStore keeps per-user aggregates in memory. Updates are serialized by
// the mutex; a single UI surface never races, but the guarantee holds anyway.
type StatsStore struct {
	mu    sync.Mutex
	stats map[string]domain.UserStats
}

func NewStatsStore() *StatsStore {
	return &StatsStore{stats: make(map[string]domain.UserStats)}
}

func (s *StatsStore) Stats(_ context.Context, userID string) (domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[userID]
	if !ok {
		return domain.UserStats{UserID: userID}, nil
	}
	return stats, nil
}

func (s *StatsStore) ApplyDelta(_ context.Context, userID string, delta domain.StatsDelta) (domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[userID]
	if !ok {
		stats = domain.UserStats{UserID: userID}
	}
	stats = stats.Apply(delta)
	s.stats[userID] = stats
	return stats, nil
}
