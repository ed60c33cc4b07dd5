package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"geoquiz-service/internal/domain"
)

func testStore(t *testing.T) *ProfileStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "geoquiz_test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	profile := domain.Profile{
		UserID:    "guest-abc",
		Username:  "Guestabc",
		IsGuest:   true,
		CreatedAt: time.Unix(1_700_000_000, 0),
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadProfile(ctx, "guest-abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Username != "Guestabc" || !loaded.IsGuest {
		t.Fatalf("unexpected profile %+v", loaded)
	}
	if !loaded.CreatedAt.Equal(profile.CreatedAt) {
		t.Fatalf("created at drifted: %v vs %v", loaded.CreatedAt, profile.CreatedAt)
	}

	// Saving again refreshes the username and keeps the row.
	profile.Username = "Renamed"
	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save again: %v", err)
	}
	loaded, err = store.LoadProfile(ctx, "guest-abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Username != "Renamed" {
		t.Fatalf("expected refreshed username, got %+v", loaded)
	}
}

func TestLoadProfileUnknown(t *testing.T) {
	store := testStore(t)
	if _, err := store.LoadProfile(context.Background(), "missing"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestStatsAccumulate(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	stats, err := store.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuizzes != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	stats, err = store.ApplyDelta(ctx, "u1", domain.StatsDelta{TotalQuizzes: 1, TotalCorrect: 7, TotalQuestions: 10, LatestScore: 70})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.BestScore != 70 || stats.AverageScore != 70 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	stats, err = store.ApplyDelta(ctx, "u1", domain.StatsDelta{TotalQuizzes: 1, TotalCorrect: 5, TotalQuestions: 10, LatestScore: 50})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stats.TotalQuizzes != 2 || stats.TotalQuestions != 20 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AverageScore != 60 || stats.BestScore != 70 {
		t.Fatalf("unexpected aggregate %+v", stats)
	}
}
