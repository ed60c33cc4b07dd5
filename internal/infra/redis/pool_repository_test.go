package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/infra/memory"
)

type countingLoader struct {
	inner *memory.StaticPoolLoader

	countryLoads int32
	stateLoads   int32
}

func (l *countingLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	atomic.AddInt32(&l.countryLoads, 1)
	return l.inner.LoadCountries(ctx)
}

func (l *countingLoader) LoadStates(ctx context.Context, country string) ([]domain.State, error) {
	atomic.AddInt32(&l.stateLoads, 1)
	return l.inner.LoadStates(ctx, country)
}

func testRepository(t *testing.T) (*PoolRepository, *countingLoader, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	loader := &countingLoader{inner: memory.NewSeededPoolLoader()}
	return NewPoolRepository(client, loader, time.Minute), loader, mr
}

func TestPoolRepositoryCachesCountriesInRedis(t *testing.T) {
	ctx := context.Background()
	repo, loader, mr := testRepository(t)

	first, err := repo.Countries(ctx)
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	if !mr.Exists("pool:countries") {
		t.Fatalf("expected countries cached in redis")
	}

	second, err := repo.Countries(ctx)
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("inconsistent pools: %d vs %d", len(first), len(second))
	}
	if n := atomic.LoadInt32(&loader.countryLoads); n != 1 {
		t.Fatalf("expected a single backing load, got %d", n)
	}
}

func TestPoolRepositoryStatesKeyedByCountry(t *testing.T) {
	ctx := context.Background()
	repo, loader, mr := testRepository(t)

	states, err := repo.States(ctx, "USA")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 50 {
		t.Fatalf("expected 50 states, got %d", len(states))
	}
	if !mr.Exists("pool:states:USA") {
		t.Fatalf("expected states cached in redis")
	}

	if _, err := repo.States(ctx, "USA"); err != nil {
		t.Fatalf("states: %v", err)
	}
	if n := atomic.LoadInt32(&loader.stateLoads); n != 1 {
		t.Fatalf("expected a single backing load, got %d", n)
	}
}

func TestPoolRepositoryReloadsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	repo, loader, mr := testRepository(t)

	if _, err := repo.Countries(ctx); err != nil {
		t.Fatalf("countries: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := repo.Countries(ctx); err != nil {
		t.Fatalf("countries: %v", err)
	}
	if n := atomic.LoadInt32(&loader.countryLoads); n != 2 {
		t.Fatalf("expected reload after expiry, got %d loads", n)
	}
}
