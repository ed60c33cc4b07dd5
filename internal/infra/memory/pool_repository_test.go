package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"geoquiz-service/internal/domain"
)

type countingLoader struct {
	inner PoolLoader

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

func TestPoolRepositoryCachesCountries(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{inner: NewSeededPoolLoader()}
	repo := NewPoolRepository(loader, time.Minute)

	first, err := repo.Countries(ctx)
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	second, err := repo.Countries(ctx)
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("inconsistent pools: %d vs %d", len(first), len(second))
	}
	if n := atomic.LoadInt32(&loader.countryLoads); n != 1 {
		t.Fatalf("expected a single backing load, got %d", n)
	}
}

func TestPoolRepositoryCachesStatesPerCountry(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{inner: NewSeededPoolLoader()}
	repo := NewPoolRepository(loader, time.Minute)

	for i := 0; i < 3; i++ {
		states, err := repo.States(ctx, "USA")
		if err != nil {
			t.Fatalf("states: %v", err)
		}
		if len(states) != 50 {
			t.Fatalf("expected 50 states, got %d", len(states))
		}
	}
	if n := atomic.LoadInt32(&loader.stateLoads); n != 1 {
		t.Fatalf("expected a single backing load, got %d", n)
	}
}

func TestPoolRepositoryConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{inner: NewSeededPoolLoader()}
	repo := NewPoolRepository(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Countries(ctx); err != nil {
				t.Errorf("countries: %v", err)
			}
		}()
	}
	wg.Wait()

	// Singleflight collapses the stampede into one load.
	if n := atomic.LoadInt32(&loader.countryLoads); n != 1 {
		t.Fatalf("expected a single backing load, got %d", n)
	}
}

func TestSeededPools(t *testing.T) {
	ctx := context.Background()
	loader := NewSeededPoolLoader()

	countries, err := loader.LoadCountries(ctx)
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	if len(countries) < 20 {
		t.Fatalf("expected a usable country pool, got %d", len(countries))
	}
	for _, c := range countries {
		if c.Code == "" || c.Name == "" || c.Capital == "" {
			t.Fatalf("incomplete seed country %+v", c)
		}
	}

	states, err := loader.LoadStates(ctx, "USA")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(states) != 50 {
		t.Fatalf("expected 50 states, got %d", len(states))
	}
	for _, s := range states {
		if s.Name == "" || s.Capital == "" {
			t.Fatalf("incomplete seed state %+v", s)
		}
	}
}
