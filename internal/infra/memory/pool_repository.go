package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"geoquiz-service/internal/domain"
)

// PoolLoader fetches candidate pools from a backing store (e.g. Postgres).
type PoolLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
	LoadStates(ctx context.Context, country string) ([]domain.State, error)
}

// PoolRepository caches candidate pools with TTL to avoid repeated DB hits.
type PoolRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	countries cachedCountries
	states    map[string]cachedStates
}

type cachedCountries struct {
	pool      []domain.Country
	expiresAt time.Time
}

type cachedStates struct {
	pool      []domain.State
	expiresAt time.Time
}

func NewPoolRepository(loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		states: make(map[string]cachedStates),
	}
}

func (r *PoolRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	now := r.clock()

	r.mu.RLock()
	if r.countries.pool != nil && r.countries.expiresAt.After(now) {
		pool := r.countries.pool
		r.mu.RUnlock()
		return pool, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("countries", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.countries.pool != nil && r.countries.expiresAt.After(now) {
			pool := r.countries.pool
			r.mu.RUnlock()
			return pool, nil
		}
		r.mu.RUnlock()

		pool, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.countries = cachedCountries{pool: pool, expiresAt: now.Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

func (r *PoolRepository) States(ctx context.Context, country string) ([]domain.State, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.states[country]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.pool, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("states:"+country, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.states[country]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.pool, nil
		}
		r.mu.RUnlock()

		pool, err := r.loader.LoadStates(ctx, country)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.states[country] = cachedStates{pool: pool, expiresAt: now.Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.State), nil
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
