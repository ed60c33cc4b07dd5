package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"geoquiz-service/internal/domain"
)

// PoolLoader fetches candidate pools from a backing store (e.g. Postgres).
type PoolLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
	LoadStates(ctx context.Context, country string) ([]domain.State, error)
}

// PoolRepository caches candidate pools in Redis as JSON blobs and falls back
// to the loader on cache miss. Keys:
//
//	pool:countries           -> JSON array of countries
//	pool:states:{country}    -> JSON array of states
type PoolRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPoolRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	const key = "pool:countries"

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var pool []domain.Country
		if err := json.Unmarshal(raw, &pool); err == nil && len(pool) > 0 {
			return pool, nil
		}
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			var pool []domain.Country
			if err := json.Unmarshal(raw, &pool); err == nil && len(pool) > 0 {
				return pool, nil
			}
		}

		pool, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}
		r.cache(ctx, key, pool)
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

func (r *PoolRepository) States(ctx context.Context, country string) ([]domain.State, error) {
	key := "pool:states:" + country

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		var pool []domain.State
		if err := json.Unmarshal(raw, &pool); err == nil && len(pool) > 0 {
			return pool, nil
		}
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			var pool []domain.State
			if err := json.Unmarshal(raw, &pool); err == nil && len(pool) > 0 {
				return pool, nil
			}
		}

		pool, err := r.loader.LoadStates(ctx, country)
		if err != nil {
			return nil, err
		}
		r.cache(ctx, key, pool)
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.State), nil
}

// cache is best-effort; a failed write just means the next read loads again.
func (r *PoolRepository) cache(ctx context.Context, key string, pool interface{}) {
	raw, err := json.Marshal(pool)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
