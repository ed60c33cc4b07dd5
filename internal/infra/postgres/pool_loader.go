package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"geoquiz-service/internal/domain"
)

// PoolLoader reads candidate pools from Postgres.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT code, name, COALESCE(capital, ''), COALESCE(continent, ''),
		       COALESCE(flag_emoji, ''), COALESCE(population, 0), COALESCE(area, 0)
		FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var countries []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.Code, &c.Name, &c.Capital, &c.Continent, &c.Flag, &c.Population, &c.Area); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, domain.ErrPoolUnavailable
	}
	return countries, nil
}

func (l *PoolLoader) LoadStates(ctx context.Context, country string) ([]domain.State, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT name, COALESCE(capital, ''), COALESCE(code, ''), country,
		       COALESCE(population, 0), COALESCE(area, 0)
		FROM states WHERE country=$1 ORDER BY name`, country)
	if err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}
	defer rows.Close()

	var states []domain.State
	for rows.Next() {
		var s domain.State
		if err := rows.Scan(&s.Name, &s.Capital, &s.Code, &s.Country, &s.Population, &s.Area); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}
	if len(states) == 0 {
		return nil, domain.ErrPoolUnavailable
	}
	return states, nil
}
