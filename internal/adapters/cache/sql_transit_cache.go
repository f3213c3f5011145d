package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/weegaboo/agro-mvp/internal/platform/obs"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// SQLTransitCache is a Postgres-backed cache for round-trip transit legs.
type SQLTransitCache struct {
	DB *sql.DB
}

func NewSQLTransitCache(db *sql.DB) *SQLTransitCache {
	return &SQLTransitCache{DB: db}
}

// Fetch cached legs for one mission key and multiple swath ids.
func (s *SQLTransitCache) GetMany(
	ctx context.Context,
	missionKey string,
	swathIDs []int,
) (_ map[int]ports.TransitLegs, err error) {
	defer obs.Time(ctx, "transit.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("transit cache: db is nil")
	}

	if missionKey == "" {
		return nil, errors.New("get transit cache: mission key must not be empty")
	}

	if len(swathIDs) == 0 {
		return map[int]ports.TransitLegs{}, nil
	}

	seen := map[int]struct{}{}
	uniq := make([]int, 0, len(swathIDs))
	for _, id := range swathIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}

	q := `
	SELECT swath_id, to_field, back_home
    FROM transit_cache
    WHERE mission_key = $1
        AND swath_id = ANY($2::int[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, missionKey, uniq)
	if err != nil {
		return nil, fmt.Errorf("get transit cache: query transit_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]ports.TransitLegs, len(uniq))
	for rows.Next() {
		var id int
		var toField, backHome string
		if err := rows.Scan(&id, &toField, &backHome); err != nil {
			return nil, fmt.Errorf("get transit cache: scan rows: %w", err)
		}
		legs, err := decodeLegs(toField, backHome)
		if err != nil {
			return nil, fmt.Errorf("get transit cache swath=%d: %w", id, err)
		}
		out[id] = legs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get transit cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached legs for a single mission key.
func (s *SQLTransitCache) PutMany(
	ctx context.Context,
	missionKey string,
	legs map[int]ports.TransitLegs,
) error {
	if s.DB == nil {
		return errors.New("transit cache: db is nil")
	}

	if missionKey == "" {
		return errors.New("insert transit cache: mission key must not be empty")
	}

	if len(legs) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert transit cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO transit_cache (mission_key, swath_id, to_field, back_home)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (mission_key, swath_id) DO UPDATE
	SET to_field = EXCLUDED.to_field,
		back_home = EXCLUDED.back_home;
	`)
	if err != nil {
		return fmt.Errorf("insert transit cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for id, l := range legs {
		toField, backHome, err := encodeLegs(l)
		if err != nil {
			return fmt.Errorf("insert transit cache swath=%d: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, missionKey, id, toField, backHome); err != nil {
			return fmt.Errorf("insert transit cache swath=%d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert transit cache commit: %w", err)
	}

	return nil
}
