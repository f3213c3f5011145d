package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/platform/obs"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// SqliteTransitCache is a SQLite-backed cache for round-trip transit legs.
// Keys are (mission_key, swath_id); the mission key is expected to be a
// fingerprint of every planning input so stale rows are never read back.
type SqliteTransitCache struct {
	DB *sql.DB
}

func NewSqliteTransitCache(db *sql.DB) *SqliteTransitCache {
	return &SqliteTransitCache{DB: db}
}

// Fetch cached legs for one mission key and multiple swath ids.
func (s *SqliteTransitCache) GetMany(
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
	ph := make([]string, 0, len(swathIDs))
	for _, id := range swathIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, "?")
	}

	placeholders := strings.Join(ph, ",")
	args := make([]any, 0, 1+len(uniq))
	args = append(args, missionKey)
	for _, id := range uniq {
		args = append(args, id)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT swath_id, to_field, back_home
    FROM transit_cache
    WHERE mission_key = ?
        AND swath_id IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, q, args...)
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
func (s *SqliteTransitCache) PutMany(
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
	INSERT OR REPLACE INTO transit_cache (mission_key, swath_id, to_field, back_home)
    VALUES (?, ?, ?, ?)
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

func encodeLegs(l ports.TransitLegs) (string, string, error) {
	toField, err := encodePolyline(l.ToField)
	if err != nil {
		return "", "", err
	}
	backHome, err := encodePolyline(l.BackHome)
	if err != nil {
		return "", "", err
	}
	return toField, backHome, nil
}

func decodeLegs(toField, backHome string) (ports.TransitLegs, error) {
	out, err := decodePolyline(toField)
	if err != nil {
		return ports.TransitLegs{}, err
	}
	back, err := decodePolyline(backHome)
	if err != nil {
		return ports.TransitLegs{}, err
	}
	return ports.TransitLegs{ToField: out, BackHome: back}, nil
}
