package cli

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/weegaboo/agro-mvp/internal/adapters/cache"
	"github.com/weegaboo/agro-mvp/internal/adapters/planner"
	"github.com/weegaboo/agro-mvp/internal/config"
	"github.com/weegaboo/agro-mvp/internal/platform/db"
	"github.com/weegaboo/agro-mvp/internal/ports"
	"github.com/weegaboo/agro-mvp/internal/services"
)

// openDB opens the embedded SQLite database holding project documents and
// the local transit cache.
func openDB() (*sql.DB, error) {
	return db.OpenSqlite(config.Get("DB_PATH", "data/agro.db"))
}

// newTransitCache returns the configured transit cache adapter. When
// DATABASE_URL is set a shared Postgres cache is used; the second return
// is its connection, which the caller must close. Otherwise the local
// SQLite handle serves the cache and the second return is nil.
func newTransitCache(conn *sql.DB) (ports.TransitCache, *sql.DB, error) {
	if url := config.Get("DATABASE_URL", ""); url != "" {
		pg, err := db.OpenPostgres(url)
		if err != nil {
			return nil, nil, fmt.Errorf("transit cache: %w", err)
		}
		return cache.NewSQLTransitCache(pg), pg, nil
	}
	return cache.NewSqliteTransitCache(conn), nil, nil
}

// newMotionPlanner builds the configured planning oracle: a remote service
// when PLANNER_URL is set, the built-in Dubins planner otherwise.
func newMotionPlanner() (ports.MotionPlanner, error) {
	if url := config.Get("PLANNER_URL", ""); url != "" {
		remote, err := planner.NewRemotePlanner(url, config.Get("PLANNER_API_KEY", ""))
		if err != nil {
			return nil, fmt.Errorf("remote planner: %w", err)
		}
		return remote, nil
	}
	return planner.NewDubinsPlanner(), nil
}

// newMissionPlanner wires the full planning pipeline from configuration.
func newMissionPlanner(tc ports.TransitCache) (*services.MissionPlanner, error) {
	motion, err := newMotionPlanner()
	if err != nil {
		return nil, err
	}

	opts := services.DefaultPlanOptions()
	opts.SplitWorkers = config.GetInt("SPLIT_WORKERS", opts.SplitWorkers)
	opts.NFZBufferM = config.GetFloat("NFZ_BUFFER_M", opts.NFZBufferM)
	opts.Transit.CruiseAltAGL = config.GetFloat("CRUISE_ALT_AGL", opts.Transit.CruiseAltAGL)

	return services.NewMissionPlanner(motion, tc, opts)
}
