package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/weegaboo/agro-mvp/internal/adapters/cache"
	"github.com/weegaboo/agro-mvp/internal/adapters/planner"
	"github.com/weegaboo/agro-mvp/internal/adapters/repositories"
	"github.com/weegaboo/agro-mvp/internal/api"
	"github.com/weegaboo/agro-mvp/internal/config"
	"github.com/weegaboo/agro-mvp/internal/platform/db"
	"github.com/weegaboo/agro-mvp/internal/ports"
	"github.com/weegaboo/agro-mvp/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, the planning oracle) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/agro.db")
	seedPath := config.Get("SEED_PATH", "")
	port := config.Get("PORT", "8080")

	conn, err := db.OpenSqlite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and optionally seed demo projects on startup for
	// local runs.
	if err := initAndSeed(conn, seedPath); err != nil {
		log.Fatal(err)
	}

	transitCache := cache.NewSqliteTransitCache(conn)

	motion, err := newMotionPlanner()
	if err != nil {
		log.Fatal(err)
	}

	opts := services.DefaultPlanOptions()
	opts.SplitWorkers = config.GetInt("SPLIT_WORKERS", opts.SplitWorkers)
	opts.NFZBufferM = config.GetFloat("NFZ_BUFFER_M", opts.NFZBufferM)
	opts.Transit.CruiseAltAGL = config.GetFloat("CRUISE_ALT_AGL", opts.Transit.CruiseAltAGL)

	missionPlanner, err := services.NewMissionPlanner(motion, transitCache, opts)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteProjectRepository(conn)
	router := api.NewRouter(repo, missionPlanner)

	// Timeouts are tuned for cold-cache mission planning (oracle latency
	// dominates on the first plan of a project).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newMotionPlanner builds the planning oracle: a remote service when
// PLANNER_URL is set, the built-in Dubins planner otherwise.
func newMotionPlanner() (ports.MotionPlanner, error) {
	if url := config.Get("PLANNER_URL", ""); url != "" {
		return planner.NewRemotePlanner(url, config.Get("PLANNER_API_KEY", ""))
	}
	return planner.NewDubinsPlanner(), nil
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
