package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createProjectsQuery := `
	CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		document TEXT NOT NULL
	);
	`

	createTransitCacheQuery := `
	CREATE TABLE IF NOT EXISTS transit_cache (
        mission_key TEXT NOT NULL,
        swath_id INTEGER NOT NULL,
        to_field TEXT NOT NULL,
        back_home TEXT NOT NULL,
        PRIMARY KEY (mission_key, swath_id)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_transit_cache_mission_key
    ON transit_cache(mission_key);
	`

	statements := []string{
		createProjectsQuery,
		createTransitCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database with project documents from a JSON file holding an
// array of projects.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed projects: read %q: %w", jsonPath, err)
	}

	var data []domain.Project
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed projects: parse json: %w", err)
	}

	for i := range data {
		data[i].Name = strings.TrimSpace(data[i].Name)
		if data[i].Name == "" {
			return fmt.Errorf("seed projects: item at index %d: name cannot be empty", i+1)
		}
		if err := data[i].Validate(); err != nil {
			return fmt.Errorf("seed projects: project %q: %w", data[i].Name, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed projects: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO projects (name, document)
	VALUES (?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed projects: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range data {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("seed projects: marshal %q: %w", p.Name, err)
		}
		if _, err := stmt.Exec(p.Name, string(doc)); err != nil {
			return fmt.Errorf("seed projects: insert %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed projects: commit tx: %w", err)
	}

	return nil
}
