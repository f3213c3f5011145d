// Package repositories contains SQLite-backed storage adapters and schema
// management for mission project documents and the transit cache.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// SQLite-backed implementation of the ProjectRepository port. Project
// documents are stored whole as JSON; the planner reads one document per
// run, so relational decomposition buys nothing here.
type SqliteProjectRepository struct{ DB *sql.DB }

func NewSqliteProjectRepository(db *sql.DB) *SqliteProjectRepository {
	return &SqliteProjectRepository{DB: db}
}

// Return the names of all stored projects.
func (s *SqliteProjectRepository) ListProjects(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite project repository: DB is nil")
	}

	query := `
	SELECT name
	FROM projects
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: query projects table: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list projects: scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: row iteration: %w", err)
	}

	return names, nil
}

// Load one project document by name.
func (s *SqliteProjectRepository) GetProject(ctx context.Context, name string) (*domain.Project, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite project repository: DB is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("get project: name must not be empty")
	}

	query := `
	SELECT document
	FROM projects
	WHERE name = ?;
	`
	var doc string
	err := s.DB.QueryRowContext(ctx, query, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %q: %w", name, ports.ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: query projects table: %w", name, err)
	}

	var p domain.Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("get project %q: parse document: %w", name, err)
	}
	p.Name = name
	return &p, nil
}

// Store or replace a project document.
func (s *SqliteProjectRepository) SaveProject(ctx context.Context, p *domain.Project) error {
	if s.DB == nil {
		return errors.New("sqlite project repository: DB is nil")
	}
	if p == nil {
		return errors.New("save project: project is nil")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return errors.New("save project: name must not be empty")
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("save project %q: marshal document: %w", name, err)
	}

	query := `
	INSERT OR REPLACE INTO projects (name, document)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, name, string(doc)); err != nil {
		return fmt.Errorf("save project %q: insert: %w", name, err)
	}
	return nil
}
