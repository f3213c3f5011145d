package ports

import (
	"context"
	"errors"

	"github.com/weegaboo/agro-mvp/internal/domain"
)

// ErrProjectNotFound is returned when a project name is not in storage.
var ErrProjectNotFound = errors.New("project not found")

// Port: a boundary for retrieving mission project documents from storage.
type ProjectRepository interface {
	// ListProjects returns the names of all stored projects.
	ListProjects(ctx context.Context) ([]string, error)
	// GetProject loads one project document by name.
	GetProject(ctx context.Context, name string) (*domain.Project, error)
	// SaveProject stores or replaces a project document.
	SaveProject(ctx context.Context, p *domain.Project) error
}
