package api

import (
	"net/http"

	"github.com/weegaboo/agro-mvp/internal/api/handlers"
	"github.com/weegaboo/agro-mvp/internal/ports"
	"github.com/weegaboo/agro-mvp/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.ProjectRepository, planner *services.MissionPlanner) http.Handler {
	mux := http.NewServeMux()

	projectHandler := &handlers.ProjectHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{Repo: repo, Planner: planner}
	exportHandler := &handlers.ExportHandler{Repo: repo, Planner: planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/projects", projectHandler.List)
	mux.HandleFunc("/projects/", projectHandler.Get)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/exports", exportHandler.Export)

	return requestIDMiddleware(loggingMiddleware(mux))
}
