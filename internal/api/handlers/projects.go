package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/api/dto"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// ProjectHandler exposes project document storage endpoints.
type ProjectHandler struct {
	Repo ports.ProjectRepository
}

// List handles GET /projects and POST /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		names, err := h.Repo.ListProjects(r.Context())
		if err != nil {
			log.Printf("list projects failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, r, http.StatusOK, dto.ListProjectsResponse{Projects: names})

	case http.MethodPost:
		var req dto.SaveProjectRequest
		dec := json.NewDecoder(r.Body)
		defer r.Body.Close()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return
		}
		if err := req.Project.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.Repo.SaveProject(r.Context(), &req.Project); err != nil {
			log.Printf("save project failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, r, http.StatusCreated, dto.ProjectResponse{Project: req.Project})

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Get handles GET /projects/{name}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/projects/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	p, err := h.Repo.GetProject(r.Context(), name)
	if errors.Is(err, ports.ErrProjectNotFound) {
		writeError(w, r, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		log.Printf("get project failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ProjectResponse{Project: *p})
}
