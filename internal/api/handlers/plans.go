package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/api/dto"
	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/ports"
	"github.com/weegaboo/agro-mvp/internal/services"
)

// PlanHandler orchestrates mission planning for stored projects.
type PlanHandler struct {
	Repo    ports.ProjectRepository
	Planner *services.MissionPlanner
}

// Plan handles POST /plans: load the project, run the full planning
// pipeline and return the route, trips and estimate.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest
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

	project, status, msg := h.loadProject(r.Context(), req.Project, req.Aircraft)
	if project == nil {
		writeError(w, r, status, msg)
		return
	}

	mission, err := h.Planner.Plan(r.Context(), project)
	if err != nil {
		var unreachable *services.UnreachableSwathError
		if errors.As(err, &unreachable) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, ports.ErrNoPath) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("plan mission failed: project=%q err=%v", project.Name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(mission))
}

// loadProject fetches and validates the request's project, applying the
// optional aircraft override. Returns nil with an HTTP status and message
// on failure.
func (h *PlanHandler) loadProject(ctx context.Context, name string, override *domain.Aircraft) (*domain.Project, int, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, http.StatusBadRequest, "project is required"
	}
	project, err := h.Repo.GetProject(ctx, name)
	if errors.Is(err, ports.ErrProjectNotFound) {
		return nil, http.StatusNotFound, "project not found"
	}
	if err != nil {
		log.Printf("get project failed: %v", err)
		return nil, http.StatusInternalServerError, "internal server error"
	}
	if override != nil {
		if err := override.Validate(); err != nil {
			return nil, http.StatusBadRequest, err.Error()
		}
		project.Aircraft = *override
	}
	return project, 0, ""
}

func planResponse(m *domain.Mission) dto.PlanResponse {
	res := dto.PlanResponse{
		Project:  m.Project,
		Route:    make([]dto.RouteStepResponse, 0, len(m.Route)),
		Trips:    make([]dto.TripResponse, 0, len(m.Split.Trips)),
		Estimate: m.Estimate,
		Warnings: m.Log.Warnings(),
	}
	for _, step := range m.Route {
		res.Route = append(res.Route, dto.RouteStepResponse{SwathID: step.SwathID, Dir: step.Dir})
	}
	for _, t := range m.Split.Trips {
		res.Trips = append(res.Trips, dto.TripResponse{
			StartIdx:    t.StartIdx,
			EndIdx:      t.EndIdx,
			SwathCount:  t.SwathCount(),
			TransitLenM: t.TransitLenM(),
			FuelUsedL:   t.FuelUsedL,
			MixUsedL:    t.MixUsedL,
		})
	}
	return res
}
