package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/api/dto"
	"github.com/weegaboo/agro-mvp/internal/ports"
	"github.com/weegaboo/agro-mvp/internal/services"
)

// ExportHandler plans a mission and renders it as downloadable artifacts.
type ExportHandler struct {
	Repo    ports.ProjectRepository
	Planner *services.MissionPlanner
}

// Export handles POST /exports: plan the mission and return either one
// QGC WPL 110 file per trip or a single KML overlay.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ExportRequest
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

	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "wpl" && format != "kml" {
		writeError(w, r, http.StatusBadRequest, `format must be "wpl" or "kml"`)
		return
	}

	ph := PlanHandler{Repo: h.Repo, Planner: h.Planner}
	project, status, msg := ph.loadProject(r.Context(), req.Project, req.Aircraft)
	if project == nil {
		writeError(w, r, status, msg)
		return
	}

	plan, proj, err := services.BuildFieldPlan(project, h.Planner.Opts.NFZBufferM)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
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
		log.Printf("export plan failed: project=%q err=%v", project.Name, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	overfly := h.Planner.Opts.Overfly
	overfly.BaseAltM = h.Planner.Opts.Transit.CruiseAltAGL

	var files []string
	switch format {
	case "wpl":
		exportOpts := services.DefaultExportOptions()
		exportOpts.CruiseAltAGL = h.Planner.Opts.Transit.CruiseAltAGL
		exportOpts.Takeoff = h.Planner.Opts.Transit.Takeoff
		exportOpts.Landing = h.Planner.Opts.Transit.Landing
		files, err = services.ExportMissionWPL(proj, plan, mission, overfly, exportOpts)
	case "kml":
		var buf bytes.Buffer
		err = services.WriteMissionKML(&buf, plan, mission, proj, overfly)
		files = []string{buf.String()}
	}
	if err != nil {
		log.Printf("export render failed: project=%q format=%s err=%v", project.Name, format, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ExportResponse{
		Project: project.Name,
		Format:  format,
		Files:   files,
	})
}
