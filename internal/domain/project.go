package domain

import (
	"fmt"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// ProjectGeoms is the geodetic geometry block of a mission project
// document: field boundary, runway centerline, and no-fly zone rings,
// all in lon/lat degrees.
type ProjectGeoms struct {
	Field            []geom.LonLat   `json:"field"`
	RunwayCenterline []geom.LonLat   `json:"runway_centerline"`
	NFZ              [][]geom.LonLat `json:"nfz"`
	// Swaths is the coverage pattern produced by the external coverage
	// generator; the planner consumes it as opaque input.
	Swaths [][]geom.LonLat `json:"swaths"`
}

// Project is the mission input document. The persistence layer owns the
// format; planning always operates on the metric-projected version.
type Project struct {
	Name     string       `json:"name"`
	Aircraft Aircraft     `json:"aircraft"`
	Geoms    ProjectGeoms `json:"geoms"`
}

// Validate rejects documents that cannot produce a projection or mission.
func (p Project) Validate() error {
	if len(p.Geoms.Field) < 3 {
		return fmt.Errorf("project %q: field polygon must have at least 3 points", p.Name)
	}
	if len(p.Geoms.RunwayCenterline) < 2 {
		return fmt.Errorf("project %q: runway centerline must have at least 2 points", p.Name)
	}
	if err := p.Aircraft.Validate(); err != nil {
		return fmt.Errorf("project %q: %w", p.Name, err)
	}
	return nil
}

// AllCoords returns every geodetic coordinate in the document, used to
// center the metric projection.
func (p Project) AllCoords() []geom.LonLat {
	out := make([]geom.LonLat, 0, len(p.Geoms.Field)+len(p.Geoms.RunwayCenterline))
	out = append(out, p.Geoms.Field...)
	out = append(out, p.Geoms.RunwayCenterline...)
	for _, ring := range p.Geoms.NFZ {
		out = append(out, ring...)
	}
	return out
}

// FieldPlan is the projected, classified view of a project the planner
// works with. Built once per mission; immutable afterwards.
type FieldPlan struct {
	Field  geom.Polygon
	Runway geom.Polyline
	Zones  []NoFlyZone
	Swaths []Swath
}

// Mission is the assembled planning result.
type Mission struct {
	Project   string
	Route     Route
	CoverPath geom.Polyline
	Split     TripSplit
	Profile   []AltitudeSample
	Estimate  Estimate
	Log       BuildLog
}

// Estimate summarizes mission lengths, durations, and resource usage.
type Estimate struct {
	LengthTotalM   float64 `json:"length_total_m"`
	LengthTransitM float64 `json:"length_transit_m"`
	LengthSprayM   float64 `json:"length_spray_m"`
	TimeTotalMin   float64 `json:"time_total_min"`
	TimeTransitMin float64 `json:"time_transit_min"`
	TimeSprayMin   float64 `json:"time_spray_min"`
	FuelL          float64 `json:"fuel_l"`
	MixL           float64 `json:"mix_l"`
	FieldAreaHa    float64 `json:"field_area_ha"`
	SprayedAreaHa  float64 `json:"sprayed_area_ha"`
}
