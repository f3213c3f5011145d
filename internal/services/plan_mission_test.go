package services

import (
	"context"
	"math"
	"testing"

	"github.com/weegaboo/agro-mvp/internal/adapters/planner"
	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// ll converts local meter offsets near (30.5 E, 50.4 N) into geodetic
// coordinates, so test geometry can be laid out in meters.
func ll(x, y float64) geom.LonLat {
	const mPerDegLat = 111194.9
	mPerDegLon := mPerDegLat * math.Cos(50.4*math.Pi/180)
	return geom.LonLat{Lon: 30.5 + x/mPerDegLon, Lat: 50.4 + y/mPerDegLat}
}

// testProject lays out a 1 km square field 2 km north of an 800 m runway,
// eight east-west swaths 50 m apart, and one no-fly zone inside the field.
func testProject() *domain.Project {
	field := []geom.LonLat{ll(-500, 2000), ll(500, 2000), ll(500, 3000), ll(-500, 3000)}
	nfz := []geom.LonLat{ll(-100, 2300), ll(100, 2300), ll(100, 2450), ll(-100, 2450)}

	var swaths [][]geom.LonLat
	for i := 0; i < 8; i++ {
		y := 2200 + float64(i)*50
		swaths = append(swaths, []geom.LonLat{ll(-400, y), ll(400, y)})
	}

	return &domain.Project{
		Name:     "north-field",
		Aircraft: splitterAircraft(300),
		Geoms: domain.ProjectGeoms{
			Field:            field,
			RunwayCenterline: []geom.LonLat{ll(0, 0), ll(800, 0)},
			NFZ:              [][]geom.LonLat{nfz},
			Swaths:           swaths,
		},
	}
}

func TestPlanMissionEndToEnd(t *testing.T) {
	mp, err := NewMissionPlanner(planner.NewMockPlanner(), nil, DefaultPlanOptions())
	if err != nil {
		t.Fatalf("new mission planner: %v", err)
	}
	project := testProject()

	mission, err := mp.Plan(context.Background(), project)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mission.Project != "north-field" {
		t.Fatalf("mission project = %q", mission.Project)
	}
	if len(mission.Route) != 8 {
		t.Fatalf("route has %d entries, want 8", len(mission.Route))
	}
	checkPartition(t, mission.Split.Trips, len(mission.Route), project.Aircraft)

	// Tightly spaced swaths must sequence without the snake fallback, and
	// the interior zone is overflight-allowed, so no warnings are expected.
	if warns := mission.Log.Warnings(); len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}

	// The cover path crosses the interior zone, so the profile must climb
	// above cruise somewhere and start at cruise.
	opts := mp.Opts
	if len(mission.Profile) == 0 {
		t.Fatalf("empty altitude profile")
	}
	if mission.Profile[0].AltM != opts.Transit.CruiseAltAGL {
		t.Fatalf("profile starts at %.1f, want cruise %.1f", mission.Profile[0].AltM, opts.Transit.CruiseAltAGL)
	}
	climbed := false
	for _, s := range mission.Profile {
		if s.AltM > opts.Transit.CruiseAltAGL {
			climbed = true
			break
		}
	}
	if !climbed {
		t.Fatalf("profile never climbs over the interior no-fly zone")
	}

	est := mission.Estimate
	if math.Abs(est.LengthTotalM-(est.LengthTransitM+est.LengthSprayM)) > 1e-6 {
		t.Fatalf("length total %.1f != transit %.1f + spray %.1f", est.LengthTotalM, est.LengthTransitM, est.LengthSprayM)
	}
	if est.LengthSprayM < 8*800-50 {
		t.Fatalf("spray length %.1f below the raw swath total", est.LengthSprayM)
	}
	if math.Abs(est.FuelL-est.LengthTotalM*0.01) > 1e-6 {
		t.Fatalf("fuel %.2f inconsistent with burn rate over %.1f m", est.FuelL, est.LengthTotalM)
	}
	if est.FieldAreaHa < 99 || est.FieldAreaHa > 101 {
		t.Fatalf("field area %.2f ha, want ~100", est.FieldAreaHa)
	}
	if est.SprayedAreaHa > est.FieldAreaHa {
		t.Fatalf("sprayed %.2f ha exceeds field %.2f ha", est.SprayedAreaHa, est.FieldAreaHa)
	}
}

func TestPlanMissionRejectsEmptySwaths(t *testing.T) {
	mp, err := NewMissionPlanner(planner.NewMockPlanner(), nil, DefaultPlanOptions())
	if err != nil {
		t.Fatalf("new mission planner: %v", err)
	}
	project := testProject()
	project.Geoms.Swaths = nil

	if _, err := mp.Plan(context.Background(), project); err == nil {
		t.Fatalf("expected error for a project without swaths")
	}
}

func TestBuildCoverPathFollowsRoute(t *testing.T) {
	swaths := []domain.Swath{
		{ID: 0, Line: geom.Polyline{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		{ID: 1, Line: geom.Polyline{{X: 0, Y: 10}, {X: 100, Y: 10}}},
	}
	route := domain.Route{
		{SwathID: 0, Dir: 0, Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 100, Y: 0}},
		{SwathID: 1, Dir: 1, Start: geom.Point{X: 100, Y: 10}, End: geom.Point{X: 0, Y: 10}},
	}

	path := BuildCoverPath(route, swaths)
	if len(path) != 4 {
		t.Fatalf("cover path has %d points, want 4", len(path))
	}
	if path[0] != (geom.Point{X: 0, Y: 0}) || path[3] != (geom.Point{X: 0, Y: 10}) {
		t.Fatalf("cover path endpoints wrong: %v .. %v", path[0], path[3])
	}
	// Second swath must be reversed.
	if path[2] != (geom.Point{X: 100, Y: 10}) {
		t.Fatalf("reversed swath not honored: %v", path[2])
	}
}
