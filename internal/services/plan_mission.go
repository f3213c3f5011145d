package services

import (
	"context"
	"fmt"
	"log"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/platform/obs"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// PlanOptions bundle every tunable of the planning pipeline.
type PlanOptions struct {
	Sequencer     SequencerOptions
	Transit       TransitOptions
	Overfly       OverflyOptions
	NFZBufferM    float64 // safety buffer applied when classifying zones
	SplitWorkers  int
	MissionKeyTag string // optional extra cache-key discriminator
}

func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		Sequencer:    DefaultSequencerOptions(),
		Transit:      DefaultTransitOptions(),
		Overfly:      DefaultOverflyOptions(),
		NFZBufferM:   30.0,
		SplitWorkers: 5,
	}
}

// MissionPlanner runs the full pipeline: project document to finished
// mission. It owns no state between calls; a changed project or aircraft
// always replans from scratch.
type MissionPlanner struct {
	Motion ports.MotionPlanner
	Cache  ports.TransitCache // optional
	Opts   PlanOptions
}

func NewMissionPlanner(motion ports.MotionPlanner, cache ports.TransitCache, opts PlanOptions) (*MissionPlanner, error) {
	if motion == nil {
		return nil, fmt.Errorf("mission planner: motion planner is required")
	}
	return &MissionPlanner{Motion: motion, Cache: cache, Opts: opts}, nil
}

// BuildFieldPlan projects the geodetic project document into the metric
// frame and classifies its no-fly zones.
func BuildFieldPlan(p *domain.Project, nfzBufferM float64) (*domain.FieldPlan, *geom.Projection, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	proj, err := geom.NewProjection(p.AllCoords())
	if err != nil {
		return nil, nil, fmt.Errorf("field plan: %w", err)
	}

	field := proj.RingToLocal(p.Geoms.Field)
	runway := proj.LineToLocal(p.Geoms.RunwayCenterline)

	rings := make([]geom.Polygon, 0, len(p.Geoms.NFZ))
	for _, nfz := range p.Geoms.NFZ {
		rings = append(rings, proj.RingToLocal(nfz))
	}
	zones := domain.ClassifyZones(field, rings, nfzBufferM)

	swaths := make([]domain.Swath, 0, len(p.Geoms.Swaths))
	for i, line := range p.Geoms.Swaths {
		pl := proj.LineToLocal(line)
		if len(pl) < 2 {
			return nil, nil, fmt.Errorf("field plan: swath %d has fewer than 2 points", i)
		}
		swaths = append(swaths, domain.Swath{ID: i, Line: pl})
	}
	if len(swaths) == 0 {
		return nil, nil, fmt.Errorf("field plan: project %q has no coverage swaths", p.Name)
	}

	return &domain.FieldPlan{Field: field, Runway: runway, Zones: zones, Swaths: swaths}, proj, nil
}

// Plan sequences, splits, and altitude-profiles a mission for the project.
func (mp *MissionPlanner) Plan(ctx context.Context, project *domain.Project) (_ *domain.Mission, err error) {
	defer obs.Time(ctx, "mission.Plan")(&err)
	plan, _, err := BuildFieldPlan(project, mp.Opts.NFZBufferM)
	if err != nil {
		return nil, fmt.Errorf("plan mission: %w", err)
	}

	mission := &domain.Mission{Project: project.Name}
	buildLog := &mission.Log
	buildLog.Infof("planning mission for project %q: %d swaths, %d zones",
		project.Name, len(plan.Swaths), len(plan.Zones))

	route, degraded, err := SequenceSwaths(plan.Swaths, project.Aircraft.TurnRadiusM, mp.Opts.Sequencer)
	if err != nil {
		return nil, fmt.Errorf("plan mission: sequence swaths: %w", err)
	}
	if degraded {
		buildLog.Warnf("sequencer: search found no feasible order; using naive snake order, transit planning may fail")
		log.Printf("mission %q: sequencer degraded to snake order", project.Name)
	}
	if err := route.Validate(plan.Swaths); err != nil {
		return nil, fmt.Errorf("plan mission: %w", err)
	}
	mission.Route = route

	mission.CoverPath = BuildCoverPath(route, plan.Swaths)

	transit, err := NewTransitPlanner(mp.Motion, mp.Cache, mp.Opts.Transit)
	if err != nil {
		return nil, fmt.Errorf("plan mission: %w", err)
	}
	missionKey := MissionFingerprint(plan.Runway, route, plan.Zones, project.Aircraft.TurnRadiusM) + mp.Opts.MissionKeyTag

	splitter := NewTripSplitter(transit, mp.Cache, missionKey)
	if mp.Opts.SplitWorkers > 0 {
		splitter.Workers = mp.Opts.SplitWorkers
	}
	split, err := splitter.Split(ctx, TripSplitRequest{
		Runway:        plan.Runway,
		Route:         route,
		Swaths:        plan.Swaths,
		CoverPathLenM: mission.CoverPath.Length(),
		Zones:         plan.Zones,
		Aircraft:      project.Aircraft,
	}, buildLog)
	if err != nil {
		return nil, fmt.Errorf("plan mission: %w", err)
	}
	mission.Split = split
	buildLog.Infof("route split into %d trip(s), transit total %.0f m", len(split.Trips), split.TransitLengthM)

	overfly := domain.OverflyPolygons(plan.Zones)
	opts := mp.Opts.Overfly
	opts.BaseAltM = mp.Opts.Transit.CruiseAltAGL
	mission.Profile = ApplyOverflyProfile(mission.CoverPath, overfly, opts)
	if len(overfly) > 0 {
		buildLog.Infof("altitude profile applied over %d overfly zone(s)", len(overfly))
	}

	mission.Estimate = EstimateMission(plan.Field, plan.Swaths, mission.CoverPath, split, project.Aircraft)
	return mission, nil
}
