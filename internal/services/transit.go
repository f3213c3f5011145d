package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// TakeoffConfig shapes the outbound anchor and the exported takeoff block.
type TakeoffConfig struct {
	TakeoffAltAGL float64 // altitude at which NAV_TAKEOFF completes (m)
	RollDistanceM float64 // ground roll before the first waypoint (m)
	ClimbAngleDeg float64 // climb gradient up to cruise altitude
	SpeedMS       float64 // commanded cruise speed after takeoff
}

func DefaultTakeoffConfig() TakeoffConfig {
	return TakeoffConfig{
		TakeoffAltAGL: 10.0,
		RollDistanceM: 150.0,
		ClimbAngleDeg: 12.0,
		SpeedMS:       18.0,
	}
}

// LandingConfig shapes the final-approach fix and the exported landing block.
type LandingConfig struct {
	FAFAltAGL       float64 // altitude at the final approach fix (m AGL)
	GlideAngleDeg   float64 // approach glide slope
	MinFAFDistanceM float64 // never place the FAF closer than this
	IncludeRTL      bool
}

func DefaultLandingConfig() LandingConfig {
	return LandingConfig{
		FAFAltAGL:       30.0,
		GlideAngleDeg:   4.0,
		MinFAFDistanceM: 400.0,
		IncludeRTL:      true,
	}
}

func runwayAxis(runway geom.Polyline) (geom.Point, geom.Point, error) {
	if len(runway) < 2 {
		return geom.Point{}, geom.Point{}, errors.New("runway centerline must have at least 2 points")
	}
	p0, p1 := runway[0], runway[1]
	if p0.Distance(p1) < 1e-9 {
		return geom.Point{}, geom.Point{}, errors.New("runway endpoints coincide")
	}
	return p0, p1.Sub(p0).Unit(), nil
}

// TakeoffAnchor returns the climb-complete point: threshold, plus ground
// roll, plus the along-axis distance needed to climb from takeoff altitude
// to cruise altitude at the configured gradient.
func TakeoffAnchor(runway geom.Polyline, cruiseAltAGL float64, cfg TakeoffConfig) (geom.Point, error) {
	p0, u, err := runwayAxis(runway)
	if err != nil {
		return geom.Point{}, fmt.Errorf("takeoff anchor: %w", err)
	}
	grad := math.Tan(cfg.ClimbAngleDeg * math.Pi / 180)
	climb := math.Max(0, cruiseAltAGL-cfg.TakeoffAltAGL) / math.Max(grad, 1e-6)
	return p0.Offset(u, cfg.RollDistanceM+climb), nil
}

// LandingAnchor returns the final approach fix on the runway axis: far
// enough out that the glide slope from FAF altitude reaches the threshold.
func LandingAnchor(runway geom.Polyline, cfg LandingConfig) (geom.Point, error) {
	p0, u, err := runwayAxis(runway)
	if err != nil {
		return geom.Point{}, fmt.Errorf("landing anchor: %w", err)
	}
	need := cfg.FAFAltAGL / math.Max(math.Tan(cfg.GlideAngleDeg*math.Pi/180), 1e-6)
	return p0.Offset(u, math.Max(need, cfg.MinFAFDistanceM)), nil
}

// TransitOptions tune the oracle adapter.
type TransitOptions struct {
	// MarginFactor scales the turn radius into the search-bounds margin;
	// the margin is never smaller than a tenth of the anchor diagonal, so
	// the oracle is not handed artificially infeasible instances.
	MarginFactor float64
	TimeBudget   time.Duration
	CruiseAltAGL float64
	Takeoff      TakeoffConfig
	Landing      LandingConfig
}

func DefaultTransitOptions() TransitOptions {
	return TransitOptions{
		MarginFactor: 6.0,
		TimeBudget:   3 * time.Second,
		CruiseAltAGL: 30.0,
		Takeoff:      DefaultTakeoffConfig(),
		Landing:      DefaultLandingConfig(),
	}
}

// TransitPlanner produces curvature-bounded connector paths between the
// runway and the field through a MotionPlanner oracle, with a deterministic
// fallback cascade and optional persistent caching of round trips.
//
// The planner is safe for concurrent use.
type TransitPlanner struct {
	Planner ports.MotionPlanner
	Cache   ports.TransitCache // optional
	Opts    TransitOptions
}

func NewTransitPlanner(planner ports.MotionPlanner, cache ports.TransitCache, opts TransitOptions) (*TransitPlanner, error) {
	if planner == nil {
		return nil, errors.New("transit planner: motion planner is required")
	}
	return &TransitPlanner{Planner: planner, Cache: cache, Opts: opts}, nil
}

// LegResult is one planned connector path plus its safety status.
type LegResult struct {
	Path geom.Polyline
	// Unsafe marks a path planned with the obstacle set emptied after the
	// constrained attempts failed. It has not been verified against any
	// no-fly zone and must never be accepted silently.
	Unsafe bool
}

// PlanLeg runs the fallback cascade for one connector leg:
//
//  1. attempt with every blocking zone grown by its safety buffer;
//  2. if the start or goal anchor sits inside a grown zone (a modeling
//     inconsistency, not a genuine obstacle), drop those zones and retry;
//  3. retry with no obstacles at all and flag the result unsafe;
//  4. give up — fatal for the enclosing trip.
func (tp *TransitPlanner) PlanLeg(
	ctx context.Context,
	start, goal geom.Pose,
	turnRadiusM float64,
	obstacles []geom.Polygon,
	buildLog *domain.BuildLog,
) (LegResult, error) {
	bounds := tp.searchBounds(start, goal, turnRadiusM, obstacles)

	solve := func(obs []geom.Polygon) (geom.Polyline, error) {
		return tp.Planner.Solve(ctx, ports.SolveRequest{
			Start:       start,
			Goal:        goal,
			TurnRadiusM: turnRadiusM,
			Bounds:      bounds,
			Obstacles:   obs,
			TimeBudget:  tp.Opts.TimeBudget,
		})
	}

	path, err := solve(obstacles)
	if err == nil {
		return LegResult{Path: path}, nil
	}
	if !errors.Is(err, ports.ErrNoPath) {
		return LegResult{}, fmt.Errorf("plan transit leg: %w", err)
	}

	// An anchor inside a grown zone means the zone model contradicts the
	// runway/field model; that specific zone is not a real obstacle here.
	kept := obstacles[:0:0]
	dropped := 0
	for _, obs := range obstacles {
		if obs.Contains(start.Point()) || obs.Contains(goal.Point()) {
			dropped++
			continue
		}
		kept = append(kept, obs)
	}
	if dropped > 0 {
		if buildLog != nil {
			buildLog.Warnf("transit: dropped %d no-fly zone(s) containing a transit anchor", dropped)
		}
		if path, err = solve(kept); err == nil {
			return LegResult{Path: path}, nil
		}
		if !errors.Is(err, ports.ErrNoPath) {
			return LegResult{}, fmt.Errorf("plan transit leg: %w", err)
		}
	}

	if len(obstacles) > 0 {
		if path, err = solve(nil); err == nil {
			if buildLog != nil {
				buildLog.Warnf("transit: leg planned WITHOUT no-fly zones after constrained attempts failed; path is unverified and unsafe")
			}
			log.Printf("transit leg fallback: unconstrained path start=(%.1f,%.1f) goal=(%.1f,%.1f)",
				start.X, start.Y, goal.X, goal.Y)
			return LegResult{Path: path, Unsafe: true}, nil
		}
		if !errors.Is(err, ports.ErrNoPath) {
			return LegResult{}, fmt.Errorf("plan transit leg: %w", err)
		}
	}

	return LegResult{}, fmt.Errorf("plan transit leg start=(%.1f,%.1f) goal=(%.1f,%.1f): %w",
		start.X, start.Y, goal.X, goal.Y, ports.ErrNoPath)
}

func (tp *TransitPlanner) searchBounds(start, goal geom.Pose, turnRadiusM float64, obstacles []geom.Polygon) geom.Rect {
	pts := []geom.Point{start.Point(), goal.Point()}
	for _, obs := range obstacles {
		pts = append(pts, obs...)
	}
	box := geom.BoundsOf(pts)
	margin := math.Max(tp.Opts.MarginFactor*turnRadiusM, 0.1*box.Diagonal())
	return box.Expand(margin)
}

// RoundTrip plans the outbound and inbound transit for one leg of a trip:
// takeoff anchor to the first swath's start pose, and the last swath's end
// pose back to the final approach fix.
type RoundTrip struct {
	ToField  geom.Polyline
	BackHome geom.Polyline
	Unsafe   bool
}

func (tp *TransitPlanner) PlanRoundTrip(
	ctx context.Context,
	runway geom.Polyline,
	first, last domain.OrientedSwath,
	turnRadiusM float64,
	zones []domain.NoFlyZone,
	buildLog *domain.BuildLog,
) (RoundTrip, error) {
	_, u, err := runwayAxis(runway)
	if err != nil {
		return RoundTrip{}, fmt.Errorf("plan round trip: %w", err)
	}
	runwayHeading := math.Atan2(u.Y, u.X)

	takeoff, err := TakeoffAnchor(runway, tp.Opts.CruiseAltAGL, tp.Opts.Takeoff)
	if err != nil {
		return RoundTrip{}, fmt.Errorf("plan round trip: %w", err)
	}
	faf, err := LandingAnchor(runway, tp.Opts.Landing)
	if err != nil {
		return RoundTrip{}, fmt.Errorf("plan round trip: %w", err)
	}
	obstacles := domain.BlockingPolygons(zones)

	outStart := geom.PoseAt(takeoff, runwayHeading)
	outGoal := geom.PoseAt(first.Start, geom.Heading(first.Start, first.End))
	out, err := tp.PlanLeg(ctx, outStart, outGoal, turnRadiusM, obstacles, buildLog)
	if err != nil {
		return RoundTrip{}, fmt.Errorf("outbound leg: %w", err)
	}

	inStart := geom.PoseAt(last.End, geom.Heading(last.Start, last.End))
	// Approach the FAF flying back along the runway axis.
	inGoal := geom.PoseAt(faf, math.Atan2(-u.Y, -u.X))
	in, err := tp.PlanLeg(ctx, inStart, inGoal, turnRadiusM, obstacles, buildLog)
	if err != nil {
		return RoundTrip{}, fmt.Errorf("inbound leg: %w", err)
	}

	return RoundTrip{
		ToField:  out.Path,
		BackHome: in.Path,
		Unsafe:   out.Unsafe || in.Unsafe,
	}, nil
}

// MissionFingerprint keys persistent transit caches. It folds together the
// geometry and parameters a leg depends on, so any change invalidates
// cached legs instead of reusing them. The route must be included: cached
// legs are addressed by route index, so a reordered or different swath set
// must produce a different key.
func MissionFingerprint(runway geom.Polyline, route domain.Route, zones []domain.NoFlyZone, turnRadiusM float64) string {
	h := sha256.New()
	write := func(vals ...float64) {
		for _, v := range vals {
			fmt.Fprintf(h, "%.3f;", v)
		}
	}
	for _, p := range runway {
		write(p.X, p.Y)
	}
	write(turnRadiusM)
	for _, os := range route {
		write(float64(os.SwathID), float64(os.Dir), os.Start.X, os.Start.Y, os.End.X, os.End.Y)
	}
	for _, z := range zones {
		write(float64(z.Class), z.SafetyBufferM)
		for _, p := range z.Polygon {
			write(p.X, p.Y)
		}
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
