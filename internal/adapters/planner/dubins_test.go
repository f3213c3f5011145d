package planner

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

func wideBounds() geom.Rect {
	return geom.Rect{
		Min: geom.Point{X: -2000, Y: -2000},
		Max: geom.Point{X: 4000, Y: 4000},
	}
}

func TestDubinsAlignedStraight(t *testing.T) {
	d := NewDubinsPlanner()
	path, err := d.Solve(context.Background(), ports.SolveRequest{
		Start:       geom.Pose{X: 0, Y: 0, Heading: 0},
		Goal:        geom.Pose{X: 1000, Y: 0, Heading: 0},
		TurnRadiusM: 40,
		Bounds:      wideBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := path.Length(); math.Abs(got-1000) > 1 {
		t.Fatalf("aligned case length %.2f, want ~1000", got)
	}
	if path[0].Distance(geom.Point{X: 0, Y: 0}) > 1e-6 {
		t.Fatalf("path does not start at start pose: %+v", path[0])
	}
	if path[len(path)-1].Distance(geom.Point{X: 1000, Y: 0}) > 1 {
		t.Fatalf("path does not end at goal pose: %+v", path[len(path)-1])
	}
}

func TestDubinsCurvedEndpoints(t *testing.T) {
	d := NewDubinsPlanner()
	goal := geom.Pose{X: 500, Y: 500, Heading: math.Pi / 2}
	path, err := d.Solve(context.Background(), ports.SolveRequest{
		Start:       geom.Pose{X: 0, Y: 0, Heading: 0},
		Goal:        goal,
		TurnRadiusM: 40,
		Bounds:      wideBounds(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path[len(path)-1].Distance(goal.Point()) > 1 {
		t.Fatalf("path ends at %+v, want near (%.0f, %.0f)", path[len(path)-1], goal.X, goal.Y)
	}
	// A curved connection can never beat the straight-line distance.
	if path.Length() < goal.Point().Norm()-1 {
		t.Fatalf("path length %.2f shorter than the straight-line distance", path.Length())
	}
}

func TestDubinsDetoursAroundObstacle(t *testing.T) {
	d := NewDubinsPlanner()
	obstacle := geom.Polygon{
		{X: 400, Y: -500}, {X: 600, Y: -500}, {X: 600, Y: 50}, {X: 400, Y: 50},
	}
	path, err := d.Solve(context.Background(), ports.SolveRequest{
		Start:       geom.Pose{X: 0, Y: 0, Heading: 0},
		Goal:        geom.Pose{X: 1000, Y: 0, Heading: 0},
		TurnRadiusM: 40,
		Bounds:      wideBounds(),
		Obstacles:   []geom.Polygon{obstacle},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range path {
		if obstacle.Contains(p) {
			t.Fatalf("path sample (%.1f, %.1f) inside the obstacle", p.X, p.Y)
		}
	}
	// The detour must cost more than the blocked straight line.
	if path.Length() <= 1000 {
		t.Fatalf("detour length %.2f not longer than the blocked direct path", path.Length())
	}
}

func TestDubinsGoalInsideObstacle(t *testing.T) {
	d := NewDubinsPlanner()
	obstacle := geom.Polygon{
		{X: 900, Y: -200}, {X: 1100, Y: -200}, {X: 1100, Y: 200}, {X: 900, Y: 200},
	}
	_, err := d.Solve(context.Background(), ports.SolveRequest{
		Start:       geom.Pose{X: 0, Y: 0, Heading: 0},
		Goal:        geom.Pose{X: 1000, Y: 0, Heading: 0},
		TurnRadiusM: 40,
		Bounds:      wideBounds(),
		Obstacles:   []geom.Polygon{obstacle},
	})
	if !errors.Is(err, ports.ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestDubinsRejectsBadRadius(t *testing.T) {
	d := NewDubinsPlanner()
	_, err := d.Solve(context.Background(), ports.SolveRequest{
		Start:  geom.Pose{X: 0, Y: 0, Heading: 0},
		Goal:   geom.Pose{X: 100, Y: 0, Heading: 0},
		Bounds: wideBounds(),
	})
	if err == nil {
		t.Fatalf("expected error for zero turn radius")
	}
	if errors.Is(err, ports.ErrNoPath) {
		t.Fatalf("configuration error must not be reported as no-path")
	}
}
