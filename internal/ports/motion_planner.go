package ports

import (
	"context"
	"errors"
	"time"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// ErrNoPath is returned when the planner could not find a feasible path
// within its time budget. A bounded search timing out is a normal outcome,
// not a crash; callers decide how to degrade.
var ErrNoPath = errors.New("motion planner: no feasible path within budget")

// SolveRequest describes one curvature-bounded point-to-point query.
// Obstacles are expected to be pre-grown by their safety buffers.
type SolveRequest struct {
	Start       geom.Pose
	Goal        geom.Pose
	TurnRadiusM float64
	Bounds      geom.Rect
	Obstacles   []geom.Polygon
	TimeBudget  time.Duration
}

// MotionPlanner is the contract for the external motion-planning oracle:
// a bounded-time feasible-path search under a minimum-turning-radius
// kinematic model, with smoothing. Implementations must be stateless and
// safe for concurrent use.
type MotionPlanner interface {
	// Solve returns a feasible path from start to goal, or ErrNoPath.
	Solve(ctx context.Context, req SolveRequest) (geom.Polyline, error)
}
