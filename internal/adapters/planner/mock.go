package planner

import (
	"context"
	"sync"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// MockPlanner is a deterministic MotionPlanner for tests. By default it
// returns the straight segment from start to goal; MaxObstacles makes it
// refuse requests carrying more obstacles than that, which lets tests
// drive the fallback cascade.
type MockPlanner struct {
	// MaxObstacles: fail with ErrNoPath when a request carries more
	// obstacles than this. Negative disables the limit.
	MaxObstacles int
	// Err, when set, is returned from every call.
	Err error

	mu    sync.Mutex
	calls []ports.SolveRequest
}

func NewMockPlanner() *MockPlanner {
	return &MockPlanner{MaxObstacles: -1}
}

func (m *MockPlanner) Solve(ctx context.Context, req ports.SolveRequest) (geom.Polyline, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.MaxObstacles >= 0 && len(req.Obstacles) > m.MaxObstacles {
		return nil, ports.ErrNoPath
	}
	return geom.Polyline{
		{X: req.Start.X, Y: req.Start.Y},
		{X: req.Goal.X, Y: req.Goal.Y},
	}, nil
}

// Calls returns a copy of all requests seen so far.
func (m *MockPlanner) Calls() []ports.SolveRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.SolveRequest, len(m.calls))
	copy(out, m.calls)
	return out
}
