// Package planner provides MotionPlanner implementations: a built-in
// closed-form Dubins planner, a remote HTTP oracle client and a mock for
// tests.
package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// DubinsPlanner solves point-to-point queries with closed-form Dubins
// curves. The direct shortest path is tried first; when it crosses an
// obstacle, two-leg detours through offset obstacle vertices are scored
// and the shortest collision-free combination wins. The planner is
// stateless and safe for concurrent use.
type DubinsPlanner struct {
	// SampleStepM is the arc-length spacing of output vertices and of
	// collision checks. Smaller is safer and slower.
	SampleStepM float64
	// ClearanceFactor scales the turn radius to push detour via-points
	// away from obstacle corners.
	ClearanceFactor float64
}

func NewDubinsPlanner() *DubinsPlanner {
	return &DubinsPlanner{SampleStepM: 5.0, ClearanceFactor: 1.5}
}

func (d *DubinsPlanner) Solve(ctx context.Context, req ports.SolveRequest) (geom.Polyline, error) {
	if req.TurnRadiusM <= 0 {
		return nil, fmt.Errorf("dubins solve: turn radius must be positive, got %g", req.TurnRadiusM)
	}
	step := d.SampleStepM
	if step <= 0 {
		step = 5.0
	}

	deadline := time.Now().Add(req.TimeBudget)
	if req.TimeBudget <= 0 {
		deadline = time.Now().Add(3 * time.Second)
	}

	direct, ok := shortestDubins(req.Start, req.Goal, req.TurnRadiusM)
	if ok {
		path := direct.sample(step)
		if pathValid(path, req.Bounds, req.Obstacles) {
			return path, nil
		}
	}
	if len(req.Obstacles) == 0 && !ok {
		return nil, ports.ErrNoPath
	}

	// Detour search: route through one offset obstacle vertex. The via
	// heading points at the goal so the second leg stays short.
	best, bestLen := geom.Polyline(nil), math.Inf(1)
	for _, via := range d.viaCandidates(req) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			break
		}
		path, length, found := d.twoLeg(req, via, step)
		if found && length < bestLen {
			best, bestLen = path, length
		}
	}
	if best != nil {
		return best, nil
	}
	return nil, ports.ErrNoPath
}

// twoLeg plans start->via->goal and validates the joined path.
func (d *DubinsPlanner) twoLeg(req ports.SolveRequest, via geom.Pose, step float64) (geom.Polyline, float64, bool) {
	first, ok := shortestDubins(req.Start, via, req.TurnRadiusM)
	if !ok {
		return nil, 0, false
	}
	second, ok := shortestDubins(via, req.Goal, req.TurnRadiusM)
	if !ok {
		return nil, 0, false
	}
	path := first.sample(step)
	path = append(path, second.sample(step)[1:]...)
	if !pathValid(path, req.Bounds, req.Obstacles) {
		return nil, 0, false
	}
	return path, first.length() + second.length(), true
}

func (d *DubinsPlanner) viaCandidates(req ports.SolveRequest) []geom.Pose {
	clear := d.ClearanceFactor * req.TurnRadiusM
	goal := geom.Point{X: req.Goal.X, Y: req.Goal.Y}
	var out []geom.Pose
	for _, obs := range req.Obstacles {
		c := obs.Centroid()
		for _, v := range obs {
			away := v.Sub(c)
			if away.Norm() < 1e-9 {
				continue
			}
			p := v.Add(away.Unit().Scale(clear))
			if !req.Bounds.Contains(p) {
				continue
			}
			inside := false
			for _, other := range req.Obstacles {
				if other.Contains(p) {
					inside = true
					break
				}
			}
			if inside {
				continue
			}
			out = append(out, geom.Pose{X: p.X, Y: p.Y, Heading: geom.Heading(p, goal)})
		}
	}
	return out
}

func pathValid(path geom.Polyline, bounds geom.Rect, obstacles []geom.Polygon) bool {
	for _, p := range path {
		if !bounds.Contains(p) {
			return false
		}
		for _, obs := range obstacles {
			if obs.Contains(p) {
				return false
			}
		}
	}
	return true
}

// Closed-form Dubins words. Working frame is normalized: the turn radius
// is 1 and the start sits at the origin heading along +x of the rotated
// frame. Formulas follow the standard six-word construction.

type dubinsWord struct {
	segs [3]byte // 'L', 'S', 'R'
	t    [3]float64
}

type dubinsPath struct {
	start  geom.Pose
	radius float64
	word   dubinsWord
}

func mod2pi(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func shortestDubins(start, goal geom.Pose, radius float64) (dubinsPath, bool) {
	dx := (goal.X - start.X) / radius
	dy := (goal.Y - start.Y) / radius
	d := math.Hypot(dx, dy)
	theta := math.Atan2(dy, dx)
	alpha := mod2pi(start.Heading - theta)
	beta := mod2pi(goal.Heading - theta)

	sa, ca := math.Sin(alpha), math.Cos(alpha)
	sb, cb := math.Sin(beta), math.Cos(beta)
	cab := math.Cos(alpha - beta)

	best := dubinsWord{}
	bestLen := math.Inf(1)
	consider := func(segs [3]byte, t0, t1, t2 float64) {
		total := t0 + t1 + t2
		if total < bestLen {
			best = dubinsWord{segs: segs, t: [3]float64{t0, t1, t2}}
			bestLen = total
		}
	}

	// LSL
	if psq := 2 + d*d - 2*cab + 2*d*(sa-sb); psq >= 0 {
		tmp := math.Atan2(cb-ca, d+sa-sb)
		consider([3]byte{'L', 'S', 'L'}, mod2pi(-alpha+tmp), math.Sqrt(psq), mod2pi(beta-tmp))
	}
	// RSR
	if psq := 2 + d*d - 2*cab + 2*d*(sb-sa); psq >= 0 {
		tmp := math.Atan2(ca-cb, d-sa+sb)
		consider([3]byte{'R', 'S', 'R'}, mod2pi(alpha-tmp), math.Sqrt(psq), mod2pi(-beta+tmp))
	}
	// LSR
	if psq := -2 + d*d + 2*cab + 2*d*(sa+sb); psq >= 0 {
		p := math.Sqrt(psq)
		tmp := math.Atan2(-ca-cb, d+sa+sb) - math.Atan2(-2.0, p)
		consider([3]byte{'L', 'S', 'R'}, mod2pi(-alpha+tmp), p, mod2pi(-mod2pi(beta)+tmp))
	}
	// RSL
	if psq := d*d - 2 + 2*cab - 2*d*(sa+sb); psq >= 0 {
		p := math.Sqrt(psq)
		tmp := math.Atan2(ca+cb, d-sa-sb) - math.Atan2(2.0, p)
		consider([3]byte{'R', 'S', 'L'}, mod2pi(alpha-tmp), p, mod2pi(beta-tmp))
	}
	// RLR
	if tmp := (6 - d*d + 2*cab + 2*d*(sa-sb)) / 8; math.Abs(tmp) <= 1 {
		p := mod2pi(2*math.Pi - math.Acos(tmp))
		t := mod2pi(alpha - math.Atan2(ca-cb, d-sa+sb) + mod2pi(p/2))
		consider([3]byte{'R', 'L', 'R'}, t, p, mod2pi(alpha-beta-t+mod2pi(p)))
	}
	// LRL
	if tmp := (6 - d*d + 2*cab + 2*d*(sb-sa)) / 8; math.Abs(tmp) <= 1 {
		p := mod2pi(2*math.Pi - math.Acos(tmp))
		t := mod2pi(-alpha - math.Atan2(ca-cb, d+sa-sb) + p/2)
		consider([3]byte{'L', 'R', 'L'}, t, p, mod2pi(mod2pi(beta)-alpha-t+mod2pi(p)))
	}

	if math.IsInf(bestLen, 1) {
		return dubinsPath{}, false
	}
	return dubinsPath{start: start, radius: radius, word: best}, true
}

func (p dubinsPath) length() float64 {
	return (p.word.t[0] + p.word.t[1] + p.word.t[2]) * p.radius
}

// stepConfig advances a normalized configuration by arc length t along one
// segment type.
func stepConfig(q [3]float64, seg byte, t float64) [3]float64 {
	st, ct := math.Sin(q[2]), math.Cos(q[2])
	switch seg {
	case 'L':
		return [3]float64{q[0] + math.Sin(q[2]+t) - st, q[1] - math.Cos(q[2]+t) + ct, q[2] + t}
	case 'R':
		return [3]float64{q[0] - math.Sin(q[2]-t) + st, q[1] + math.Cos(q[2]-t) - ct, q[2] - t}
	default: // 'S'
		return [3]float64{q[0] + ct*t, q[1] + st*t, q[2]}
	}
}

// at returns the point at arc length s (in meters) along the path.
func (p dubinsPath) at(s float64) geom.Point {
	rem := s / p.radius
	q := [3]float64{0, 0, p.start.Heading}
	for i := 0; i < 3; i++ {
		t := p.word.t[i]
		if rem <= t {
			q = stepConfig(q, p.word.segs[i], rem)
			rem = 0
			break
		}
		q = stepConfig(q, p.word.segs[i], t)
		rem -= t
	}
	return geom.Point{
		X: p.start.X + q[0]*p.radius,
		Y: p.start.Y + q[1]*p.radius,
	}
}

// sample returns the path as a polyline with roughly stepM spacing,
// endpoints included.
func (p dubinsPath) sample(stepM float64) geom.Polyline {
	total := p.length()
	n := int(math.Ceil(total/stepM)) + 1
	if n < 2 {
		n = 2
	}
	out := make(geom.Polyline, 0, n)
	for i := 0; i < n; i++ {
		s := total * float64(i) / float64(n-1)
		out = append(out, p.at(s))
	}
	return out
}
