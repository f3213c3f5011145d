package services

import (
	"math/rand"
	"sort"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// SequencerOptions tune the swath ordering search.
//
// The search is a constrained Hamiltonian-path walk: greedy extension with
// bounded backtracking and randomized multi-restart. It minimizes immediate
// hop distance at each step and does not attempt global optimization; the
// design prioritizes determinism (seeded RNG, explicit stack) over
// optimality.
type SequencerOptions struct {
	// DistFactor scales the turn radius into the maximum allowed hop
	// distance between consecutive swaths.
	DistFactor float64
	// RequireSameSideEntry keeps consecutive swaths entering on the same
	// field side, avoiding a full field-width relocation.
	RequireSameSideEntry bool
	MaxRestarts          int
	BacktrackDepth       int
	Seed                 int64
}

// DefaultSequencerOptions mirror the tuning the planner ships with.
func DefaultSequencerOptions() SequencerOptions {
	return SequencerOptions{
		DistFactor:           2.0,
		RequireSameSideEntry: true,
		MaxRestarts:          200,
		BacktrackDepth:       4,
		Seed:                 42,
	}
}

// estimateDirection averages unit direction vectors of all swaths, each
// flipped to agree with the first non-degenerate swath, yielding the
// dominant field direction.
func estimateDirection(swaths []domain.Swath) geom.Point {
	var ref geom.Point
	haveRef := false
	for _, s := range swaths {
		a, b, err := s.Endpoints()
		if err != nil {
			continue
		}
		v := b.Sub(a)
		if v.Norm() > 1e-6 {
			ref = v.Unit()
			haveRef = true
			break
		}
	}
	if !haveRef {
		return geom.Point{X: 1, Y: 0}
	}

	var sum geom.Point
	for _, s := range swaths {
		a, b, err := s.Endpoints()
		if err != nil {
			continue
		}
		v := b.Sub(a)
		if v.Norm() < 1e-6 {
			continue
		}
		u := v.Unit()
		if u.Dot(ref) < 0 {
			u = u.Scale(-1)
		}
		sum = sum.Add(u)
	}
	return sum.Unit()
}

// canonicalEndpoints orders a swath's endpoints along the dominant
// direction so every swath gets the same low/high side labeling.
func canonicalEndpoints(s domain.Swath, dir geom.Point) (geom.Point, geom.Point, error) {
	a, b, err := s.Endpoints()
	if err != nil {
		return geom.Point{}, geom.Point{}, err
	}
	if a.Dot(dir) <= b.Dot(dir) {
		return a, b, nil
	}
	return b, a, nil
}

// buildOrientedSwaths produces both traversal directions per swath with
// set-wide consistent side labels. Side labeling is a derived, set-wide
// classification: it must be computed over the whole collection before any
// adjacency decision, or edges become inconsistent.
func buildOrientedSwaths(swaths []domain.Swath) ([]domain.OrientedSwath, error) {
	dir := estimateDirection(swaths)
	oriented := make([]domain.OrientedSwath, 0, 2*len(swaths))
	for _, s := range swaths {
		a, b, err := canonicalEndpoints(s, dir)
		if err != nil {
			return nil, err
		}
		oriented = append(oriented,
			domain.OrientedSwath{SwathID: s.ID, Dir: 0, Start: a, End: b, StartSide: 0, EndSide: 1},
			domain.OrientedSwath{SwathID: s.ID, Dir: 1, Start: b, End: a, StartSide: 1, EndSide: 0},
		)
	}
	return oriented, nil
}

// buildAdjacency creates the directed hop graph over oriented swaths.
func buildAdjacency(oriented []domain.OrientedSwath, turnRadiusM float64, opts SequencerOptions) [][]int {
	threshold := opts.DistFactor * turnRadiusM
	adj := make([][]int, len(oriented))
	for ui, u := range oriented {
		for vi, v := range oriented {
			if u.SwathID == v.SwathID {
				continue
			}
			if opts.RequireSameSideEntry && u.EndSide != v.StartSide {
				continue
			}
			if u.End.Distance(v.Start) >= threshold {
				continue
			}
			adj[ui] = append(adj[ui], vi)
		}
	}
	return adj
}

type backtrackFrame struct {
	pos  int   // index into the path this frame was pushed at
	alts []int // remaining alternatives, best first
}

// SequenceSwaths orders and orients the swath set into a Route.
//
// Sequencing never fails: if no restart yields a complete route, the
// trivial alternating (snake) order by swath index is returned with
// degraded=true. A snake route covers every swath exactly once but is not
// guaranteed turn-radius feasible; callers must surface the degradation
// and expect possible transit failures downstream.
func SequenceSwaths(swaths []domain.Swath, turnRadiusM float64, opts SequencerOptions) (route domain.Route, degraded bool, err error) {
	if len(swaths) == 0 {
		return domain.Route{}, false, nil
	}

	oriented, err := buildOrientedSwaths(swaths)
	if err != nil {
		return nil, false, err
	}
	adj := buildAdjacency(oriented, turnRadiusM, opts)
	rnd := rand.New(rand.NewSource(opts.Seed))

	// Starts with few outgoing edges are the riskiest; try them first so
	// they end up at the head of the path rather than stranded.
	starts := make([]int, len(oriented))
	for i := range starts {
		starts[i] = i
	}
	sort.SliceStable(starts, func(a, b int) bool {
		return len(adj[starts[a]]) < len(adj[starts[b]])
	})

	for restart := 0; restart < opts.MaxRestarts; restart++ {
		var start int
		if restart < len(starts) {
			start = starts[restart]
		} else {
			start = starts[rnd.Intn(len(starts))]
		}
		if path, ok := searchFrom(start, oriented, adj, len(swaths), opts.BacktrackDepth, rnd); ok {
			route := make(domain.Route, len(path))
			for i, idx := range path {
				route[i] = oriented[idx]
			}
			return route, false, nil
		}
	}

	return snakeRoute(swaths), true, nil
}

// searchFrom runs one greedy walk with bounded backtracking. Successor
// preference: smallest hop distance, then highest future out-degree among
// unused swaths, then a random tie-break for restart diversity.
func searchFrom(start int, oriented []domain.OrientedSwath, adj [][]int, n, backtrackDepth int, rnd *rand.Rand) ([]int, bool) {
	path := []int{start}
	used := map[int]struct{}{oriented[start].SwathID: {}}
	var stack []backtrackFrame

	futureDeg := func(idx int) int {
		deg := 0
		for _, v := range adj[idx] {
			if _, ok := used[oriented[v].SwathID]; !ok {
				deg++
			}
		}
		return deg
	}

	for len(used) < n {
		cur := path[len(path)-1]

		var options []int
		for _, v := range adj[cur] {
			if _, ok := used[oriented[v].SwathID]; !ok {
				options = append(options, v)
			}
		}

		if len(options) == 0 {
			// Dead end: pop saved alternatives, rewinding the path to
			// each frame's position, up to backtrackDepth attempts.
			recovered := false
			for attempt := 0; attempt < backtrackDepth; attempt++ {
				if len(stack) == 0 {
					return nil, false
				}
				frame := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for len(path)-1 > frame.pos {
					last := path[len(path)-1]
					path = path[:len(path)-1]
					delete(used, oriented[last].SwathID)
				}
				if len(frame.alts) > 0 {
					next := frame.alts[0]
					stack = append(stack, backtrackFrame{pos: frame.pos, alts: frame.alts[1:]})
					path = append(path, next)
					used[oriented[next].SwathID] = struct{}{}
					recovered = true
					break
				}
			}
			if !recovered {
				return nil, false
			}
			continue
		}

		type scored struct {
			idx    int
			hop    float64
			deg    int
			jitter float64
		}
		ranked := make([]scored, len(options))
		for i, v := range options {
			ranked[i] = scored{
				idx:    v,
				hop:    oriented[cur].End.Distance(oriented[v].Start),
				deg:    futureDeg(v),
				jitter: rnd.Float64(),
			}
		}
		sort.Slice(ranked, func(a, b int) bool {
			if ranked[a].hop != ranked[b].hop {
				return ranked[a].hop < ranked[b].hop
			}
			if ranked[a].deg != ranked[b].deg {
				return ranked[a].deg > ranked[b].deg
			}
			return ranked[a].jitter < ranked[b].jitter
		})

		next := ranked[0].idx
		alts := make([]int, 0, len(ranked)-1)
		for _, r := range ranked[1:] {
			alts = append(alts, r.idx)
		}
		stack = append(stack, backtrackFrame{pos: len(path) - 1, alts: alts})
		path = append(path, next)
		used[oriented[next].SwathID] = struct{}{}
	}

	return path, true
}

// snakeRoute is the boustrophedon fallback: alternate direction by index.
// Always structurally valid; turn-radius feasibility is not guaranteed.
func snakeRoute(swaths []domain.Swath) domain.Route {
	dir := estimateDirection(swaths)
	route := make(domain.Route, 0, len(swaths))
	for i, s := range swaths {
		a, b, err := canonicalEndpoints(s, dir)
		if err != nil {
			continue
		}
		if i%2 == 0 {
			route = append(route, domain.OrientedSwath{
				SwathID: s.ID, Dir: 0, Start: a, End: b, StartSide: 0, EndSide: 1,
			})
		} else {
			route = append(route, domain.OrientedSwath{
				SwathID: s.ID, Dir: 1, Start: b, End: a, StartSide: 1, EndSide: 0,
			})
		}
	}
	return route
}
