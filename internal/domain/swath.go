package domain

import (
	"fmt"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// Swath is one coverage pass across the field: an undirected polyline in
// the planar metric frame with a stable id. Swaths are produced once per
// mission by the coverage generator and are immutable afterwards.
type Swath struct {
	ID   int
	Line geom.Polyline
}

func (s Swath) Length() float64 { return s.Line.Length() }

// Endpoints returns the first and last vertex of the swath polyline.
func (s Swath) Endpoints() (geom.Point, geom.Point, error) {
	if len(s.Line) < 2 {
		return geom.Point{}, geom.Point{}, fmt.Errorf("swath %d: polyline must have at least 2 points", s.ID)
	}
	return s.Line[0], s.Line[len(s.Line)-1], nil
}

// OrientedSwath binds a swath to one of its two traversal directions.
// StartSide/EndSide label which long edge of the field each endpoint sits
// on; the labeling is established once per swath set so that adjacency
// decisions stay consistent across the whole collection.
type OrientedSwath struct {
	SwathID   int
	Dir       int // 0 = canonical A->B, 1 = reversed B->A
	Start     geom.Point
	End       geom.Point
	StartSide int
	EndSide   int
}

// Route is an ordered, oriented traversal of a swath set: one entry per
// swath id, each id appearing exactly once.
type Route []OrientedSwath

// Validate checks the route covers exactly the given swath ids.
func (r Route) Validate(swaths []Swath) error {
	if len(r) != len(swaths) {
		return fmt.Errorf("route: has %d entries, want %d", len(r), len(swaths))
	}
	want := make(map[int]struct{}, len(swaths))
	for _, s := range swaths {
		want[s.ID] = struct{}{}
	}
	seen := make(map[int]struct{}, len(r))
	for _, os := range r {
		if _, ok := want[os.SwathID]; !ok {
			return fmt.Errorf("route: unknown swath id %d", os.SwathID)
		}
		if _, dup := seen[os.SwathID]; dup {
			return fmt.Errorf("route: swath id %d appears more than once", os.SwathID)
		}
		seen[os.SwathID] = struct{}{}
	}
	return nil
}
