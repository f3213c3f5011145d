package geom

import "math"

// Polygon is a simple planar ring. The closing edge from the last vertex
// back to the first is implicit; callers must not repeat the first vertex.
type Polygon []Point

// IsEmpty reports whether the polygon has fewer than 3 vertices.
func (pg Polygon) IsEmpty() bool { return len(pg) < 3 }

// SignedArea is positive for counter-clockwise rings.
func (pg Polygon) SignedArea() float64 {
	if pg.IsEmpty() {
		return 0
	}
	area := 0.0
	n := len(pg)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pg[i].Cross(pg[j])
	}
	return area / 2
}

// Area returns the absolute enclosed area in square meters.
func (pg Polygon) Area() float64 { return math.Abs(pg.SignedArea()) }

// Contains reports whether p lies strictly inside the ring (ray casting).
func (pg Polygon) Contains(p Point) bool {
	if pg.IsEmpty() {
		return false
	}
	inside := false
	n := len(pg)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := pg[i], pg[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vj.X + (p.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// ContainsPolygon reports whether every vertex of inner lies inside pg.
// Sufficient for the convex-ish field boundaries this planner deals with.
func (pg Polygon) ContainsPolygon(inner Polygon) bool {
	if pg.IsEmpty() || inner.IsEmpty() {
		return false
	}
	for _, p := range inner {
		if !pg.Contains(p) {
			return false
		}
	}
	return true
}

func orientation(a, b, c Point) float64 {
	return (b.X - a.X)*(c.Y - a.Y) - (b.Y - a.Y)*(c.X - a.X)
}

func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X)-1e-9 <= p.X && p.X <= math.Max(a.X, b.X)+1e-9 &&
		math.Min(a.Y, b.Y)-1e-9 <= p.Y && p.Y <= math.Max(a.Y, b.Y)+1e-9
}

// SegmentsIntersect reports whether segments [a,b] and [c,d] intersect,
// including touching endpoints and collinear overlap.
func SegmentsIntersect(a, b, c, d Point) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(c, d, a) {
		return true
	}
	if d2 == 0 && onSegment(c, d, b) {
		return true
	}
	if d3 == 0 && onSegment(a, b, c) {
		return true
	}
	if d4 == 0 && onSegment(a, b, d) {
		return true
	}
	return false
}

// IntersectsSegment reports whether segment [a,b] touches the polygon:
// crossing any edge or having either endpoint inside.
func (pg Polygon) IntersectsSegment(a, b Point) bool {
	if pg.IsEmpty() {
		return false
	}
	if pg.Contains(a) || pg.Contains(b) {
		return true
	}
	n := len(pg)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if SegmentsIntersect(a, b, pg[i], pg[j]) {
			return true
		}
	}
	return false
}

// Buffer grows the polygon outward by dist using mitered vertex offsets.
// The miter is capped at 3x dist to keep sharp corners bounded; the result
// is an approximation of a round buffer adequate for safety margins.
func (pg Polygon) Buffer(dist float64) Polygon {
	if pg.IsEmpty() || dist <= 0 {
		return pg
	}
	// Work on a counter-clockwise ring so outward normals point left of
	// the reversed edge direction consistently.
	ring := pg
	if pg.SignedArea() < 0 {
		ring = make(Polygon, len(pg))
		for i, p := range pg {
			ring[len(pg)-1-i] = p
		}
	}

	n := len(ring)
	out := make(Polygon, 0, n)
	maxMiter := 3 * dist
	for i := 0; i < n; i++ {
		prev := ring[(i+n-1)%n]
		cur := ring[i]
		next := ring[(i+1)%n]

		inDir := cur.Sub(prev).Unit()
		outDir := next.Sub(cur).Unit()
		// Outward normals for a CCW ring point right of travel.
		nIn := Point{inDir.Y, -inDir.X}
		nOut := Point{outDir.Y, -outDir.X}

		bisect := nIn.Add(nOut)
		bl := bisect.Norm()
		if bl < 1e-9 {
			// 180 degree spike: fall back to the edge normal.
			out = append(out, cur.Offset(nIn, dist))
			continue
		}
		bisect = Point{bisect.X / bl, bisect.Y / bl}
		// Miter length from the half-angle between adjacent edges.
		denom := 1 + nIn.Dot(nOut)
		miter := dist * math.Sqrt(2/math.Max(denom, 1e-9))
		if miter > maxMiter {
			miter = maxMiter
		}
		out = append(out, cur.Offset(bisect, miter))
	}
	return out
}

// Bounds returns the bounding rectangle of the ring.
func (pg Polygon) Bounds() Rect { return BoundsOf(pg) }

// Centroid returns the vertex-average center of the ring.
func (pg Polygon) Centroid() Point {
	if len(pg) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range pg {
		c.X += p.X
		c.Y += p.Y
	}
	return Point{c.X / float64(len(pg)), c.Y / float64(len(pg))}
}
