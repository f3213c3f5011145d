package geom

import (
	"math"
	"testing"
)

func TestPolygonContains(t *testing.T) {
	square := Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	if !square.Contains(Point{X: 5, Y: 5}) {
		t.Fatalf("expected center inside")
	}
	if square.Contains(Point{X: 15, Y: 5}) {
		t.Fatalf("expected outside point not contained")
	}
	if square.Contains(Point{X: -1, Y: -1}) {
		t.Fatalf("expected outside corner not contained")
	}
}

func TestPolygonBufferGrows(t *testing.T) {
	square := Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	grown := square.Buffer(5)

	if grown.IsEmpty() {
		t.Fatalf("buffered polygon is empty")
	}
	if grown.Area() <= square.Area() {
		t.Fatalf("buffer did not grow area: %.1f <= %.1f", grown.Area(), square.Area())
	}
	// A point just outside the original edge must fall inside the buffer.
	if !grown.Contains(Point{X: 12, Y: 5}) {
		t.Fatalf("expected point 2m off the edge inside a 5m buffer")
	}
}

func TestPolygonIntersectsSegment(t *testing.T) {
	square := Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	if !square.IntersectsSegment(Point{X: -5, Y: 5}, Point{X: 15, Y: 5}) {
		t.Fatalf("crossing segment should intersect")
	}
	if !square.IntersectsSegment(Point{X: 2, Y: 2}, Point{X: 8, Y: 8}) {
		t.Fatalf("fully interior segment should intersect")
	}
	if square.IntersectsSegment(Point{X: -5, Y: 20}, Point{X: 15, Y: 20}) {
		t.Fatalf("distant segment should not intersect")
	}
}

func TestPolylinePointAt(t *testing.T) {
	line := Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	if got := line.Length(); math.Abs(got-20) > 1e-9 {
		t.Fatalf("length = %v, want 20", got)
	}

	mid := line.PointAt(10)
	if mid.Distance(Point{X: 10, Y: 0}) > 1e-9 {
		t.Fatalf("PointAt(10) = %+v, want corner (10,0)", mid)
	}

	q := line.PointAt(15)
	if q.Distance(Point{X: 10, Y: 5}) > 1e-9 {
		t.Fatalf("PointAt(15) = %+v, want (10,5)", q)
	}

	end := line.PointAt(100)
	if end.Distance(Point{X: 10, Y: 10}) > 1e-9 {
		t.Fatalf("PointAt past end should clamp to last vertex, got %+v", end)
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	coords := []LonLat{
		{Lon: 37.60, Lat: 55.75},
		{Lon: 37.61, Lat: 55.76},
		{Lon: 37.62, Lat: 55.74},
	}
	proj, err := NewProjection(coords)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, c := range coords {
		back := proj.ToGeodetic(proj.ToLocal(c))
		if math.Abs(back.Lon-c.Lon) > 1e-9 || math.Abs(back.Lat-c.Lat) > 1e-9 {
			t.Fatalf("round trip drifted: %+v -> %+v", c, back)
		}
	}

	// One degree of latitude is about 111 km in the local frame.
	a := proj.ToLocal(LonLat{Lon: 37.61, Lat: 55.0})
	b := proj.ToLocal(LonLat{Lon: 37.61, Lat: 56.0})
	if d := a.Distance(b); math.Abs(d-111195) > 500 {
		t.Fatalf("1 degree latitude = %.0f m, want ~111195", d)
	}
}
