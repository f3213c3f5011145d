package geom

import "math"

// Point is a position in a planar metric frame (meters).
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z-component of the 2D cross product.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Unit returns the normalized vector, or (1, 0) for near-zero vectors.
func (p Point) Unit() Point {
	n := p.Norm()
	if n < 1e-9 {
		return Point{1, 0}
	}
	return Point{p.X / n, p.Y / n}
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Heading returns the direction angle (radians) from p toward q.
func Heading(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X)
}

// Offset returns the point displaced from p by dist along unit vector u.
func (p Point) Offset(u Point, dist float64) Point {
	return Point{p.X + u.X*dist, p.Y + u.Y*dist}
}

// Pose is a position plus heading, required wherever paths are
// curvature-constrained.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

func (p Pose) Point() Point { return Point{p.X, p.Y} }

func PoseAt(pt Point, heading float64) Pose {
	return Pose{X: pt.X, Y: pt.Y, Heading: heading}
}

// Rect is an axis-aligned bounding region.
type Rect struct {
	Min Point
	Max Point
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Min: Point{r.Min.X - margin, r.Min.Y - margin},
		Max: Point{r.Max.X + margin, r.Max.Y + margin},
	}
}

// Diagonal returns the length of the rectangle's diagonal.
func (r Rect) Diagonal() float64 {
	return r.Min.Distance(r.Max)
}

// BoundsOf returns the bounding rectangle of a point set.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
