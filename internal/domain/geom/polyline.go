package geom

// Polyline is an ordered sequence of planar points (meters).
type Polyline []Point

// Length returns the total arc length.
func (l Polyline) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(l); i++ {
		total += l[i].Distance(l[i+1])
	}
	return total
}

// Cumulative returns arc length at every vertex. Cumulative()[0] is 0 and
// the last entry equals Length(). Returns nil for an empty polyline.
func (l Polyline) Cumulative() []float64 {
	if len(l) == 0 {
		return nil
	}
	cum := make([]float64, len(l))
	for i := 1; i < len(l); i++ {
		cum[i] = cum[i-1] + l[i-1].Distance(l[i])
	}
	return cum
}

// PointAt interpolates the point at arc length s. Values outside [0, Length]
// clamp to the endpoints.
func (l Polyline) PointAt(s float64) Point {
	if len(l) == 0 {
		return Point{}
	}
	if len(l) == 1 || s <= 0 {
		return l[0]
	}
	remaining := s
	for i := 0; i+1 < len(l); i++ {
		segLen := l[i].Distance(l[i+1])
		if remaining <= segLen {
			if segLen < 1e-9 {
				return l[i]
			}
			t := remaining / segLen
			return Point{
				X: l[i].X + t*(l[i+1].X-l[i].X),
				Y: l[i].Y + t*(l[i+1].Y-l[i].Y),
			}
		}
		remaining -= segLen
	}
	return l[len(l)-1]
}

// Sample returns points along the polyline every step meters, always
// including the final point.
func (l Polyline) Sample(step float64) []Point {
	if len(l) == 0 {
		return nil
	}
	total := l.Length()
	if total <= 0 {
		return []Point{l[0]}
	}
	if step < 0.1 {
		step = 0.1
	}
	out := make([]Point, 0, int(total/step)+2)
	for s := 0.0; s < total; s += step {
		out = append(out, l.PointAt(s))
	}
	out = append(out, l[len(l)-1])
	return out
}

// Dedupe removes consecutive points closer than eps.
func (l Polyline) Dedupe(eps float64) Polyline {
	if len(l) < 2 {
		return l
	}
	out := Polyline{l[0]}
	for _, p := range l[1:] {
		if p.Distance(out[len(out)-1]) > eps {
			out = append(out, p)
		}
	}
	return out
}

// Reverse returns a copy traversed in the opposite direction.
func (l Polyline) Reverse() Polyline {
	out := make(Polyline, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// Bounds returns the bounding rectangle of the polyline's vertices.
func (l Polyline) Bounds() Rect { return BoundsOf(l) }
