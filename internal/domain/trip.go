package domain

import "github.com/weegaboo/agro-mvp/internal/domain/geom"

// Trip is one takeoff-to-landing cycle: a contiguous index range into the
// Route plus its transit legs and resource usage. Trips partition the
// route exactly, with no gaps or overlaps.
type Trip struct {
	StartIdx  int
	EndIdx    int
	ToField   geom.Polyline
	BackHome  geom.Polyline
	FuelUsedL float64
	MixUsedL  float64
}

// TransitLenM is the combined length of both transit legs.
func (t Trip) TransitLenM() float64 {
	return t.ToField.Length() + t.BackHome.Length()
}

// SwathCount is the number of route entries the trip covers.
func (t Trip) SwathCount() int { return t.EndIdx - t.StartIdx + 1 }

// TripSplit is the result of partitioning a route into trips.
type TripSplit struct {
	Trips          []Trip
	TransitLengthM float64
}

// AltitudeSample pairs a path point with its commanded altitude (meters
// above ground). A profiled path is an ordered sequence of these, denser
// than the input near zone boundaries.
type AltitudeSample struct {
	Point geom.Point
	AltM  float64
}
