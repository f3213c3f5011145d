package geom

import (
	"errors"
	"math"
)

const earthRadiusM = 6371000.0

// Projection converts between geodetic (lon, lat degrees) and a local
// planar metric frame centered on a reference point. Mission geometry is a
// few kilometers across at most, so an equirectangular tangent plane keeps
// distance error well under the spray width.
type Projection struct {
	originLon float64
	originLat float64
	cosLat    float64
}

// LonLat is a geodetic coordinate (degrees).
type LonLat struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// NewProjection builds a projection centered on the centroid of the given
// geodetic coordinates.
func NewProjection(coords []LonLat) (*Projection, error) {
	if len(coords) == 0 {
		return nil, errors.New("projection: at least one coordinate is required")
	}
	var lon, lat float64
	for _, c := range coords {
		lon += c.Lon
		lat += c.Lat
	}
	lon /= float64(len(coords))
	lat /= float64(len(coords))
	return &Projection{
		originLon: lon,
		originLat: lat,
		cosLat:    math.Cos(lat * math.Pi / 180),
	}, nil
}

// ToLocal projects a geodetic coordinate onto the metric plane.
func (pr *Projection) ToLocal(c LonLat) Point {
	dLon := (c.Lon - pr.originLon) * math.Pi / 180
	dLat := (c.Lat - pr.originLat) * math.Pi / 180
	return Point{
		X: earthRadiusM * dLon * pr.cosLat,
		Y: earthRadiusM * dLat,
	}
}

// ToGeodetic inverts ToLocal.
func (pr *Projection) ToGeodetic(p Point) LonLat {
	return LonLat{
		Lon: pr.originLon + (p.X/(earthRadiusM*pr.cosLat))*180/math.Pi,
		Lat: pr.originLat + (p.Y/earthRadiusM)*180/math.Pi,
	}
}

// LineToLocal projects a geodetic linestring.
func (pr *Projection) LineToLocal(coords []LonLat) Polyline {
	out := make(Polyline, len(coords))
	for i, c := range coords {
		out[i] = pr.ToLocal(c)
	}
	return out
}

// RingToLocal projects a geodetic ring, dropping a repeated closing vertex.
func (pr *Projection) RingToLocal(coords []LonLat) Polygon {
	if n := len(coords); n > 1 && coords[0] == coords[n-1] {
		coords = coords[:n-1]
	}
	out := make(Polygon, len(coords))
	for i, c := range coords {
		out[i] = pr.ToLocal(c)
	}
	return out
}

// LineToGeodetic converts a metric polyline back to geodetic coordinates.
func (pr *Projection) LineToGeodetic(line Polyline) []LonLat {
	out := make([]LonLat, len(line))
	for i, p := range line {
		out[i] = pr.ToGeodetic(p)
	}
	return out
}
