// Package cache provides persistent transit-leg caches keyed by mission
// fingerprint and swath id, with SQLite and Postgres backends.
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// Polylines are stored as JSON [[x,y],...] text. Round-trips are exact
// enough for metric-frame paths; keys change whenever planning inputs
// change, so precision drift never accumulates.

func encodePolyline(line geom.Polyline) (string, error) {
	pts := make([][2]float64, 0, len(line))
	for _, p := range line {
		pts = append(pts, [2]float64{p.X, p.Y})
	}
	b, err := json.Marshal(pts)
	if err != nil {
		return "", fmt.Errorf("encode polyline: %w", err)
	}
	return string(b), nil
}

func decodePolyline(s string) (geom.Polyline, error) {
	var pts [][2]float64
	if err := json.Unmarshal([]byte(s), &pts); err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	out := make(geom.Polyline, 0, len(pts))
	for _, p := range pts {
		out = append(out, geom.Point{X: p[0], Y: p[1]})
	}
	return out, nil
}
