package services

import (
	"testing"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

func TestApplyOverflyProfileFlatWithoutZones(t *testing.T) {
	path := geom.Polyline{{X: 0, Y: 0}, {X: 500, Y: 0}}
	opts := DefaultOverflyOptions()

	samples := ApplyOverflyProfile(path, nil, opts)
	if len(samples) != len(path) {
		t.Fatalf("got %d samples, want %d", len(samples), len(path))
	}
	for _, s := range samples {
		if s.AltM != opts.BaseAltM {
			t.Fatalf("altitude %.1f at (%.0f, %.0f), want base %.1f", s.AltM, s.Point.X, s.Point.Y, opts.BaseAltM)
		}
	}
}

func TestApplyOverflyProfileClimbsOverZone(t *testing.T) {
	// A densely sampled straight path crossing a square zone at x 900..1100.
	line := geom.Polyline{{X: 0, Y: 0}, {X: 2000, Y: 0}}
	path := geom.Polyline(line.Sample(10))
	zone := geom.Polygon{
		{X: 900, Y: -100}, {X: 1100, Y: -100}, {X: 1100, Y: 100}, {X: 900, Y: 100},
	}
	opts := DefaultOverflyOptions()

	samples := ApplyOverflyProfile(path, []geom.Polygon{zone}, opts)
	if len(samples) < len(path) {
		t.Fatalf("profile lost input vertices: %d samples for %d points", len(samples), len(path))
	}

	for _, s := range samples {
		if s.AltM < opts.BaseAltM-1e-9 || s.AltM > opts.OverflyAltM+1e-9 {
			t.Fatalf("altitude %.2f at x=%.1f outside [%.1f, %.1f]", s.AltM, s.Point.X, opts.BaseAltM, opts.OverflyAltM)
		}
		// The elevated span never reaches past the zone plus its expansion
		// margins (80 m on each side here).
		if (s.Point.X < 900-opts.DBeforeM-15 || s.Point.X > 1100+opts.DAfterM+15) && s.AltM != opts.BaseAltM {
			t.Fatalf("altitude %.2f at x=%.1f, want base far from the zone", s.AltM, s.Point.X)
		}
		// The zone interior is fully on the plateau.
		if s.Point.X > 950 && s.Point.X < 1050 && s.AltM != opts.OverflyAltM {
			t.Fatalf("altitude %.2f at x=%.1f over the zone, want %.1f", s.AltM, s.Point.X, opts.OverflyAltM)
		}
	}

	// Monotone climb on the way in: altitude never drops before the zone.
	prev := -1.0
	for _, s := range samples {
		if s.Point.X > 1000 {
			break
		}
		if s.AltM < prev-1e-9 {
			t.Fatalf("altitude dips to %.2f at x=%.1f during the approach climb", s.AltM, s.Point.X)
		}
		prev = s.AltM
	}
}

func TestApplyOverflyProfileMissingZone(t *testing.T) {
	// Zone far from the path: no elevated span at all.
	line := geom.Polyline{{X: 0, Y: 0}, {X: 2000, Y: 0}}
	path := geom.Polyline(line.Sample(10))
	zone := geom.Polygon{
		{X: 900, Y: 500}, {X: 1100, Y: 500}, {X: 1100, Y: 700}, {X: 900, Y: 700},
	}
	opts := DefaultOverflyOptions()

	samples := ApplyOverflyProfile(path, []geom.Polygon{zone}, opts)
	for _, s := range samples {
		if s.AltM != opts.BaseAltM {
			t.Fatalf("altitude %.2f at x=%.1f, want base everywhere", s.AltM, s.Point.X)
		}
	}
}
