package domain

import (
	"testing"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

func TestClassifyZones(t *testing.T) {
	field := geom.Polygon{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}

	inside := geom.Polygon{{X: 400, Y: 400}, {X: 600, Y: 400}, {X: 600, Y: 600}, {X: 400, Y: 600}}
	outside := geom.Polygon{{X: 2000, Y: 0}, {X: 2200, Y: 0}, {X: 2200, Y: 200}, {X: 2000, Y: 200}}
	straddling := geom.Polygon{{X: 900, Y: 400}, {X: 1100, Y: 400}, {X: 1100, Y: 600}, {X: 900, Y: 600}}

	zones := ClassifyZones(field, []geom.Polygon{inside, outside, straddling}, 30)
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	if zones[0].Class != ZoneOverfly {
		t.Fatalf("zone inside field should be overfly, got %v", zones[0].Class)
	}
	if zones[1].Class != ZoneBlocking {
		t.Fatalf("zone outside field should be blocking, got %v", zones[1].Class)
	}
	if zones[2].Class != ZoneBlocking {
		t.Fatalf("straddling zone should be blocking, got %v", zones[2].Class)
	}

	blocking := BlockingPolygons(zones)
	if len(blocking) != 2 {
		t.Fatalf("expected 2 blocking polygons, got %d", len(blocking))
	}
	// Blocking polygons come back grown by the safety buffer.
	if !blocking[0].Contains(geom.Point{X: 1990, Y: 100}) {
		t.Fatalf("grown blocking zone should contain point 10m off the raw edge")
	}

	overfly := OverflyPolygons(zones)
	if len(overfly) != 1 {
		t.Fatalf("expected 1 overfly polygon, got %d", len(overfly))
	}
	// Overfly polygons stay raw.
	if overfly[0].Contains(geom.Point{X: 390, Y: 500}) {
		t.Fatalf("overfly zone should not be grown")
	}
}

func TestRouteValidate(t *testing.T) {
	swaths := []Swath{
		{ID: 0, Line: geom.Polyline{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		{ID: 1, Line: geom.Polyline{{X: 0, Y: 10}, {X: 100, Y: 10}}},
	}

	good := Route{{SwathID: 0}, {SwathID: 1}}
	if err := good.Validate(swaths); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	short := Route{{SwathID: 0}}
	if err := short.Validate(swaths); err == nil {
		t.Fatalf("expected error for missing swath")
	}

	dup := Route{{SwathID: 0}, {SwathID: 0}}
	if err := dup.Validate(swaths); err == nil {
		t.Fatalf("expected error for duplicate swath")
	}

	unknown := Route{{SwathID: 0}, {SwathID: 7}}
	if err := unknown.Validate(swaths); err == nil {
		t.Fatalf("expected error for unknown swath id")
	}
}
