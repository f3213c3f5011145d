package domain

import "github.com/weegaboo/agro-mvp/internal/domain/geom"

// ZoneClass selects how the aircraft must treat a no-fly zone.
type ZoneClass int

const (
	// ZoneBlocking zones must not be crossed at any altitude; transit
	// paths route around them.
	ZoneBlocking ZoneClass = iota
	// ZoneOverfly zones may be crossed at increased altitude; the
	// altitude profiler injects a climb over them.
	ZoneOverfly
)

func (c ZoneClass) String() string {
	if c == ZoneOverfly {
		return "overfly"
	}
	return "blocking"
}

// NoFlyZone is a classified restricted polygon with its safety buffer.
type NoFlyZone struct {
	Polygon       geom.Polygon
	SafetyBufferM float64
	Class         ZoneClass
}

// Grown returns the polygon expanded by the safety buffer.
func (z NoFlyZone) Grown() geom.Polygon {
	return z.Polygon.Buffer(z.SafetyBufferM)
}

// ClassifyZones derives zone classes the way the mission document rules
// say: a zone wholly inside the field boundary is overflight-allowed (the
// aircraft climbs over it between swaths), anything else blocks transit.
func ClassifyZones(field geom.Polygon, zones []geom.Polygon, safetyBufferM float64) []NoFlyZone {
	out := make([]NoFlyZone, 0, len(zones))
	for _, z := range zones {
		if z.IsEmpty() {
			continue
		}
		class := ZoneBlocking
		if field.ContainsPolygon(z) {
			class = ZoneOverfly
		}
		out = append(out, NoFlyZone{Polygon: z, SafetyBufferM: safetyBufferM, Class: class})
	}
	return out
}

// BlockingPolygons returns the grown polygons of all blocking zones.
func BlockingPolygons(zones []NoFlyZone) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(zones))
	for _, z := range zones {
		if z.Class == ZoneBlocking {
			out = append(out, z.Grown())
		}
	}
	return out
}

// OverflyPolygons returns the raw polygons of all overflight-allowed zones.
func OverflyPolygons(zones []NoFlyZone) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(zones))
	for _, z := range zones {
		if z.Class == ZoneOverfly {
			out = append(out, z.Polygon)
		}
	}
	return out
}
