package services

import (
	"math"
	"sort"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// OverflyOptions tune the climb-over profile injected above
// overflight-allowed zones.
type OverflyOptions struct {
	BaseAltM      float64 // cruise altitude outside zones
	OverflyAltM   float64 // altitude while over a zone
	SafetyBufferM float64 // extra growth applied to each zone polygon
	DBeforeM      float64 // start climbing this far before zone entry
	DAfterM       float64 // finish descending this far after zone exit
	RampLenM      float64 // climb/descent length inside the expanded span
	SampleStepM   float64 // extra sample spacing along ramps
}

func DefaultOverflyOptions() OverflyOptions {
	return OverflyOptions{
		BaseAltM:      30.0,
		OverflyAltM:   60.0,
		SafetyBufferM: 0.0,
		DBeforeM:      80.0,
		DAfterM:       80.0,
		RampLenM:      60.0,
		SampleStepM:   20.0,
	}
}

type altInterval struct {
	a float64
	b float64
}

// ApplyOverflyProfile computes a per-point altitude so the path climbs
// over each overflight-allowed zone instead of deviating around it.
//
// The profile is a trapezoidal ramp per zone crossing (climb, plateau,
// symmetric descent), degrading to a triangle when the crossing is shorter
// than two ramps. Overlapping ramps resolve to the pointwise maximum. The
// output keeps every input vertex and inserts samples at interval
// boundaries and along ramps so the altitude change stays representable.
func ApplyOverflyProfile(path geom.Polyline, zones []geom.Polygon, opts OverflyOptions) []domain.AltitudeSample {
	if len(path) < 2 {
		return flatProfile(path, opts.BaseAltM)
	}

	active := make([]geom.Polygon, 0, len(zones))
	for _, z := range zones {
		if z.IsEmpty() {
			continue
		}
		if opts.SafetyBufferM > 0 {
			z = z.Buffer(opts.SafetyBufferM)
		}
		active = append(active, z)
	}
	if len(active) == 0 {
		return flatProfile(path, opts.BaseAltM)
	}

	cum := path.Cumulative()
	totalLen := cum[len(cum)-1]
	if totalLen <= 1e-9 {
		return []domain.AltitudeSample{{Point: path[0], AltM: opts.BaseAltM}}
	}

	// Mark segments that touch any zone, then merge runs of marked
	// segments into arc-length intervals.
	badSeg := make([]bool, len(path)-1)
	anyBad := false
	for i := 0; i+1 < len(path); i++ {
		if cum[i+1]-cum[i] <= 1e-9 {
			continue
		}
		for _, z := range active {
			if z.IntersectsSegment(path[i], path[i+1]) {
				badSeg[i] = true
				anyBad = true
				break
			}
		}
	}
	if !anyBad {
		return flatProfile(path, opts.BaseAltM)
	}

	var intervals []altInterval
	for i := 0; i < len(badSeg); {
		if !badSeg[i] {
			i++
			continue
		}
		j := i
		for j < len(badSeg) && badSeg[j] {
			j++
		}
		intervals = append(intervals, altInterval{a: cum[i], b: cum[j]})
		i = j
	}

	// Expand by the approach margins and merge overlaps.
	for k := range intervals {
		intervals[k].a = math.Max(0, intervals[k].a-opts.DBeforeM)
		intervals[k].b = math.Min(totalLen, intervals[k].b+opts.DAfterM)
	}
	sort.Slice(intervals, func(a, b int) bool { return intervals[a].a < intervals[b].a })
	merged := intervals[:0:0]
	for _, iv := range intervals {
		if len(merged) == 0 || iv.a > merged[len(merged)-1].b {
			merged = append(merged, iv)
		} else if iv.b > merged[len(merged)-1].b {
			merged[len(merged)-1].b = iv.b
		}
	}

	ramp := math.Max(0, opts.RampLenM)
	step := math.Max(1.0, opts.SampleStepM)

	// Sample set: original vertices, interval boundaries, ramp points.
	sSet := make(map[float64]struct{}, len(cum)+8*len(merged))
	for _, s := range cum {
		sSet[s] = struct{}{}
	}
	for _, iv := range merged {
		sSet[iv.a] = struct{}{}
		sSet[iv.b] = struct{}{}
		upEnd := math.Min(iv.b, iv.a+ramp)
		for s := iv.a; s < upEnd; s += step {
			sSet[s] = struct{}{}
		}
		sSet[upEnd] = struct{}{}
		downStart := math.Max(iv.a, iv.b-ramp)
		for s := downStart; s < iv.b; s += step {
			sSet[s] = struct{}{}
		}
		sSet[downStart] = struct{}{}
	}

	sValues := make([]float64, 0, len(sSet))
	for s := range sSet {
		sValues = append(sValues, s)
	}
	sort.Float64s(sValues)

	out := make([]domain.AltitudeSample, 0, len(sValues))
	var last geom.Point
	haveLast := false
	for _, s := range sValues {
		p := path.PointAt(s)
		if haveLast && p.Distance(last) < 1e-9 {
			continue
		}
		out = append(out, domain.AltitudeSample{
			Point: p,
			AltM:  altitudeAt(s, merged, opts.BaseAltM, opts.OverflyAltM, ramp),
		})
		last = p
		haveLast = true
	}
	return out
}

func flatProfile(path geom.Polyline, baseAlt float64) []domain.AltitudeSample {
	out := make([]domain.AltitudeSample, len(path))
	for i, p := range path {
		out[i] = domain.AltitudeSample{Point: p, AltM: baseAlt}
	}
	return out
}

// altitudeAt is the pointwise maximum of all interval ramps at arc length s.
func altitudeAt(s float64, intervals []altInterval, base, over, ramp float64) float64 {
	alt := base
	for _, iv := range intervals {
		alt = math.Max(alt, rampAltitude(s, iv, base, over, ramp))
	}
	return alt
}

func rampAltitude(s float64, iv altInterval, base, over, ramp float64) float64 {
	length := iv.b - iv.a
	if length <= 0 || s < iv.a || s > iv.b {
		return base
	}
	if ramp <= 1e-9 {
		return over
	}
	// Short crossing: triangular climb/descent with no plateau.
	if length < 2*ramp {
		mid := (iv.a + iv.b) / 2
		if s <= mid {
			t := (s - iv.a) / (mid - iv.a + 1e-12)
			return base + (over-base)*t
		}
		t := (iv.b - s) / (iv.b - mid + 1e-12)
		return base + (over-base)*t
	}
	switch {
	case s <= iv.a+ramp:
		t := (s - iv.a) / ramp
		return base + (over-base)*t
	case s < iv.b-ramp:
		return over
	default:
		t := (iv.b - s) / ramp
		return base + (over-base)*t
	}
}
