package services

import (
	"math"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// EstimateMission summarizes lengths, durations, and resource usage for a
// planned mission. Transit and spray legs fly at different speeds; fuel is
// charged by distance, mix by treated area.
func EstimateMission(
	field geom.Polygon,
	swaths []domain.Swath,
	coverPath geom.Polyline,
	split domain.TripSplit,
	ac domain.Aircraft,
) domain.Estimate {
	transitLen := split.TransitLengthM
	sprayLen := coverPath.Length()

	transitSpeed := math.Max(ac.TransitSpeedMS, 0.1)
	spraySpeed := math.Max(ac.SpraySpeedMS, 0.1)

	tTransitMin := transitLen / transitSpeed / 60
	tSprayMin := sprayLen / spraySpeed / 60

	fieldHa := field.Area() / 10000
	sprayedHa := sprayedAreaHa(field, swaths, ac.SprayWidthM)

	return domain.Estimate{
		LengthTotalM:   transitLen + sprayLen,
		LengthTransitM: transitLen,
		LengthSprayM:   sprayLen,
		TimeTotalMin:   tTransitMin + tSprayMin,
		TimeTransitMin: tTransitMin,
		TimeSprayMin:   tSprayMin,
		FuelL:          (transitLen + sprayLen) * ac.FuelPerMeter(),
		MixL:           ac.MixRateLPerHa * sprayedHa,
		FieldAreaHa:    fieldHa,
		SprayedAreaHa:  sprayedHa,
	}
}

// sprayedAreaHa approximates treated area as swath length times spray
// width, capped at the field area. An exact union of swath buffers clipped
// to the field would need polygon boolean ops; for estimate display the
// cap keeps overlap error bounded by the field itself.
func sprayedAreaHa(field geom.Polygon, swaths []domain.Swath, sprayWidthM float64) float64 {
	if field.IsEmpty() || len(swaths) == 0 || sprayWidthM <= 0 {
		return 0
	}
	total := 0.0
	for _, s := range swaths {
		total += s.Length() * sprayWidthM
	}
	return math.Min(total, field.Area()) / 10000
}

// BuildCoverPath joins the routed swaths with straight connectors into the
// single in-field path used for altitude profiling and length accounting.
func BuildCoverPath(route domain.Route, swaths []domain.Swath) geom.Polyline {
	byID := make(map[int]domain.Swath, len(swaths))
	for _, s := range swaths {
		byID[s.ID] = s
	}
	var path geom.Polyline
	for _, os := range route {
		s, ok := byID[os.SwathID]
		if !ok {
			continue
		}
		line := s.Line
		if os.Dir == 1 {
			line = line.Reverse()
		}
		path = append(path, line...)
	}
	return path.Dedupe(1e-6)
}
