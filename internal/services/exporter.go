package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// ExportOptions tune waypoint file assembly.
type ExportOptions struct {
	SampleStepM  float64 // resample spacing for transit legs
	CruiseAltAGL float64
	Takeoff      TakeoffConfig
	Landing      LandingConfig
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		SampleStepM:  25.0,
		CruiseAltAGL: 30.0,
		Takeoff:      DefaultTakeoffConfig(),
		Landing:      DefaultLandingConfig(),
	}
}

// MAV_CMD codes used in the QGC WPL 110 output.
const (
	cmdNavWaypoint   = 16
	cmdNavLand       = 21
	cmdNavTakeoff    = 22
	cmdDoChangeSpeed = 178
	cmdDoLandStart   = 189
	cmdNavRTL        = 20

	wplFrame        = 3 // MAV_FRAME_GLOBAL_RELATIVE_ALT
	wplAutocontinue = 1
)

// TripCoverPath extracts the in-field path for one trip from the routed
// swath sequence.
func TripCoverPath(route domain.Route, swaths []domain.Swath, trip domain.Trip) geom.Polyline {
	if trip.StartIdx < 0 || trip.EndIdx >= len(route) {
		return nil
	}
	return BuildCoverPath(route[trip.StartIdx:trip.EndIdx+1], swaths)
}

// ExportTripWPL assembles one trip into QGC WPL 110 text: takeoff at the
// runway threshold, post-roll waypoint, speed change, outbound transit,
// the altitude-profiled in-field path, inbound transit, DO_LAND_START at
// the final approach fix, NAV_LAND at the threshold, optional RTL.
func ExportTripWPL(
	proj *geom.Projection,
	runway geom.Polyline,
	trip domain.Trip,
	infield []domain.AltitudeSample,
	opts ExportOptions,
) (string, error) {
	if proj == nil {
		return "", errors.New("export trip: projection is required")
	}
	p0, u, err := runwayAxis(runway)
	if err != nil {
		return "", fmt.Errorf("export trip: %w", err)
	}
	if len(infield) == 0 {
		return "", errors.New("export trip: in-field path is empty")
	}

	threshold := proj.ToGeodetic(p0)

	var sb strings.Builder
	sb.WriteString("QGC WPL 110\n")
	seq := 0

	writeCmd := func(current, cmd int, p1 float64, lat, lon, alt float64) {
		fmt.Fprintf(&sb, "%d %d %d %d %g 0 0 0 %.7f %.7f %.2f %d\n",
			seq, current, wplFrame, cmd, p1, lat, lon, alt, wplAutocontinue)
		seq++
	}
	writePoint := func(pt geom.Point, alt float64) {
		ll := proj.ToGeodetic(pt)
		writeCmd(0, cmdNavWaypoint, 0, ll.Lat, ll.Lon, alt)
	}

	// Takeoff at the threshold, then the first waypoint past ground roll.
	writeCmd(1, cmdNavTakeoff, 0, threshold.Lat, threshold.Lon, opts.Takeoff.TakeoffAltAGL)
	writePoint(p0.Offset(u, opts.Takeoff.RollDistanceM), opts.CruiseAltAGL)

	// Commanded cruise speed; placed after the first waypoint so ground
	// stations do not treat it as the mission start.
	fmt.Fprintf(&sb, "%d 0 %d %d 0 %.3f 0 0 0 0 0 %d\n",
		seq, wplFrame, cmdDoChangeSpeed, opts.Takeoff.SpeedMS, wplAutocontinue)
	seq++

	for _, pt := range trip.ToField.Sample(opts.SampleStepM) {
		writePoint(pt, opts.CruiseAltAGL)
	}
	for _, s := range infield {
		writePoint(s.Point, s.AltM)
	}
	backPts := trip.BackHome.Sample(opts.SampleStepM)
	for _, pt := range backPts {
		writePoint(pt, opts.CruiseAltAGL)
	}

	// Landing approach begins at the final point of the inbound leg,
	// which PlanRoundTrip places at the final approach fix.
	faf := proj.ToGeodetic(backPts[len(backPts)-1])
	writeCmd(0, cmdDoLandStart, 0, faf.Lat, faf.Lon, opts.Landing.FAFAltAGL)
	writeCmd(0, cmdNavLand, 0, threshold.Lat, threshold.Lon, 0)
	if opts.Landing.IncludeRTL {
		fmt.Fprintf(&sb, "%d 0 %d %d 0 0 0 0 0 0 0 %d\n", seq, wplFrame, cmdNavRTL, wplAutocontinue)
		seq++
	}

	return sb.String(), nil
}

// ExportMissionWPL assembles one waypoint file per trip. The altitude
// profile is computed per trip over its own in-field sub-path so each file
// stands alone.
func ExportMissionWPL(
	proj *geom.Projection,
	plan *domain.FieldPlan,
	mission *domain.Mission,
	overfly OverflyOptions,
	opts ExportOptions,
) ([]string, error) {
	zones := domain.OverflyPolygons(plan.Zones)
	out := make([]string, 0, len(mission.Split.Trips))
	for i, trip := range mission.Split.Trips {
		cover := TripCoverPath(mission.Route, plan.Swaths, trip)
		if len(cover) == 0 {
			return nil, fmt.Errorf("export mission: trip %d has an empty cover path", i)
		}
		profile := ApplyOverflyProfile(cover, zones, overfly)
		text, err := ExportTripWPL(proj, plan.Runway, trip, profile, opts)
		if err != nil {
			return nil, fmt.Errorf("export mission: trip %d: %w", i, err)
		}
		out = append(out, text)
	}
	return out, nil
}
