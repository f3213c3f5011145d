package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

func testProjection(t *testing.T) *geom.Projection {
	t.Helper()
	proj, err := geom.NewProjection([]geom.LonLat{
		{Lon: 30.50, Lat: 50.40},
		{Lon: 30.52, Lat: 50.42},
	})
	if err != nil {
		t.Fatalf("new projection: %v", err)
	}
	return proj
}

func exportTestTrip() (domain.Trip, []domain.AltitudeSample) {
	trip := domain.Trip{
		StartIdx: 0,
		EndIdx:   0,
		ToField:  geom.Polyline{{X: 244, Y: 0}, {X: 0, Y: 1000}},
		BackHome: geom.Polyline{{X: 500, Y: 1000}, {X: 429, Y: 0}},
	}
	infield := []domain.AltitudeSample{
		{Point: geom.Point{X: 0, Y: 1000}, AltM: 30},
		{Point: geom.Point{X: 250, Y: 1000}, AltM: 60},
		{Point: geom.Point{X: 500, Y: 1000}, AltM: 30},
	}
	return trip, infield
}

// wplCommands parses a WPL body into (seq, current, cmd) rows, failing on
// any malformed line.
func wplCommands(t *testing.T, text string) [][3]int {
	t.Helper()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if lines[0] != "QGC WPL 110" {
		t.Fatalf("bad header %q", lines[0])
	}
	rows := make([][3]int, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) != 12 {
			t.Fatalf("line %q has %d fields, want 12", line, len(fields))
		}
		seq, err := strconv.Atoi(fields[0])
		if err != nil {
			t.Fatalf("bad seq in %q: %v", line, err)
		}
		current, err := strconv.Atoi(fields[1])
		if err != nil {
			t.Fatalf("bad current in %q: %v", line, err)
		}
		cmd, err := strconv.Atoi(fields[3])
		if err != nil {
			t.Fatalf("bad command in %q: %v", line, err)
		}
		rows = append(rows, [3]int{seq, current, cmd})
	}
	return rows
}

func TestExportTripWPL(t *testing.T) {
	proj := testProjection(t)
	trip, infield := exportTestTrip()
	opts := DefaultExportOptions()

	text, err := ExportTripWPL(proj, geom.Polyline{{X: 0, Y: 0}, {X: 800, Y: 0}}, trip, infield, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := wplCommands(t, text)
	for i, r := range rows {
		if r[0] != i {
			t.Fatalf("row %d has seq %d", i, r[0])
		}
	}

	if rows[0][2] != cmdNavTakeoff {
		t.Fatalf("first command = %d, want NAV_TAKEOFF", rows[0][2])
	}
	if rows[0][1] != 1 {
		t.Fatalf("takeoff row must be current")
	}
	for _, r := range rows[1:] {
		if r[1] != 0 {
			t.Fatalf("row %d marked current", r[0])
		}
	}

	counts := map[int]int{}
	for _, r := range rows {
		counts[r[2]]++
	}
	for _, cmd := range []int{cmdDoChangeSpeed, cmdDoLandStart, cmdNavLand, cmdNavRTL} {
		if counts[cmd] != 1 {
			t.Fatalf("command %d appears %d times, want 1", cmd, counts[cmd])
		}
	}
	if counts[cmdNavWaypoint] < len(infield) {
		t.Fatalf("only %d waypoints for %d in-field samples", counts[cmdNavWaypoint], len(infield))
	}
	if last := rows[len(rows)-1][2]; last != cmdNavRTL {
		t.Fatalf("last command = %d, want RTL", last)
	}
}

func TestExportTripWPLNoRTL(t *testing.T) {
	proj := testProjection(t)
	trip, infield := exportTestTrip()
	opts := DefaultExportOptions()
	opts.Landing.IncludeRTL = false

	text, err := ExportTripWPL(proj, geom.Polyline{{X: 0, Y: 0}, {X: 800, Y: 0}}, trip, infield, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := wplCommands(t, text)
	for _, r := range rows {
		if r[2] == cmdNavRTL {
			t.Fatalf("RTL present with IncludeRTL disabled")
		}
	}
	if last := rows[len(rows)-1][2]; last != cmdNavLand {
		t.Fatalf("last command = %d, want NAV_LAND", last)
	}
}

func TestExportTripWPLRejectsEmptyInfield(t *testing.T) {
	proj := testProjection(t)
	trip, _ := exportTestTrip()

	_, err := ExportTripWPL(proj, geom.Polyline{{X: 0, Y: 0}, {X: 800, Y: 0}}, trip, nil, DefaultExportOptions())
	if err == nil {
		t.Fatalf("expected error for empty in-field path")
	}
}
