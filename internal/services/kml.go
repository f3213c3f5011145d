package services

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	kml "github.com/twpayne/go-kml"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// WriteMissionKML renders a planned mission as a KML overlay: the field
// boundary, no-fly zones, the runway centerline and one track per trip.
// Transit legs fly at cruise altitude, the in-field track carries the
// overfly profile.
func WriteMissionKML(w io.Writer, plan *domain.FieldPlan, mission *domain.Mission, proj *geom.Projection, overfly OverflyOptions) error {
	if proj == nil {
		return errors.New("write kml: projection is required")
	}

	elems := []kml.Element{kml.Name(mission.Project)}
	elems = append(elems, overlayStyles()...)

	elems = append(elems, kml.Placemark(
		kml.Name("Field"),
		kml.StyleURL("#styleField"),
		polygonElement(plan.Field, proj),
	))
	for i, z := range plan.Zones {
		label := "NFZ"
		if z.Class == domain.ZoneOverfly {
			label = "NFZ (overfly)"
		}
		elems = append(elems, kml.Placemark(
			kml.Name(fmt.Sprintf("%s %d", label, i+1)),
			kml.StyleURL("#styleNFZ"),
			polygonElement(z.Polygon, proj),
		))
	}
	elems = append(elems, kml.Placemark(
		kml.Name("Runway"),
		kml.StyleURL("#styleRunway"),
		kml.LineString(kml.Coordinates(lineCoords(plan.Runway, 0, proj)...)),
	))

	zones := domain.OverflyPolygons(plan.Zones)
	for i, trip := range mission.Split.Trips {
		cover := TripCoverPath(mission.Route, plan.Swaths, trip)
		profile := ApplyOverflyProfile(cover, zones, overfly)

		pts := lineCoords(trip.ToField, overfly.BaseAltM, proj)
		for _, s := range profile {
			ll := proj.ToGeodetic(s.Point)
			pts = append(pts, kml.Coordinate{Lon: ll.Lon, Lat: ll.Lat, Alt: s.AltM})
		}
		pts = append(pts, lineCoords(trip.BackHome, overfly.BaseAltM, proj)...)

		elems = append(elems, kml.Placemark(
			kml.Name(fmt.Sprintf("Trip %d", i+1)),
			kml.Description(fmt.Sprintf("swaths %d..%d<br/>fuel %.1f L<br/>mix %.1f L",
				trip.StartIdx+1, trip.EndIdx+1, trip.FuelUsedL, trip.MixUsedL)),
			kml.StyleURL("#styleTrack"),
			kml.LineString(
				kml.AltitudeMode(kml.AltitudeModeRelativeToGround),
				kml.Tessellate(false),
				kml.Coordinates(pts...),
			),
		))
	}

	doc := kml.KML(kml.Folder(elems...))
	return doc.WriteIndent(w, "", "  ")
}

func lineCoords(line geom.Polyline, alt float64, proj *geom.Projection) []kml.Coordinate {
	out := make([]kml.Coordinate, 0, len(line))
	for _, p := range line {
		ll := proj.ToGeodetic(p)
		out = append(out, kml.Coordinate{Lon: ll.Lon, Lat: ll.Lat, Alt: alt})
	}
	return out
}

func polygonElement(ring geom.Polygon, proj *geom.Projection) kml.Element {
	coords := make([]kml.Coordinate, 0, len(ring)+1)
	for _, p := range ring {
		ll := proj.ToGeodetic(p)
		coords = append(coords, kml.Coordinate{Lon: ll.Lon, Lat: ll.Lat})
	}
	if len(coords) > 0 {
		coords = append(coords, coords[0])
	}
	return kml.Polygon(
		kml.Tessellate(true),
		kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coords...))),
	)
}

func overlayStyles() []kml.Element {
	return []kml.Element{
		kml.SharedStyle(
			"styleField",
			kml.LineStyle(kml.Width(2.0), kml.Color(color.RGBA{R: 0x20, G: 0xc0, B: 0x20, A: 0xff})),
			kml.PolyStyle(kml.Color(color.RGBA{R: 0x20, G: 0xc0, B: 0x20, A: 0x30})),
		),
		kml.SharedStyle(
			"styleNFZ",
			kml.LineStyle(kml.Width(2.0), kml.Color(color.RGBA{R: 0xff, G: 0x20, B: 0x20, A: 0xff})),
			kml.PolyStyle(kml.Color(color.RGBA{R: 0xff, G: 0x20, B: 0x20, A: 0x50})),
		),
		kml.SharedStyle(
			"styleRunway",
			kml.LineStyle(kml.Width(3.0), kml.Color(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})),
		),
		kml.SharedStyle(
			"styleTrack",
			kml.LineStyle(kml.Width(2.0), kml.Color(color.RGBA{R: 0, G: 0xff, B: 0xff, A: 0xcc})),
		),
	}
}
