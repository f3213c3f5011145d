package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/weegaboo/agro-mvp/internal/adapters/planner"
	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

func splitterAircraft(capacityL float64) domain.Aircraft {
	return domain.Aircraft{
		SprayWidthM:    10,
		TurnRadiusM:    40,
		TankCapacityL:  capacityL,
		FuelReserveL:   5,
		FuelBurnLPerKm: 10, // 0.01 L/m
		MixRateLPerHa:  10, // 0.01 L/m at 10 m spray width
		TransitSpeedMS: 30,
		SpraySpeedMS:   20,
	}
}

// twoSwathRequest builds a fixed scenario: a runway along the x axis and two
// 1000 m swaths a couple of kilometers north, traversed as a snake.
func twoSwathRequest(capacityL float64) TripSplitRequest {
	swaths := []domain.Swath{
		{ID: 0, Line: geom.Polyline{{X: 0, Y: 1000}, {X: 1000, Y: 1000}}},
		{ID: 1, Line: geom.Polyline{{X: 0, Y: 1010}, {X: 1000, Y: 1010}}},
	}
	route := domain.Route{
		{SwathID: 0, Dir: 0, Start: geom.Point{X: 0, Y: 1000}, End: geom.Point{X: 1000, Y: 1000}, StartSide: 0, EndSide: 1},
		{SwathID: 1, Dir: 1, Start: geom.Point{X: 1000, Y: 1010}, End: geom.Point{X: 0, Y: 1010}, StartSide: 1, EndSide: 0},
	}
	return TripSplitRequest{
		Runway:   geom.Polyline{{X: 0, Y: 0}, {X: 800, Y: 0}},
		Route:    route,
		Swaths:   swaths,
		Aircraft: splitterAircraft(capacityL),
	}
}

func newTestSplitter(t *testing.T, mock *planner.MockPlanner) *TripSplitter {
	t.Helper()
	tp, err := NewTransitPlanner(mock, nil, DefaultTransitOptions())
	if err != nil {
		t.Fatalf("new transit planner: %v", err)
	}
	return NewTripSplitter(tp, nil, "test-mission")
}

func checkPartition(t *testing.T, trips []domain.Trip, n int, a domain.Aircraft) {
	t.Helper()
	want := 0
	for _, trip := range trips {
		if trip.StartIdx != want {
			t.Fatalf("trip starts at %d, want %d (gap or overlap)", trip.StartIdx, want)
		}
		if trip.EndIdx < trip.StartIdx {
			t.Fatalf("trip %d..%d is empty", trip.StartIdx, trip.EndIdx)
		}
		load := trip.FuelUsedL + trip.MixUsedL + a.FuelReserveL
		if load > a.TankCapacityL+1e-9 {
			t.Fatalf("trip %d..%d load %.2fL exceeds capacity %.2fL",
				trip.StartIdx, trip.EndIdx, load, a.TankCapacityL)
		}
		want = trip.EndIdx + 1
	}
	if want != n {
		t.Fatalf("trips cover %d route entries, want %d", want, n)
	}
}

func TestSplitSingleTrip(t *testing.T) {
	req := twoSwathRequest(100)
	ts := newTestSplitter(t, planner.NewMockPlanner())

	split, err := ts.Split(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(split.Trips) != 1 {
		t.Fatalf("got %d trips, want 1", len(split.Trips))
	}
	checkPartition(t, split.Trips, len(req.Route), req.Aircraft)
	if split.Trips[0].SwathCount() != 2 {
		t.Fatalf("trip covers %d swaths, want 2", split.Trips[0].SwathCount())
	}
	if split.TransitLengthM <= 0 {
		t.Fatalf("transit length not accumulated")
	}
}

func TestSplitIntoTwoTrips(t *testing.T) {
	// 55 L fits either swath alone (about 47 L and 49 L with mix and
	// reserve) but not both in one tank (about 66 L).
	req := twoSwathRequest(55)
	ts := newTestSplitter(t, planner.NewMockPlanner())

	split, err := ts.Split(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(split.Trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(split.Trips))
	}
	checkPartition(t, split.Trips, len(req.Route), req.Aircraft)
}

func TestSplitUnreachableSwath(t *testing.T) {
	// 20 L cannot even reach the first swath and come home on reserve.
	req := twoSwathRequest(20)
	ts := newTestSplitter(t, planner.NewMockPlanner())

	_, err := ts.Split(context.Background(), req, nil)
	var unreachable *UnreachableSwathError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected UnreachableSwathError, got %v", err)
	}
	if unreachable.Index != 0 {
		t.Fatalf("unreachable index = %d, want 0", unreachable.Index)
	}
	if unreachable.RequiredL <= unreachable.CapacityL {
		t.Fatalf("error reports required %.2f <= capacity %.2f", unreachable.RequiredL, unreachable.CapacityL)
	}
}

func TestSplitMixDoesNotFit(t *testing.T) {
	// 40 L covers the bare fuel round trip (about 37 L) but leaves no room
	// for the 10 L of mix the first swath needs.
	req := twoSwathRequest(40)
	ts := newTestSplitter(t, planner.NewMockPlanner())

	_, err := ts.Split(context.Background(), req, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var unreachable *UnreachableSwathError
	if errors.As(err, &unreachable) {
		t.Fatalf("mix overflow must not be reported as unreachable: %v", err)
	}
}

func TestSplitPlannerErrorAborts(t *testing.T) {
	req := twoSwathRequest(100)
	mock := planner.NewMockPlanner()
	mock.Err = errors.New("oracle down")
	ts := newTestSplitter(t, mock)

	_, err := ts.Split(context.Background(), req, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
}

// memoryTransitCache is a map-backed TransitCache for exercising the
// cache-first leg resolution.
type memoryTransitCache struct {
	mu   sync.Mutex
	legs map[string]map[int]ports.TransitLegs
}

func newMemoryTransitCache() *memoryTransitCache {
	return &memoryTransitCache{legs: map[string]map[int]ports.TransitLegs{}}
}

func (c *memoryTransitCache) GetMany(_ context.Context, missionKey string, swathIDs []int) (map[int]ports.TransitLegs, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[int]ports.TransitLegs{}
	for _, id := range swathIDs {
		if l, ok := c.legs[missionKey][id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

func (c *memoryTransitCache) PutMany(_ context.Context, missionKey string, legs map[int]ports.TransitLegs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.legs[missionKey] == nil {
		c.legs[missionKey] = map[int]ports.TransitLegs{}
	}
	for id, l := range legs {
		c.legs[missionKey][id] = l
	}
	return nil
}

// straightLegs builds a round trip of two straight legs of the given length.
func straightLegs(lengthM float64) ports.TransitLegs {
	return ports.TransitLegs{
		ToField:  geom.Polyline{{X: 0, Y: 0}, {X: lengthM, Y: 0}},
		BackHome: geom.Polyline{{X: lengthM, Y: 0}, {X: 0, Y: 0}},
	}
}

func TestSplitUnreachableIndexMonotonicInCapacity(t *testing.T) {
	// Three 100 m swaths with transit legs injected through the cache: 1000 m
	// round-trip legs for swath 0, 1200 m for swath 1, 5000 m for swath 2.
	// Shrinking the tank can only move the first unreachable swath earlier.
	swaths := []domain.Swath{
		{ID: 0, Line: geom.Polyline{{X: 0, Y: 1000}, {X: 100, Y: 1000}}},
		{ID: 1, Line: geom.Polyline{{X: 0, Y: 1010}, {X: 100, Y: 1010}}},
		{ID: 2, Line: geom.Polyline{{X: 0, Y: 5000}, {X: 100, Y: 5000}}},
	}
	route := domain.Route{
		{SwathID: 0, Dir: 0, Start: geom.Point{X: 0, Y: 1000}, End: geom.Point{X: 100, Y: 1000}, StartSide: 0, EndSide: 1},
		{SwathID: 1, Dir: 1, Start: geom.Point{X: 100, Y: 1010}, End: geom.Point{X: 0, Y: 1010}, StartSide: 1, EndSide: 0},
		{SwathID: 2, Dir: 0, Start: geom.Point{X: 0, Y: 5000}, End: geom.Point{X: 100, Y: 5000}, StartSide: 0, EndSide: 1},
	}

	const missionKey = "monotonic-mission"
	cache := newMemoryTransitCache()
	if err := cache.PutMany(context.Background(), missionKey, map[int]ports.TransitLegs{
		0: straightLegs(1000),
		1: straightLegs(1200),
		2: straightLegs(5000),
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	splitAt := func(capacityL float64) *UnreachableSwathError {
		t.Helper()
		tp, err := NewTransitPlanner(planner.NewMockPlanner(), nil, DefaultTransitOptions())
		if err != nil {
			t.Fatalf("new transit planner: %v", err)
		}
		ts := NewTripSplitter(tp, cache, missionKey)
		req := TripSplitRequest{
			Runway:   geom.Polyline{{X: 0, Y: 0}, {X: 800, Y: 0}},
			Route:    route,
			Swaths:   swaths,
			Aircraft: splitterAircraft(capacityL),
		}
		_, err = ts.Split(context.Background(), req, nil)
		var unreachable *UnreachableSwathError
		if !errors.As(err, &unreachable) {
			t.Fatalf("capacity %.0f: expected UnreachableSwathError, got %v", capacityL, err)
		}
		return unreachable
	}

	// 60 L covers swaths 0 and 1 in one trip (about 29 L with mix and
	// reserve) but cannot reach the distant swath 2 (about 106 L).
	large := splitAt(60)
	if large.Index != 2 {
		t.Fatalf("capacity 60 unreachable index = %d, want 2", large.Index)
	}

	// 20 L cannot even reach swath 0 (about 26 L).
	small := splitAt(20)
	if small.Index != 0 {
		t.Fatalf("capacity 20 unreachable index = %d, want 0", small.Index)
	}

	if small.Index > large.Index {
		t.Fatalf("smaller tank fails at index %d after larger tank's %d", small.Index, large.Index)
	}
}

func TestSplitUsesCache(t *testing.T) {
	req := twoSwathRequest(100)
	mock := planner.NewMockPlanner()
	tp, err := NewTransitPlanner(mock, nil, DefaultTransitOptions())
	if err != nil {
		t.Fatalf("new transit planner: %v", err)
	}
	cache := newMemoryTransitCache()
	ts := NewTripSplitter(tp, cache, "cached-mission")

	if _, err := ts.Split(context.Background(), req, nil); err != nil {
		t.Fatalf("first split: %v", err)
	}
	planned := len(mock.Calls())
	if planned == 0 {
		t.Fatalf("first split planned no legs")
	}

	if _, err := ts.Split(context.Background(), req, nil); err != nil {
		t.Fatalf("second split: %v", err)
	}
	if got := len(mock.Calls()); got != planned {
		t.Fatalf("second split hit the oracle (%d calls, want %d)", got, planned)
	}
}
