package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/weegaboo/agro-mvp/internal/domain"
	"github.com/weegaboo/agro-mvp/internal/domain/geom"
	"github.com/weegaboo/agro-mvp/internal/ports"
)

// UnreachableSwathError reports a swath whose mandatory round trip exceeds
// tank capacity: a structural infeasibility no re-split can fix without
// changing aircraft parameters.
type UnreachableSwathError struct {
	Index     int
	RequiredL float64
	CapacityL float64
}

func (e *UnreachableSwathError) Error() string {
	return fmt.Sprintf("swath %d unreachable: need %.2fL > capacity %.2fL (short %.2fL)",
		e.Index, e.RequiredL, e.CapacityL, e.RequiredL-e.CapacityL)
}

// TripSplitRequest carries everything needed to partition a route.
type TripSplitRequest struct {
	Runway geom.Polyline
	Route  domain.Route
	// Swaths provides per-id polyline lengths for work-fuel accounting.
	Swaths []domain.Swath
	// CoverPathLenM is the full in-field path length including turns; the
	// ratio against raw swath length spreads turning overhead over swaths.
	CoverPathLenM float64
	Zones         []domain.NoFlyZone
	Aircraft      domain.Aircraft
}

type legResult struct {
	idx  int
	legs ports.TransitLegs
	warn []domain.LogEntry
	err  error
}

// TripSplitter partitions an ordered route into maximal contiguous trips
// that each fit one tank load with the fuel reserve held back. Transit
// legs are resolved through the persistent cache first, then planned
// concurrently through the transit oracle adapter.
type TripSplitter struct {
	Transit *TripTransit
	// Workers bounds concurrent oracle calls during prefetch.
	Workers int
}

// TripTransit is the slice of TransitPlanner the splitter needs, split out
// so tests can fake round-trip planning without a motion planner.
type TripTransit struct {
	Planner    *TransitPlanner
	Cache      ports.TransitCache // optional
	MissionKey string
}

func NewTripSplitter(transit *TransitPlanner, cache ports.TransitCache, missionKey string) *TripSplitter {
	return &TripSplitter{
		Transit: &TripTransit{Planner: transit, Cache: cache, MissionKey: missionKey},
		Workers: 5,
	}
}

// Split partitions req.Route into trips.
//
// Failure semantics: configuration errors are rejected before planning; a
// structurally unreachable swath aborts the whole split (partial plans are
// not usable missions); a transit leg failing even the fallback cascade is
// likewise fatal.
func (ts *TripSplitter) Split(ctx context.Context, req TripSplitRequest, buildLog *domain.BuildLog) (domain.TripSplit, error) {
	if err := req.Aircraft.Validate(); err != nil {
		return domain.TripSplit{}, fmt.Errorf("split trips: %w", err)
	}
	if len(req.Route) == 0 {
		return domain.TripSplit{}, nil
	}

	lengthByID := make(map[int]float64, len(req.Swaths))
	totalSwathLen := 0.0
	for _, s := range req.Swaths {
		l := s.Length()
		lengthByID[s.ID] = l
		totalSwathLen += l
	}

	// Turning overhead inside the field, spread proportionally.
	workLenFactor := 1.0
	if totalSwathLen > 1e-9 && req.CoverPathLenM > 0 {
		workLenFactor = req.CoverPathLenM / totalSwathLen
	}

	fuelPerM := req.Aircraft.FuelPerMeter()
	mixPerM := req.Aircraft.MixPerMeter()
	capacity := req.Aircraft.TankCapacityL
	reserve := req.Aircraft.FuelReserveL

	n := len(req.Route)
	fuelWork := make([]float64, n)
	mixWork := make([]float64, n)
	for i, os := range req.Route {
		l, ok := lengthByID[os.SwathID]
		if !ok {
			return domain.TripSplit{}, fmt.Errorf("split trips: route references unknown swath id %d", os.SwathID)
		}
		fuelWork[i] = l * workLenFactor * fuelPerM
		mixWork[i] = l * mixPerM
	}

	legs, err := ts.resolveLegs(ctx, req, buildLog)
	if err != nil {
		return domain.TripSplit{}, fmt.Errorf("split trips: %w", err)
	}

	var trips []domain.Trip
	i := 0
	for i < n {
		legI := legs[i]
		fuelToField := legI.ToField.Length() * fuelPerM
		fuelHomeI := legI.BackHome.Length() * fuelPerM

		// A trip must at least reach swath i and come home on reserve.
		minNeed := fuelToField + fuelWork[i] + fuelHomeI + reserve
		if minNeed > capacity {
			return domain.TripSplit{}, &UnreachableSwathError{
				Index:     i,
				RequiredL: minNeed,
				CapacityL: capacity,
			}
		}

		// Extend the window; the first candidate is swath i itself, so its
		// mix load is checked under the same budget as every extension.
		j := i - 1
		fuelWorkNeed := 0.0
		mixNeed := 0.0
		lastHome := legI.BackHome
		fuelHomeLast := fuelHomeI

		for j+1 < n {
			cand := j + 1
			legC := legs[cand]
			fuelHomeC := legC.BackHome.Length() * fuelPerM

			fuelWorkC := fuelWorkNeed + fuelWork[cand]
			mixC := mixNeed + mixWork[cand]

			fuelNeedTotal := fuelToField + fuelWorkC + fuelHomeC + reserve
			mixCapacity := capacity - fuelNeedTotal
			if mixCapacity < 0 {
				break
			}
			if mixC > mixCapacity {
				break
			}
			j = cand
			fuelWorkNeed = fuelWorkC
			mixNeed = mixC
			lastHome = legC.BackHome
			fuelHomeLast = fuelHomeC
		}

		if j < i {
			return domain.TripSplit{}, fmt.Errorf(
				"split trips: swath %d mix %.2fL does not fit beside fuel %.2fL in capacity %.2fL",
				i, mixWork[i], minNeed, capacity)
		}

		trips = append(trips, domain.Trip{
			StartIdx:  i,
			EndIdx:    j,
			ToField:   legI.ToField,
			BackHome:  lastHome,
			FuelUsedL: fuelToField + fuelWorkNeed + fuelHomeLast,
			MixUsedL:  mixNeed,
		})
		i = j + 1
	}

	split := domain.TripSplit{Trips: trips}
	for _, t := range trips {
		split.TransitLengthM += t.TransitLenM()
	}
	return split, nil
}

// resolveLegs produces a round trip per route index: persistent cache
// first, then concurrent oracle planning for the misses. Each worker gets
// its own build log; entries are merged after the wait so no shared state
// is written during planning.
func (ts *TripSplitter) resolveLegs(ctx context.Context, req TripSplitRequest, buildLog *domain.BuildLog) (map[int]ports.TransitLegs, error) {
	n := len(req.Route)
	legs := make(map[int]ports.TransitLegs, n)

	missing := make([]int, 0, n)
	if ts.Transit.Cache != nil {
		ids := make([]int, n)
		for i := range ids {
			ids[i] = i
		}
		cached, err := ts.Transit.Cache.GetMany(ctx, ts.Transit.MissionKey, ids)
		if err != nil {
			return nil, fmt.Errorf("transit cache read: %w", err)
		}
		for i := 0; i < n; i++ {
			if l, ok := cached[i]; ok {
				legs[i] = l
			} else {
				missing = append(missing, i)
			}
		}
	} else {
		for i := 0; i < n; i++ {
			missing = append(missing, i)
		}
	}

	if len(missing) == 0 {
		return legs, nil
	}

	workers := ts.Workers
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)
	results := make(chan legResult, len(missing))
	var wg sync.WaitGroup

	for _, idx := range missing {
		wg.Add(1)
		go func(i int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			var workerLog domain.BuildLog
			os := req.Route[i]
			rt, err := ts.Transit.Planner.PlanRoundTrip(ctx, req.Runway, os, os, req.Aircraft.TurnRadiusM, req.Zones, &workerLog)
			if err != nil {
				results <- legResult{idx: i, err: fmt.Errorf("transit for route index %d: %w", i, err)}
				cancel()
				return
			}
			results <- legResult{
				idx:  i,
				legs: ports.TransitLegs{ToField: rt.ToField, BackHome: rt.BackHome},
				warn: workerLog.Entries,
			}
		}(idx)
	}

	wg.Wait()
	close(results)

	fresh := make(map[int]ports.TransitLegs, len(missing))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		legs[res.idx] = res.legs
		fresh[res.idx] = res.legs
		if buildLog != nil {
			buildLog.Entries = append(buildLog.Entries, res.warn...)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if ts.Transit.Cache != nil && len(fresh) > 0 {
		if err := ts.Transit.Cache.PutMany(ctx, ts.Transit.MissionKey, fresh); err != nil {
			log.Printf("transit cache write failed: %v", err)
		}
	}

	return legs, nil
}
