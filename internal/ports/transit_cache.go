package ports

import (
	"context"

	"github.com/weegaboo/agro-mvp/internal/domain/geom"
)

// TransitLegs is the cached round-trip transit for one swath: runway to
// swath start and swath end back to the runway.
type TransitLegs struct {
	ToField  geom.Polyline
	BackHome geom.Polyline
}

// TransitCache persists planned transit legs between runs. Keys carry a
// mission fingerprint so a change to geometry or aircraft parameters never
// reuses stale legs.
type TransitCache interface {
	// GetMany returns cached legs for the given swath ids under one
	// mission fingerprint. Missing ids are simply absent from the map.
	GetMany(ctx context.Context, missionKey string, swathIDs []int) (map[int]TransitLegs, error)
	// PutMany stores legs for several swath ids under one fingerprint.
	PutMany(ctx context.Context, missionKey string, legs map[int]TransitLegs) error
}
