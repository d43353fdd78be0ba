package mapsync

import (
	"github.com/rutalocal/planner-api/internal/types"
)

// MarkerHandle is the opaque reference a map engine returns for a drawn
// marker. The layer never inspects it, only hands it back.
type MarkerHandle any

// MarkerDescriptor is everything the engine needs to draw one stop.
type MarkerDescriptor struct {
	Coordinate types.Coordinate
	// Label is the stop's 1-based position in the itinerary.
	Label int
	// Color comes from the category palette.
	Color string
	// Popup is the text shown when the marker is tapped.
	Popup string
}

// MapEngine is the external drawing surface. The itinerary is the single
// source of truth; the engine only renders what the layer submits and is
// never read back.
type MapEngine interface {
	CreateMarker(d MarkerDescriptor) MarkerHandle
	UpdateMarker(h MarkerHandle, d MarkerDescriptor)
	RemoveMarker(h MarkerHandle)
	// SetLine replaces the connecting path; nil removes it.
	SetLine(line []types.Coordinate)
	FitBounds(r types.Region, padding int)
	FlyTo(c types.Coordinate, zoom int)
}
