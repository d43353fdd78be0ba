package mapsync

import (
	"slices"

	"github.com/rutalocal/planner-api/internal/types"
)

// ViewKind says how the viewport was last positioned.
type ViewKind string

const (
	ViewFitBounds ViewKind = "fit_bounds"
	ViewCenter    ViewKind = "center"
)

// MapState is a serializable snapshot of everything the layer has drawn,
// served to clients that render it with their local map widget.
type MapState struct {
	Markers  []MarkerDescriptor `json:"markers"`
	Line     []types.Coordinate `json:"line,omitempty"`
	ViewKind ViewKind           `json:"view_kind"`
	Region   *types.Region      `json:"region,omitempty"`
	Padding  int                `json:"padding,omitempty"`
	Center   *types.Coordinate  `json:"center,omitempty"`
	Zoom     int                `json:"zoom,omitempty"`
}

var _ MapEngine = (*StateEngine)(nil)

// StateEngine is a MapEngine that keeps the drawn primitives in memory
// instead of painting them, for deployments where the real drawing
// surface lives on the client.
type StateEngine struct {
	nextHandle int
	markers    map[int]MarkerDescriptor
	line       []types.Coordinate
	viewKind   ViewKind
	region     *types.Region
	padding    int
	center     *types.Coordinate
	zoom       int
}

func NewStateEngine() *StateEngine {
	return &StateEngine{markers: make(map[int]MarkerDescriptor)}
}

func (e *StateEngine) CreateMarker(d MarkerDescriptor) MarkerHandle {
	e.nextHandle++
	e.markers[e.nextHandle] = d
	return e.nextHandle
}

func (e *StateEngine) UpdateMarker(h MarkerHandle, d MarkerDescriptor) {
	if id, ok := h.(int); ok {
		if _, drawn := e.markers[id]; drawn {
			e.markers[id] = d
		}
	}
}

func (e *StateEngine) RemoveMarker(h MarkerHandle) {
	if id, ok := h.(int); ok {
		delete(e.markers, id)
	}
}

func (e *StateEngine) SetLine(line []types.Coordinate) {
	e.line = slices.Clone(line)
}

func (e *StateEngine) FitBounds(r types.Region, padding int) {
	e.viewKind = ViewFitBounds
	e.region = &r
	e.padding = padding
	e.center = nil
}

func (e *StateEngine) FlyTo(c types.Coordinate, zoom int) {
	e.viewKind = ViewCenter
	e.center = &c
	e.zoom = zoom
	e.region = nil
}

// Snapshot returns the current map state with markers ordered by label,
// matching itinerary order.
func (e *StateEngine) Snapshot() MapState {
	markers := make([]MarkerDescriptor, 0, len(e.markers))
	for _, d := range e.markers {
		markers = append(markers, d)
	}
	slices.SortFunc(markers, func(a, b MarkerDescriptor) int { return a.Label - b.Label })

	return MapState{
		Markers:  markers,
		Line:     slices.Clone(e.line),
		ViewKind: e.viewKind,
		Region:   e.region,
		Padding:  e.padding,
		Center:   e.center,
		Zoom:     e.zoom,
	}
}
