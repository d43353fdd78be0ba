// Package mapsync reconciles the itinerary's ordered stops against an
// external map-drawing engine: one marker per stop keyed by item id, a
// connecting line once two or more stops exist, and a viewport fitted to
// the current bounds. Reconciliation is one-way; the map never feeds
// state back into the itinerary.
package mapsync

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/rutalocal/planner-api/internal/geo"
	"github.com/rutalocal/planner-api/internal/types"
	"github.com/rutalocal/planner-api/pkg/observability"
)

// Config carries the viewport defaults used when the itinerary is empty
// and the padding applied when fitting bounds.
type Config struct {
	DefaultCenter types.Coordinate
	DefaultZoom   int
	FitPadding    int
}

type markerState struct {
	handle MarkerHandle
	desc   MarkerDescriptor
}

// Layer tracks what has been drawn and diffs every new itinerary state
// against it. It implements itinerary.ChangeListener.
type Layer struct {
	logger *slog.Logger
	engine MapEngine
	cfg    Config

	ready bool
	// At most one deferred pass; a newer mutation collapses any pending
	// one into itself.
	pending     []types.RouteItem
	havePending bool

	drawn     map[uuid.UUID]*markerState
	line      []types.Coordinate
	lastView  *types.Region
	emptyView bool
}

func NewLayer(engine MapEngine, cfg Config, logger *slog.Logger) *Layer {
	return &Layer{
		logger: logger,
		engine: engine,
		cfg:    cfg,
		drawn:  make(map[uuid.UUID]*markerState),
	}
}

// ItineraryChanged receives store notifications synchronously.
func (l *Layer) ItineraryChanged(items []types.RouteItem) {
	l.Reconcile(items)
}

// Reconcile brings the engine in line with items. If the engine has not
// signalled ready yet, the pass is queued; engine unavailability is never
// surfaced as an error.
func (l *Layer) Reconcile(items []types.RouteItem) {
	if !l.ready {
		l.pending = slices.Clone(items)
		l.havePending = true
		observability.ObserveDeferredReconciliation()
		l.logger.Debug("map engine not ready, reconciliation deferred", slog.Int("items", len(items)))
		return
	}
	l.apply(items)
}

// EngineReady is invoked once when the external engine finishes loading.
// Any deferred pass runs immediately.
func (l *Layer) EngineReady() {
	l.ready = true
	l.logger.Info("map engine ready")
	if l.havePending {
		items := l.pending
		l.pending = nil
		l.havePending = false
		l.apply(items)
	}
}

func (l *Layer) apply(items []types.RouteItem) {
	created, updated, removed := l.reconcileMarkers(items)
	l.reconcileLine(items)
	l.reconcileViewport(items)
	observability.ObserveReconciliation(created, updated, removed)

	if created+updated+removed > 0 {
		l.logger.Debug("map reconciled",
			slog.Int("created", created),
			slog.Int("updated", updated),
			slog.Int("removed", removed))
	}
}

func (l *Layer) reconcileMarkers(items []types.RouteItem) (created, updated, removed int) {
	desired := make(map[uuid.UUID]MarkerDescriptor, len(items))
	for i, item := range items {
		desired[item.ItemID] = descriptorFor(item, i+1)
	}

	for id, state := range l.drawn {
		if _, keep := desired[id]; !keep {
			l.engine.RemoveMarker(state.handle)
			delete(l.drawn, id)
			removed++
		}
	}

	for id, desc := range desired {
		state, exists := l.drawn[id]
		switch {
		case !exists:
			l.drawn[id] = &markerState{handle: l.engine.CreateMarker(desc), desc: desc}
			created++
		case state.desc != desc:
			l.engine.UpdateMarker(state.handle, desc)
			state.desc = desc
			updated++
		}
	}
	return created, updated, removed
}

func (l *Layer) reconcileLine(items []types.RouteItem) {
	if len(items) < 2 {
		if l.line != nil {
			l.engine.SetLine(nil)
			l.line = nil
		}
		return
	}

	line := make([]types.Coordinate, len(items))
	for i, item := range items {
		line[i] = item.Coordinate
	}
	if slices.Equal(line, l.line) {
		return
	}
	l.engine.SetLine(line)
	l.line = line
}

func (l *Layer) reconcileViewport(items []types.RouteItem) {
	if len(items) == 0 {
		if !l.emptyView {
			l.engine.FlyTo(l.cfg.DefaultCenter, l.cfg.DefaultZoom)
			l.emptyView = true
			l.lastView = nil
		}
		return
	}

	coords := make([]types.Coordinate, len(items))
	for i, item := range items {
		coords[i] = item.Coordinate
	}
	region := geo.BoundsOf(coords)
	if l.lastView != nil && *l.lastView == region {
		return
	}
	l.engine.FitBounds(region, l.cfg.FitPadding)
	l.lastView = &region
	l.emptyView = false
}

func descriptorFor(item types.RouteItem, position int) MarkerDescriptor {
	return MarkerDescriptor{
		Coordinate: item.Coordinate,
		Label:      position,
		Color:      colorForCategory(item.Category),
		Popup:      fmt.Sprintf("%s | %s | %s", item.Name, item.Category, item.Duration),
	}
}
