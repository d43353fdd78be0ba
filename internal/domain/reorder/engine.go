// Package reorder translates drag and tap gestures into itinerary store
// operations. The engine is a small state machine: Idle, then Dragging
// while a payload is held, returning to Idle on drop or cancel. Gesture
// handling is serialized by the owning session, so the engine itself
// carries no locking.
package reorder

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/rutalocal/planner-api/internal/domain/itinerary"
	"github.com/rutalocal/planner-api/internal/types"
)

var (
	ErrDragInProgress = errors.New("a drag is already in progress")
	ErrNotDragging    = errors.New("no drag in progress")
)

// State is the engine's interaction state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

// PayloadKind tags the origin of a drag so a drop can be disambiguated.
type PayloadKind int

const (
	// PayloadCatalog references a catalog stop not yet in the itinerary.
	PayloadCatalog PayloadKind = iota
	// PayloadReorder references an existing itinerary item by id.
	PayloadReorder
)

type payload struct {
	kind   PayloadKind
	stop   types.CatalogStop
	itemID uuid.UUID
}

// Zone identifies where a drop landed.
type Zone int

const (
	// ZoneNone is anywhere outside a recognized drop-zone; dropping
	// there cancels the gesture.
	ZoneNone Zone = iota
	// ZoneItinerary is the itinerary list itself.
	ZoneItinerary
)

// DropTarget describes the drop location. Index is the desired position
// in the itinerary for reorder-origin drags; catalog-origin drops always
// append, matching the store's insert contract.
type DropTarget struct {
	Zone  Zone
	Index int
}

// Engine drives drag gestures against a single itinerary store.
type Engine struct {
	logger  *slog.Logger
	store   itinerary.Store
	state   State
	payload payload
}

func NewEngine(store itinerary.Store, logger *slog.Logger) *Engine {
	return &Engine{logger: logger, store: store}
}

// State exposes the current interaction state, mostly for the UI layer.
func (e *Engine) State() State { return e.state }

// BeginCatalogDrag starts a drag whose payload is a catalog stop.
func (e *Engine) BeginCatalogDrag(stop types.CatalogStop) error {
	if e.state != StateIdle {
		return ErrDragInProgress
	}
	e.state = StateDragging
	e.payload = payload{kind: PayloadCatalog, stop: stop}
	e.logger.Debug("catalog drag started", slog.String("businessID", stop.ID.String()))
	return nil
}

// BeginItemDrag starts a drag whose payload is an existing itinerary item.
func (e *Engine) BeginItemDrag(itemID uuid.UUID) error {
	if e.state != StateIdle {
		return ErrDragInProgress
	}
	if !slices.ContainsFunc(e.store.Items(), func(it types.RouteItem) bool { return it.ItemID == itemID }) {
		return types.ErrNotFound
	}
	e.state = StateDragging
	e.payload = payload{kind: PayloadReorder, itemID: itemID}
	e.logger.Debug("reorder drag started", slog.String("itemID", itemID.String()))
	return nil
}

// Drop completes the gesture. A drop outside any recognized zone cancels
// without mutating the store; the dragged item visually snaps back.
// Store errors (capacity, duplicate, invalid permutation) pass through
// unchanged, and the engine still returns to Idle.
func (e *Engine) Drop(target DropTarget) error {
	if e.state != StateDragging {
		return ErrNotDragging
	}
	p := e.payload
	e.reset()

	if target.Zone == ZoneNone {
		e.logger.Debug("drop outside zone, gesture cancelled")
		return nil
	}

	switch p.kind {
	case PayloadCatalog:
		_, err := e.store.Insert(p.stop)
		return err
	case PayloadReorder:
		return e.store.Reorder(permutationFor(e.store.Items(), p.itemID, target.Index))
	}
	return nil
}

// Cancel abandons an in-flight drag; no store mutation occurs.
func (e *Engine) Cancel() {
	if e.state != StateDragging {
		return
	}
	e.reset()
	e.logger.Debug("drag cancelled")
}

// QuickAdd is the tap affordance on touch form factors: an atomic insert
// with no interaction state.
func (e *Engine) QuickAdd(stop types.CatalogStop) (*types.RouteItem, error) {
	return e.store.Insert(stop)
}

func (e *Engine) reset() {
	e.state = StateIdle
	e.payload = payload{}
}

// permutationFor computes the full id order after moving itemID to index:
// remove from its old position, then insert at the clamped new one.
func permutationFor(items []types.RouteItem, itemID uuid.UUID, index int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.ItemID != itemID {
			ids = append(ids, it.ItemID)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	return slices.Insert(ids, index, itemID)
}
