// Package itinerary owns the ordered stop collection a user is composing.
// All mutation goes through the Store's verbs; no caller ever holds a
// mutable reference into the collection, which is what keeps the
// synchronous mutate-then-reconcile model safe without locking.
package itinerary

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/rutalocal/planner-api/internal/geo"
	"github.com/rutalocal/planner-api/internal/types"
)

// ChangeListener is notified synchronously after every successful
// mutation. The map sync layer registers here.
type ChangeListener interface {
	ItineraryChanged(items []types.RouteItem)
}

var _ Store = (*StoreImpl)(nil)

// Store is the mutation contract over the itinerary's ordered items.
type Store interface {
	Insert(stop types.CatalogStop) (*types.RouteItem, error)
	Remove(itemID uuid.UUID)
	Reorder(newOrder []uuid.UUID) error
	SetDuration(itemID uuid.UUID, d types.StopDuration) error
	SetTitle(title string)
	SetDescription(description string)
	Items() []types.RouteItem
	Snapshot() types.Itinerary
	Metrics() types.AggregateMetrics
	Clear()
}

// StoreImpl holds the single editing session's itinerary.
type StoreImpl struct {
	logger    *slog.Logger
	itinerary types.Itinerary
	metrics   types.AggregateMetrics
	listeners []ChangeListener
}

// NewStore creates an empty itinerary for a fresh planning session.
func NewStore(logger *slog.Logger) *StoreImpl {
	return &StoreImpl{logger: logger}
}

// AddListener registers a synchronous change listener. Listeners added
// after mutations begin see only subsequent changes.
func (s *StoreImpl) AddListener(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

// Insert appends a new stop built from the catalog entry. It fails with
// ErrCapacityExceeded once the itinerary holds MaxItineraryStops items
// and with ErrDuplicateStop when the business is already present; in
// both cases the collection is left untouched.
func (s *StoreImpl) Insert(stop types.CatalogStop) (*types.RouteItem, error) {
	if len(s.itinerary.Items) >= types.MaxItineraryStops {
		s.logger.Debug("insert rejected, itinerary full", slog.String("businessID", stop.ID.String()))
		return nil, types.ErrCapacityExceeded
	}
	for _, item := range s.itinerary.Items {
		if item.BusinessID == stop.ID {
			s.logger.Debug("insert rejected, duplicate business", slog.String("businessID", stop.ID.String()))
			return nil, types.ErrDuplicateStop
		}
	}

	item := types.RouteItem{
		ItemID:     uuid.New(),
		BusinessID: stop.ID,
		Name:       stop.Name,
		Category:   stop.Category,
		ImageURL:   stop.ImageURL,
		Rating:     stop.Rating,
		Coordinate: stop.Coordinate,
		Duration:   types.DefaultStopDuration,
	}
	s.itinerary.Items = append(s.itinerary.Items, item)
	s.changed()

	s.logger.Info("stop inserted",
		slog.String("itemID", item.ItemID.String()),
		slog.String("name", item.Name),
		slog.Int("position", len(s.itinerary.Items)))
	return &item, nil
}

// Remove drops the item with the given id. Removing an absent id is a
// no-op rather than an error; removal affordances in the UI can fire
// twice on rapid double-clicks.
func (s *StoreImpl) Remove(itemID uuid.UUID) {
	idx := slices.IndexFunc(s.itinerary.Items, func(it types.RouteItem) bool {
		return it.ItemID == itemID
	})
	if idx < 0 {
		return
	}
	s.itinerary.Items = slices.Delete(s.itinerary.Items, idx, idx+1)
	s.changed()
	s.logger.Info("stop removed", slog.String("itemID", itemID.String()))
}

// Reorder replaces the collection's order with newOrder, which must be an
// exact permutation of the current item id set. On ErrInvalidPermutation
// the store is left unchanged; there is no partial reorder.
func (s *StoreImpl) Reorder(newOrder []uuid.UUID) error {
	if len(newOrder) != len(s.itinerary.Items) {
		return types.ErrInvalidPermutation
	}

	byID := make(map[uuid.UUID]types.RouteItem, len(s.itinerary.Items))
	for _, item := range s.itinerary.Items {
		byID[item.ItemID] = item
	}

	reordered := make([]types.RouteItem, 0, len(newOrder))
	for _, id := range newOrder {
		item, ok := byID[id]
		if !ok {
			// Unknown id, or the same id listed twice.
			return types.ErrInvalidPermutation
		}
		delete(byID, id)
		reordered = append(reordered, item)
	}

	s.itinerary.Items = reordered
	s.changed()
	s.logger.Info("itinerary reordered", slog.Int("count", len(reordered)))
	return nil
}

// SetDuration updates a single item's dwell time without touching order.
// d must be one of the enumerated dwell times; callers taking external
// input validate with StopDuration.Valid first.
func (s *StoreImpl) SetDuration(itemID uuid.UUID, d types.StopDuration) error {
	for i := range s.itinerary.Items {
		if s.itinerary.Items[i].ItemID == itemID {
			s.itinerary.Items[i].Duration = d
			s.changed()
			return nil
		}
	}
	return types.ErrNotFound
}

func (s *StoreImpl) SetTitle(title string)             { s.itinerary.Title = title }
func (s *StoreImpl) SetDescription(description string) { s.itinerary.Description = description }

// Items returns a defensive copy of the ordered items.
func (s *StoreImpl) Items() []types.RouteItem {
	return slices.Clone(s.itinerary.Items)
}

// Snapshot returns a copy of the whole itinerary for validation and save.
func (s *StoreImpl) Snapshot() types.Itinerary {
	return types.Itinerary{
		Title:       s.itinerary.Title,
		Description: s.itinerary.Description,
		Items:       slices.Clone(s.itinerary.Items),
	}
}

// Metrics returns the aggregates recomputed by the last mutation.
func (s *StoreImpl) Metrics() types.AggregateMetrics {
	return s.metrics
}

// Clear empties the itinerary after a successful save or when the user
// abandons the session.
func (s *StoreImpl) Clear() {
	s.itinerary = types.Itinerary{}
	s.changed()
	s.logger.Info("itinerary cleared")
}

// changed recomputes aggregates and notifies listeners. Mutation,
// recompute and notification happen in one synchronous step so the map
// can never observe a stale marker set.
func (s *StoreImpl) changed() {
	s.metrics = geo.Aggregate(s.itinerary.Items)
	items := slices.Clone(s.itinerary.Items)
	for _, l := range s.listeners {
		l.ItineraryChanged(items)
	}
}
