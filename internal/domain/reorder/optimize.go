package reorder

import (
	"github.com/google/uuid"

	"github.com/rutalocal/planner-api/internal/geo"
	"github.com/rutalocal/planner-api/internal/types"
)

// Objective proposes a new visiting order for the given stops. It must
// return a permutation of the item ids; anything else is rejected by
// the store when applied.
type Objective func(items []types.RouteItem) []uuid.UUID

// Optimize runs the objective over the current itinerary and applies
// the proposed order. With fewer than three stops there is nothing to
// optimize and the call is a no-op.
func (e *Engine) Optimize(objective Objective) error {
	items := e.store.Items()
	if len(items) < 3 {
		return nil
	}
	return e.store.Reorder(objective(items))
}

// NearestNeighborOrder is a greedy objective: keep the first stop as
// the anchor, then repeatedly walk to the closest remaining stop. It
// minimizes each individual leg, not the whole route. Ties break on
// item id so the result is deterministic.
func NearestNeighborOrder(items []types.RouteItem) []uuid.UUID {
	order := make([]uuid.UUID, 0, len(items))
	if len(items) == 0 {
		return order
	}

	remaining := make(map[uuid.UUID]types.RouteItem, len(items))
	for _, item := range items[1:] {
		remaining[item.ItemID] = item
	}

	current := items[0]
	order = append(order, current.ItemID)

	for len(remaining) > 0 {
		var best types.RouteItem
		bestDist := -1.0
		for _, candidate := range remaining {
			d := geo.DistanceKm(current.Coordinate, candidate.Coordinate)
			if bestDist < 0 || d < bestDist ||
				(d == bestDist && candidate.ItemID.String() < best.ItemID.String()) {
				bestDist = d
				best = candidate
			}
		}
		order = append(order, best.ItemID)
		delete(remaining, best.ItemID)
		current = best
	}
	return order
}
