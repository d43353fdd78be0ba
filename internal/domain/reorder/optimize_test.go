package reorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutalocal/planner-api/internal/domain/itinerary"
	"github.com/rutalocal/planner-api/internal/types"
)

func placedStop(name string, lat, lng float64) types.CatalogStop {
	return types.CatalogStop{
		ID:         uuid.New(),
		Name:       name,
		Category:   "cafe",
		Coordinate: types.Coordinate{Lat: lat, Lng: lng},
	}
}

func TestNearestNeighborOrder(t *testing.T) {
	store := itinerary.NewStore(testLogger())
	// Inserted out of geographic order: far stop in the middle.
	for _, stop := range []types.CatalogStop{
		placedStop("start", -33.4400, -70.6500),
		placedStop("far", -33.4000, -70.5700),
		placedStop("near", -33.4410, -70.6510),
	} {
		_, err := store.Insert(stop)
		require.NoError(t, err)
	}
	e := NewEngine(store, testLogger())

	require.NoError(t, e.Optimize(NearestNeighborOrder))
	assert.Equal(t, []string{"start", "near", "far"}, names(store.Items()))
}

func TestNearestNeighborOrderKeepsAnchor(t *testing.T) {
	items := []types.RouteItem{
		{ItemID: uuid.New(), Coordinate: types.Coordinate{Lat: -33.50, Lng: -70.70}},
		{ItemID: uuid.New(), Coordinate: types.Coordinate{Lat: -33.40, Lng: -70.60}},
		{ItemID: uuid.New(), Coordinate: types.Coordinate{Lat: -33.49, Lng: -70.69}},
	}

	order := NearestNeighborOrder(items)
	require.Len(t, order, 3)
	assert.Equal(t, items[0].ItemID, order[0], "first stop stays anchored")
	assert.Equal(t, items[2].ItemID, order[1])
	assert.Equal(t, items[1].ItemID, order[2])
}

func TestOptimizeTooFewStopsIsNoop(t *testing.T) {
	e, store := setup(t, "A", "B")
	before := store.Items()

	called := false
	require.NoError(t, e.Optimize(func(items []types.RouteItem) []uuid.UUID {
		called = true
		return nil
	}))
	assert.False(t, called)
	assert.Equal(t, before, store.Items())
}

func TestOptimizeRejectsBadObjective(t *testing.T) {
	e, store := setup(t, "A", "B", "C")
	before := store.Items()

	err := e.Optimize(func(items []types.RouteItem) []uuid.UUID {
		return []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	})
	assert.ErrorIs(t, err, types.ErrInvalidPermutation)
	assert.Equal(t, before, store.Items())
}

func TestNearestNeighborOrderEmpty(t *testing.T) {
	assert.Empty(t, NearestNeighborOrder(nil))
}
