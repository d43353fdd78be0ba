package geo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rutalocal/planner-api/internal/types"
)

var (
	santiagoCentro = types.Coordinate{Lat: -33.4372, Lng: -70.6506}
	providencia    = types.Coordinate{Lat: -33.4330, Lng: -70.6100}
)

func TestDistanceKm(t *testing.T) {
	t.Run("known pair", func(t *testing.T) {
		d := DistanceKm(santiagoCentro, providencia)
		assert.InDelta(t, 3.796, d, 0.01)
	})

	t.Run("symmetry", func(t *testing.T) {
		pairs := []struct {
			a, b types.Coordinate
		}{
			{santiagoCentro, providencia},
			{types.Coordinate{Lat: 0, Lng: 0}, types.Coordinate{Lat: 52.52, Lng: 13.405}},
			{types.Coordinate{Lat: -89.9, Lng: 170}, types.Coordinate{Lat: 89.9, Lng: -170}},
		}
		for _, p := range pairs {
			assert.InDelta(t, DistanceKm(p.a, p.b), DistanceKm(p.b, p.a), 1e-9)
		}
	})

	t.Run("identical coordinates", func(t *testing.T) {
		assert.Zero(t, DistanceKm(santiagoCentro, santiagoCentro))
	})
}

func TestWalkingMinutes(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		speedKmh   float64
		want       int
	}{
		{"zero distance", 0, DefaultWalkingSpeedKmh, 0},
		{"one km at default pace", 1, DefaultWalkingSpeedKmh, 12},
		{"rounding up", 1.05, DefaultWalkingSpeedKmh, 13},
		{"override speed", 6, 6, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WalkingMinutes(tt.distanceKm, tt.speedKmh))
		})
	}
}

func TestAggregate(t *testing.T) {
	item := func(c types.Coordinate, d types.StopDuration) types.RouteItem {
		return types.RouteItem{
			ItemID:     uuid.New(),
			BusinessID: uuid.New(),
			Coordinate: c,
			Duration:   d,
		}
	}

	t.Run("empty sequence", func(t *testing.T) {
		m := Aggregate(nil)
		assert.Zero(t, m.TotalDistanceKm)
		assert.Zero(t, m.TotalDurationHours)
	})

	t.Run("single stop has no legs", func(t *testing.T) {
		m := Aggregate([]types.RouteItem{item(santiagoCentro, types.Duration2Hours)})
		assert.Zero(t, m.TotalDistanceKm)
		assert.InDelta(t, 2, m.TotalDurationHours, 1e-9)
	})

	t.Run("two stops with default dwell", func(t *testing.T) {
		m := Aggregate([]types.RouteItem{
			item(santiagoCentro, types.Duration1Hour),
			item(providencia, types.Duration1Hour),
		})
		assert.InDelta(t, 3.796, m.TotalDistanceKm, 0.01)
		// 2h dwell + 45min walking (3.796 km at 5.04 km/h, rounded).
		assert.InDelta(t, 2.75, m.TotalDurationHours, 0.01)
	})

	t.Run("identical consecutive coordinates", func(t *testing.T) {
		m := Aggregate([]types.RouteItem{
			item(santiagoCentro, types.Duration15Min),
			item(santiagoCentro, types.Duration15Min),
		})
		assert.Zero(t, m.TotalDistanceKm)
		assert.InDelta(t, 0.5, m.TotalDurationHours, 1e-9)
	})

	t.Run("appending never decreases totals", func(t *testing.T) {
		items := []types.RouteItem{
			item(santiagoCentro, types.Duration30Min),
			item(providencia, types.Duration1Hour),
		}
		before := Aggregate(items)
		items = append(items, item(types.Coordinate{Lat: -33.45, Lng: -70.66}, types.Duration15Min))
		after := Aggregate(items)
		assert.GreaterOrEqual(t, after.TotalDistanceKm, before.TotalDistanceKm)
		assert.GreaterOrEqual(t, after.TotalDurationHours, before.TotalDurationHours)
	})
}

func TestBoundsOf(t *testing.T) {
	r := BoundsOf([]types.Coordinate{
		{Lat: -33.45, Lng: -70.66},
		{Lat: -33.40, Lng: -70.60},
		{Lat: -33.43, Lng: -70.70},
	})
	assert.Equal(t, types.Coordinate{Lat: -33.45, Lng: -70.70}, r.SouthWest)
	assert.Equal(t, types.Coordinate{Lat: -33.40, Lng: -70.60}, r.NorthEast)
}
