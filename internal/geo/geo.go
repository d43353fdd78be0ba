// Package geo holds the pure geospatial math used by the itinerary
// planner: great-circle distances, walking-time estimates and the
// aggregate metrics derived from an ordered stop sequence.
package geo

import (
	"math"

	"github.com/rutalocal/planner-api/internal/types"
)

// DefaultWalkingSpeedKmh corresponds to the 1.4 m/s walking pace used
// throughout the planner.
const DefaultWalkingSpeedKmh = 5.04

const earthRadiusKm = 6371

// DistanceKm calculates the great-circle distance between two coordinates
// using the Haversine formula. Results for out-of-range coordinates are
// undefined; callers validate with Coordinate.Valid before invoking.
func DistanceKm(a, b types.Coordinate) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lng1Rad := a.Lng * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	lng2Rad := b.Lng * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlng := lng2Rad - lng1Rad

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// WalkingMinutes estimates the time to walk distanceKm at speedKmh,
// rounded to the nearest whole minute. Pass DefaultWalkingSpeedKmh
// outside of tests.
func WalkingMinutes(distanceKm, speedKmh float64) int {
	return int(math.Round(distanceKm / speedKmh * 60))
}

// Aggregate derives the total distance and duration for an ordered stop
// sequence. Distance sums consecutive legs only. Duration is the sum of
// each stop's dwell time plus the walking time of every consecutive leg.
// Sequences shorter than two items contribute no inter-stop terms.
func Aggregate(items []types.RouteItem) types.AggregateMetrics {
	var m types.AggregateMetrics
	for i, item := range items {
		m.TotalDurationHours += item.Duration.Hours()
		if i == 0 {
			continue
		}
		leg := DistanceKm(items[i-1].Coordinate, item.Coordinate)
		m.TotalDistanceKm += leg
		m.TotalDurationHours += float64(WalkingMinutes(leg, DefaultWalkingSpeedKmh)) / 60
	}
	return m
}

// BoundsOf computes the bounding region covering all coordinates. The
// caller guarantees at least one coordinate; the planner falls back to a
// configured default center when the itinerary is empty.
func BoundsOf(coords []types.Coordinate) types.Region {
	r := types.Region{
		SouthWest: coords[0],
		NorthEast: coords[0],
	}
	for _, c := range coords[1:] {
		r.SouthWest.Lat = math.Min(r.SouthWest.Lat, c.Lat)
		r.SouthWest.Lng = math.Min(r.SouthWest.Lng, c.Lng)
		r.NorthEast.Lat = math.Max(r.NorthEast.Lat, c.Lat)
		r.NorthEast.Lng = math.Max(r.NorthEast.Lng, c.Lng)
	}
	return r
}
