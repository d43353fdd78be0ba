package types

import (
	"github.com/google/uuid"
)

// MaxItineraryStops is the hard cap on stops per itinerary, enforced at insertion.
const MaxItineraryStops = 15

// Coordinate is an immutable WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies inside the WGS84 range.
// Geo math on out-of-range coordinates is undefined, so callers must
// check before computing distances.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Region is a bounding box used to fit the map viewport.
type Region struct {
	SouthWest Coordinate `json:"south_west"`
	NorthEast Coordinate `json:"north_east"`
}

// CatalogStop is a candidate business available for insertion into an
// itinerary. It is owned by the business catalog; the planner never
// mutates it.
type CatalogStop struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Coordinate Coordinate `json:"coordinate"`
	Rating     float64    `json:"rating"`
	ImageURL   string     `json:"image_url,omitempty"`
}

// StopDuration is the enumerated dwell time a user picks per stop.
type StopDuration string

const (
	Duration15Min  StopDuration = "15min"
	Duration30Min  StopDuration = "30min"
	Duration1Hour  StopDuration = "1hr"
	Duration2Hours StopDuration = "2hrs"

	// DefaultStopDuration is assigned to every freshly inserted stop.
	DefaultStopDuration = Duration1Hour
)

var durationHours = map[StopDuration]float64{
	Duration15Min:  0.25,
	Duration30Min:  0.5,
	Duration1Hour:  1,
	Duration2Hours: 2,
}

// Valid reports whether d is one of the four supported dwell times.
func (d StopDuration) Valid() bool {
	_, ok := durationHours[d]
	return ok
}

// Hours returns the dwell time in hours. Unknown values count as zero.
func (d StopDuration) Hours() float64 {
	return durationHours[d]
}

// Minutes returns the dwell time in whole minutes.
func (d StopDuration) Minutes() int {
	return int(durationHours[d] * 60)
}

// RouteItem is one stop inside an itinerary. Name, category, rating and
// image are denormalized snapshots taken at insertion time; later catalog
// edits do not flow back into an itinerary. Position is implicit: the
// index within Itinerary.Items is the single source of truth for order.
type RouteItem struct {
	ItemID     uuid.UUID    `json:"item_id"`
	BusinessID uuid.UUID    `json:"business_id"`
	Name       string       `json:"name"`
	Category   string       `json:"category"`
	ImageURL   string       `json:"image_url,omitempty"`
	Rating     float64      `json:"rating"`
	Coordinate Coordinate   `json:"coordinate"`
	Duration   StopDuration `json:"duration"`
	Notes      string       `json:"notes,omitempty"`
}

// Itinerary is the ordered, named collection of stops a user is composing.
// It lives in memory for the duration of an editing session and is cleared
// on a successful save.
type Itinerary struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Items       []RouteItem `json:"items"`
}

// AggregateMetrics is derived from the itinerary on every mutation and
// never stored.
type AggregateMetrics struct {
	TotalDistanceKm    float64 `json:"total_distance_km"`
	TotalDurationHours float64 `json:"total_duration_hours"`
}
