package types

import (
	"github.com/google/uuid"
)

// CreateRouteRequest is the body posted to the routes persistence API.
// Order is the one place the itinerary's implicit position is externalized
// as an explicit 1-based integer.
type CreateRouteRequest struct {
	Name        string            `json:"name" validate:"max=100"`
	Description string            `json:"description,omitempty" validate:"max=500"`
	IsPublic    bool              `json:"is_public"`
	Stops       []CreateRouteStop `json:"stops" validate:"required,min=2,max=15,dive"`
}

type CreateRouteStop struct {
	BusinessID      uuid.UUID `json:"business_id" validate:"required"`
	Order           int       `json:"order" validate:"gt=0"`
	DurationMinutes int       `json:"duration_minutes" validate:"gt=0"`
	Notes           string    `json:"notes,omitempty" validate:"max=1000"`
}

// CreateRouteResponse carries the server-assigned route identifier.
type CreateRouteResponse struct {
	ID uuid.UUID `json:"id"`
}

// CatalogFilters narrows the candidate-stop listing.
type CatalogFilters struct {
	Category string
	Query    string
	Limit    int
}
