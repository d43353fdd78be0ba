// Package save validates a finished itinerary and persists it through
// the backend routes API. Saving is all-or-nothing: the in-memory
// itinerary is cleared only after the backend acknowledges, and is left
// intact on any failure so the user can retry without re-entering data.
package save

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rutalocal/planner-api/internal/domain/auth"
	"github.com/rutalocal/planner-api/internal/geo"
	"github.com/rutalocal/planner-api/internal/types"
	"github.com/rutalocal/planner-api/pkg/events"
	"github.com/rutalocal/planner-api/pkg/observability"
)

const advisoryDurationLimitHours = 6

// ItinerarySource is the slice of the itinerary store the coordinator
// needs: a consistent snapshot to persist and a way to clear it after
// the backend acknowledges. Callers that serialize edits hand in a
// locking adapter.
type ItinerarySource interface {
	Snapshot() types.Itinerary
	Clear()
}

// Coordinator gates and executes route saves for one planning session.
type Coordinator struct {
	logger   *slog.Logger
	api      RoutesAPI
	bus      events.Bus
	validate *validator.Validate
	saving   atomic.Bool
}

func NewCoordinator(api RoutesAPI, bus events.Bus, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger:   logger,
		api:      api,
		bus:      bus,
		validate: validator.New(),
	}
}

// Validate checks the itinerary against save-time constraints.
// ErrTooFewStops blocks saving; everything else accumulates as advisory
// warnings that never block.
func (c *Coordinator) Validate(it types.Itinerary) ([]types.ValidationWarning, error) {
	if len(it.Items) < 2 {
		return nil, types.ErrTooFewStops
	}

	var warnings []types.ValidationWarning
	if geo.Aggregate(it.Items).TotalDurationHours > advisoryDurationLimitHours {
		warnings = append(warnings, types.WarnDurationExceedsSixHours)
	}
	return warnings, nil
}

// Save validates, maps and persists the store's current itinerary. A
// second save while one is in flight is rejected with ErrSaveInProgress,
// never queued; editing operations remain allowed meanwhile. On success
// the store is cleared and the saved route id published on the bus.
func (c *Coordinator) Save(ctx context.Context, sess auth.Session, store ItinerarySource, isPublic bool) (uuid.UUID, error) {
	ctx, span := otel.Tracer("PersistenceCoordinator").Start(ctx, "Save", trace.WithAttributes(
		attribute.Bool("route.public", isPublic),
	))
	defer span.End()

	if !sess.IsAuthenticated() {
		// Fail fast before touching the network.
		return uuid.Nil, types.ErrUnauthenticated
	}
	if !c.saving.CompareAndSwap(false, true) {
		return uuid.Nil, types.ErrSaveInProgress
	}
	defer c.saving.Store(false)

	it := store.Snapshot()
	span.SetAttributes(
		attribute.String("user.id", sess.CurrentUserID()),
		attribute.Int("itinerary.stops", len(it.Items)),
	)

	if _, err := c.Validate(it); err != nil {
		observability.ObserveSave("rejected")
		return uuid.Nil, err
	}

	req := buildCreateRequest(it, isPublic)
	if err := c.validate.Struct(req); err != nil {
		observability.ObserveSave("rejected")
		span.RecordError(err)
		return uuid.Nil, err
	}

	l := c.logger.With(slog.String("method", "Save"), slog.String("userID", sess.CurrentUserID()))
	l.InfoContext(ctx, "Saving itinerary", slog.Int("stops", len(it.Items)))

	resp, err := c.api.CreateRoute(ctx, sess.CurrentUserID(), req)
	if err != nil {
		// The in-memory itinerary is untouched; retry is always safe.
		observability.ObserveSave("failed")
		l.ErrorContext(ctx, "Failed to save itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save itinerary")
		return uuid.Nil, err
	}

	store.Clear()
	observability.ObserveSave("ok")
	c.bus.Publish(events.TopicRouteSaved, resp.ID)
	l.InfoContext(ctx, "Itinerary saved", slog.String("routeID", resp.ID.String()))
	return resp.ID, nil
}

// Saving reports whether a save request is currently in flight; the UI
// disables the save control while true.
func (c *Coordinator) Saving() bool {
	return c.saving.Load()
}

// buildCreateRequest maps route items to the backend's stop schema. The
// 1-based order field is the only place the itinerary's implicit position
// leaves the process as an explicit integer.
func buildCreateRequest(it types.Itinerary, isPublic bool) types.CreateRouteRequest {
	stops := make([]types.CreateRouteStop, len(it.Items))
	for i, item := range it.Items {
		stops[i] = types.CreateRouteStop{
			BusinessID:      item.BusinessID,
			Order:           i + 1,
			DurationMinutes: item.Duration.Minutes(),
			Notes:           item.Notes,
		}
	}
	return types.CreateRouteRequest{
		Name:        it.Title,
		Description: it.Description,
		IsPublic:    isPublic,
		Stops:       stops,
	}
}
