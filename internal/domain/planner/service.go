// Package planner owns the live editing sessions. Each session binds one
// itinerary store, one reorder engine and one map sync layer; a mutex
// serializes gesture handling the way the source UI's single thread did,
// so a mutation and its map reconciliation always happen in one step
// with no suspension point between them.
package planner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rutalocal/planner-api/internal/domain/auth"
	"github.com/rutalocal/planner-api/internal/domain/catalog"
	"github.com/rutalocal/planner-api/internal/domain/itinerary"
	"github.com/rutalocal/planner-api/internal/domain/mapsync"
	"github.com/rutalocal/planner-api/internal/domain/reorder"
	"github.com/rutalocal/planner-api/internal/domain/save"
	"github.com/rutalocal/planner-api/internal/types"
	"github.com/rutalocal/planner-api/pkg/events"
	"github.com/rutalocal/planner-api/pkg/observability"
)

const sessionTTL = 30 * time.Minute

// Session is one user's in-progress itinerary plus the components wired
// around it.
type Session struct {
	mu          sync.Mutex
	store       *itinerary.StoreImpl
	engine      *reorder.Engine
	mapEngine   *mapsync.StateEngine
	mapLayer    *mapsync.Layer
	coordinator *save.Coordinator
}

var _ Service = (*ServiceImpl)(nil)

// Service is the gesture surface exposed to the HTTP handler.
type Service interface {
	AddStop(ctx context.Context, sessionID string, businessID uuid.UUID) (*types.RouteItem, error)
	RemoveStop(ctx context.Context, sessionID string, itemID uuid.UUID)
	MoveStop(ctx context.Context, sessionID string, itemID uuid.UUID, index int) error
	ReorderStops(ctx context.Context, sessionID string, order []uuid.UUID) error
	SetStopDuration(ctx context.Context, sessionID string, itemID uuid.UUID, d types.StopDuration) error
	SetDetails(ctx context.Context, sessionID, title, description string)
	Overview(ctx context.Context, sessionID string) (types.Itinerary, types.AggregateMetrics)
	Validate(ctx context.Context, sessionID string) ([]types.ValidationWarning, error)
	MapState(ctx context.Context, sessionID string) mapsync.MapState
	MapReady(ctx context.Context, sessionID string)
	Save(ctx context.Context, sessionID string, sess auth.Session, isPublic bool) (uuid.UUID, error)
	Discard(ctx context.Context, sessionID string)
}

type ServiceImpl struct {
	logger   *slog.Logger
	catalog  catalog.Service
	api      save.RoutesAPI
	bus      events.Bus
	mapCfg   mapsync.Config
	mu       sync.Mutex
	sessions *cache.Cache
}

func NewService(catalogSvc catalog.Service, api save.RoutesAPI, bus events.Bus, mapCfg mapsync.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		catalog:  catalogSvc,
		api:      api,
		bus:      bus,
		mapCfg:   mapCfg,
		sessions: cache.New(sessionTTL, 10*time.Minute),
	}
}

// session returns the live session for id, creating a fresh empty one
// when none exists or the previous one expired. Sessions are transient
// by design: a successful save or expiry destroys them.
func (s *ServiceImpl) session(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, found := s.sessions.Get(sessionID); found {
		sess := cached.(*Session)
		s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
		return sess
	}

	logger := s.logger.With(slog.String("sessionID", sessionID))
	store := itinerary.NewStore(logger)
	mapEngine := mapsync.NewStateEngine()
	layer := mapsync.NewLayer(mapEngine, s.mapCfg, logger)
	store.AddListener(layer)

	sess := &Session{
		store:       store,
		engine:      reorder.NewEngine(store, logger),
		mapEngine:   mapEngine,
		mapLayer:    layer,
		coordinator: save.NewCoordinator(s.api, s.bus, logger),
	}
	s.sessions.Set(sessionID, sess, cache.DefaultExpiration)
	logger.Info("planning session created")
	return sess
}

// AddStop resolves the business in the catalog and inserts it at the end
// of the itinerary, the same path the tap affordance takes in the UI.
func (s *ServiceImpl) AddStop(ctx context.Context, sessionID string, businessID uuid.UUID) (*types.RouteItem, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "AddStop", trace.WithAttributes(
		attribute.String("business.id", businessID.String()),
	))
	defer span.End()

	stop, err := s.catalog.GetStop(ctx, businessID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to resolve business")
		return nil, err
	}
	if !stop.Coordinate.Valid() {
		// A malformed catalog row must not poison the geo math.
		return nil, types.ErrNotFound
	}

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	item, err := sess.engine.QuickAdd(*stop)
	observability.ObserveMutation("insert", err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return item, nil
}

func (s *ServiceImpl) RemoveStop(ctx context.Context, sessionID string, itemID uuid.UUID) {
	_, span := otel.Tracer("PlannerService").Start(ctx, "RemoveStop")
	defer span.End()

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.store.Remove(itemID)
	observability.ObserveMutation("remove", nil)
}

// MoveStop drives the reorder engine through a full drag gesture: pick
// the item up, drop it at the requested index.
func (s *ServiceImpl) MoveStop(ctx context.Context, sessionID string, itemID uuid.UUID, index int) error {
	_, span := otel.Tracer("PlannerService").Start(ctx, "MoveStop", trace.WithAttributes(
		attribute.Int("target.index", index),
	))
	defer span.End()

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.engine.BeginItemDrag(itemID); err != nil {
		observability.ObserveMutation("reorder", err)
		return err
	}
	err := sess.engine.Drop(reorder.DropTarget{Zone: reorder.ZoneItinerary, Index: index})
	observability.ObserveMutation("reorder", err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *ServiceImpl) ReorderStops(ctx context.Context, sessionID string, order []uuid.UUID) error {
	_, span := otel.Tracer("PlannerService").Start(ctx, "ReorderStops")
	defer span.End()

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := sess.store.Reorder(order)
	observability.ObserveMutation("reorder", err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *ServiceImpl) SetStopDuration(ctx context.Context, sessionID string, itemID uuid.UUID, d types.StopDuration) error {
	_, span := otel.Tracer("PlannerService").Start(ctx, "SetStopDuration", trace.WithAttributes(
		attribute.String("duration", string(d)),
	))
	defer span.End()

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := sess.store.SetDuration(itemID, d)
	observability.ObserveMutation("set_duration", err)
	return err
}

func (s *ServiceImpl) SetDetails(ctx context.Context, sessionID, title, description string) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.store.SetTitle(title)
	sess.store.SetDescription(description)
}

func (s *ServiceImpl) Overview(ctx context.Context, sessionID string) (types.Itinerary, types.AggregateMetrics) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.store.Snapshot(), sess.store.Metrics()
}

func (s *ServiceImpl) Validate(ctx context.Context, sessionID string) ([]types.ValidationWarning, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.coordinator.Validate(sess.store.Snapshot())
}

func (s *ServiceImpl) MapState(ctx context.Context, sessionID string) mapsync.MapState {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.mapEngine.Snapshot()
}

// MapReady records the client's map-loaded signal; any reconciliation
// deferred while the map was loading runs now.
func (s *ServiceImpl) MapReady(ctx context.Context, sessionID string) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	sess.mapLayer.EngineReady()
	sess.mu.Unlock()

	s.bus.Publish(events.TopicMapReady, sessionID)
}

// Save persists the session's itinerary. Editing stays possible while
// the request is in flight; only a second save is rejected, inside the
// coordinator. The session mutex is deliberately not held across the
// network call; the coordinator takes and clears its snapshot through a
// locking adapter instead.
func (s *ServiceImpl) Save(ctx context.Context, sessionID string, sess auth.Session, isPublic bool) (uuid.UUID, error) {
	session := s.session(sessionID)
	return session.coordinator.Save(ctx, sess, &lockedItinerary{session: session}, isPublic)
}

// lockedItinerary lets the save path read and clear the store under the
// session mutex without holding that mutex for the whole network call.
type lockedItinerary struct {
	session *Session
}

func (l *lockedItinerary) Snapshot() types.Itinerary {
	l.session.mu.Lock()
	defer l.session.mu.Unlock()
	return l.session.store.Snapshot()
}

func (l *lockedItinerary) Clear() {
	l.session.mu.Lock()
	defer l.session.mu.Unlock()
	l.session.store.Clear()
}

func (s *ServiceImpl) Discard(ctx context.Context, sessionID string) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	sess.store.Clear()
	sess.mu.Unlock()

	s.mu.Lock()
	s.sessions.Delete(sessionID)
	s.mu.Unlock()
	s.logger.Info("planning session discarded", slog.String("sessionID", sessionID))
}
