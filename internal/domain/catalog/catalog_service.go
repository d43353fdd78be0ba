// Package catalog is the planner's view of the business catalog: a
// read-only pool of candidate stops a user can add to an itinerary.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rutalocal/planner-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes cached catalog reads to the planning session.
type Service interface {
	ListCandidateStops(ctx context.Context, filters types.CatalogFilters) ([]types.CatalogStop, error)
	GetStop(ctx context.Context, id uuid.UUID) (*types.CatalogStop, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

// ListCandidateStops serves listings from cache when the same filter
// signature was queried recently; catalog contents change rarely during
// an editing session.
func (s *ServiceImpl) ListCandidateStops(ctx context.Context, filters types.CatalogFilters) ([]types.CatalogStop, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "ListCandidateStops", trace.WithAttributes(
		attribute.String("catalog.category", filters.Category),
		attribute.String("catalog.query", filters.Query),
	))
	defer span.End()

	cacheKey := fmt.Sprintf("stops:%s:%s:%d", filters.Category, filters.Query, filters.Limit)
	if cached, found := s.cache.Get(cacheKey); found {
		if stops, ok := cached.([]types.CatalogStop); ok {
			s.logger.DebugContext(ctx, "Serving candidate stops from cache", slog.String("key", cacheKey))
			return stops, nil
		}
	}

	stops, err := s.repo.ListCandidateStops(ctx, filters)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list candidate stops")
		return nil, err
	}

	s.cache.Set(cacheKey, stops, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("catalog.count", len(stops)))
	return stops, nil
}

// GetStop resolves a business the user is about to insert.
func (s *ServiceImpl) GetStop(ctx context.Context, id uuid.UUID) (*types.CatalogStop, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "GetStop", trace.WithAttributes(
		attribute.String("business.id", id.String()),
	))
	defer span.End()

	cacheKey := "stop:" + id.String()
	if cached, found := s.cache.Get(cacheKey); found {
		if stop, ok := cached.(*types.CatalogStop); ok {
			return stop, nil
		}
	}

	stop, err := s.repo.GetStop(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get stop")
		return nil, err
	}

	s.cache.Set(cacheKey, stop, cache.DefaultExpiration)
	return stop, nil
}
