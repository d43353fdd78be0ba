package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rutalocal/planner-api/internal/types"
)

const defaultListLimit = 50

// DB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads candidate stops from the business catalog. The
// catalog is read-only from the planner's perspective.
type Repository interface {
	ListCandidateStops(ctx context.Context, filters types.CatalogFilters) ([]types.CatalogStop, error)
	GetStop(ctx context.Context, id uuid.UUID) (*types.CatalogStop, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepository(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, db: db}
}

// ListCandidateStops returns businesses matching the filters, best rated
// first.
func (r *RepositoryImpl) ListCandidateStops(ctx context.Context, filters types.CatalogFilters) ([]types.CatalogStop, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	builder := squirrel.Select("id", "name", "category", "latitude", "longitude", "rating", "image_url").
		From("businesses").
		PlaceholderFormat(squirrel.Dollar).
		OrderBy("rating DESC", "name ASC").
		Limit(uint64(limit))

	if filters.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": filters.Category})
	}
	if filters.Query != "" {
		builder = builder.Where(squirrel.ILike{"name": "%" + filters.Query + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list candidate stops", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list candidate stops: %w", err)
	}
	defer rows.Close()

	var stops []types.CatalogStop
	for rows.Next() {
		var s types.CatalogStop
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Coordinate.Lat, &s.Coordinate.Lng, &s.Rating, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan catalog stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog rows: %w", err)
	}
	return stops, nil
}

// GetStop fetches a single business by id.
func (r *RepositoryImpl) GetStop(ctx context.Context, id uuid.UUID) (*types.CatalogStop, error) {
	query := `
        SELECT id, name, category, latitude, longitude, rating, image_url
        FROM businesses
        WHERE id = $1
    `
	var s types.CatalogStop
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Category, &s.Coordinate.Lat, &s.Coordinate.Lng, &s.Rating, &s.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get catalog stop", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get catalog stop: %w", err)
	}
	return &s, nil
}
