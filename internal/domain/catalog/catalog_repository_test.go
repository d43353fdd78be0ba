package catalog

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutalocal/planner-api/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func stopColumns() []string {
	return []string{"id", "name", "category", "latitude", "longitude", "rating", "image_url"}
}

func TestListCandidateStops(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, testLogger())
	id := uuid.New()

	mock.ExpectQuery("SELECT id, name, category, latitude, longitude, rating, image_url FROM businesses").
		WillReturnRows(pgxmock.NewRows(stopColumns()).
			AddRow(id, "Cafe Central", "cafe", -33.4372, -70.6506, 4.7, ""))

	stops, err := repo.ListCandidateStops(context.Background(), types.CatalogFilters{})
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, id, stops[0].ID)
	assert.Equal(t, "cafe", stops[0].Category)
	assert.InDelta(t, -33.4372, stops[0].Coordinate.Lat, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCandidateStopsAppliesFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, testLogger())

	mock.ExpectQuery("SELECT id, name, category, latitude, longitude, rating, image_url FROM businesses WHERE category = .+ AND name ILIKE .+").
		WithArgs("park", "%forestal%").
		WillReturnRows(pgxmock.NewRows(stopColumns()))

	stops, err := repo.ListCandidateStops(context.Background(), types.CatalogFilters{
		Category: "park",
		Query:    "forestal",
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, stops)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRepository(mock, testLogger())
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, category, latitude, longitude, rating, image_url\\s+FROM businesses\\s+WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(stopColumns()).
				AddRow(id, "Museo Bellas Artes", "museum", -33.4355, -70.6435, 4.8, "img.jpg"))

		stop, err := repo.GetStop(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Museo Bellas Artes", stop.Name)
		assert.Equal(t, "img.jpg", stop.ImageURL)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		missing := uuid.New()
		mock.ExpectQuery("SELECT id, name, category, latitude, longitude, rating, image_url\\s+FROM businesses\\s+WHERE id = \\$1").
			WithArgs(missing).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetStop(context.Background(), missing)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
