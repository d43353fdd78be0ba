package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rutalocal/planner-api/internal/types"
)

// MockRepository is a mock implementation of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListCandidateStops(ctx context.Context, filters types.CatalogFilters) ([]types.CatalogStop, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CatalogStop), args.Error(1)
}

func (m *MockRepository) GetStop(ctx context.Context, id uuid.UUID) (*types.CatalogStop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CatalogStop), args.Error(1)
}

func TestServiceCachesListings(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testLogger())
	filters := types.CatalogFilters{Category: "cafe"}
	stops := []types.CatalogStop{{ID: uuid.New(), Name: "Cafe Central", Category: "cafe"}}

	repo.On("ListCandidateStops", mock.Anything, filters).Return(stops, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := svc.ListCandidateStops(context.Background(), filters)
		require.NoError(t, err)
		assert.Equal(t, stops, got)
	}
	repo.AssertExpectations(t)
}

func TestServiceDoesNotCacheFailures(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testLogger())
	filters := types.CatalogFilters{Query: "bar"}

	repo.On("ListCandidateStops", mock.Anything, filters).
		Return(nil, errors.New("connection reset")).Twice()

	_, err := svc.ListCandidateStops(context.Background(), filters)
	require.Error(t, err)
	_, err = svc.ListCandidateStops(context.Background(), filters)
	require.Error(t, err)
	repo.AssertExpectations(t)
}

func TestServiceGetStop(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testLogger())
	stop := &types.CatalogStop{ID: uuid.New(), Name: "Parque Forestal", Category: "park"}

	repo.On("GetStop", mock.Anything, stop.ID).Return(stop, nil).Once()

	got, err := svc.GetStop(context.Background(), stop.ID)
	require.NoError(t, err)
	assert.Equal(t, stop, got)

	// Second lookup hits the cache.
	got, err = svc.GetStop(context.Background(), stop.ID)
	require.NoError(t, err)
	assert.Equal(t, stop, got)
	repo.AssertExpectations(t)
}

func TestServiceGetStopNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testLogger())
	id := uuid.New()

	repo.On("GetStop", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

	_, err := svc.GetStop(context.Background(), id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	repo.AssertExpectations(t)
}
