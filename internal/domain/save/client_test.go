package save

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rutalocal/planner-api/internal/types"
)

func sampleRequest() types.CreateRouteRequest {
	return types.CreateRouteRequest{
		Name:     "Saturday walk",
		IsPublic: true,
		Stops: []types.CreateRouteStop{
			{BusinessID: uuid.New(), Order: 1, DurationMinutes: 60},
			{BusinessID: uuid.New(), Order: 2, DurationMinutes: 30},
		},
	}
}

func TestCreateRoute(t *testing.T) {
	routeID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/routes", r.URL.Path)
		assert.Equal(t, "user-1", r.Header.Get("X-User-ID"))

		var req types.CreateRouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Stops, 2)
		assert.Equal(t, 1, req.Stops[0].Order)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(types.CreateRouteResponse{ID: routeID})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testLogger())
	resp, err := client.CreateRoute(context.Background(), "user-1", sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, routeID, resp.ID)
}

func TestCreateRouteSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "route limit reached"})
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testLogger())
	_, err := client.CreateRoute(context.Background(), "user-1", sampleRequest())

	var saveErr *types.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, http.StatusUnprocessableEntity, saveErr.StatusCode)
	assert.Equal(t, "route limit reached", saveErr.Message)
	assert.Contains(t, saveErr.Error(), "route limit reached")
}

func TestCreateRouteGenericFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, testLogger())
	_, err := client.CreateRoute(context.Background(), "user-1", sampleRequest())

	var saveErr *types.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, http.StatusInternalServerError, saveErr.StatusCode)
	assert.Empty(t, saveErr.Message)
	assert.Equal(t, "save failed", saveErr.Error())
}

func TestCreateRouteNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewHTTPClient(srv.URL, testLogger())
	_, err := client.CreateRoute(context.Background(), "user-1", sampleRequest())

	var saveErr *types.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Error(t, saveErr.Unwrap())
}
