package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/things/{thingID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(mux)

	before := testutil.CollectAndCount(httpRequests)

	// Distinct path values must collapse onto one route label.
	for _, path := range []string{"/v1/things/aaa", "/v1/things/bbb", "/v1/things/ccc"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequests))
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	handler := Middleware(http.NewServeMux())

	before := testutil.CollectAndCount(httpRequests)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, before+1, testutil.CollectAndCount(httpRequests))
}
