package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/rutalocal/planner-api/pkg/middleware"
	"github.com/rutalocal/planner-api/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	if deps.Config.Auth.JWTSecret == "" {
		deps.Logger.Warn("JWT secret is empty; all requests will be treated as anonymous")
	}

	deps.PlannerHandler.Register(mux)
	registerUtilityRoutes(mux, deps)

	mws := []func(http.Handler) http.Handler{
		middleware.RequestID("X-Request-ID"),
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
		observability.Middleware,
		middleware.Auth(deps.SessionVerify),
	}
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		mws = append(mws, middleware.RateLimit(limiter))
	}

	handler := middleware.Chain(mux, mws...)

	// Enable CORS for browser clients (local frontend)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept-Encoding",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Session-ID",
		},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	deps.Logger.Info("registered health check", "path", "/health")

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
