// Package handler exposes the planning session over JSON/HTTP. Every
// endpoint is a thin translation layer: parse, call the planner service,
// map sentinel errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rutalocal/planner-api/internal/domain/catalog"
	"github.com/rutalocal/planner-api/internal/domain/planner"
	"github.com/rutalocal/planner-api/internal/types"
	"github.com/rutalocal/planner-api/pkg/middleware"
)

type PlannerHandler struct {
	logger  *slog.Logger
	service planner.Service
	catalog catalog.Service
}

func NewPlannerHandler(svc planner.Service, catalogSvc catalog.Service, logger *slog.Logger) *PlannerHandler {
	return &PlannerHandler{logger: logger, service: svc, catalog: catalogSvc}
}

// Register mounts all planner routes on the mux.
func (h *PlannerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/catalog/stops", h.listCatalogStops)
	mux.HandleFunc("GET /v1/session/itinerary", h.overview)
	mux.HandleFunc("PUT /v1/session/details", h.setDetails)
	mux.HandleFunc("POST /v1/session/stops", h.addStop)
	mux.HandleFunc("DELETE /v1/session/stops/{itemID}", h.removeStop)
	mux.HandleFunc("POST /v1/session/stops/{itemID}/move", h.moveStop)
	mux.HandleFunc("PUT /v1/session/stops/{itemID}/duration", h.setDuration)
	mux.HandleFunc("PUT /v1/session/order", h.reorder)
	mux.HandleFunc("GET /v1/session/validation", h.validate)
	mux.HandleFunc("GET /v1/session/map", h.mapState)
	mux.HandleFunc("POST /v1/session/map/ready", h.mapReady)
	mux.HandleFunc("POST /v1/session/save", h.saveRoute)
	mux.HandleFunc("DELETE /v1/session", h.discard)
}

// sessionID resolves which planning session a request addresses. Signed
// in users get a session per account; anonymous users planning before
// sign-in are keyed by a client-generated header.
func sessionID(r *http.Request) string {
	if sess := middleware.SessionFromContext(r.Context()); sess.IsAuthenticated() {
		return sess.CurrentUserID()
	}
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	return "anonymous"
}

func (h *PlannerHandler) listCatalogStops(w http.ResponseWriter, r *http.Request) {
	filters := types.CatalogFilters{
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}
	stops, err := h.catalog.ListCandidateStops(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"stops": stops})
}

type overviewResponse struct {
	Itinerary types.Itinerary        `json:"itinerary"`
	Metrics   types.AggregateMetrics `json:"metrics"`
}

func (h *PlannerHandler) overview(w http.ResponseWriter, r *http.Request) {
	it, metrics := h.service.Overview(r.Context(), sessionID(r))
	h.writeJSON(w, http.StatusOK, overviewResponse{Itinerary: it, Metrics: metrics})
}

type detailsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *PlannerHandler) setDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.service.SetDetails(r.Context(), sessionID(r), req.Title, req.Description)
	w.WriteHeader(http.StatusNoContent)
}

type addStopRequest struct {
	BusinessID uuid.UUID `json:"business_id"`
}

func (h *PlannerHandler) addStop(w http.ResponseWriter, r *http.Request) {
	var req addStopRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.BusinessID == uuid.Nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "business_id is required")
		return
	}

	item, err := h.service.AddStop(r.Context(), sessionID(r), req.BusinessID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *PlannerHandler) removeStop(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("itemID"))
	if err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid item id")
		return
	}
	h.service.RemoveStop(r.Context(), sessionID(r), itemID)
	w.WriteHeader(http.StatusNoContent)
}

type moveStopRequest struct {
	Index int `json:"index"`
}

func (h *PlannerHandler) moveStop(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("itemID"))
	if err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req moveStopRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.MoveStop(r.Context(), sessionID(r), itemID, req.Index); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type durationRequest struct {
	Duration types.StopDuration `json:"duration"`
}

func (h *PlannerHandler) setDuration(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(r.PathValue("itemID"))
	if err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req durationRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !req.Duration.Valid() {
		h.writeErrorMessage(w, http.StatusBadRequest, "duration must be one of 15min, 30min, 1hr, 2hrs")
		return
	}
	if err := h.service.SetStopDuration(r.Context(), sessionID(r), itemID, req.Duration); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Order []uuid.UUID `json:"order"`
}

func (h *PlannerHandler) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ReorderStops(r.Context(), sessionID(r), req.Order); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlannerHandler) validate(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.service.Validate(r.Context(), sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []types.ValidationWarning{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (h *PlannerHandler) mapState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.MapState(r.Context(), sessionID(r)))
}

func (h *PlannerHandler) mapReady(w http.ResponseWriter, r *http.Request) {
	h.service.MapReady(r.Context(), sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}

type saveRequest struct {
	IsPublic bool `json:"is_public"`
}

type saveResponse struct {
	RouteID uuid.UUID `json:"route_id"`
}

func (h *PlannerHandler) saveRoute(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !h.decode(w, r, &req) {
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	routeID, err := h.service.Save(r.Context(), sessionID(r), sess, req.IsPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, saveResponse{RouteID: routeID})
}

func (h *PlannerHandler) discard(w http.ResponseWriter, r *http.Request) {
	h.service.Discard(r.Context(), sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlannerHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *PlannerHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *PlannerHandler) writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto HTTP statuses. Everything the store
// rejects is a client-recoverable condition, never a 500.
func (h *PlannerHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var saveErr *types.SaveError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, types.ErrNotFound):
		h.writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrCapacityExceeded),
		errors.Is(err, types.ErrDuplicateStop),
		errors.Is(err, types.ErrSaveInProgress):
		h.writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrInvalidPermutation),
		errors.Is(err, types.ErrTooFewStops):
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, types.ErrUnauthenticated):
		h.writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &validationErrs):
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, validationErrs.Error())
	case errors.As(err, &saveErr):
		h.writeErrorMessage(w, http.StatusBadGateway, saveErr.Error())
	default:
		h.logger.ErrorContext(r.Context(), "unhandled error", slog.Any("error", err))
		h.writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
