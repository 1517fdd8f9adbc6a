package audit

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medcore/clinic-console/internal/api/respond"
	"github.com/medcore/clinic-console/pkg/logging"
)

// ErrEventNotFound is returned when the referenced audit event does not
// exist.
var ErrEventNotFound = errors.New("audit event not found")

// Handler serves the audit trail endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an audit handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the audit trail routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Delete("/", h.DeleteBatch)
	r.Delete("/{id}", h.Delete)
	return r
}

// List handles GET /audit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := Filter{Limit: 100}
	q := r.URL.Query()
	filter.Entity = q.Get("entity")
	filter.Action = Action(q.Get("action"))
	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 500 {
			filter.Limit = limit
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	events, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list audit events", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if events == nil {
		events = []Event{}
	}
	respond.JSON(w, http.StatusOK, events)
}

// Delete handles DELETE /audit/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			respond.Error(w, http.StatusNotFound, "audit event not found")
			return
		}
		h.logger.Error("failed to delete audit event", "id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBatch handles DELETE /audit with {"ids": [...]}.
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		respond.Error(w, http.StatusBadRequest, "ids is required")
		return
	}

	deleted, err := h.service.DeleteBatch(r.Context(), req.IDs)
	if err != nil {
		h.logger.Error("failed to delete audit events", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
