package positions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medcore/clinic-console/internal/api/respond"
	"github.com/medcore/clinic-console/internal/audit"
	"github.com/medcore/clinic-console/pkg/logging"
)

// Handler handles HTTP requests for positions
type Handler struct {
	repo   Repository
	audit  audit.Recorder
	logger *logging.Logger
}

// NewHandler creates a new positions handler
func NewHandler(repo Repository, recorder audit.Recorder, logger *logging.Logger) *Handler {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, audit: recorder, logger: logger}
}

// Routes returns the position routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// List handles GET /positions requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Error("failed to list positions", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Create handles POST /positions requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.repo.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, err, "failed to create position")
		return
	}

	h.logger.Info("position created", "id", p.ID, "name", p.Name)
	h.record(r.Context(), audit.ActionCreate, p.ID)
	respond.JSON(w, http.StatusCreated, p)
}

// Update handles PUT /positions/{id} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.repo.Update(r.Context(), id, &in)
	if err != nil {
		h.writeError(w, err, "failed to update position")
		return
	}

	h.record(r.Context(), audit.ActionUpdate, id)
	respond.JSON(w, http.StatusOK, p)
}

// Delete handles DELETE /positions/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "failed to delete position")
		return
	}

	h.record(r.Context(), audit.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(ctx context.Context, action audit.Action, id int64) {
	h.audit.Record(ctx, audit.Event{Action: action, Entity: "positions", RecordID: id})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidSalary):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPositionNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPositionInUse):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
