package appointments

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

// Handler handles HTTP requests for appointments
type Handler struct {
	repo   Repository
	audit  audit.Recorder
	logger *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(repo Repository, recorder audit.Recorder, logger *logging.Logger) *Handler {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, audit: recorder, logger: logger}
}

// Routes returns the appointment routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	return r
}

// List handles GET /appointments requests. The collection is always
// returned whole; clients filter locally.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Create handles POST /appointments requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.repo.Create(r.Context(), &in)
	if err != nil {
		h.writeError(w, err, "failed to create appointment")
		return
	}

	h.logger.Info("appointment created", "id", a.ID, "patient_id", a.PatientID)
	h.record(r.Context(), audit.ActionCreate, a.ID)
	respond.JSON(w, http.StatusCreated, a)
}

// UpdateStatus handles PATCH /appointments/{id} requests carrying
// {"status": "..."}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err, "failed to update appointment status")
		return
	}

	h.record(r.Context(), audit.ActionUpdate, id)
	respond.JSON(w, http.StatusOK, a)
}

// Delete handles DELETE /appointments/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "failed to delete appointment")
		return
	}

	h.record(r.Context(), audit.ActionDelete, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(ctx context.Context, action audit.Action, id int64) {
	h.audit.Record(ctx, audit.Event{Action: action, Entity: "appointments", RecordID: id})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrPatientRequired),
		errors.Is(err, ErrProcedureRequired),
		errors.Is(err, ErrDateRequired),
		errors.Is(err, ErrTimeRequired),
		errors.Is(err, ErrPatientNotFound):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrAppointmentNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
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
