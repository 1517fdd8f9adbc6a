// Package web serves the admin console pages. Every page renders a Table
// produced by a console module; operation outcomes travel as flash
// messages on the redirect back to the page.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medcore/clinic-console/internal/console"
	"github.com/medcore/clinic-console/internal/medcore"
	"github.com/medcore/clinic-console/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server holds the console modules and the parsed page templates.
type Server struct {
	api          *medcore.Client
	patients     *console.Patients
	appointments *console.Appointments
	employees    *console.Employees
	positions    *console.Positions
	tmpl         *template.Template
	logger       *logging.Logger

	// opMu serializes operations so a captured notification always
	// belongs to the request that triggered it.
	opMu   sync.Mutex
	notice *capturingNotifier
}

// New builds the console server. The browser's confirm dialog sets the
// form's confirm field, so the server-side Confirmer just reads it back;
// notifications are collected per request and shown as a flash banner.
func New(api *medcore.Client, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		api:    api,
		tmpl:   tmpl,
		logger: logger.WithComponent("web"),
		notice: &capturingNotifier{},
	}
	s.patients = console.NewPatients(api, s.notice, logger)
	s.appointments = console.NewAppointments(api, s.notice, logger)
	s.employees = console.NewEmployees(api, s.notice, logger)
	s.positions = console.NewPositions(api, s.notice, logger)
	return s, nil
}

// operate runs one module operation under the operation lock and returns
// the notification it produced.
func (s *Server) operate(op func()) string {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.notice.reset()
	op()
	return s.notice.take()
}

// Routes returns the console's HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)

	r.Get("/positions", s.handlePositionsPage)
	r.Post("/positions/save", s.handlePositionsSave)
	r.Post("/positions/{id}/delete", s.handlePositionsDelete)

	r.Get("/employees", s.handleEmployeesPage)
	r.Post("/employees/save", s.handleEmployeesSave)
	r.Post("/employees/{id}/delete", s.handleEmployeesDelete)

	r.Get("/patients", s.handlePatientsPage)
	r.Post("/patients/save", s.handlePatientsSave)
	r.Post("/patients/{id}/delete", s.handlePatientsDelete)

	r.Get("/appointments", s.handleAppointmentsPage)
	r.Post("/appointments/{id}/status", s.handleAppointmentStatus)
	r.Post("/appointments/{id}/delete", s.handleAppointmentDelete)

	return r
}

// pageData is the payload shared by every page template.
type pageData struct {
	Title     string
	Active    string
	Flash     string
	Table     *console.Table
	Query     map[string]string
	Form      any
	Statuses  []medcore.Status
	Positions []medcore.Position
	Counts    *medcore.Counts
}

func (s *Server) render(w http.ResponseWriter, page string, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, page, data); err != nil {
		s.logger.Error("render failed", "page", page, "error", err)
	}
}

// redirect sends the browser back to a page carrying the flash message the
// operation produced.
func redirect(w http.ResponseWriter, r *http.Request, path, flash string) {
	if flash != "" {
		path += "?flash=" + url.QueryEscape(flash)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// capturingNotifier records the notification of the operation in flight.
type capturingNotifier struct {
	mu      sync.Mutex
	message string
}

func (n *capturingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = message
}

func (n *capturingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.message = ""
}

func (n *capturingNotifier) take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// formConfirmer reads the confirm field the delete forms set after the
// browser-side dialog.
type formConfirmer struct {
	r *http.Request
}

func (c formConfirmer) Confirm(string) bool { return c.r.FormValue("confirm") == "1" }

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	counts, err := s.api.GetCounts(r.Context())
	if err != nil {
		s.logger.Error("load counts failed", "error", err)
	}
	s.render(w, "index.html", &pageData{
		Title:  "Overview",
		Active: "index",
		Flash:  r.URL.Query().Get("flash"),
		Counts: counts,
	})
}
