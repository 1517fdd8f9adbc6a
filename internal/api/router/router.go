package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medcore/clinic-console/internal/appointments"
	"github.com/medcore/clinic-console/internal/audit"
	"github.com/medcore/clinic-console/internal/counts"
	"github.com/medcore/clinic-console/internal/employees"
	"github.com/medcore/clinic-console/internal/observability/metrics"
	"github.com/medcore/clinic-console/internal/patients"
	"github.com/medcore/clinic-console/internal/positions"
)

// Config holds router configuration
type Config struct {
	PositionsHandler    *positions.Handler
	EmployeesHandler    *employees.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	AuditHandler        *audit.Handler
	CountsHandler       *counts.Handler
	Metrics             *metrics.APIMetrics
	MetricsHandler      http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Metrics != nil {
		r.Use(requestMetrics(cfg.Metrics))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Mount("/positions", cfg.PositionsHandler.Routes())
		api.Mount("/employees", cfg.EmployeesHandler.Routes())
		api.Mount("/patients", cfg.PatientsHandler.Routes())
		api.Mount("/appointments", cfg.AppointmentsHandler.Routes())
		if cfg.AuditHandler != nil {
			api.Mount("/audit", cfg.AuditHandler.Routes())
		}
		if cfg.CountsHandler != nil {
			api.Get("/counts", cfg.CountsHandler.Get)
		}
	})

	return r
}

// requestMetrics records request counts and latency keyed by the chi
// route pattern, so /api/patients/3 and /api/patients/7 share a label.
func requestMetrics(m *metrics.APIMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.ObserveRequest(route, r.Method, http.StatusText(ww.Status()), time.Since(start).Seconds())
		})
	}
}
