package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medcore/clinic-console/internal/api/router"
	"github.com/medcore/clinic-console/internal/app/bootstrap"
	"github.com/medcore/clinic-console/internal/appointments"
	"github.com/medcore/clinic-console/internal/audit"
	appconfig "github.com/medcore/clinic-console/internal/config"
	"github.com/medcore/clinic-console/internal/counts"
	"github.com/medcore/clinic-console/internal/employees"
	"github.com/medcore/clinic-console/internal/observability/metrics"
	"github.com/medcore/clinic-console/internal/patients"
	"github.com/medcore/clinic-console/internal/positions"
	"github.com/medcore/clinic-console/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic records API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	dbs, err := bootstrap.OpenDatabases(ctx, cfg)
	if err != nil {
		logger.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer dbs.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	apiMetrics := metrics.NewAPIMetrics(nil)
	auditService := audit.NewService(dbs.SQL, cfg.AuditActor, logger)
	countsService := counts.NewService(dbs.Pool, redisClient, cfg.CountsTTL, logger)
	recorder := apiMetrics.InstrumentRecorder(countsService.InvalidateOnMutation(auditService))

	routerCfg := &router.Config{
		PositionsHandler:    positions.NewHandler(positions.NewPostgresRepository(dbs.Pool), recorder, logger),
		EmployeesHandler:    employees.NewHandler(employees.NewPostgresRepository(dbs.Pool), recorder, logger),
		PatientsHandler:     patients.NewHandler(patients.NewPostgresRepository(dbs.Pool), recorder, logger),
		AppointmentsHandler: appointments.NewHandler(appointments.NewPostgresRepository(dbs.Pool), recorder, logger),
		AuditHandler:        audit.NewHandler(auditService, logger),
		CountsHandler:       counts.NewHandler(countsService, logger),
		Metrics:             apiMetrics,
		MetricsHandler:      promhttp.Handler(),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
