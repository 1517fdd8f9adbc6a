// Package counts serves the per-entity record totals shown on the
// console's overview page.
package counts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/medcore/clinic-console/internal/api/respond"
	"github.com/medcore/clinic-console/internal/audit"
	"github.com/medcore/clinic-console/pkg/logging"
)

const cacheKey = "clinic:counts"

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Counts holds per-entity record totals.
type Counts struct {
	Patients     int64 `json:"patients"`
	Appointments int64 `json:"appointments"`
	Employees    int64 `json:"employees"`
	Positions    int64 `json:"positions"`
}

// Service computes record totals, with a short-lived Redis cache in front
// of the database. The cache is optional; without it every request counts
// directly.
type Service struct {
	db     db
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewService creates a counts service. redisClient may be nil.
func NewService(database db, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{db: database, redis: redisClient, ttl: ttl, logger: logger}
}

// Get returns the totals, from cache when fresh. Cache failures fall
// through to the database.
func (s *Service) Get(ctx context.Context) (*Counts, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var c Counts
			if json.Unmarshal([]byte(raw), &c) == nil {
				return &c, nil
			}
		}
	}

	query := `
		SELECT
			(SELECT count(*) FROM patients),
			(SELECT count(*) FROM appointments),
			(SELECT count(*) FROM employees),
			(SELECT count(*) FROM positions)
	`
	var c Counts
	if err := s.db.QueryRow(ctx, query).Scan(&c.Patients, &c.Appointments, &c.Employees, &c.Positions); err != nil {
		return nil, fmt.Errorf("counts: select failed: %w", err)
	}

	if s.redis != nil {
		payload, _ := json.Marshal(c)
		if err := s.redis.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
			s.logger.Error("counts cache write failed", "error", err)
		}
	}
	return &c, nil
}

// Invalidate drops the cached totals. Mutating handlers are free to skip
// this: the TTL bounds staleness either way.
func (s *Service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("counts cache invalidation failed", "error", err)
	}
}

// InvalidateOnMutation decorates an audit recorder so creates and deletes
// drop the cached totals before the next dashboard read. Updates keep the
// cache: they never change a total.
func (s *Service) InvalidateOnMutation(next audit.Recorder) audit.Recorder {
	if next == nil {
		next = audit.NopRecorder{}
	}
	return invalidatingRecorder{service: s, next: next}
}

type invalidatingRecorder struct {
	service *Service
	next    audit.Recorder
}

func (r invalidatingRecorder) Record(ctx context.Context, event audit.Event) {
	if event.Action != audit.ActionUpdate {
		r.service.Invalidate(ctx)
	}
	r.next.Record(ctx, event)
}

// Handler serves GET /counts.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a counts handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Get handles GET /counts requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load counts", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, c)
}
