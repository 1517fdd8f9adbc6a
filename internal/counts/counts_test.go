package counts

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"

	"github.com/medcore/clinic-console/internal/audit"
	"github.com/medcore/clinic-console/pkg/logging"
)

func TestGet_CachesInRedis(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	// Only one database round trip for two Gets.
	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(12), int64(30), int64(5), int64(3)))

	service := NewService(mock, redisClient, 30*time.Second, logging.Default())

	first, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if first.Patients != 12 || first.Positions != 3 {
		t.Errorf("unexpected counts %+v", first)
	}

	second, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("cached Get returned error: %v", err)
	}
	if *second != *first {
		t.Errorf("cached counts differ: %+v vs %+v", second, first)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expected a single database query: %v", err)
	}
}

func TestGet_ExpiredCacheRefetches(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(1), int64(1), int64(1), int64(1)))
	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(2), int64(2), int64(1), int64(1)))

	service := NewService(mock, redisClient, time.Second, logging.Default())

	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	mr.FastForward(2 * time.Second)

	c, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if c.Patients != 2 {
		t.Errorf("expected refreshed counts, got %+v", c)
	}
}

func TestGet_WithoutRedis(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(4), int64(9), int64(2), int64(1)))

	service := NewService(mock, nil, time.Minute, logging.Default())
	c, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if c.Appointments != 9 {
		t.Errorf("unexpected counts %+v", c)
	}
}

func TestInvalidate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(1), int64(1), int64(1), int64(1)))
	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"patients", "appointments", "employees", "positions"}).
			AddRow(int64(5), int64(1), int64(1), int64(1)))

	service := NewService(mock, redisClient, time.Minute, logging.Default())
	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	service.Invalidate(context.Background())

	c, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if c.Patients != 5 {
		t.Errorf("expected refetched counts after invalidation, got %+v", c)
	}
}

type recorderFunc func(context.Context, audit.Event)

func (f recorderFunc) Record(ctx context.Context, event audit.Event) { f(ctx, event) }

func TestInvalidateOnMutation(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	service := NewService(nil, redisClient, 30*time.Second, logging.Default())
	if err := mr.Set(cacheKey, `{"patients":12}`); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	var recorded []audit.Event
	recorder := service.InvalidateOnMutation(recorderFunc(func(_ context.Context, e audit.Event) {
		recorded = append(recorded, e)
	}))

	recorder.Record(context.Background(), audit.Event{Action: audit.ActionUpdate, Entity: "patients", RecordID: 5})
	if !mr.Exists(cacheKey) {
		t.Error("an update must keep the cached totals")
	}

	recorder.Record(context.Background(), audit.Event{Action: audit.ActionCreate, Entity: "patients", RecordID: 6})
	if mr.Exists(cacheKey) {
		t.Error("a create must drop the cached totals")
	}
	if len(recorded) != 2 {
		t.Errorf("expected both events forwarded, got %d", len(recorded))
	}
}
