package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrmperf/internal/domain/audit"
	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
	"hrmperf/internal/domain/notifications"
	"hrmperf/internal/domain/performance"
	"hrmperf/internal/platform/cache"
	"hrmperf/internal/platform/config"
	"hrmperf/internal/platform/db"
	"hrmperf/internal/platform/jobs"
	"hrmperf/internal/platform/logger"
	"hrmperf/internal/platform/metrics"
	audithandler "hrmperf/internal/transport/http/handlers/audit"
	hierarchyhandler "hrmperf/internal/transport/http/handlers/hierarchy"
	notificationshandler "hrmperf/internal/transport/http/handlers/notifications"
	performancehandler "hrmperf/internal/transport/http/handlers/performance"
	"hrmperf/internal/transport/http/middleware"
)

// Services is everything the router serves.
type Services struct {
	Hierarchy     hierarchyhandler.Resolver
	Plans         performancehandler.PlanService
	Notifications notificationshandler.Counter
	Audit         *audit.Service
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Ready         func(ctx context.Context) error
}

func NewRouter(cfg config.Config, svc Services) http.Handler {
	perms := auth.StaticPermissions{}

	var recorder middleware.RequestRecorder
	if svc.Metrics != nil {
		recorder = svc.Metrics
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(recorder))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == logger.EnvProduction))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if svc.Ready != nil {
			if err := svc.Ready(ctx); err != nil {
				slog.Warn("readiness check failed", "err", err)
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && svc.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(svc.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		hierarchyhandler.NewHandler(svc.Hierarchy, perms).RegisterRoutes(r)

		var auditLog performancehandler.AuditLog
		if svc.Audit != nil {
			auditLog = svc.Audit
			audithandler.NewHandler(svc.Audit, perms).RegisterRoutes(r)
		}
		performancehandler.NewHandler(svc.Plans, perms, auditLog).RegisterRoutes(r)

		notificationshandler.NewHandler(svc.Notifications, perms).RegisterRoutes(r)
	})

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cfg.Environment))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(pool, cfg.MigrationsDir); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	hierarchySvc := hierarchy.NewService(hierarchy.NewStore(pool))
	planStore := performance.NewStore(pool)
	planSvc := performance.NewService(planStore, hierarchySvc).WithObserver(m)
	countsCache, closeCache := openCache(ctx, cfg)
	defer closeCache()
	notifySvc := notifications.New(planStore, cfg.WeekStart).WithCache(countsCache, cfg.CountsCacheTTL)

	jobSvc := jobs.New(pool).WithObserver(m)
	if err := jobSvc.Schedule(cfg.SnapshotSchedule, jobs.JobSnapshot, jobs.Snapshot(planSvc, notifySvc, m, time.Now)); err != nil {
		return err
	}
	jobSvc.Start(ctx)
	jobSvc.Enqueue(jobs.JobSnapshot, jobs.Snapshot(planSvc, notifySvc, m, time.Now))

	router := NewRouter(cfg, Services{
		Hierarchy:     hierarchySvc,
		Plans:         planSvc,
		Notifications: notifySvc,
		Audit:         audit.New(pool),
		Metrics:       m,
		Gatherer:      reg,
		Ready:         pool.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("performance workflow server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// openCache falls back to no caching when Redis is unset or unreachable.
func openCache(ctx context.Context, cfg config.Config) (notifications.Cache, func()) {
	noop := func() {}
	if cfg.RedisURL == "" {
		return cache.Noop{}, noop
	}
	client, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		slog.Warn("redis disabled", "err", err)
		return cache.Noop{}, noop
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		slog.Warn("redis unavailable, counts will not be cached", "err", err)
		_ = client.Close()
		return cache.Noop{}, noop
	}
	return client, func() {
		if err := client.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
	}
}
