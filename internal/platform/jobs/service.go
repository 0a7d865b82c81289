package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"hrmperf/internal/platform/db"
)

const JobSnapshot = "performance_snapshot"

type RunFunc func(context.Context) (any, error)

// Observer is told about every finished run.
type Observer interface {
	ObserveJob(job string, err error)
}

type Service struct {
	DB       db.Database
	queue    chan job
	cron     *cron.Cron
	observer Observer
}

type job struct {
	Type string
	Run  RunFunc
}

func New(database db.Database) *Service {
	return &Service{
		DB:    database,
		queue: make(chan job, 128),
		cron:  cron.New(),
	}
}

func (s *Service) WithObserver(observer Observer) *Service {
	s.observer = observer
	return s
}

// Schedule enqueues run on every tick of a standard five-field cron spec.
func (s *Service) Schedule(spec, jobType string, run RunFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.Enqueue(jobType, run) }); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", jobType, err)
	}
	return nil
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

func (s *Service) Enqueue(jobType string, run RunFunc) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id::text
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	if s.observer != nil {
		s.observer.ObserveJob(j.Type, err)
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}
