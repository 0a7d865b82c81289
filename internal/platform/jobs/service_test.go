package jobs

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrmperf/internal/domain/notifications"
	"hrmperf/internal/domain/performance"
)

type jobRecorder struct {
	jobs []string
	errs []error
}

func (r *jobRecorder) ObserveJob(job string, err error) {
	r.jobs = append(r.jobs, job)
	r.errs = append(r.errs, err)
}

func TestRunNowRecordsJobRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_runs (job_type, status)")).
		WithArgs(JobSnapshot, "running").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("run-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE job_runs")).
		WithArgs("completed", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	recorder := &jobRecorder{}
	svc := New(mock).WithObserver(recorder)
	details, err := svc.RunNow(context.Background(), JobSnapshot, func(context.Context) (any, error) {
		return map[string]int{"total": 3}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"total": 3}, details)
	assert.Equal(t, []string{JobSnapshot}, recorder.jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNowMarksFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_runs")).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("run-2"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE job_runs")).
		WithArgs("failed", pgxmock.AnyArg(), "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := New(mock)
	_, err = svc.RunNow(context.Background(), JobSnapshot, func(context.Context) (any, error) {
		return nil, assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNowSurvivesInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_runs")).WillReturnError(assert.AnError)

	ran := false
	svc := New(mock)
	_, err = svc.RunNow(context.Background(), JobSnapshot, func(context.Context) (any, error) {
		ran = true
		return nil, nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	svc := New(nil)
	err := svc.Schedule("every tuesday", JobSnapshot, func(context.Context) (any, error) { return nil, nil })
	assert.Error(t, err)
	assert.NoError(t, svc.Schedule("*/5 * * * *", JobSnapshot, func(context.Context) (any, error) { return nil, nil }))
}

type fakeSummary struct {
	summary performance.Summary
	err     error
}

func (f fakeSummary) Summary(context.Context) (performance.Summary, error) { return f.summary, f.err }

type fakeCounts struct {
	counts notifications.WindowCounts
	at     time.Time
}

func (f *fakeCounts) OrgCounts(_ context.Context, now time.Time) (notifications.WindowCounts, error) {
	f.at = now
	return f.counts, nil
}

type fakePublisher struct {
	called  bool
	summary performance.Summary
	counts  notifications.WindowCounts
}

func (f *fakePublisher) PublishSnapshot(summary performance.Summary, counts notifications.WindowCounts, _ time.Time) {
	f.called = true
	f.summary = summary
	f.counts = counts
}

func TestSnapshot(t *testing.T) {
	at := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	counts := &fakeCounts{counts: notifications.WindowCounts{DueThisWeek: 2, Scope: notifications.ScopeAll}}
	publisher := &fakePublisher{}

	run := Snapshot(fakeSummary{summary: performance.Summary{Total: 5, Approved: 1}}, counts, publisher, func() time.Time { return at })
	details, err := run(context.Background())

	require.NoError(t, err)
	assert.True(t, publisher.called)
	assert.Equal(t, 5, publisher.summary.Total)
	assert.Equal(t, 2, publisher.counts.DueThisWeek)
	assert.Equal(t, at, counts.at)
	assert.Equal(t, 5, details.(map[string]any)["total"])
}

func TestSnapshotSummaryError(t *testing.T) {
	publisher := &fakePublisher{}
	run := Snapshot(fakeSummary{err: errors.New("db down")}, &fakeCounts{}, publisher, time.Now)

	_, err := run(context.Background())

	assert.ErrorContains(t, err, "failed to summarise plans")
	assert.False(t, publisher.called)
}
