package jobs

import (
	"context"
	"fmt"
	"time"

	"hrmperf/internal/domain/notifications"
	"hrmperf/internal/domain/performance"
)

type SummarySource interface {
	Summary(ctx context.Context) (performance.Summary, error)
}

type CountSource interface {
	OrgCounts(ctx context.Context, now time.Time) (notifications.WindowCounts, error)
}

type SnapshotPublisher interface {
	PublishSnapshot(summary performance.Summary, counts notifications.WindowCounts, at time.Time)
}

// Snapshot returns a job that refreshes the workflow gauges from the store.
func Snapshot(plans SummarySource, counts CountSource, publisher SnapshotPublisher, now func() time.Time) RunFunc {
	return func(ctx context.Context) (any, error) {
		at := now()
		summary, err := plans.Summary(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to summarise plans: %w", err)
		}
		window, err := counts.OrgCounts(ctx, at)
		if err != nil {
			return nil, fmt.Errorf("failed to count notification window: %w", err)
		}
		publisher.PublishSnapshot(summary, window, at)
		return map[string]any{
			"total":             summary.Total,
			"approved":          summary.Approved,
			"dueThisWeek":       window.DueThisWeek,
			"progressUpdates":   window.ProgressUpdates,
			"completedThisWeek": window.CompletedThisWeek,
			"windowStart":       window.WindowStart,
		}, nil
	}
}
