package notifications

import (
	"context"
	"time"

	"hrmperf/internal/domain/performance"
)

type PlanSource interface {
	ListPlans(ctx context.Context, filter performance.PlanFilter) ([]performance.Plan, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
