package performance

import "context"

type StoreAPI interface {
	GetPlan(ctx context.Context, id string) (Plan, error)
	CreatePlan(ctx context.Context, p Plan) (Plan, error)
	// ConditionalUpdatePlan writes p only while the stored version still
	// equals expectedVersion and returns the new version.
	ConditionalUpdatePlan(ctx context.Context, p Plan, expectedVersion int64) (int64, error)
	ListPlans(ctx context.Context, filter PlanFilter) ([]Plan, error)
}
