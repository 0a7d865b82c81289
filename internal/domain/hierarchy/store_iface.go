package hierarchy

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
}
