package hierarchy

import (
	"context"
	"log/slog"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// View builds the forest from the full roster so inactive supervisors can be
// told apart from dangling references.
func (s *Service) View(ctx context.Context) (View, error) {
	employees, err := s.store.ListEmployees(ctx, false)
	if err != nil {
		return View{}, err
	}
	forest, issues := BuildForestWithIssues(employees)
	for _, issue := range issues {
		slog.Warn("hierarchy integrity issue", "employee_id", issue.EmployeeID, "kind", issue.Kind, "detail", issue.Detail)
	}
	if issues == nil {
		issues = []IntegrityIssue{}
	}
	return View{
		Forest:               forest,
		CandidateSupervisors: CandidateSupervisors(employees),
		Depth:                HierarchyDepth(forest),
		Issues:               issues,
	}, nil
}

func (s *Service) Employee(ctx context.Context, id string) (Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) EmployeeView(ctx context.Context, id string) (EmployeeView, error) {
	employee, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return EmployeeView{}, err
	}
	employees, err := s.store.ListEmployees(ctx, false)
	if err != nil {
		return EmployeeView{}, err
	}
	view := EmployeeView{Employee: employee}
	if depth, ok := ReportingDepth(employees, id); ok {
		view.ReportingDepth = depth
	}
	if node, ok := FindNode(BuildForest(employees), id); ok {
		view.SpanOfControl = SpanOfControl(node)
	}
	return view, nil
}
