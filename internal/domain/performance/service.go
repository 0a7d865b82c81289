package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
)

// EmployeeDirectory resolves roster entries for new plans.
type EmployeeDirectory interface {
	Employee(ctx context.Context, id string) (hierarchy.Employee, error)
}

// Observer is told about every committed status change and every lost race.
type Observer interface {
	ObserveTransition(kind Kind, from, to Status, action Action)
	ObserveConflict()
}

type Service struct {
	store     StoreAPI
	directory EmployeeDirectory
	observer  Observer
	now       func() time.Time
}

func NewService(store StoreAPI, directory EmployeeDirectory) *Service {
	return &Service{store: store, directory: directory, now: time.Now}
}

func (s *Service) WithObserver(observer Observer) *Service {
	s.observer = observer
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Get(ctx context.Context, principal auth.Principal, id string) (Plan, error) {
	p, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if !CanView(p, principal) {
		return Plan{}, ErrUnauthorized
	}
	p.EffectiveRating = OverallRating(p)
	return p, nil
}

// List scopes non-privileged callers to plans they take part in.
func (s *Service) List(ctx context.Context, principal auth.Principal, filter PlanFilter) ([]Plan, error) {
	if !principal.IsPrivileged() {
		if principal.EmployeeID == "" {
			return []Plan{}, nil
		}
		filter.ParticipantID = principal.EmployeeID
	}
	plans, err := s.store.ListPlans(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].EffectiveRating = OverallRating(plans[i])
	}
	return plans, nil
}

func (s *Service) Create(ctx context.Context, principal auth.Principal, in CreateInput) (Plan, error) {
	employeeID := in.EmployeeID
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if employeeID == "" {
		return Plan{}, validationError("employeeId is required")
	}
	employee, err := s.directory.Employee(ctx, employeeID)
	if errors.Is(err, hierarchy.ErrEmployeeNotFound) {
		return Plan{}, fmt.Errorf("%w: employee %s", ErrNotFound, employeeID)
	}
	if err != nil {
		return Plan{}, err
	}
	p, err := NewPlan(in, employee, principal, s.now().UTC())
	if err != nil {
		return Plan{}, err
	}
	created, err := s.store.CreatePlan(ctx, p)
	if err != nil {
		return Plan{}, err
	}
	s.observe(p.Kind, "", created.Status, ActionCreate)
	return created, nil
}

func (s *Service) UpdateContent(ctx context.Context, principal auth.Principal, id string, upd ContentUpdate) (Plan, error) {
	return s.mutate(ctx, id, ActionUpdate, func(p Plan, now time.Time) (Plan, error) {
		return ApplyContent(p, upd, principal, now)
	})
}

func (s *Service) Submit(ctx context.Context, principal auth.Principal, id string) (Plan, error) {
	return s.mutate(ctx, id, ActionSubmit, func(p Plan, now time.Time) (Plan, error) {
		return Submit(p, principal, now)
	})
}

func (s *Service) BeginReview(ctx context.Context, principal auth.Principal, id string, stage Status) (Plan, error) {
	return s.mutate(ctx, id, ActionStartReview, func(p Plan, now time.Time) (Plan, error) {
		return BeginReview(p, stage, principal, now)
	})
}

func (s *Service) RecordRating(ctx context.Context, principal auth.Principal, id, role string, rating *float64) (Plan, error) {
	return s.mutate(ctx, id, ActionRate, func(p Plan, now time.Time) (Plan, error) {
		return RecordRating(p, rating, role, principal, now)
	})
}

// ApplyAction runs one review action through a single read and a single
// version-guarded write.
func (s *Service) ApplyAction(ctx context.Context, principal auth.Principal, id string, req ActionRequest) (Plan, error) {
	return s.mutate(ctx, id, req.Action, func(p Plan, now time.Time) (Plan, error) {
		return Apply(p, req, principal, now)
	})
}

func (s *Service) Workflow(ctx context.Context, principal auth.Principal, id string) (WorkflowHistory, error) {
	p, err := s.Get(ctx, principal, id)
	if err != nil {
		return WorkflowHistory{}, err
	}
	return HistoryOf(p), nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	plans, err := s.store.ListPlans(ctx, PlanFilter{})
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(plans), nil
}

func (s *Service) mutate(ctx context.Context, id string, action Action, fn func(Plan, time.Time) (Plan, error)) (Plan, error) {
	current, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	next, err := fn(current, s.now().UTC())
	if err != nil {
		return Plan{}, err
	}
	version, err := s.store.ConditionalUpdatePlan(ctx, next, current.Version)
	if err != nil {
		if errors.Is(err, ErrWriteConflict) && s.observer != nil {
			s.observer.ObserveConflict()
		}
		return Plan{}, err
	}
	next.Version = version
	next.EffectiveRating = OverallRating(next)
	if next.Status != current.Status {
		s.observe(next.Kind, current.Status, next.Status, action)
	}
	return next, nil
}

func (s *Service) observe(kind Kind, from, to Status, action Action) {
	if s.observer != nil {
		s.observer.ObserveTransition(kind, from, to, action)
	}
}
