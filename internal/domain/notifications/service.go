package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/performance"
)

type Service struct {
	plans     PlanSource
	cache     Cache
	weekStart time.Weekday
	ttl       time.Duration
}

func New(plans PlanSource, weekStart time.Weekday) *Service {
	return &Service{plans: plans, weekStart: weekStart}
}

// WithCache serves counts from cache for up to ttl.
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	s.cache = cache
	s.ttl = ttl
	return s
}

// WindowCounts computes the caller's counts for the week containing now.
// A caller with no employee record gets zeros.
func (s *Service) WindowCounts(ctx context.Context, principal auth.Principal, now time.Time) (WindowCounts, error) {
	w := WeekWindow(now, s.weekStart)
	scope := ScopeEmployee
	if principal.IsPrivileged() {
		scope = ScopeAll
	}
	if scope == ScopeEmployee && principal.EmployeeID == "" {
		return WindowCounts{Scope: scope, WindowStart: w.Start, WindowEnd: w.End}, nil
	}

	key := fmt.Sprintf("notifications:counts:%s:%s:%d", scope, principal.EmployeeID, w.Start.Unix())
	if s.cache != nil {
		var cached WindowCounts
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("notification counts cache read failed", "err", err)
		}
		if hit {
			return cached, nil
		}
	}

	filter := performance.PlanFilter{ActivitySince: &w.Start}
	if scope == ScopeEmployee {
		filter.EmployeeID = principal.EmployeeID
	}
	recent, err := s.plans.ListPlans(ctx, filter)
	if err != nil {
		return WindowCounts{}, err
	}
	counts := CountWindow(recent, w)
	counts.Scope = scope

	if principal.EmployeeID != "" {
		pending, err := s.plans.ListPlans(ctx, performance.PlanFilter{ParticipantID: principal.EmployeeID, Statuses: awaitingStatuses})
		if err != nil {
			return WindowCounts{}, err
		}
		counts.AwaitingMyAction = CountAwaiting(pending, principal.EmployeeID)
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, counts, s.ttl); err != nil {
			slog.Warn("notification counts cache write failed", "err", err)
		}
	}
	return counts, nil
}

// OrgCounts computes uncached organisation-wide counts for the snapshot job.
func (s *Service) OrgCounts(ctx context.Context, now time.Time) (WindowCounts, error) {
	w := WeekWindow(now, s.weekStart)
	recent, err := s.plans.ListPlans(ctx, performance.PlanFilter{ActivitySince: &w.Start})
	if err != nil {
		return WindowCounts{}, err
	}
	counts := CountWindow(recent, w)
	counts.Scope = ScopeAll
	return counts, nil
}
