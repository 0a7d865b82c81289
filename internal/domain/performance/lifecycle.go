package performance

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
)

func isOwner(p Plan, principal auth.Principal) bool {
	return principal.EmployeeID != "" && principal.EmployeeID == p.EmployeeID
}

// CanView reports whether the principal participates in p.
func CanView(p Plan, principal auth.Principal) bool {
	if principal.IsPrivileged() || isOwner(p, principal) {
		return true
	}
	return hierarchy.IsAuthorizedActor(principal, p, hierarchy.RoleSupervisor) ||
		hierarchy.IsAuthorizedActor(principal, p, hierarchy.RoleReviewer)
}

// NewPlan builds a draft for employee. Supervisor and reviewer default to the
// employee's roster assignment.
func NewPlan(in CreateInput, employee hierarchy.Employee, principal auth.Principal, now time.Time) (Plan, error) {
	if in.EmployeeID == "" {
		in.EmployeeID = employee.ID
	}
	if in.EmployeeID != employee.ID {
		return Plan{}, validationError("employee mismatch")
	}
	if principal.EmployeeID != employee.ID && !principal.IsPrivileged() {
		return Plan{}, ErrUnauthorized
	}
	if !employee.Active {
		return Plan{}, validationError("employee %s is not active", employee.ID)
	}
	if in.Kind == "" {
		in.Kind = KindPlan
	}
	if !in.Kind.Valid() {
		return Plan{}, validationError("unknown kind %q", in.Kind)
	}
	period := strings.TrimSpace(in.Period)
	if period == "" {
		return Plan{}, validationError("period is required")
	}
	if err := validateContent(in.Responsibilities, in.CategoryRatings); err != nil {
		return Plan{}, err
	}

	supervisor, reviewer := employee.SupervisorID, employee.ReviewerID
	if principal.IsPrivileged() {
		if in.SupervisorID != "" {
			supervisor = in.SupervisorID
		}
		if in.ReviewerID != "" {
			reviewer = in.ReviewerID
		}
	}
	if supervisor == in.EmployeeID || reviewer == in.EmployeeID {
		return Plan{}, validationError("employee cannot supervise or review their own plan")
	}

	return Plan{
		ID:                 uuid.NewString(),
		Kind:               in.Kind,
		EmployeeID:         in.EmployeeID,
		SupervisorID:       supervisor,
		ReviewerID:         reviewer,
		Status:             StatusDraft,
		Period:             period,
		Responsibilities:   cloneResponsibilities(in.Responsibilities),
		CategoryRatings:    append([]CategoryRating(nil), in.CategoryRatings...),
		SupervisorComments: []Comment{},
		ReviewerComments:   []Comment{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func ApplyContent(p Plan, upd ContentUpdate, principal auth.Principal, now time.Time) (Plan, error) {
	if !isOwner(p, principal) && !principal.IsPrivileged() {
		return Plan{}, ErrUnauthorized
	}
	if !p.Status.Editable() {
		return Plan{}, &TransitionError{Status: p.Status, Action: ActionUpdate}
	}
	if err := validateContent(upd.Responsibilities, upd.CategoryRatings); err != nil {
		return Plan{}, err
	}

	out := p.Clone()
	if upd.Period != nil {
		period := strings.TrimSpace(*upd.Period)
		if period == "" {
			return Plan{}, validationError("period is required")
		}
		out.Period = period
	}
	if upd.Responsibilities != nil {
		out.Responsibilities = cloneResponsibilities(upd.Responsibilities)
	}
	if upd.CategoryRatings != nil {
		out.CategoryRatings = append([]CategoryRating{}, upd.CategoryRatings...)
	}
	out.UpdatedAt = now
	return out, nil
}

func Submit(p Plan, principal auth.Principal, now time.Time) (Plan, error) {
	if !isOwner(p, principal) && !principal.IsPrivileged() {
		return Plan{}, ErrUnauthorized
	}
	if !p.Status.Editable() {
		return Plan{}, &TransitionError{Status: p.Status, Action: ActionSubmit}
	}
	out := p.Clone()
	stamp := now
	out.Status = StatusSubmitted
	out.SubmittedAt = &stamp
	out.UpdatedAt = now
	return out, nil
}

// BeginReview moves a plan into one of the two review stages.
func BeginReview(p Plan, stage Status, principal auth.Principal, now time.Time) (Plan, error) {
	var role hierarchy.Role
	var from Status
	switch stage {
	case StatusSupervisorReview:
		role, from = hierarchy.RoleSupervisor, StatusSubmitted
	case StatusReviewerAssessment:
		role, from = hierarchy.RoleReviewer, StatusSupervisorApproved
	default:
		return Plan{}, validationError("unknown review stage %q", stage)
	}
	if !hierarchy.IsAuthorizedActor(principal, p, role) {
		return Plan{}, ErrUnauthorized
	}
	if p.Status != from {
		return Plan{}, &TransitionError{Status: p.Status, Action: ActionStartReview}
	}
	out := p.Clone()
	out.Status = stage
	out.UpdatedAt = now
	return out, nil
}

// RecordRating stores an explicit overall rating on an appraisal. A nil
// rating clears it so the category average applies again.
func RecordRating(p Plan, rating *float64, role string, principal auth.Principal, now time.Time) (Plan, error) {
	r := hierarchy.Role(strings.ToLower(strings.TrimSpace(role)))
	if !hierarchy.IsAuthorizedActor(principal, p, r) {
		return Plan{}, ErrUnauthorized
	}
	if !r.Valid() {
		return Plan{}, validationError("unknown role %q", role)
	}
	if p.Kind != KindAppraisal {
		return Plan{}, validationError("only appraisals carry an overall rating")
	}
	if rating != nil && (*rating < 0 || *rating > MaxRating) {
		return Plan{}, validationError("overall rating must be between 0 and %g", MaxRating)
	}
	switch p.Status {
	case StatusSupervisorReview, StatusSupervisorApproved, StatusReviewerAssessment:
	default:
		return Plan{}, &TransitionError{Status: p.Status, Action: ActionRate}
	}
	out := p.Clone()
	out.OverallRating = cloneFloat(rating)
	out.UpdatedAt = now
	return out, nil
}

// validateContent runs at write time. Weight sums that drift from 100 are
// accepted.
func validateContent(resp []Responsibility, ratings []CategoryRating) error {
	for i, r := range resp {
		if strings.TrimSpace(r.Description) == "" {
			return validationError("responsibility %d has no description", i)
		}
		if r.Weight < 0 {
			return validationError("responsibility %d has negative weight", i)
		}
	}
	for i, c := range ratings {
		if strings.TrimSpace(c.Name) == "" {
			return validationError("category %d has no name", i)
		}
		if c.Weight < 0 {
			return validationError("category %q has negative weight", c.Name)
		}
	}
	return nil
}
