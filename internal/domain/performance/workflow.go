package performance

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hrmperf/internal/domain/auth"
	"hrmperf/internal/domain/hierarchy"
)

type transitionKey struct {
	from   Status
	action Action
}

type transitionRule struct {
	roles []hierarchy.Role
	to    Status
}

var bothRoles = []hierarchy.Role{hierarchy.RoleSupervisor, hierarchy.RoleReviewer}

// transitions lists every status-changing edge. comment is handled apart
// because it is legal from any status.
var transitions = map[transitionKey]transitionRule{
	{StatusSubmitted, ActionRequestChanges}:          {roles: bothRoles, to: StatusRevisionRequested},
	{StatusSupervisorReview, ActionRequestChanges}:   {roles: bothRoles, to: StatusRevisionRequested},
	{StatusReviewerAssessment, ActionRequestChanges}: {roles: []hierarchy.Role{hierarchy.RoleReviewer}, to: StatusRevisionRequested},
	{StatusSupervisorReview, ActionApprove}:          {roles: []hierarchy.Role{hierarchy.RoleSupervisor}, to: StatusSupervisorApproved},
	{StatusReviewerAssessment, ActionFinalApprove}:   {roles: []hierarchy.Role{hierarchy.RoleReviewer}, to: StatusApproved},
}

// Apply performs one review action on p and returns the updated record. p is
// never modified; on error the caller still holds the untouched original.
func Apply(p Plan, req ActionRequest, principal auth.Principal, now time.Time) (Plan, error) {
	role := hierarchy.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !hierarchy.IsAuthorizedActor(principal, p, role) {
		return Plan{}, ErrUnauthorized
	}
	if !role.Valid() {
		return Plan{}, validationError("unknown role %q", req.Role)
	}
	if !req.Action.IsWorkflow() {
		return Plan{}, validationError("unknown action %q", req.Action)
	}
	text := strings.TrimSpace(req.Comment)
	if req.Action == ActionComment && text == "" {
		return Plan{}, validationError("comment text is required")
	}

	next, err := nextStatus(p, req.Action, role)
	if err != nil {
		return Plan{}, err
	}

	out := p.Clone()
	entry := Comment{
		ID:        uuid.NewString(),
		ActorID:   principal.EmployeeID,
		ActorName: principal.DisplayName(),
		Text:      text,
		Action:    req.Action,
		Timestamp: now,
	}
	if entry.ActorID == "" {
		entry.ActorID = principal.UserID
	}
	if role == hierarchy.RoleSupervisor {
		out.SupervisorComments = append(out.SupervisorComments, entry)
	} else {
		out.ReviewerComments = append(out.ReviewerComments, entry)
	}

	stamp := now
	switch req.Action {
	case ActionApprove:
		out.SupervisorApprovedAt = &stamp
	case ActionFinalApprove:
		out.ReviewerApprovedAt = &stamp
	}
	out.Status = next
	out.UpdatedAt = now
	return out, nil
}

func nextStatus(p Plan, action Action, role hierarchy.Role) (Status, error) {
	if action == ActionComment {
		return p.Status, nil
	}
	rule, ok := transitions[transitionKey{p.Status, action}]
	if !ok || !roleAllowed(rule.roles, role) {
		return "", &TransitionError{Status: p.Status, Action: action}
	}
	// Without a reviewer there is no second stage to wait for.
	if action == ActionApprove && p.ReviewerID == "" {
		return StatusApproved, nil
	}
	return rule.to, nil
}

func roleAllowed(roles []hierarchy.Role, role hierarchy.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AvailableActions lists the review actions the principal could take on p in
// the given role.
func AvailableActions(p Plan, principal auth.Principal, role hierarchy.Role) []Action {
	if !role.Valid() || !hierarchy.IsAuthorizedActor(principal, p, role) {
		return []Action{}
	}
	out := []Action{ActionComment}
	for _, action := range WorkflowActions[1:] {
		if _, err := nextStatus(p, action, role); err == nil {
			out = append(out, action)
		}
	}
	return out
}
