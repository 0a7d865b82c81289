package performance

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"hrmperf/internal/domain/auth"
)

var (
	testNow    = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	supervisor = auth.Principal{UserID: "u-sup", EmployeeID: "sup", Name: "Sam Supervisor", RoleName: auth.RoleManager}
	reviewer   = auth.Principal{UserID: "u-rev", EmployeeID: "rev", Name: "Rita Reviewer", RoleName: auth.RoleManager}
	owner      = auth.Principal{UserID: "u-emp", EmployeeID: "emp", Name: "Eve Employee", RoleName: auth.RoleEmployee}
	hrAdmin    = auth.Principal{UserID: "u-hr", EmployeeID: "hr", Name: "Hana HR", RoleName: auth.RoleHR, Privileged: true}
	stranger   = auth.Principal{UserID: "u-x", EmployeeID: "x", Name: "Xavier", RoleName: auth.RoleManager}
)

func samplePlan(status Status) Plan {
	created := testNow.Add(-48 * time.Hour)
	return Plan{
		ID:                 "plan-1",
		Kind:               KindAppraisal,
		EmployeeID:         "emp",
		SupervisorID:       "sup",
		ReviewerID:         "rev",
		Status:             status,
		Period:             "2026",
		CategoryRatings:    []CategoryRating{{Name: "delivery", Rating: 4, Weight: 50}},
		SupervisorComments: []Comment{},
		ReviewerComments:   []Comment{},
		CreatedAt:          created,
		UpdatedAt:          created,
		Version:            3,
	}
}

type edge struct {
	from   Status
	action Action
	role   string
	to     Status
}

// Written out independently of the transitions map.
var legalEdges = []edge{
	{StatusSubmitted, ActionRequestChanges, "supervisor", StatusRevisionRequested},
	{StatusSubmitted, ActionRequestChanges, "reviewer", StatusRevisionRequested},
	{StatusSupervisorReview, ActionRequestChanges, "supervisor", StatusRevisionRequested},
	{StatusSupervisorReview, ActionRequestChanges, "reviewer", StatusRevisionRequested},
	{StatusReviewerAssessment, ActionRequestChanges, "reviewer", StatusRevisionRequested},
	{StatusSupervisorReview, ActionApprove, "supervisor", StatusSupervisorApproved},
	{StatusReviewerAssessment, ActionFinalApprove, "reviewer", StatusApproved},
}

func TestApplyTransitionClosure(t *testing.T) {
	for _, from := range AllStatuses {
		for _, action := range WorkflowActions {
			for _, role := range []string{"supervisor", "reviewer"} {
				p := samplePlan(from)
				out, err := Apply(p, ActionRequest{Action: action, Role: role, Comment: "note"}, hrAdmin, testNow)

				var want *edge
				for i := range legalEdges {
					e := legalEdges[i]
					if e.from == from && e.action == action && e.role == role {
						want = &e
					}
				}

				switch {
				case action == ActionComment:
					if err != nil || out.Status != from {
						t.Fatalf("comment from %s as %s: status %s err %v", from, role, out.Status, err)
					}
				case want != nil:
					if err != nil || out.Status != want.to {
						t.Fatalf("%s from %s as %s: expected %s, got %s (err %v)", action, from, role, want.to, out.Status, err)
					}
				default:
					var te *TransitionError
					if !errors.As(err, &te) || te.Status != from || te.Action != action {
						t.Fatalf("%s from %s as %s: expected transition error, got %v", action, from, role, err)
					}
				}
			}
		}
	}
}

func TestApplyUnauthorizedLeavesPlanUnchanged(t *testing.T) {
	cases := []struct {
		principal auth.Principal
		role      string
	}{
		{stranger, "supervisor"},
		{reviewer, "supervisor"},
		{supervisor, "reviewer"},
		{owner, "supervisor"},
		{auth.Principal{UserID: "anon"}, "reviewer"},
	}
	for _, status := range AllStatuses {
		for _, tc := range cases {
			for _, action := range WorkflowActions {
				p := samplePlan(status)
				p.SupervisorComments = []Comment{{ID: "c0", Action: ActionComment, Text: "earlier", Timestamp: testNow}}
				before := p.Clone()

				_, err := Apply(p, ActionRequest{Action: action, Role: tc.role, Comment: "x"}, tc.principal, testNow)
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("%s by %s as %s: expected unauthorized, got %v", action, tc.principal.EmployeeID, tc.role, err)
				}
				if !reflect.DeepEqual(before, p) {
					t.Fatalf("plan changed after rejected %s", action)
				}
			}
		}
	}
}

func TestApplyAppendsToRoleThread(t *testing.T) {
	p := samplePlan(StatusSupervisorReview)

	out, err := Apply(p, ActionRequest{Action: ActionComment, Role: "supervisor", Comment: "  looks good  "}, supervisor, testNow)
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if len(out.SupervisorComments) != 1 || len(out.ReviewerComments) != 0 {
		t.Fatalf("expected one supervisor comment, got %+v / %+v", out.SupervisorComments, out.ReviewerComments)
	}
	c := out.SupervisorComments[0]
	if c.ID == "" || c.ActorID != "sup" || c.ActorName != "Sam Supervisor" || c.Text != "looks good" || c.Action != ActionComment || !c.Timestamp.Equal(testNow) {
		t.Fatalf("unexpected comment %+v", c)
	}
	if !out.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updatedAt refreshed, got %v", out.UpdatedAt)
	}
	if len(p.SupervisorComments) != 0 {
		t.Fatal("input thread was modified")
	}

	out, err = Apply(out, ActionRequest{Action: ActionComment, Role: "reviewer", Comment: "noted"}, reviewer, testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("reviewer comment: %v", err)
	}
	if len(out.ReviewerComments) != 1 || len(out.SupervisorComments) != 1 {
		t.Fatalf("expected one comment per thread, got %+v / %+v", out.SupervisorComments, out.ReviewerComments)
	}
}

func TestApplyApproveStampsSupervisorApproval(t *testing.T) {
	out, err := Apply(samplePlan(StatusSupervisorReview), ActionRequest{Action: ActionApprove, Role: "supervisor"}, supervisor, testNow)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if out.Status != StatusSupervisorApproved {
		t.Fatalf("expected supervisor_approved, got %s", out.Status)
	}
	if out.SupervisorApprovedAt == nil || !out.SupervisorApprovedAt.Equal(testNow) {
		t.Fatalf("expected supervisorApprovedAt stamped, got %v", out.SupervisorApprovedAt)
	}
	if out.ReviewerApprovedAt != nil {
		t.Fatal("reviewerApprovedAt must stay empty")
	}
	if len(out.SupervisorComments) != 1 || out.SupervisorComments[0].Action != ActionApprove {
		t.Fatalf("expected approval entry in supervisor thread, got %+v", out.SupervisorComments)
	}
}

func TestApplyApproveWithoutReviewerCompletes(t *testing.T) {
	p := samplePlan(StatusSupervisorReview)
	p.ReviewerID = ""

	out, err := Apply(p, ActionRequest{Action: ActionApprove, Role: "supervisor"}, supervisor, testNow)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if out.Status != StatusApproved || out.CompletedAt() == nil {
		t.Fatalf("expected approved with completion stamp, got %s %v", out.Status, out.CompletedAt())
	}
}

func TestApplyTransitionErrorCarriesState(t *testing.T) {
	_, err := Apply(samplePlan(StatusDraft), ActionRequest{Action: ActionApprove, Role: "supervisor"}, supervisor, testNow)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) || te.Status != StatusDraft || te.Action != ActionApprove {
		t.Fatalf("unexpected error detail %+v", te)
	}
}

func TestApplyValidation(t *testing.T) {
	tests := []struct {
		name      string
		principal auth.Principal
		req       ActionRequest
	}{
		{name: "unknown role for privileged caller", principal: hrAdmin, req: ActionRequest{Action: ActionComment, Role: "owner", Comment: "x"}},
		{name: "unknown action", principal: supervisor, req: ActionRequest{Action: ActionSubmit, Role: "supervisor"}},
		{name: "blank comment", principal: supervisor, req: ActionRequest{Action: ActionComment, Role: "supervisor", Comment: "   "}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(samplePlan(StatusSupervisorReview), tc.req, tc.principal, testNow)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAvailableActions(t *testing.T) {
	got := AvailableActions(samplePlan(StatusSupervisorReview), supervisor, "supervisor")
	want := []Action{ActionComment, ActionRequestChanges, ActionApprove}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := AvailableActions(samplePlan(StatusSupervisorReview), stranger, "supervisor"); len(got) != 0 {
		t.Fatalf("expected no actions for stranger, got %v", got)
	}
}
