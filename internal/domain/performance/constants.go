package performance

type Status string

// Overall ratings lie on a closed 0..MaxRating scale.
const MaxRating = 5.0

const (
	StatusDraft              Status = "draft"
	StatusSubmitted          Status = "submitted"
	StatusSupervisorReview   Status = "supervisor_review"
	StatusRevisionRequested  Status = "revision_requested"
	StatusSupervisorApproved Status = "supervisor_approved"
	StatusReviewerAssessment Status = "reviewer_assessment"
	StatusApproved           Status = "approved"
)

var AllStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusSupervisorReview,
	StatusRevisionRequested,
	StatusSupervisorApproved,
	StatusReviewerAssessment,
	StatusApproved,
}

func (s Status) Valid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Editable reports whether the employee holds the plan.
func (s Status) Editable() bool {
	return s == StatusDraft || s == StatusRevisionRequested
}

type Kind string

const (
	KindPlan      Kind = "plan"
	KindAppraisal Kind = "appraisal"
)

func (k Kind) Valid() bool {
	return k == KindPlan || k == KindAppraisal
}

type Action string

const (
	ActionComment        Action = "comment"
	ActionRequestChanges Action = "request_changes"
	ActionApprove        Action = "approve"
	ActionFinalApprove   Action = "final_approve"

	// Lifecycle moves outside the review actions. They appear in transition
	// errors and audit entries but never in a comment thread.
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionSubmit      Action = "submit"
	ActionStartReview Action = "start_review"
	ActionRate        Action = "rate"
)

// WorkflowActions are the actions accepted by Apply.
var WorkflowActions = []Action{ActionComment, ActionRequestChanges, ActionApprove, ActionFinalApprove}

func (a Action) IsWorkflow() bool {
	for _, action := range WorkflowActions {
		if a == action {
			return true
		}
	}
	return false
}
