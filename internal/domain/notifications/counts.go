package notifications

import "hrmperf/internal/domain/performance"

// CountWindow applies the three weekly filters to plans. Each filter runs
// over the full set; a plan can land in more than one count.
func CountWindow(plans []performance.Plan, w Window) WindowCounts {
	counts := WindowCounts{WindowStart: w.Start, WindowEnd: w.End}
	for _, p := range plans {
		if p.Status == performance.StatusSubmitted && w.Contains(p.SubmittedAt) {
			counts.DueThisWeek++
		}
		if p.Status == performance.StatusDraft && w.Contains(&p.UpdatedAt) {
			counts.ProgressUpdates++
		}
		if p.Status == performance.StatusApproved && w.Contains(p.CompletedAt()) {
			counts.CompletedThisWeek++
		}
	}
	return counts
}

// CountAwaiting counts plans waiting on employeeID as designated supervisor
// or reviewer.
func CountAwaiting(plans []performance.Plan, employeeID string) int {
	if employeeID == "" {
		return 0
	}
	n := 0
	for _, p := range plans {
		switch p.Status {
		case performance.StatusSubmitted, performance.StatusSupervisorReview:
			if p.SupervisorID == employeeID {
				n++
			}
		case performance.StatusReviewerAssessment:
			if p.ReviewerID == employeeID {
				n++
			}
		}
	}
	return n
}

var awaitingStatuses = []performance.Status{
	performance.StatusSubmitted,
	performance.StatusSupervisorReview,
	performance.StatusReviewerAssessment,
}
