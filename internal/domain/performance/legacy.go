package performance

import (
	"sort"
	"strings"
)

// legacyStatuses maps every status spelling found in stored records onto the
// unified Status.
var legacyStatuses = map[string]Status{
	"draft":               StatusDraft,
	"new":                 StatusDraft,
	"submitted":           StatusSubmitted,
	"pending":             StatusSubmitted,
	"supervisor_review":   StatusSupervisorReview,
	"in_review":           StatusSupervisorReview,
	"revision_requested":  StatusRevisionRequested,
	"changes_requested":   StatusRevisionRequested,
	"returned":            StatusRevisionRequested,
	"supervisor_approved": StatusSupervisorApproved,
	"reviewer_assessment": StatusReviewerAssessment,
	"reviewer_review":     StatusReviewerAssessment,
	"approved":            StatusApproved,
	"reviewer_approved":   StatusApproved,
	"completed":           StatusApproved,
}

func ParseStatus(raw string) (Status, bool) {
	status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// storedSpellings lists every stored value that reads back as status.
func storedSpellings(status Status) []string {
	var out []string
	for raw, s := range legacyStatuses {
		if s == status {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}

// legacyRating treats a stored zero on an imported record as unset. Imported
// records could not tell an explicit zero from a missing rating.
func legacyRating(rating *float64, imported bool) *float64 {
	if imported && rating != nil && *rating == 0 {
		return nil
	}
	return rating
}
