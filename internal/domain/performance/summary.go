package performance

import "fmt"

func buildSummary(plans []Plan) Summary {
	summary := Summary{
		Total:              len(plans),
		ByStatus:           map[Status]int{},
		RatingDistribution: map[string]int{},
	}
	for _, status := range AllStatuses {
		summary.ByStatus[status] = 0
	}
	for _, p := range plans {
		summary.ByStatus[p.Status]++
		if p.Status == StatusApproved {
			summary.Approved++
		}
		if p.Kind != KindAppraisal {
			continue
		}
		if rating := OverallRating(p); rating != nil {
			key := fmt.Sprintf("%d", int(*rating+0.5))
			summary.RatingDistribution[key]++
		}
	}
	if summary.Total > 0 {
		summary.CompletionRate = float64(summary.Approved) / float64(summary.Total)
	}
	return summary
}
