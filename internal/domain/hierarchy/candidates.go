package hierarchy

import "strings"

// CandidateSupervisors lists everyone selectable as a supervisor or reviewer.
// Having direct reports is not required.
func CandidateSupervisors(employees []Employee) []Employee {
	seen := make(map[string]struct{}, len(employees))
	out := []Employee{}
	for _, emp := range employees {
		if !emp.Active || emp.ID == "" {
			continue
		}
		if !emp.IsSupervisor && !emp.IsReviewer && !hasSupervisorTitle(emp.Position) {
			continue
		}
		if _, ok := seen[emp.ID]; ok {
			continue
		}
		seen[emp.ID] = struct{}{}
		out = append(out, emp)
	}
	return out
}

func hasSupervisorTitle(position string) bool {
	position = strings.ToLower(position)
	for _, keyword := range supervisorKeywords {
		if strings.Contains(position, keyword) {
			return true
		}
	}
	return false
}
