package hierarchy

import "hrmperf/internal/domain/auth"

// Assignment is anything carrying a designated supervisor and reviewer.
type Assignment interface {
	SupervisorEmployeeID() string
	ReviewerEmployeeID() string
}

func IsAuthorizedActor(principal auth.Principal, target Assignment, role Role) bool {
	if principal.IsPrivileged() {
		return true
	}
	if principal.EmployeeID == "" || target == nil {
		return false
	}
	switch role {
	case RoleSupervisor:
		return target.SupervisorEmployeeID() == principal.EmployeeID
	case RoleReviewer:
		return target.ReviewerEmployeeID() == principal.EmployeeID
	}
	return false
}
