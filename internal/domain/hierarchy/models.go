package hierarchy

// Employee is one roster entry. SupervisorID and ReviewerID are independent
// weak references; an empty string means none.
type Employee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SupervisorID string `json:"supervisorId,omitempty"`
	ReviewerID   string `json:"reviewerId,omitempty"`
	IsSupervisor bool   `json:"isSupervisor"`
	IsReviewer   bool   `json:"isReviewer"`
	Position     string `json:"position,omitempty"`
	Department   string `json:"department,omitempty"`
	Active       bool   `json:"active"`
}

type Node struct {
	EmployeeID    string `json:"employeeId"`
	Name          string `json:"name"`
	Position      string `json:"position,omitempty"`
	DirectReports []Node `json:"directReports"`
}

type IntegrityIssue struct {
	EmployeeID string `json:"employeeId"`
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
}

// View is the read model served to clients populating supervisor/reviewer
// selection.
type View struct {
	Forest               []Node           `json:"forest"`
	CandidateSupervisors []Employee       `json:"candidateSupervisors"`
	Depth                int              `json:"depth"`
	Issues               []IntegrityIssue `json:"issues"`
}

// EmployeeView is one roster entry placed in the reporting forest. Both
// figures are zero for an inactive employee.
type EmployeeView struct {
	Employee
	ReportingDepth int `json:"reportingDepth"`
	SpanOfControl  int `json:"spanOfControl"`
}
