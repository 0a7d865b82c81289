package hierarchy

type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleReviewer   Role = "reviewer"
)

func (r Role) Valid() bool {
	return r == RoleSupervisor || r == RoleReviewer
}

const (
	IssueMissingSupervisor  = "missing_supervisor"
	IssueInactiveSupervisor = "inactive_supervisor"
	IssueSelfReference      = "self_reference"
	IssueSupervisorCycle    = "supervisor_cycle"
	IssueDuplicateID        = "duplicate_id"
)

var supervisorKeywords = []string{"manager", "supervisor", "director", "head"}
