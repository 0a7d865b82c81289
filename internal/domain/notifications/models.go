package notifications

import "time"

const (
	ScopeAll      = "all"
	ScopeEmployee = "employee"
)

type WindowCounts struct {
	DueThisWeek       int       `json:"dueThisWeek"`
	ProgressUpdates   int       `json:"progressUpdates"`
	CompletedThisWeek int       `json:"completedThisWeek"`
	AwaitingMyAction  int       `json:"awaitingMyAction"`
	Scope             string    `json:"scope"`
	WindowStart       time.Time `json:"windowStart"`
	WindowEnd         time.Time `json:"windowEnd"`
}
