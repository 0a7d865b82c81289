package performance

import "time"

type Responsibility struct {
	Description       string   `json:"description"`
	Weight            float64  `json:"weight"`
	SuccessIndicators []string `json:"successIndicators,omitempty"`
}

type CategoryRating struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
	Weight float64 `json:"weight"`
}

type Comment struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	ActorName string    `json:"actorName"`
	Text      string    `json:"text"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Plan is shared by performance plans and appraisals.
type Plan struct {
	ID                   string           `json:"id"`
	Kind                 Kind             `json:"kind"`
	EmployeeID           string           `json:"employeeId"`
	SupervisorID         string           `json:"supervisorId,omitempty"`
	ReviewerID           string           `json:"reviewerId,omitempty"`
	Status               Status           `json:"status"`
	Period               string           `json:"period"`
	Responsibilities     []Responsibility `json:"responsibilities"`
	CategoryRatings      []CategoryRating `json:"categoryRatings"`
	OverallRating        *float64         `json:"overallRating"`
	SupervisorComments   []Comment        `json:"supervisorComments"`
	ReviewerComments     []Comment        `json:"reviewerComments"`
	SubmittedAt          *time.Time       `json:"submittedAt,omitempty"`
	SupervisorApprovedAt *time.Time       `json:"supervisorApprovedAt,omitempty"`
	ReviewerApprovedAt   *time.Time       `json:"reviewerApprovedAt,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
	Version              int64            `json:"version"`

	// EffectiveRating is filled on read and never persisted.
	EffectiveRating *float64 `json:"effectiveRating"`
}

func (p Plan) SupervisorEmployeeID() string { return p.SupervisorID }
func (p Plan) ReviewerEmployeeID() string   { return p.ReviewerID }

// Clone returns a copy that shares no slices or pointers with p.
func (p Plan) Clone() Plan {
	out := p
	out.Responsibilities = cloneResponsibilities(p.Responsibilities)
	if p.CategoryRatings != nil {
		out.CategoryRatings = append([]CategoryRating(nil), p.CategoryRatings...)
	}
	if p.SupervisorComments != nil {
		out.SupervisorComments = append([]Comment(nil), p.SupervisorComments...)
	}
	if p.ReviewerComments != nil {
		out.ReviewerComments = append([]Comment(nil), p.ReviewerComments...)
	}
	out.OverallRating = cloneFloat(p.OverallRating)
	out.EffectiveRating = cloneFloat(p.EffectiveRating)
	out.SubmittedAt = cloneTime(p.SubmittedAt)
	out.SupervisorApprovedAt = cloneTime(p.SupervisorApprovedAt)
	out.ReviewerApprovedAt = cloneTime(p.ReviewerApprovedAt)
	return out
}

// CompletedAt is the approval timestamp that closes the workflow.
func (p Plan) CompletedAt() *time.Time {
	if p.ReviewerApprovedAt != nil {
		return p.ReviewerApprovedAt
	}
	return p.SupervisorApprovedAt
}

type ActionRequest struct {
	Action  Action `json:"action"`
	Role    string `json:"role"`
	Comment string `json:"comment"`
}

type CreateInput struct {
	Kind             Kind             `json:"kind"`
	EmployeeID       string           `json:"employeeId"`
	SupervisorID     string           `json:"supervisorId"`
	ReviewerID       string           `json:"reviewerId"`
	Period           string           `json:"period"`
	Responsibilities []Responsibility `json:"responsibilities"`
	CategoryRatings  []CategoryRating `json:"categoryRatings"`
}

type ContentUpdate struct {
	Period           *string          `json:"period"`
	Responsibilities []Responsibility `json:"responsibilities"`
	CategoryRatings  []CategoryRating `json:"categoryRatings"`
}

type PlanFilter struct {
	Kind       Kind
	EmployeeID string
	// ParticipantID matches the employee, supervisor or reviewer.
	ParticipantID string
	Statuses      []Status
	// ActivitySince keeps plans with any timestamp at or after it.
	ActivitySince *time.Time
	Limit         int
	Offset        int
}

type WorkflowHistory struct {
	PlanID               string     `json:"planId"`
	Status               Status     `json:"status"`
	SupervisorComments   []Comment  `json:"supervisorComments"`
	ReviewerComments     []Comment  `json:"reviewerComments"`
	SubmittedAt          *time.Time `json:"submittedAt,omitempty"`
	SupervisorApprovedAt *time.Time `json:"supervisorApprovedAt,omitempty"`
	ReviewerApprovedAt   *time.Time `json:"reviewerApprovedAt,omitempty"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func HistoryOf(p Plan) WorkflowHistory {
	h := WorkflowHistory{
		PlanID:               p.ID,
		Status:               p.Status,
		SupervisorComments:   p.SupervisorComments,
		ReviewerComments:     p.ReviewerComments,
		SubmittedAt:          p.SubmittedAt,
		SupervisorApprovedAt: p.SupervisorApprovedAt,
		ReviewerApprovedAt:   p.ReviewerApprovedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if h.SupervisorComments == nil {
		h.SupervisorComments = []Comment{}
	}
	if h.ReviewerComments == nil {
		h.ReviewerComments = []Comment{}
	}
	return h
}

type Summary struct {
	Total              int            `json:"total"`
	Approved           int            `json:"approved"`
	CompletionRate     float64        `json:"completionRate"`
	ByStatus           map[Status]int `json:"byStatus"`
	RatingDistribution map[string]int `json:"ratingDistribution"`
}

func cloneResponsibilities(in []Responsibility) []Responsibility {
	if in == nil {
		return nil
	}
	out := make([]Responsibility, len(in))
	for i, r := range in {
		out[i] = r
		if r.SuccessIndicators != nil {
			out[i].SuccessIndicators = append([]string(nil), r.SuccessIndicators...)
		}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
