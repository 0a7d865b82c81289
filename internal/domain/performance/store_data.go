package performance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type encodedPlan struct {
	responsibilities   []byte
	categoryRatings    []byte
	supervisorComments []byte
	reviewerComments   []byte
}

func encodePlan(p Plan) (encodedPlan, error) {
	var enc encodedPlan
	var err error
	if enc.responsibilities, err = marshalList(p.Responsibilities); err != nil {
		return enc, fmt.Errorf("failed to encode responsibilities: %w", err)
	}
	if enc.categoryRatings, err = marshalList(p.CategoryRatings); err != nil {
		return enc, fmt.Errorf("failed to encode category ratings: %w", err)
	}
	if enc.supervisorComments, err = marshalList(p.SupervisorComments); err != nil {
		return enc, fmt.Errorf("failed to encode supervisor comments: %w", err)
	}
	if enc.reviewerComments, err = marshalList(p.ReviewerComments); err != nil {
		return enc, fmt.Errorf("failed to encode reviewer comments: %w", err)
	}
	return enc, nil
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	var kind, status string
	var responsibilities, categoryRatings, supervisorComments, reviewerComments []byte
	var overall *float64
	var submittedAt, supervisorApprovedAt, reviewerApprovedAt *time.Time
	var imported bool

	err := row.Scan(&p.ID, &kind, &p.EmployeeID, &p.SupervisorID, &p.ReviewerID,
		&status, &p.Period, &responsibilities, &categoryRatings, &overall,
		&supervisorComments, &reviewerComments, &submittedAt, &supervisorApprovedAt, &reviewerApprovedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.Version, &imported)
	if err != nil {
		return Plan{}, err
	}

	var ok bool
	if p.Status, ok = ParseStatus(status); !ok {
		return Plan{}, malformed(p.ID, "unknown status %q", status)
	}
	p.Kind = Kind(kind)
	if !p.Kind.Valid() {
		return Plan{}, malformed(p.ID, "unknown kind %q", kind)
	}
	if err := unmarshalList(responsibilities, &p.Responsibilities); err != nil {
		return Plan{}, malformed(p.ID, "responsibilities: %v", err)
	}
	if err := unmarshalList(categoryRatings, &p.CategoryRatings); err != nil {
		return Plan{}, malformed(p.ID, "category ratings: %v", err)
	}
	if p.SupervisorComments, err = decodeThread(supervisorComments); err != nil {
		return Plan{}, malformed(p.ID, "supervisor comments: %v", err)
	}
	if p.ReviewerComments, err = decodeThread(reviewerComments); err != nil {
		return Plan{}, malformed(p.ID, "reviewer comments: %v", err)
	}
	p.OverallRating = legacyRating(overall, imported)
	p.SubmittedAt = submittedAt
	p.SupervisorApprovedAt = supervisorApprovedAt
	p.ReviewerApprovedAt = reviewerApprovedAt
	return p, nil
}

func unmarshalList[T any](raw []byte, dst *[]T) error {
	*dst = []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeThread rejects entries that could not have been written by Apply.
func decodeThread(raw []byte) ([]Comment, error) {
	var thread []Comment
	if err := unmarshalList(raw, &thread); err != nil {
		return nil, err
	}
	for i, c := range thread {
		if c.ID == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
		if !c.Action.IsWorkflow() {
			return nil, fmt.Errorf("entry %d has unknown action %q", i, c.Action)
		}
		if c.Timestamp.IsZero() {
			return nil, fmt.Errorf("entry %d has no timestamp", i)
		}
	}
	return thread, nil
}
