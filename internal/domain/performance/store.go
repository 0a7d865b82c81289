package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hrmperf/internal/platform/db"
)

type Store struct {
	DB db.Database
}

func NewStore(database db.Database) *Store {
	return &Store{DB: database}
}

const planColumns = `id::text, kind, employee_id::text, COALESCE(supervisor_id::text, ''), COALESCE(reviewer_id::text, ''),
       status, period, responsibilities, category_ratings, overall_rating,
       supervisor_comments, reviewer_comments, submitted_at, supervisor_approved_at, reviewer_approved_at,
       created_at, updated_at, version, imported`

func (s *Store) GetPlan(ctx context.Context, id string) (Plan, error) {
	if !validID(id) {
		return Plan{}, ErrNotFound
	}
	row := s.DB.QueryRow(ctx, `SELECT `+planColumns+` FROM performance_plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (s *Store) CreatePlan(ctx context.Context, p Plan) (Plan, error) {
	enc, err := encodePlan(p)
	if err != nil {
		return Plan{}, err
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO performance_plans (
      id, kind, employee_id, supervisor_id, reviewer_id, status, period,
      responsibilities, category_ratings, overall_rating, supervisor_comments, reviewer_comments,
      submitted_at, supervisor_approved_at, reviewer_approved_at, created_at, updated_at, version
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1)
    RETURNING version
  `, p.ID, string(p.Kind), p.EmployeeID, nullableID(p.SupervisorID), nullableID(p.ReviewerID), string(p.Status), p.Period,
		enc.responsibilities, enc.categoryRatings, p.OverallRating, enc.supervisorComments, enc.reviewerComments,
		p.SubmittedAt, p.SupervisorApprovedAt, p.ReviewerApprovedAt, p.CreatedAt, p.UpdatedAt).Scan(&p.Version)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to create plan: %w", err)
	}
	return p, nil
}

func (s *Store) ConditionalUpdatePlan(ctx context.Context, p Plan, expectedVersion int64) (int64, error) {
	if !validID(p.ID) {
		return 0, ErrNotFound
	}
	enc, err := encodePlan(p)
	if err != nil {
		return 0, err
	}
	var version int64
	err = s.DB.QueryRow(ctx, `
    UPDATE performance_plans
    SET supervisor_id = $3, reviewer_id = $4, status = $5, period = $6,
        responsibilities = $7, category_ratings = $8, overall_rating = $9,
        supervisor_comments = $10, reviewer_comments = $11,
        submitted_at = $12, supervisor_approved_at = $13, reviewer_approved_at = $14,
        updated_at = $15, imported = false, version = version + 1
    WHERE id = $1 AND version = $2
    RETURNING version
  `, p.ID, expectedVersion, nullableID(p.SupervisorID), nullableID(p.ReviewerID), string(p.Status), p.Period,
		enc.responsibilities, enc.categoryRatings, p.OverallRating, enc.supervisorComments, enc.reviewerComments,
		p.SubmittedAt, p.SupervisorApprovedAt, p.ReviewerApprovedAt, p.UpdatedAt).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to update plan: %w", err)
	}

	var exists bool
	if err := s.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM performance_plans WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check plan: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}
	return 0, ErrWriteConflict
}

// ListPlans returns no plans when an identity filter cannot name a stored row.
func (s *Store) ListPlans(ctx context.Context, filter PlanFilter) ([]Plan, error) {
	if (filter.EmployeeID != "" && !validID(filter.EmployeeID)) || (filter.ParticipantID != "" && !validID(filter.ParticipantID)) {
		return []Plan{}, nil
	}
	query, args := buildListQuery(filter)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	out := []Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return out, nil
}

func buildListQuery(filter PlanFilter) (string, []any) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Kind != "" {
		where = append(where, "kind = "+arg(string(filter.Kind)))
	}
	if filter.EmployeeID != "" {
		where = append(where, "employee_id = "+arg(filter.EmployeeID))
	}
	if filter.ParticipantID != "" {
		p := arg(filter.ParticipantID)
		where = append(where, fmt.Sprintf("(employee_id = %s OR supervisor_id = %s OR reviewer_id = %s)", p, p, p))
	}
	if len(filter.Statuses) > 0 {
		var raw []string
		for _, status := range filter.Statuses {
			raw = append(raw, storedSpellings(status)...)
		}
		where = append(where, "status = ANY("+arg(raw)+")")
	}
	if filter.ActivitySince != nil {
		since := arg(*filter.ActivitySince)
		where = append(where, fmt.Sprintf("(updated_at >= %s OR submitted_at >= %s OR supervisor_approved_at >= %s OR reviewer_approved_at >= %s)", since, since, since, since))
	}

	query := `SELECT ` + planColumns + ` FROM performance_plans`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}
	return query, args
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// Identity columns are UUIDs; anything else cannot match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
