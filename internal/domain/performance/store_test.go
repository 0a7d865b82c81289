package performance

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storedPlanID  = "0b6f3a52-5d0e-4c8e-9a57-2f8d1c3e7a10"
	storedEmpID   = "5a1e9c44-7b2d-4f61-8e0a-93c2d4b6f812"
	missingPlanID = "c3d9b1e0-2a4f-4b8c-9d71-6e5f0a8b2c34"
)

var planRowColumns = []string{
	"id", "kind", "employee_id", "supervisor_id", "reviewer_id", "status", "period",
	"responsibilities", "category_ratings", "overall_rating", "supervisor_comments", "reviewer_comments",
	"submitted_at", "supervisor_approved_at", "reviewer_approved_at", "created_at", "updated_at", "version", "imported",
}

func planRow(status string, overall *float64, imported bool, supervisorThread string) []any {
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	submitted := created.Add(time.Hour)
	return []any{
		storedPlanID, "appraisal", "emp", "sup", "rev", status, "2026",
		[]byte(`[{"description":"Ship","weight":100}]`),
		[]byte(`[{"name":"delivery","rating":4,"weight":50},{"name":"teamwork","rating":2,"weight":50}]`),
		overall,
		[]byte(supervisorThread), []byte(`null`),
		&submitted, nil, nil, created, created, int64(5), imported,
	}
}

func storedPlan() Plan {
	p := samplePlan(StatusApproved)
	p.ID = storedPlanID
	return p
}

func TestGetPlan_LegacyRecord(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	zero := 0.0
	mock.ExpectQuery(regexp.QuoteMeta("FROM performance_plans WHERE id = $1")).
		WithArgs(storedPlanID).
		WillReturnRows(pgxmock.NewRows(planRowColumns).AddRow(planRow("pending", &zero, true, `[]`)...))

	p, err := NewStore(mock).GetPlan(context.Background(), storedPlanID)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, p.Status)
	assert.Nil(t, p.OverallRating)
	require.NotNil(t, OverallRating(p))
	assert.InDelta(t, 3.0, *OverallRating(p), 0.0001)
	assert.Equal(t, int64(5), p.Version)
	assert.NotNil(t, p.ReviewerComments)
	assert.NotNil(t, p.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlan_ExplicitZeroKept(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	zero := 0.0
	mock.ExpectQuery(regexp.QuoteMeta("FROM performance_plans WHERE id = $1")).
		WithArgs(storedPlanID).
		WillReturnRows(pgxmock.NewRows(planRowColumns).AddRow(planRow("approved", &zero, false, `[]`)...))

	p, err := NewStore(mock).GetPlan(context.Background(), storedPlanID)
	require.NoError(t, err)
	require.NotNil(t, p.OverallRating)
	assert.Equal(t, 0.0, *p.OverallRating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlan_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		thread string
	}{
		{name: "unknown status", status: "archived", thread: `[]`},
		{name: "thread entry without id", status: "draft", thread: `[{"action":"comment","timestamp":"2026-01-05T08:00:00Z"}]`},
		{name: "thread entry with unknown action", status: "draft", thread: `[{"id":"c1","action":"shout","timestamp":"2026-01-05T08:00:00Z"}]`},
		{name: "thread not a list", status: "draft", thread: `{"text":"hi"}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(regexp.QuoteMeta("FROM performance_plans WHERE id = $1")).
				WithArgs(storedPlanID).
				WillReturnRows(pgxmock.NewRows(planRowColumns).AddRow(planRow(tc.status, nil, false, tc.thread)...))

			_, err = NewStore(mock).GetPlan(context.Background(), storedPlanID)
			require.ErrorIs(t, err, ErrMalformedRecord)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM performance_plans WHERE id = $1")).
		WithArgs(missingPlanID).
		WillReturnRows(pgxmock.NewRows(planRowColumns))

	_, err = NewStore(mock).GetPlan(context.Background(), missingPlanID)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdatePlan_Success(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND version = $2")).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(4)))

	version, err := NewStore(mock).ConditionalUpdatePlan(context.Background(), storedPlan(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdatePlan_Conflict(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND version = $2")).
		WillReturnRows(pgxmock.NewRows([]string{"version"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(storedPlanID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = NewStore(mock).ConditionalUpdatePlan(context.Background(), storedPlan(), 3)
	require.ErrorIs(t, err, ErrWriteConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdatePlan_Missing(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND version = $2")).
		WillReturnRows(pgxmock.NewRows([]string{"version"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(storedPlanID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = NewStore(mock).ConditionalUpdatePlan(context.Background(), storedPlan(), 3)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConditionalUpdatePlan_QueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND version = $2")).WillReturnError(assert.AnError)

	_, err = NewStore(mock).ConditionalUpdatePlan(context.Background(), storedPlan(), 3)
	require.Error(t, err)
	assert.Equal(t, "failed to update plan: "+assert.AnError.Error(), err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery(t *testing.T) {
	since := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	query, args := buildListQuery(PlanFilter{
		Kind:          KindAppraisal,
		ParticipantID: "emp",
		Statuses:      []Status{StatusSubmitted},
		ActivitySince: &since,
		Limit:         10,
	})

	assert.Contains(t, query, "kind = $1")
	assert.Contains(t, query, "(employee_id = $2 OR supervisor_id = $2 OR reviewer_id = $2)")
	assert.Contains(t, query, "status = ANY($3)")
	assert.Contains(t, query, "updated_at >= $4")
	assert.Contains(t, query, "LIMIT $5")
	require.Len(t, args, 5)
	assert.Equal(t, []string{"pending", "submitted"}, args[2])
}

func TestListPlans(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM performance_plans WHERE employee_id = $1 ORDER BY updated_at DESC, id")).
		WithArgs(storedEmpID).
		WillReturnRows(pgxmock.NewRows(planRowColumns).
			AddRow(planRow("draft", nil, false, `[]`)...).
			AddRow(planRow("completed", nil, true, `[]`)...))

	plans, err := NewStore(mock).ListPlans(context.Background(), PlanFilter{EmployeeID: storedEmpID})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, StatusDraft, plans[0].Status)
	assert.Equal(t, StatusApproved, plans[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_NonUUIDIdentity(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := NewStore(mock)

	_, err = store.GetPlan(context.Background(), "abc")
	require.ErrorIs(t, err, ErrNotFound)

	p := storedPlan()
	p.ID = "abc"
	_, err = store.ConditionalUpdatePlan(context.Background(), p, 3)
	require.ErrorIs(t, err, ErrNotFound)

	tests := []struct {
		name   string
		filter PlanFilter
	}{
		{name: "employee", filter: PlanFilter{EmployeeID: "abc"}},
		{name: "participant", filter: PlanFilter{ParticipantID: "u-42", Statuses: []Status{StatusSubmitted}}},
	}
	for _, tc := range tests {
		plans, err := store.ListPlans(context.Background(), tc.filter)
		require.NoError(t, err, tc.name)
		assert.Empty(t, plans, tc.name)
	}

	// None of the above may reach the database.
	require.NoError(t, mock.ExpectationsWereMet())
}
