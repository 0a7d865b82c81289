package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hrmperf/internal/platform/db"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Store struct {
	DB db.Database
}

func NewStore(database db.Database) *Store {
	return &Store{DB: database}
}

const employeeColumns = `id::text, full_name, COALESCE(supervisor_id::text, ''), COALESCE(reviewer_id::text, ''),
       is_supervisor, is_reviewer, COALESCE(position, ''), COALESCE(department, ''), active`

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY full_name, id`

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.SupervisorID, &emp.ReviewerID,
			&emp.IsSupervisor, &emp.IsReviewer, &emp.Position, &emp.Department, &emp.Active); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Employee{}, ErrEmployeeNotFound
	}
	var emp Employee
	err := s.DB.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id).
		Scan(&emp.ID, &emp.Name, &emp.SupervisorID, &emp.ReviewerID,
			&emp.IsSupervisor, &emp.IsReviewer, &emp.Position, &emp.Department, &emp.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}
