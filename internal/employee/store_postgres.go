package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "rostra/pkg/domain"
)

// PostgresStore persists employee records in the employees table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, employeeID id.EmployeeID) (*Employee, error) {
	query := `
		SELECT id, tenant_id, first_name, last_name, email, role, status, created_at
		FROM employees
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, uuid.UUID(employeeID))
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*Employee, error) {
	query := `
		SELECT id, tenant_id, first_name, last_name, email, role, status, created_at
		FROM employees
		WHERE tenant_id = $1
		ORDER BY last_name, first_name
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

func (s *PostgresStore) Put(ctx context.Context, e *Employee) error {
	query := `
		INSERT INTO employees (id, tenant_id, first_name, last_name, email, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET first_name = EXCLUDED.first_name,
		              last_name = EXCLUDED.last_name,
		              email = EXCLUDED.email,
		              role = EXCLUDED.role,
		              status = EXCLUDED.status
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(e.ID),
		uuid.UUID(e.TenantID),
		e.FirstName,
		e.LastName,
		e.Email,
		e.Role,
		string(e.Status),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert employee: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var (
		e        Employee
		eid, tid uuid.UUID
		status   string
	)
	if err := row.Scan(&eid, &tid, &e.FirstName, &e.LastName, &e.Email, &e.Role, &status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ID = id.EmployeeID(eid)
	e.TenantID = id.TenantID(tid)
	e.Status = EmploymentStatus(status)
	return &e, nil
}
