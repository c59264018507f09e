package certification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
)

// PostgresStore reads certification records from the certifications table.
// Rows are written by the document-review workflow; this store is read-only.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, employeeID id.EmployeeID) ([]compliance.CertificationRecord, error) {
	query := `
		SELECT employee_id, cert_type, status, expires_at, updated_at
		FROM certifications
		WHERE employee_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(employeeID))
	if err != nil {
		return nil, fmt.Errorf("query certifications: %w", err)
	}
	defer rows.Close()

	var records []compliance.CertificationRecord
	for rows.Next() {
		var (
			record     compliance.CertificationRecord
			employeeID uuid.UUID
			status     string
			expiresAt  sql.NullTime
		)
		if err := rows.Scan(&employeeID, &record.Type, &status, &expiresAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		record.EmployeeID = id.EmployeeID(employeeID)
		record.Status = compliance.CertificationStatus(status)
		if expiresAt.Valid {
			t := expiresAt.Time
			record.ExpiresAt = &t
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certifications: %w", err)
	}

	return records, nil
}

// Upsert writes the current determination for an (employee, type) pair.
// Exposed for integration tests and seeding; production writes come from the
// document-review service against the same table.
func (s *PostgresStore) Upsert(ctx context.Context, record compliance.CertificationRecord) error {
	query := `
		INSERT INTO certifications (employee_id, cert_type, status, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, lower(cert_type))
		DO UPDATE SET status = EXCLUDED.status,
		              expires_at = EXCLUDED.expires_at,
		              updated_at = EXCLUDED.updated_at
	`

	var expiresAt sql.NullTime
	if record.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *record.ExpiresAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(record.EmployeeID),
		record.Type,
		string(record.Status),
		expiresAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert certification: %w", err)
	}
	return nil
}
