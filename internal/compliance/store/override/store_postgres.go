package override

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
)

// PostgresStore persists override grants in the overrides table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put stores or replaces an override grant. Exposed for integration tests and
// seeding; production grants come from the supervisor workflow.
func (s *PostgresStore) Put(ctx context.Context, o compliance.Override) error {
	query := `
		INSERT INTO overrides (id, employee_id, reason, context_type, expires_at, is_active, created_at, granted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET reason = EXCLUDED.reason,
		              context_type = EXCLUDED.context_type,
		              expires_at = EXCLUDED.expires_at,
		              is_active = EXCLUDED.is_active,
		              granted_by = EXCLUDED.granted_by
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(o.ID),
		uuid.UUID(o.EmployeeID),
		o.Reason,
		string(o.ContextType),
		o.ExpiresAt,
		o.IsActive,
		o.CreatedAt,
		o.GrantedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert override: %w", err)
	}
	return nil
}

// LapseExpired deactivates every override whose expiry has passed. Tenant-wide
// rather than per-employee: the pass is idempotent and the evaluator re-checks
// expiry when selecting, so the wider scope only helps housekeeping.
func (s *PostgresStore) LapseExpired(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE overrides
		SET is_active = FALSE
		WHERE is_active AND expires_at <= $1
	`

	result, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("lapse overrides: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("lapse overrides rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) ActiveForEmployee(ctx context.Context, employeeID id.EmployeeID, now time.Time) ([]compliance.Override, error) {
	query := `
		SELECT id, employee_id, reason, context_type, expires_at, is_active, created_at, granted_by
		FROM overrides
		WHERE employee_id = $1 AND is_active AND expires_at > $2
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(employeeID), now)
	if err != nil {
		return nil, fmt.Errorf("query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []compliance.Override
	for rows.Next() {
		var (
			o           compliance.Override
			overrideID  uuid.UUID
			employee    uuid.UUID
			contextType string
		)
		if err := rows.Scan(&overrideID, &employee, &o.Reason, &contextType,
			&o.ExpiresAt, &o.IsActive, &o.CreatedAt, &o.GrantedBy); err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		o.ID = id.OverrideID(overrideID)
		o.EmployeeID = id.EmployeeID(employee)
		o.ContextType = compliance.ContextType(contextType)
		overrides = append(overrides, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides: %w", err)
	}

	return overrides, nil
}
