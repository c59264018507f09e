//go:build integration

package certification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rostra/internal/compliance"
	"rostra/internal/compliance/store/certification"
	id "rostra/pkg/domain"
	"rostra/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *certification.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = certification.NewPostgres(s.postgres.DB)
	s.now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "certifications"))
}

func (s *PostgresStoreSuite) TestUpsertAndList() {
	ctx := context.Background()
	employeeID := id.NewEmployeeID()
	expiry := s.now.Add(90 * 24 * time.Hour)

	err := s.store.Upsert(ctx, compliance.CertificationRecord{
		EmployeeID: employeeID,
		Type:       "First Aid",
		Status:     compliance.StatusValid,
		ExpiresAt:  &expiry,
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)

	records, err := s.store.ListByEmployee(ctx, employeeID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal("First Aid", records[0].Type)
	s.Equal(compliance.StatusValid, records[0].Status)
	s.Require().NotNil(records[0].ExpiresAt)
	s.True(records[0].ExpiresAt.Equal(expiry))
}

func (s *PostgresStoreSuite) TestUpsertReplacesCaseInsensitively() {
	ctx := context.Background()
	employeeID := id.NewEmployeeID()

	err := s.store.Upsert(ctx, compliance.CertificationRecord{
		EmployeeID: employeeID,
		Type:       "First Aid",
		Status:     compliance.StatusPending,
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)

	err = s.store.Upsert(ctx, compliance.CertificationRecord{
		EmployeeID: employeeID,
		Type:       "FIRST AID",
		Status:     compliance.StatusValid,
		UpdatedAt:  s.now.Add(time.Hour),
	})
	s.Require().NoError(err)

	records, err := s.store.ListByEmployee(ctx, employeeID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(compliance.StatusValid, records[0].Status)
}

func (s *PostgresStoreSuite) TestNullExpiry() {
	ctx := context.Background()
	employeeID := id.NewEmployeeID()

	err := s.store.Upsert(ctx, compliance.CertificationRecord{
		EmployeeID: employeeID,
		Type:       "NDIS Worker Screening",
		Status:     compliance.StatusValid,
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)

	records, err := s.store.ListByEmployee(ctx, employeeID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Nil(records[0].ExpiresAt)
}
