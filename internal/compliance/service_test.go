package compliance_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rostra/internal/compliance"
	certStore "rostra/internal/compliance/store/certification"
	overrideStore "rostra/internal/compliance/store/override"
	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
	"rostra/pkg/platform/audit"
	auditMemory "rostra/pkg/platform/audit/memory"
	"rostra/pkg/requestcontext"
)

// =============================================================================
// Compliance Service Test Suite
// =============================================================================
// Justification for unit tests: the evaluator's classification boundaries
// (expired vs expiring-soon, ceil day rounding, override eligibility) are
// precise time arithmetic that E2E tests cannot pin down without controlling
// the clock. All tests inject a fixed evaluation time via the request context.

type ComplianceServiceSuite struct {
	suite.Suite
	certs     *certStore.InMemoryStore
	overrides *overrideStore.InMemoryStore
	publisher *auditMemory.Publisher
	service   *compliance.Service

	now time.Time
	ctx context.Context
}

func TestComplianceServiceSuite(t *testing.T) {
	suite.Run(t, new(ComplianceServiceSuite))
}

func (s *ComplianceServiceSuite) SetupTest() {
	s.certs = certStore.New()
	s.overrides = overrideStore.New()
	s.publisher = auditMemory.New()

	var err error
	s.service, err = compliance.New(s.certs, s.overrides,
		compliance.WithLogger(slog.New(slog.DiscardHandler)),
		compliance.WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)

	s.now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

// seedValid writes a valid record for every baseline type, expiring well
// outside the warning window.
func (s *ComplianceServiceSuite) seedValid(employeeID id.EmployeeID, types ...string) {
	if len(types) == 0 {
		types = []string{
			"Police Check",
			"NDIS Worker Screening",
			"First Aid",
			"CPR",
			"Working With Children Check",
		}
	}
	expiry := s.now.Add(365 * 24 * time.Hour)
	for _, certType := range types {
		err := s.certs.Put(s.ctx, compliance.CertificationRecord{
			EmployeeID: employeeID,
			Type:       certType,
			Status:     compliance.StatusValid,
			ExpiresAt:  &expiry,
			UpdatedAt:  s.now,
		})
		s.Require().NoError(err)
	}
}

func (s *ComplianceServiceSuite) putCert(employeeID id.EmployeeID, certType string, status compliance.CertificationStatus, expiresAt *time.Time) {
	err := s.certs.Put(s.ctx, compliance.CertificationRecord{
		EmployeeID: employeeID,
		Type:       certType,
		Status:     status,
		ExpiresAt:  expiresAt,
		UpdatedAt:  s.now,
	})
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *ComplianceServiceSuite) TestNew() {
	s.Run("nil certification store returns error", func() {
		_, err := compliance.New(nil, s.overrides)
		s.Error(err)
		s.Contains(err.Error(), "certification store is required")
	})

	s.Run("nil override store returns error", func() {
		_, err := compliance.New(s.certs, nil)
		s.Error(err)
		s.Contains(err.Error(), "override store is required")
	})
}

// =============================================================================
// Classification Tests
// =============================================================================

func (s *ComplianceServiceSuite) TestEvaluateCompliant() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID)

	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
		EmployeeID: employeeID,
	})
	s.Require().NoError(err)

	s.True(verdict.Compliant)
	s.Empty(verdict.BlockingReasons)
	s.Empty(verdict.ExpiringSoon)
	s.False(verdict.OverrideActive)
	s.Nil(verdict.Override)
	s.Equal(s.now, verdict.EvaluatedAt)
}

func (s *ComplianceServiceSuite) TestEvaluateNoRecords() {
	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
		EmployeeID: id.NewEmployeeID(),
	})
	s.Require().NoError(err)

	s.False(verdict.Compliant)
	s.Require().Len(verdict.BlockingReasons, 5)
	for _, reason := range verdict.BlockingReasons {
		s.Equal(compliance.ReasonMissing, reason.Kind)
	}
	s.False(verdict.OverrideActive)
}

func (s *ComplianceServiceSuite) TestEvaluateMissing() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID,
		"Police Check", "NDIS Worker Screening", "First Aid", "CPR")

	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
		EmployeeID: employeeID,
	})
	s.Require().NoError(err)

	s.False(verdict.Compliant)
	s.Require().Len(verdict.BlockingReasons, 1)
	s.Equal("Working With Children Check", verdict.BlockingReasons[0].Type)
	s.Equal(compliance.ReasonMissing, verdict.BlockingReasons[0].Kind)
}

func (s *ComplianceServiceSuite) TestEvaluateStatuses() {
	s.Run("pending record blocks", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		s.putCert(employeeID, "First Aid", compliance.StatusPending, nil)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.False(verdict.Compliant)
		s.Require().Len(verdict.BlockingReasons, 1)
		s.Equal(compliance.ReasonPending, verdict.BlockingReasons[0].Kind)
	})

	s.Run("rejected record blocks", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		s.putCert(employeeID, "CPR", compliance.StatusRejected, nil)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.False(verdict.Compliant)
		s.Require().Len(verdict.BlockingReasons, 1)
		s.Equal(compliance.ReasonRejected, verdict.BlockingReasons[0].Kind)
	})

	s.Run("rejected outranks expiry", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		expired := s.now.Add(-24 * time.Hour)
		s.putCert(employeeID, "CPR", compliance.StatusRejected, &expired)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.Require().Len(verdict.BlockingReasons, 1)
		s.Equal(compliance.ReasonRejected, verdict.BlockingReasons[0].Kind)
		s.Empty(verdict.ExpiringSoon)
	})

	s.Run("valid record without expiry never expires", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		s.putCert(employeeID, "Police Check", compliance.StatusValid, nil)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.True(verdict.Compliant)
		s.Empty(verdict.ExpiringSoon)
	})
}

func (s *ComplianceServiceSuite) TestEvaluateExpiry() {
	s.Run("expiry before now blocks as expired", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		expired := s.now.Add(-time.Second)
		s.putCert(employeeID, "First Aid", compliance.StatusValid, &expired)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.False(verdict.Compliant)
		s.Require().Len(verdict.BlockingReasons, 1)
		s.Equal(compliance.ReasonExpired, verdict.BlockingReasons[0].Kind)
		s.Require().NotNil(verdict.BlockingReasons[0].ExpiredAt)
		s.Equal(expired, *verdict.BlockingReasons[0].ExpiredAt)
	})

	s.Run("expiry equal to now is not expired", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		exact := s.now
		s.putCert(employeeID, "First Aid", compliance.StatusValid, &exact)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.True(verdict.Compliant)
		s.Require().Len(verdict.ExpiringSoon, 1)
		s.Equal(0, verdict.ExpiringSoon[0].DaysUntilExpiry)
	})

	s.Run("expiry inside thirty days warns without blocking", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		soon := s.now.Add(10 * 24 * time.Hour)
		s.putCert(employeeID, "CPR", compliance.StatusValid, &soon)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.True(verdict.Compliant)
		s.Require().Len(verdict.ExpiringSoon, 1)
		s.Equal("CPR", verdict.ExpiringSoon[0].Type)
		s.Equal(10, verdict.ExpiringSoon[0].DaysUntilExpiry)
	})

	s.Run("expiry at exactly thirty days is outside the window", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		edge := s.now.Add(30 * 24 * time.Hour)
		s.putCert(employeeID, "CPR", compliance.StatusValid, &edge)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.True(verdict.Compliant)
		s.Empty(verdict.ExpiringSoon)
	})

	s.Run("partial days round up", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		partial := s.now.Add(29*24*time.Hour + 3*time.Hour)
		s.putCert(employeeID, "CPR", compliance.StatusValid, &partial)

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.Require().Len(verdict.ExpiringSoon, 1)
		s.Equal(30, verdict.ExpiringSoon[0].DaysUntilExpiry)
	})
}

func (s *ComplianceServiceSuite) TestEvaluateCaseInsensitiveTypes() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID,
		"police check", "ndis worker screening", "FIRST AID", "cpr",
		"Working With Children Check")

	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
	s.Require().NoError(err)

	s.True(verdict.Compliant)
	s.Empty(verdict.BlockingReasons)
}

// =============================================================================
// Context and Requirements Tests
// =============================================================================

func (s *ComplianceServiceSuite) TestEvaluateDriving() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID)

	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
		EmployeeID: employeeID,
		Context: compliance.EvaluationContext{
			ContextType:     compliance.ContextShift,
			RequiresDriving: true,
		},
	})
	s.Require().NoError(err)

	s.False(verdict.Compliant)
	s.Require().Len(verdict.BlockingReasons, 2)
	types := []string{verdict.BlockingReasons[0].Type, verdict.BlockingReasons[1].Type}
	s.ElementsMatch([]string{"Driver Licence", "Vehicle Insurance"}, types)
	for _, reason := range verdict.BlockingReasons {
		s.Equal(compliance.ReasonMissing, reason.Kind)
	}
}

func (s *ComplianceServiceSuite) TestEvaluateAdditionalRequirements() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID)

	verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
		EmployeeID: employeeID,
		Context: compliance.EvaluationContext{
			ContextType:            compliance.ContextService,
			AdditionalRequirements: []string{"Manual Handling", "first aid"},
		},
	})
	s.Require().NoError(err)

	// "first aid" dedupes against the baseline entry; only the genuinely new
	// type blocks.
	s.False(verdict.Compliant)
	s.Require().Len(verdict.BlockingReasons, 1)
	s.Equal("Manual Handling", verdict.BlockingReasons[0].Type)
}

// =============================================================================
// Override Tests
// =============================================================================

func (s *ComplianceServiceSuite) putOverride(employeeID id.EmployeeID, contextType compliance.ContextType, createdAt time.Time, active bool, expiresAt time.Time) id.OverrideID {
	overrideID := id.NewOverrideID()
	err := s.overrides.Put(s.ctx, compliance.Override{
		ID:          overrideID,
		EmployeeID:  employeeID,
		Reason:      "documents sighted in person",
		ContextType: contextType,
		ExpiresAt:   expiresAt,
		IsActive:    active,
		CreatedAt:   createdAt,
		GrantedBy:   "supervisor@example.com",
	})
	s.Require().NoError(err)
	return overrideID
}

func (s *ComplianceServiceSuite) TestOverrideSelection() {
	s.Run("active matching override is reported without flipping the verdict", func() {
		employeeID := id.NewEmployeeID()
		overrideID := s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-time.Hour), true, s.now.Add(24*time.Hour))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.False(verdict.Compliant)
		s.True(verdict.OverrideActive)
		s.Require().NotNil(verdict.Override)
		s.Equal(overrideID, verdict.Override.ID)
		s.Equal("documents sighted in person", verdict.Override.Reason)
	})

	s.Run("latest created override wins", func() {
		employeeID := id.NewEmployeeID()
		s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-2*time.Hour), true, s.now.Add(24*time.Hour))
		latest := s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-time.Hour), true, s.now.Add(24*time.Hour))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.Require().NotNil(verdict.Override)
		s.Equal(latest, verdict.Override.ID)
	})

	s.Run("inactive and expired overrides are ignored", func() {
		employeeID := id.NewEmployeeID()
		s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-time.Hour), false, s.now.Add(24*time.Hour))
		s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-time.Hour), true, s.now.Add(-time.Minute))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.False(verdict.OverrideActive)
		s.Nil(verdict.Override)
	})

	s.Run("context scoped override only matches its context", func() {
		employeeID := id.NewEmployeeID()
		s.putOverride(employeeID, compliance.ContextClient,
			s.now.Add(-time.Hour), true, s.now.Add(24*time.Hour))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
			EmployeeID: employeeID,
			Context:    compliance.EvaluationContext{ContextType: compliance.ContextShift},
		})
		s.Require().NoError(err)
		s.False(verdict.OverrideActive)

		verdict, err = s.service.Evaluate(s.ctx, compliance.EvaluateRequest{
			EmployeeID: employeeID,
			Context:    compliance.EvaluationContext{ContextType: compliance.ContextClient},
		})
		s.Require().NoError(err)
		s.True(verdict.OverrideActive)
	})

	s.Run("general evaluation matches scoped override", func() {
		employeeID := id.NewEmployeeID()
		s.putOverride(employeeID, compliance.ContextClient,
			s.now.Add(-time.Hour), true, s.now.Add(24*time.Hour))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)
		s.True(verdict.OverrideActive)
	})

	s.Run("override skipped for compliant employee", func() {
		employeeID := id.NewEmployeeID()
		s.seedValid(employeeID)
		s.putOverride(employeeID, compliance.ContextGeneral,
			s.now.Add(-time.Hour), true, s.now.Add(24*time.Hour))

		verdict, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
		s.Require().NoError(err)

		s.True(verdict.Compliant)
		s.False(verdict.OverrideActive)
		s.Nil(verdict.Override)
	})
}

func (s *ComplianceServiceSuite) TestOverrideLapsing() {
	employeeID := id.NewEmployeeID()
	expiredID := s.putOverride(employeeID, compliance.ContextGeneral,
		s.now.Add(-48*time.Hour), true, s.now.Add(-time.Hour))

	_, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
	s.Require().NoError(err)

	lapsed, ok := s.overrides.Get(s.ctx, expiredID)
	s.Require().True(ok)
	s.False(lapsed.IsActive)
}

// =============================================================================
// Failure Contract Tests
// =============================================================================

// failingCertStore simulates a certification backend outage.
type failingCertStore struct{}

func (failingCertStore) ListByEmployee(context.Context, id.EmployeeID) ([]compliance.CertificationRecord, error) {
	return nil, fmt.Errorf("connection refused")
}

// failingLapseStore fails the lapse pass but serves reads.
type failingLapseStore struct {
	*overrideStore.InMemoryStore
}

func (failingLapseStore) LapseExpired(context.Context, time.Time) (int, error) {
	return 0, fmt.Errorf("deadlock detected")
}

func (s *ComplianceServiceSuite) TestEvaluateFailsClosed() {
	service, err := compliance.New(failingCertStore{}, s.overrides,
		compliance.WithLogger(slog.New(slog.DiscardHandler)),
		compliance.WithAuditPublisher(s.publisher),
	)
	s.Require().NoError(err)

	employeeID := id.NewEmployeeID()
	verdict, err := service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})

	s.Nil(verdict)
	s.Require().Error(err)
	s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.EventEvaluationFailedClosed, events[0].Action)
	s.Equal("failed_closed", events[0].Decision)
}

func (s *ComplianceServiceSuite) TestLapseFailureIsSwallowed() {
	service, err := compliance.New(s.certs, failingLapseStore{s.overrides},
		compliance.WithLogger(slog.New(slog.DiscardHandler)),
	)
	s.Require().NoError(err)

	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID)

	verdict, err := service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
	s.Require().NoError(err)
	s.True(verdict.Compliant)
}

func (s *ComplianceServiceSuite) TestEvaluateNilEmployeeID() {
	_, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{})
	s.Require().Error(err)
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

// =============================================================================
// Audit Tests
// =============================================================================

func (s *ComplianceServiceSuite) TestEvaluateEmitsAudit() {
	employeeID := id.NewEmployeeID()
	s.seedValid(employeeID)

	_, err := s.service.Evaluate(s.ctx, compliance.EvaluateRequest{EmployeeID: employeeID})
	s.Require().NoError(err)

	events := s.publisher.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal(audit.EventEvaluationCompleted, events[0].Action)
	s.Equal("compliant", events[0].Decision)
	s.Equal(employeeID, events[0].EmployeeID)
}

// =============================================================================
// Batch Tests
// =============================================================================

func (s *ComplianceServiceSuite) TestEvaluateBatch() {
	s.Run("empty input returns validation error", func() {
		_, err := s.service.EvaluateBatch(s.ctx, nil, compliance.EvaluationContext{})
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("results preserve input order", func() {
		compliant := id.NewEmployeeID()
		s.seedValid(compliant)
		nonCompliant := id.NewEmployeeID()

		verdicts, err := s.service.EvaluateBatch(s.ctx,
			[]id.EmployeeID{compliant, nonCompliant}, compliance.EvaluationContext{})
		s.Require().NoError(err)

		s.Require().Len(verdicts, 2)
		s.Equal(compliant, verdicts[0].EmployeeID)
		s.True(verdicts[0].Compliant)
		s.Equal(nonCompliant, verdicts[1].EmployeeID)
		s.False(verdicts[1].Compliant)
	})

	s.Run("one unavailable employee fails the whole batch", func() {
		service, err := compliance.New(failingCertStore{}, s.overrides,
			compliance.WithLogger(slog.New(slog.DiscardHandler)),
		)
		s.Require().NoError(err)

		_, err = service.EvaluateBatch(s.ctx,
			[]id.EmployeeID{id.NewEmployeeID(), id.NewEmployeeID()},
			compliance.EvaluationContext{})
		s.Require().Error(err)
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})
}
