package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"rostra/internal/compliance/metrics"
	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
	"rostra/pkg/platform/audit"
	"rostra/pkg/requestcontext"
)

// expiringSoonWindow is the non-blocking warning horizon: a certification with
// now <= expiry < now+30d is reported as expiring soon.
const expiringSoonWindow = 30 * 24 * time.Hour

// Service produces compliance verdicts. Stateless per call; the only side
// effect is the best-effort lapse pass against the override store.
type Service struct {
	certs          CertificationStore
	overrides      OverrideStore
	requirements   RequirementSet
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithRequirements replaces the default requirement set.
func WithRequirements(rs RequirementSet) Option {
	return func(s *Service) {
		s.requirements = rs
	}
}

func New(certs CertificationStore, overrides OverrideStore, opts ...Option) (*Service, error) {
	if certs == nil {
		return nil, fmt.Errorf("certification store is required")
	}
	if overrides == nil {
		return nil, fmt.Errorf("override store is required")
	}

	svc := &Service{
		certs:        certs,
		overrides:    overrides,
		requirements: DefaultRequirements(),
		tracer:       otel.Tracer("rostra/compliance"),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// EvaluateRequest is the domain-level input to one evaluation.
type EvaluateRequest struct {
	EmployeeID id.EmployeeID
	Context    EvaluationContext
}

// Evaluate produces a verdict for one employee/context pair.
//
// Failure contract: an error reading certification records fails closed - the
// returned error carries CodeUnavailable and must be treated by callers as
// "assignment blocked", never as an unknown-but-compliant state. A failure of
// the lapse pass is logged and swallowed because the override selection
// re-checks ExpiresAt itself.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*Verdict, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Evaluate")
	defer span.End()
	start := time.Now()

	if req.EmployeeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "employeeId is required")
	}

	now := requestcontext.Now(ctx)
	evalCtx := req.Context
	if evalCtx.ContextType == "" {
		evalCtx.ContextType = ContextGeneral
	}

	s.lapseOverrides(ctx, now)

	records, err := s.certs.ListByEmployee(ctx, req.EmployeeID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncFailedClosed()
		}
		audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Category:   audit.CategoryCompliance,
			Timestamp:  now,
			Action:     audit.EventEvaluationFailedClosed,
			EmployeeID: req.EmployeeID,
			ActorID:    requestcontext.UserID(ctx),
			Decision:   "failed_closed",
			RequestID:  requestcontext.RequestID(ctx),
		})
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "certification records unavailable")
	}

	byType := indexByType(records)
	verdict := &Verdict{
		EmployeeID:  req.EmployeeID,
		EvaluatedAt: now,
	}

	for _, required := range s.requirements.Effective(evalCtx) {
		record, found := byType[strings.ToLower(required)]
		switch {
		case !found:
			verdict.BlockingReasons = append(verdict.BlockingReasons, BlockingReason{
				Type: required,
				Kind: ReasonMissing,
			})
		case record.Status == StatusRejected:
			verdict.BlockingReasons = append(verdict.BlockingReasons, BlockingReason{
				Type: required,
				Kind: ReasonRejected,
			})
		case record.Status == StatusPending:
			verdict.BlockingReasons = append(verdict.BlockingReasons, BlockingReason{
				Type: required,
				Kind: ReasonPending,
			})
		case record.ExpiresAt != nil && record.ExpiresAt.Before(now):
			expiredAt := *record.ExpiresAt
			verdict.BlockingReasons = append(verdict.BlockingReasons, BlockingReason{
				Type:      required,
				Kind:      ReasonExpired,
				ExpiredAt: &expiredAt,
			})
		case record.ExpiresAt != nil && record.ExpiresAt.Before(now.Add(expiringSoonWindow)):
			verdict.ExpiringSoon = append(verdict.ExpiringSoon, ExpiryWarning{
				Type:            required,
				ExpiresAt:       *record.ExpiresAt,
				DaysUntilExpiry: daysUntil(now, *record.ExpiresAt),
			})
		}
	}

	verdict.Compliant = len(verdict.BlockingReasons) == 0

	// Override lookup only matters when something blocks; skipping it when
	// compliant avoids reporting a stale override as active.
	if !verdict.Compliant {
		s.attachOverride(ctx, verdict, evalCtx.ContextType, now)
	}

	result := "non_compliant"
	if verdict.Compliant {
		result = "compliant"
	}
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(result, time.Since(start))
	}
	audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:   audit.CategoryCompliance,
		Timestamp:  now,
		Action:     audit.EventEvaluationCompleted,
		EmployeeID: req.EmployeeID,
		ActorID:    requestcontext.UserID(ctx),
		Decision:   result,
		RequestID:  requestcontext.RequestID(ctx),
	})

	return verdict, nil
}

// lapseOverrides runs the housekeeping pass that deactivates expired
// overrides. Best-effort: correctness does not depend on it because
// attachOverride re-checks ExpiresAt against now.
func (s *Service) lapseOverrides(ctx context.Context, now time.Time) {
	lapsed, err := s.overrides.LapseExpired(ctx, now)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "override lapse pass failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return
	}
	if lapsed > 0 {
		audit.LogAudit(ctx, s.logger, s.auditPublisher, audit.Event{
			Category:  audit.CategoryOperations,
			Timestamp: now,
			Action:    audit.EventOverridesLapsed,
			ActorID:   requestcontext.UserID(ctx),
			Reason:    fmt.Sprintf("%d overrides lapsed", lapsed),
			RequestID: requestcontext.RequestID(ctx),
		})
	}
}

// attachOverride selects the most recently created eligible override, if any,
// and reports it on the verdict. A read failure here is logged and the verdict
// stands without an override: the safe direction, since overrides only relax.
func (s *Service) attachOverride(ctx context.Context, verdict *Verdict, contextType ContextType, now time.Time) {
	overrides, err := s.overrides.ActiveForEmployee(ctx, verdict.EmployeeID, now)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "override lookup failed",
				"employee_id", verdict.EmployeeID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		return
	}

	for _, o := range overrides {
		if !o.AppliesTo(contextType, now) {
			continue
		}
		verdict.OverrideActive = true
		verdict.Override = &OverrideDetails{
			ID:        o.ID,
			Reason:    o.Reason,
			ExpiresAt: o.ExpiresAt,
			GrantedBy: o.GrantedBy,
		}
		if s.metrics != nil {
			s.metrics.IncOverrideApplied()
		}
		return
	}
}

// indexByType maps records by lowercased type key. When the store returns
// duplicate types the most recently updated record wins.
func indexByType(records []CertificationRecord) map[string]CertificationRecord {
	byType := make(map[string]CertificationRecord, len(records))
	for _, record := range records {
		key := strings.ToLower(strings.TrimSpace(record.Type))
		if existing, ok := byType[key]; ok && existing.UpdatedAt.After(record.UpdatedAt) {
			continue
		}
		byType[key] = record
	}
	return byType
}

// daysUntil rounds up, so a certification 29.1 days from expiry reports 30.
func daysUntil(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
