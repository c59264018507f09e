package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
	"rostra/pkg/platform/httputil"
	"rostra/pkg/requestcontext"
)

// Service defines the interface for compliance operations.
type Service interface {
	Evaluate(ctx context.Context, req compliance.EvaluateRequest) (*compliance.Verdict, error)
	EvaluateBatch(ctx context.Context, employeeIDs []id.EmployeeID, evalCtx compliance.EvaluationContext) ([]*compliance.Verdict, error)
}

// Handler wires compliance endpoints to the compliance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/evaluate", h.HandleEvaluate)
	r.Post("/compliance/evaluate/batch", h.HandleEvaluateBatch)
}

// HandleEvaluate handles POST /compliance/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Require authenticated caller. Identity is trusted for logging only; any
	// authenticated principal may evaluate any employee.
	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict, err := h.service.Evaluate(ctx, compliance.EvaluateRequest{
		EmployeeID: req.ParsedEmployeeID(),
		Context:    req.ParsedContext(),
	})
	if err != nil {
		h.writeEvaluationError(w, r, err, req.EmployeeID)
		return
	}

	h.logger.InfoContext(ctx, "compliance evaluated",
		"request_id", requestID,
		"user_id", userID,
		"employee_id", req.EmployeeID,
		"compliant", verdict.Compliant,
		"blocking_reasons", len(verdict.BlockingReasons),
		"override_active", verdict.OverrideActive,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerdict(verdict))
}

// HandleEvaluateBatch handles POST /compliance/evaluate/batch requests.
func (h *Handler) HandleEvaluateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateBatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdicts, err := h.service.EvaluateBatch(ctx, req.ParsedEmployeeIDs(), req.ParsedContext())
	if err != nil {
		h.writeEvaluationError(w, r, err, "")
		return
	}

	h.logger.InfoContext(ctx, "compliance batch evaluated",
		"request_id", requestID,
		"user_id", userID,
		"employees", len(verdicts),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromVerdicts(verdicts))
}

// writeEvaluationError maps service failures onto the single error contract:
// 400-class problems keep their envelope, everything else renders the
// fail-closed shape so callers never see an ambiguous 500.
func (h *Handler) writeEvaluationError(w http.ResponseWriter, r *http.Request, err error, employeeID string) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)

	if dErrors.ToHTTPStatus(code) < http.StatusInternalServerError {
		httputil.WriteError(w, err)
		return
	}

	h.logger.ErrorContext(ctx, "compliance evaluation failed closed",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", employeeID,
		"error", err,
	)
	httputil.WriteFailedClosed(w)
}
