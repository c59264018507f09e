package payroll

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
	"rostra/pkg/platform/httputil"
	"rostra/pkg/requestcontext"
)

// Handler exposes the loadings engine for payroll export tooling.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// Register mounts payroll endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/payroll/rate", h.HandleRate)
}

// RateRequest is the HTTP request body for POST /payroll/rate.
type RateRequest struct {
	BaseRate      float64 `json:"baseRate"`
	ShiftStart    string  `json:"shiftStart"`
	PublicHoliday bool    `json:"publicHoliday"`

	parsedStart time.Time
}

// Validate validates and parses the request.
func (r *RateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.BaseRate <= 0 {
		return dErrors.New(dErrors.CodeValidation, "baseRate must be positive")
	}
	if r.ShiftStart == "" {
		return dErrors.New(dErrors.CodeBadRequest, "shiftStart is required")
	}

	start, err := time.Parse(time.RFC3339, r.ShiftStart)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "shiftStart must be an RFC3339 timestamp")
	}
	r.parsedStart = start
	return nil
}

// RateResponse is the resolved pay rate for one shift.
type RateResponse struct {
	Category   string  `json:"category"`
	Multiplier float64 `json:"multiplier"`
	HourlyRate float64 `json:"hourlyRate"`
}

// HandleRate handles POST /payroll/rate requests.
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if requestcontext.UserID(ctx) == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rate := h.engine.Resolve(req.BaseRate, req.parsedStart, req.PublicHoliday)

	httputil.WriteJSON(w, http.StatusOK, RateResponse{
		Category:   string(rate.Category),
		Multiplier: rate.Multiplier,
		HourlyRate: rate.HourlyRate,
	})
}
