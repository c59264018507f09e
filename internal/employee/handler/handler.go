package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rostra/internal/employee"
	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
	"rostra/pkg/platform/httputil"
	"rostra/pkg/requestcontext"
)

// Handler wires employee directory endpoints to the employee service.
type Handler struct {
	service *employee.Service
	logger  *slog.Logger
}

func New(service *employee.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts employee endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/employees", h.HandleList)
	r.Get("/employees/{employeeID}", h.HandleGet)
}

// EmployeeResponse is the JSON shape for one directory record.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromEmployee(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID.String(),
		TenantID:  e.TenantID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Role:      e.Role,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}

// HandleGet handles GET /employees/{employeeID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if requestcontext.UserID(ctx) == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	employeeID, err := id.ParseEmployeeID(chi.URLParam(r, "employeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	e, err := h.service.Get(ctx, employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromEmployee(e))
}

// HandleList handles GET /employees, scoped to the caller's tenant.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if requestcontext.UserID(ctx) == (id.UserID{}) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	tenantID := requestcontext.TenantID(ctx)
	employees, err := h.service.ListByTenant(ctx, tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, fromEmployee(e))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"employees": out})
}
