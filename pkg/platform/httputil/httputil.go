// Package httputil centralizes JSON encoding, request decoding, and the error
// envelope so every handler speaks one HTTP contract.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "rostra/pkg/domain-errors"
)

// errorResponse is the JSON envelope for all error responses.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	// FailedClosed signals that compliance could not be determined and the
	// caller must treat the request as blocked, never as "unknown, proceed".
	FailedClosed bool `json:"failedClosed,omitempty"`
}

// WriteJSON encodes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal and unavailable errors omit the description so upstream failure
// details never leak to callers; unavailable errors additionally carry the
// failedClosed flag.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}

	switch code {
	case dErrors.CodeInternal:
		// omit description
	case dErrors.CodeUnavailable:
		resp.Error = string(dErrors.CodeInternal)
		resp.FailedClosed = true
	default:
		var e dErrors.Error
		if errors.As(err, &e) {
			resp.ErrorDescription = e.Message
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}

// WriteFailedClosed renders the fail-closed envelope regardless of the error's
// code. Used at boundaries where any failure must read as "blocked for safety".
func WriteFailedClosed(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, errorResponse{
		Error:        string(dErrors.CodeInternal),
		FailedClosed: true,
	})
}

// Validatable is implemented by request types that validate and parse their
// own fields.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the JSON request body into T and runs its
// validation, writing the error response itself when either step fails.
// Handlers use the second return value to bail out early:
//
//	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//		return
//	}
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	var req T
	ptr := PT(&req)

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(ptr); err != nil {
			if logger != nil {
				logger.WarnContext(ctx, "malformed request body",
					"request_id", requestID,
					"error", err,
				)
			}
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body must be valid JSON"))
			return nil, false
		}
	}

	if err := ptr.Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}

	return ptr, true
}
