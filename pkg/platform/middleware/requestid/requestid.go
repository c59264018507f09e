// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"rostra/pkg/requestcontext"
)

// Header is the response header carrying the request correlation ID.
const Header = "X-Request-Id"

// Middleware reuses an inbound X-Request-Id when present (set by a trusted
// proxy) and generates one otherwise. The ID is stored in the context and
// echoed on the response for client-side correlation.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
