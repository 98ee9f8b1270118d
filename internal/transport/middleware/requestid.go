package middleware

import (
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/pos-identity/pkg/logger"
)

// RequestID attaches chi's request id to the request-scoped logger and
// echoes it back to the caller.
func RequestID(next http.Handler) http.Handler {
	return middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())

		ctx := logger.With(r.Context(), "request_id", reqID)
		w.Header().Set(middleware.RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	}))
}
