package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hairlooks/salonbridge/pkg/ctxutil"
)

// RequestIDHeader carries the request id on both request and response.
const RequestIDHeader = "X-Request-Id"

// RequestID propagates the caller's request id, or assigns a fresh one,
// into the response header and the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
