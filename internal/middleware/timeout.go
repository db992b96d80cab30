package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"session-auth/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds handler execution, including store calls made through the
// request context. Timed-out requests get a 503 in the usual error shape.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.ErrorResponse{
		Error: "Request timed out",
		Code:  "REQUEST_TIMEOUT",
	})

	return func(next http.Handler) http.Handler {
		h := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(&timeoutWriter{ResponseWriter: w}, r)
		})
	}
}

// timeoutWriter labels the TimeoutHandler's own 503 body as JSON. Handler
// responses have their headers copied in before WriteHeader, so an explicit
// Content-Type from the handler wins.
type timeoutWriter struct {
	http.ResponseWriter
}

func (tw *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && tw.Header().Get("Content-Type") == "" {
		tw.Header().Set("Content-Type", "application/json")
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
