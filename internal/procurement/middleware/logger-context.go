package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-procurement/pkg/logging"
)

const RequestIDHeader = "X-Request-Id"

type LoggerContext struct{}

func NewLoggerContext() *LoggerContext {
	return &LoggerContext{}
}

// CreateHandler tags every log line of the request with its route data and a
// request id, reusing the caller's id when it sent one.
func (lc *LoggerContext) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(
			logging.WithContextFields(
				r.Context(),
				zap.String("request-id", requestID),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("remote-addr", r.RemoteAddr),
			),
		)
		next.ServeHTTP(w, r)
	})
}
