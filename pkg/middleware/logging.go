package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware tags every request with a generated request ID and logs
// method, path and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)

		logrus.WithFields(logrus.Fields{
			"requestID": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
			"duration":  time.Since(start).String(),
		}).Info("Request handled")
	})
}
