// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogMiddleware logs the method, path, and duration of each HTTP request.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			logger.WithFields(logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": duration,
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogConnect records a player attaching to a room's websocket stream.
func LogConnect(roomID string, playerID uuid.UUID, name string) {
	logrus.WithFields(logrus.Fields{
		"room":   roomID,
		"player": playerID,
		"name":   name,
	}).Info("WebSocket connected")
}

// LogDisconnect records a player's websocket stream ending.
func LogDisconnect(roomID string, playerID uuid.UUID) {
	logrus.WithFields(logrus.Fields{
		"room":   roomID,
		"player": playerID,
	}).Info("WebSocket disconnected")
}
