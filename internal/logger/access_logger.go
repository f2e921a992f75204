package logger

import (
	"github.com/sirupsen/logrus"
)

// AccessLogger logs served HTTP requests.
type AccessLogger struct {
	*logrus.Entry
}

// NewAccessLogger creates a new access logger.
func NewAccessLogger(baseLogger *logrus.Logger) *AccessLogger {
	return &AccessLogger{
		Entry: baseLogger.WithField("component", "http"),
	}
}

// LogRequest logs a completed request. 5xx responses log at error level.
func (al *AccessLogger) LogRequest(requestID, method, path string, status int, durationMs float64, remoteAddr string) {
	entry := al.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": durationMs,
		"remote_addr": remoteAddr,
	})
	switch {
	case status >= 500:
		entry.Error("Request failed")
	case status >= 400:
		entry.Warn("Request rejected")
	default:
		entry.Info("Request served")
	}
}

// LogRateLimited logs a request dropped by the rate limiter.
func (al *AccessLogger) LogRateLimited(client, path string) {
	al.WithFields(logrus.Fields{
		"client": client,
		"path":   path,
	}).Warn("Rate limit exceeded")
}
