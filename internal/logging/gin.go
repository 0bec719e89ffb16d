package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextKeyLogger = "logger"
	headerRequestID  = "X-Request-ID"
)

// GinMiddleware tags each request with an id, stores a request-scoped
// logger in the gin context and logs one line per request.
func GinMiddleware(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		reqLogger := l.With("request_id", requestID)
		c.Set(contextKeyLogger, reqLogger)

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request", args...)
		case status >= 400:
			reqLogger.Warn("request", args...)
		default:
			reqLogger.Info("request", args...)
		}
	}
}

// FromContext returns the request-scoped logger, or a discarding logger
// when the middleware did not run.
func FromContext(c *gin.Context) *Logger {
	if value, ok := c.Get(contextKeyLogger); ok {
		if l, ok := value.(*Logger); ok {
			return l
		}
	}
	return NopLogger()
}
