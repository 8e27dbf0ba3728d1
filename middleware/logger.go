package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tokomaterial/logging"
)

// RequestLogger attaches a request-scoped logger to the gin context and
// writes one completion line per request. Handlers pick the logger up via
// logging.From(c) so their entries carry the same requestId.
func RequestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := l.With(
			"requestId", uuid.NewString(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		logging.With(c, reqLog)

		start := time.Now()
		c.Next()

		reqLog.Info("request complete",
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds(),
		)
	}
}
