package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appLogger "github.com/WeAreCode045/wphub-pro-sub002/internal/infra/logger"
)

// Logger emits one access log line per request. Server errors log at Error,
// client errors at Warn.
func Logger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("trace_id", GetTraceID(c)),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
		}
		if actor, ok := GetActor(c); ok {
			fields = append(fields, zap.String("user_email", appLogger.MaskEmail(actor.Email)))
		}

		reqLog := appLogger.WithContextFrom(c.Request.Context(), log)
		switch {
		case len(c.Errors) > 0 || status >= 500:
			reqLog.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= 400:
			reqLog.Warn("request rejected", fields...)
		default:
			reqLog.Info("request completed", fields...)
		}
	}
}
