package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/core/domain"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/logger"
)

const (
	// TraceIDHeader is the HTTP header name for trace ID
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the context key for trace ID
	TraceIDKey = "trace_id"
	// ActorKey is the context key for the authenticated domain.Actor
	ActorKey = "actor"
)

// EnrichContext assigns a trace id to every request, honouring an inbound X-Trace-ID.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID retrieves the trace ID from the context
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// GetActor returns the caller stored by RequireIdentity.
func GetActor(c *gin.Context) (domain.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok && actor.UserID != ""
}

// TeamScope copies the :teamID path parameter onto the request context so
// downstream logs carry it.
func TeamScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if teamID := c.Param("teamID"); teamID != "" {
			ctx := context.WithValue(c.Request.Context(), logger.TeamIDKey{}, teamID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

// RequestID puts a correlation id on the request context. Inbound ids longer
// than maxRequestIDLength are replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" || len(reqID) > maxRequestIDLength {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
