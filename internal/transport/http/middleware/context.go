package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/tablehive/backoffice/internal/core/domain"
)

const (
	// TraceIDHeader is the HTTP header name for the trace ID.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key for the trace ID.
	TraceIDKey = "trace_id"
	// UserKey is the gin context key for the authenticated user.
	UserKey = "user"
)

// EnrichContext adds a trace ID to each request. The active span's trace id
// wins when tracing is on; otherwise the caller's header is honoured, and a
// fresh id is minted as a last resort.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		var traceID string
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
		}
		if traceID == "" {
			traceID = c.GetHeader(TraceIDHeader)
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentUser retrieves the authenticated user placed by RequireAuth.
func CurrentUser(c *gin.Context) *domain.User {
	if value, exists := c.Get(UserKey); exists {
		if user, ok := value.(*domain.User); ok {
			return user
		}
	}
	return nil
}
