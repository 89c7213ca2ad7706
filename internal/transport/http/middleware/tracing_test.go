package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func tracingTestRouter(t *testing.T, captured *trace.SpanContext) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := gin.New()
	r.Use(Tracing(TracingConfig{
		Tracer:     tp.Tracer("test"),
		Propagator: propagation.TraceContext{},
	}))
	r.Use(EnrichContext())
	r.GET("/orders", func(c *gin.Context) {
		*captured = trace.SpanFromContext(c.Request.Context()).SpanContext()
		c.Status(http.StatusOK)
	})
	return r
}

func TestTracing_StartsServerSpan(t *testing.T) {
	var seen trace.SpanContext
	r := tracingTestRouter(t, &seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	if !seen.IsValid() {
		t.Fatal("expected a valid span context inside the handler")
	}
	if got := w.Header().Get(TraceIDHeader); got != seen.TraceID().String() {
		t.Fatalf("trace header %q does not match span trace id %q", got, seen.TraceID())
	}
}

func TestTracing_ContinuesIncomingTraceContext(t *testing.T) {
	var seen trace.SpanContext
	r := tracingTestRouter(t, &seen)

	const upstream = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("traceparent", "00-"+upstream+"-00f067aa0ba902b7-01")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !seen.IsValid() {
		t.Fatal("expected a valid span context inside the handler")
	}
	if seen.TraceID().String() != upstream {
		t.Fatalf("span trace id %q does not continue upstream trace %q", seen.TraceID(), upstream)
	}
}
