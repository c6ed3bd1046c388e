package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request through otelgin.
// A disabled tracer passes requests through untouched.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return otelgin.Middleware(serviceName)
}

// SpanAttributes enriches the active span once routing has resolved :id.
// Place it after Tracing and RequestID.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if id := c.Param("id"); id != "" {
				span.SetAttributes(attribute.String(resourceAttribute(c.FullPath()), id))
			}
		}
		c.Next()
	}
}

func resourceAttribute(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/v1/customers/:id"):
		return "customer_id"
	case strings.HasPrefix(route, "/api/v1/billing-reports/:id"):
		return "report_id"
	case strings.HasPrefix(route, "/api/v1/products/:id"):
		return "product_id"
	case strings.HasPrefix(route, "/api/v1/leads/:id"):
		return "lead_id"
	default:
		return "resource_id"
	}
}

// SpanErrorMarker marks spans of 4xx and 5xx responses as errors.
// Place it after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
