package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsMiddleware returns a Gin middleware recording a request counter and
// a duration histogram, both labeled with method, path, and status_code. The path
// label carries the matched route pattern (e.g. /api/v1/keyspaces/:name) so path
// parameters do not inflate cardinality; unmatched requests are grouped under
// "unknown". If instrument creation fails the middleware degrades to a no-op.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passthrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passthrough
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []attribute.KeyValue{
			attribute.String("method", c.Request.Method),
			attribute.String("path", routeLabel(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		}

		ctx := c.Request.Context()
		requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
		durationHisto.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	}
}

func passthrough(c *gin.Context) {
	c.Next()
}

// routeLabel picks the metric label for a request path. FullPath is empty when
// the router did not match a route, so 404 noise collapses into one series.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
