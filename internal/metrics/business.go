package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Status label values shared by all business metrics. Dashboards and alerts
// key on these exact strings.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// BusinessMetrics records operation outcomes for the auth and obfuscation
// domains: operation counts, latency histograms, and per-keyspace volume.
type BusinessMetrics interface {
	// RecordOperation counts one operation, for example ("auth",
	// "token_issue", StatusSuccess) or ("obfuscation", "decode",
	// StatusRejected).
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration adds one observation to the latency histogram. Values
	// are recorded in seconds so percentile queries work unconverted.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordKeyspaceOperation counts an encode or decode against a single
	// keyspace. Keyspace cardinality is bounded by the environment
	// configuration, so the keyspace name is safe to use as a label.
	RecordKeyspaceOperation(ctx context.Context, keyspace, operation, status string)
}

type businessMetrics struct {
	operations     metric.Int64Counter
	latency        metric.Float64Histogram
	keyspaceVolume metric.Int64Counter
}

// NewBusinessMetrics creates the business instruments under the given
// namespace prefix.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	keyspaceVolume, err := meter.Int64Counter(
		namespace+"_keyspace_operations_total",
		metric.WithDescription("Total number of encode and decode operations per keyspace"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace counter: %w", err)
	}

	return &businessMetrics{
		operations:     operations,
		latency:        latency,
		keyspaceVolume: keyspaceVolume,
	}, nil
}

// operationAttributes is the label set shared by the operation counter and
// the latency histogram.
func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.latency.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordKeyspaceOperation(ctx context.Context, keyspace, operation, status string) {
	b.keyspaceVolume.Add(ctx, 1, metric.WithAttributes(
		attribute.String("keyspace", keyspace),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

// NoOpBusinessMetrics satisfies BusinessMetrics without recording anything.
// The container hands it out when metrics are disabled so use cases never
// carry a nil check.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics returns the no-op recorder.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (NoOpBusinessMetrics) RecordKeyspaceOperation(context.Context, string, string, string) {}
