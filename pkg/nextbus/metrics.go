package nextbus

import (
	"context"
	"time"

	"nextbuscli/pkg/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric recording helpers. All of them are noops until metrics.InitMetrics
// has created the instruments.

func recordRequest(ctx context.Context, command, status string) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.FeedRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("feed.command", command),
		attribute.String("status", status),
	))
}

func recordHTTPClient(ctx context.Context, d time.Duration, bodySize int) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.HTTPClientRequestDuration.Record(ctx, d.Seconds())
	metrics.HTTPClientResponseBodySize.Record(ctx, int64(bodySize))
}

func recordParse(ctx context.Context, d time.Duration, payloadSize int) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.XMLParseDuration.Record(ctx, d.Seconds())
	metrics.ParserPayloadSize.Record(ctx, int64(payloadSize))
}

func recordExtracted(ctx context.Context, kind string, n int) {
	if !metrics.IsEnabled() || n == 0 {
		return
	}
	metrics.ParserRecordsExtracted.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("record.kind", kind),
	))
}
