package lookup

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"nextbuscli/pkg/metrics"
	"nextbuscli/pkg/nextbus"
	internalotel "nextbuscli/pkg/otel"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Lookup resolves a stop-title substring against one route of one agency and
// prints arrival predictions for every matching stop.
type Lookup struct {
	config Config
	client *nextbus.Client
	out    io.Writer
	tracer trace.Tracer
}

type Config struct {
	Agency    string
	Route     string
	StopQuery string
}

func New(config Config, client *nextbus.Client) (*Lookup, error) {
	if config.Agency == "" {
		return nil, fmt.Errorf("agency is required")
	}
	if config.Route == "" {
		return nil, fmt.Errorf("route tag is required")
	}
	if config.StopQuery == "" {
		return nil, fmt.Errorf("stop title substring is required")
	}

	return &Lookup{
		config: config,
		client: client,
		out:    os.Stdout,
		tracer: otel.Tracer("lookup"),
	}, nil
}

// SetOutput redirects the printed results. Defaults to stdout.
func (l *Lookup) SetOutput(w io.Writer) {
	l.out = w
}

// Run fetches the route's stops, filters them by the title substring
// (case-sensitive), and fetches predictions for each match, one round trip at
// a time. A query that matches no stop prints a diagnostic and is not an
// error. Fetch and parse failures propagate to the caller unhandled.
func (l *Lookup) Run(ctx context.Context) error {
	ctx, span := l.tracer.Start(ctx, "lookup.run",
		trace.WithAttributes(
			attribute.String("agency", l.config.Agency),
			attribute.String("route", l.config.Route),
			attribute.String("stop_query", l.config.StopQuery),
		),
	)
	defer span.End()

	start := time.Now()
	recordLookupRun(ctx)

	stops, err := l.client.GetStops(ctx, l.config.Agency, l.config.Route)
	if err != nil {
		recordLookupError(ctx, "stops")
		return fmt.Errorf("failed to fetch stops for route %s: %w", l.config.Route, err)
	}

	// Matched tags are sorted so output order is reproducible; map iteration
	// order is not.
	var tags []string
	for tag, stop := range stops {
		if strings.Contains(stop.Title, l.config.StopQuery) {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	span.SetAttributes(
		attribute.Int("stops.total", len(stops)),
		attribute.Int("stops.matched", len(tags)),
	)
	recordStopsMatched(ctx, len(tags))

	if len(tags) == 0 {
		fmt.Fprintf(l.out, "Cannot find stop containing %q\n", l.config.StopQuery)
		internalotel.SetSpanOk(span)
		return nil
	}

	for _, tag := range tags {
		if err := l.printPredictions(ctx, tag, stops[tag].Title); err != nil {
			recordLookupError(ctx, "predictions")
			return err
		}
	}

	recordRunDuration(ctx, time.Since(start))
	metrics.RecordLastSuccessTimestamp()
	internalotel.SetSpanOk(span)
	return nil
}

func (l *Lookup) printPredictions(ctx context.Context, tag, title string) error {
	ctx, span := l.tracer.Start(ctx, "lookup.stop",
		trace.WithAttributes(
			attribute.String("stop.tag", tag),
			attribute.String("stop.title", title),
		),
	)
	defer span.End()

	fmt.Fprintf(l.out, "Predictions for %s (%s):\n", title, tag)

	predictions, messages, err := l.client.Predictions(l.config.Agency, l.config.Route, tag).Get(ctx)
	if err != nil {
		internalotel.RecordError(span, err, internalotel.ErrorTypeNetwork, true)
		return fmt.Errorf("failed to fetch predictions for stop %s: %w", tag, err)
	}

	span.SetAttributes(
		attribute.Int("predictions.count", len(predictions)),
		attribute.Int("messages.count", len(messages)),
	)
	recordPredictionsFetched(ctx, len(predictions))

	for _, p := range predictions {
		fmt.Fprintln(l.out, p)
	}
	if len(messages) > 0 {
		fmt.Fprintln(l.out, strings.Join(messages, "\n"))
	}
	return nil
}

func recordLookupRun(ctx context.Context) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.LookupRunsTotal.Add(ctx, 1)
}

func recordRunDuration(ctx context.Context, d time.Duration) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.LookupRunDuration.Record(ctx, d.Seconds())
}

func recordStopsMatched(ctx context.Context, n int) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.LookupStopsMatched.Record(ctx, int64(n))
}

func recordPredictionsFetched(ctx context.Context, n int) {
	if !metrics.IsEnabled() || n == 0 {
		return
	}
	metrics.LookupPredictionsFetched.Add(ctx, int64(n))
}

func recordLookupError(ctx context.Context, stage string) {
	if !metrics.IsEnabled() {
		return
	}
	metrics.LookupErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
	))
}
