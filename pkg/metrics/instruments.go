package metrics

import (
	"go.opentelemetry.io/otel/metric"
)

// HTTP Client Metrics (OTEL Semantic Conventions)
var (
	// HTTPClientRequestDuration measures the duration of HTTP client requests
	HTTPClientRequestDuration metric.Float64Histogram

	// HTTPClientResponseBodySize measures the size of HTTP response bodies
	HTTPClientResponseBodySize metric.Int64Histogram
)

// Feed API Metrics
var (
	// FeedRequestsTotal counts publicXMLFeed requests by command and status
	FeedRequestsTotal metric.Int64Counter

	// XMLParseDuration measures XML decode duration
	XMLParseDuration metric.Float64Histogram

	// ParserRecordsExtracted counts extracted records by kind (route, stop, prediction, message)
	ParserRecordsExtracted metric.Int64Counter

	// ParserPayloadSize measures the size of XML payloads being decoded
	ParserPayloadSize metric.Int64Histogram
)

// Lookup Metrics
var (
	// LookupRunsTotal counts lookup runs
	LookupRunsTotal metric.Int64Counter

	// LookupRunDuration measures the duration of a full lookup run
	LookupRunDuration metric.Float64Histogram

	// LookupStopsMatched measures stops matched by the title filter per run
	LookupStopsMatched metric.Int64Histogram

	// LookupPredictionsFetched counts predictions fetched across runs
	LookupPredictionsFetched metric.Int64Counter

	// LookupErrorsTotal counts errors by stage and type
	LookupErrorsTotal metric.Int64Counter
)

// initializeInstruments creates all metric instruments
func initializeInstruments() error {
	var err error

	// HTTP Client Metrics - following OTEL semantic conventions
	HTTPClientRequestDuration, err = Meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1.0, 2.5, 5.0, 7.5, 10.0),
	)
	if err != nil {
		return err
	}

	HTTPClientResponseBodySize, err = Meter.Int64Histogram(
		"http.client.response.body.size",
		metric.WithDescription("Size of HTTP response bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1024, 10240, 102400, 1048576, 10485760), // 1KB to 10MB
	)
	if err != nil {
		return err
	}

	// Feed API Metrics
	FeedRequestsTotal, err = Meter.Int64Counter(
		"feed.requests.total",
		metric.WithDescription("Total publicXMLFeed requests by command and status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	XMLParseDuration, err = Meter.Float64Histogram(
		"xml.parse.duration",
		metric.WithDescription("Duration of XML decode operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5),
	)
	if err != nil {
		return err
	}

	ParserRecordsExtracted, err = Meter.Int64Counter(
		"parser.records.extracted",
		metric.WithDescription("Records successfully extracted by kind"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return err
	}

	ParserPayloadSize, err = Meter.Int64Histogram(
		"parser.payload.size",
		metric.WithDescription("Size of XML payloads being decoded"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(1024, 10240, 102400, 1048576, 10485760), // 1KB to 10MB
	)
	if err != nil {
		return err
	}

	// Lookup Metrics
	LookupRunsTotal, err = Meter.Int64Counter(
		"lookup.runs.total",
		metric.WithDescription("Total lookup runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	LookupRunDuration, err = Meter.Float64Histogram(
		"lookup.run.duration",
		metric.WithDescription("Duration of full lookup runs"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return err
	}

	LookupStopsMatched, err = Meter.Int64Histogram(
		"lookup.stops.matched",
		metric.WithDescription("Stops matched by the title filter per run"),
		metric.WithUnit("{stop}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return err
	}

	LookupPredictionsFetched, err = Meter.Int64Counter(
		"lookup.predictions.fetched",
		metric.WithDescription("Predictions fetched across runs"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return err
	}

	LookupErrorsTotal, err = Meter.Int64Counter(
		"lookup.errors.total",
		metric.WithDescription("Total errors by stage and type"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	return nil
}
