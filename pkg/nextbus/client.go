package nextbus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	internalotel "nextbuscli/pkg/otel"

	"github.com/clbanning/mxj/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the public NextBus XML feed endpoint.
	DefaultBaseURL = "http://webservices.nextbus.com/service/publicXMLFeed"

	// Feed commands. Each takes a=<agency>; routeConfig and predictions add
	// r=<routeTag>; predictions adds s=<stopTag>.
	commandRouteList   = "routeList"
	commandRouteConfig = "routeConfig"
	commandPredictions = "predictions"
)

// Client queries the NextBus publicXMLFeed. Each call performs one blocking
// HTTP GET and decodes the XML body; nothing is cached or retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tracer     trace.Tracer
}

// NewClient creates a feed client. An empty baseURL selects the public
// endpoint; a non-positive timeout selects 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
		baseURL: baseURL,
		tracer:  otel.Tracer("nextbus-client"),
	}
}

// buildURL renders a feed request URL for a command and its parameters.
// Values are percent-encoded; the service does not care about parameter order.
func (c *Client) buildURL(command string, params map[string]string) string {
	q := url.Values{}
	q.Set("command", command)
	for k, v := range params {
		q.Set(k, v)
	}
	return c.baseURL + "?" + q.Encode()
}

// fetch performs one GET against the feed and decodes the body as XML.
func (c *Client) fetch(ctx context.Context, command string, params map[string]string) (mxj.Map, error) {
	ctx, span := c.tracer.Start(ctx, "nextbus.fetch",
		trace.WithAttributes(
			attribute.String("feed.command", command),
		),
	)
	defer span.End()

	reqURL := c.buildURL(command, params)
	span.SetAttributes(
		attribute.String("http.url", reqURL),
		attribute.String("http.method", "GET"),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		internalotel.RecordError(span, err, internalotel.ErrorTypeValidation, false)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "nextbuscli/1.0.0")
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		internalotel.RecordError(span, err, internalotel.ErrorTypeNetwork, true)
		recordRequest(ctx, command, "error")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("http.response.content_type", resp.Header.Get("Content-Type")),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
		internalotel.RecordError(span, err, internalotel.ErrorTypeHTTP, true)
		recordRequest(ctx, command, "http_error")
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		internalotel.RecordError(span, err, internalotel.ErrorTypeNetwork, true)
		recordRequest(ctx, command, "error")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	recordHTTPClient(ctx, time.Since(start), len(body))
	span.SetAttributes(attribute.Int("response.size_bytes", len(body)))

	parseStart := time.Now()
	doc, err := mxj.NewMapXml(body)
	if err != nil {
		internalotel.RecordError(span, err, internalotel.ErrorTypeParse, false)
		recordRequest(ctx, command, "parse_error")
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	recordParse(ctx, time.Since(parseStart), len(body))
	recordRequest(ctx, command, "ok")

	internalotel.SetSpanOk(span)
	return doc, nil
}
