package nextbus

import (
	"context"

	"nextbuscli/pkg/parser"
	"nextbuscli/pkg/types"
)

// GetRoutes fetches the route list of an agency, keyed by route tag.
// If the feed emits duplicate tags the later one wins.
func (c *Client) GetRoutes(ctx context.Context, agency string) (map[string]types.Route, error) {
	doc, err := c.fetch(ctx, commandRouteList, map[string]string{"a": agency})
	if err != nil {
		return nil, err
	}

	routes := parser.ParseRoutes(doc)
	recordExtracted(ctx, "route", len(routes))

	m := make(map[string]types.Route, len(routes))
	for _, r := range routes {
		m[r.Tag] = r
	}
	return m, nil
}

// GetStops fetches the stops of one route of an agency, keyed by stop tag.
// If the feed emits duplicate tags the later one wins.
func (c *Client) GetStops(ctx context.Context, agency, route string) (map[string]types.Stop, error) {
	doc, err := c.fetch(ctx, commandRouteConfig, map[string]string{"a": agency, "r": route})
	if err != nil {
		return nil, err
	}

	stops := parser.ParseStops(doc)
	recordExtracted(ctx, "stop", len(stops))

	m := make(map[string]types.Stop, len(stops))
	for _, s := range stops {
		m[s.Tag] = s
	}
	return m, nil
}

// PredictionRequest identifies one stop of one route of one agency. Get
// fetches arrival predictions for it; every call issues a fresh request.
type PredictionRequest struct {
	Agency string
	Route  string
	Stop   string

	client *Client
}

// Predictions returns a prediction request scoped to agency, route and stop tag.
func (c *Client) Predictions(agency, route, stop string) *PredictionRequest {
	return &PredictionRequest{
		Agency: agency,
		Route:  route,
		Stop:   stop,
		client: c,
	}
}

// Get fetches current predictions and service messages for the stop.
// Results are never memoized; calling twice issues two requests.
func (pr *PredictionRequest) Get(ctx context.Context) ([]types.Prediction, []string, error) {
	doc, err := pr.client.fetch(ctx, commandPredictions, map[string]string{
		"a": pr.Agency,
		"r": pr.Route,
		"s": pr.Stop,
	})
	if err != nil {
		return nil, nil, err
	}

	predictions, messages := parser.ParsePredictions(doc)
	recordExtracted(ctx, "prediction", len(predictions))
	recordExtracted(ctx, "message", len(messages))
	return predictions, messages, nil
}
