package parser

import (
	"encoding/json"

	"nextbuscli/pkg/types"

	"github.com/clbanning/mxj/v2"
)

// ParseRoutes extracts every route element under body from a decoded
// routeList response, in document order.
func ParseRoutes(doc mxj.Map) []types.Route {
	var routes []types.Route
	for _, body := range elements(doc, "body") {
		for _, el := range elements(body, "route") {
			routes = append(routes, types.Route{
				Tag:        attr(el, "tag"),
				Title:      attr(el, "title"),
				ShortTitle: attr(el, "shortTitle"),
			})
		}
	}
	return routes
}

// ParseStops extracts every stop element directly under body/route from a
// decoded routeConfig response. Stop references nested inside direction
// elements carry only a tag attribute and are not stop definitions, so they
// are not visited.
func ParseStops(doc mxj.Map) []types.Stop {
	var stops []types.Stop
	for _, body := range elements(doc, "body") {
		for _, route := range elements(body, "route") {
			for _, el := range elements(route, "stop") {
				stops = append(stops, types.Stop{
					Tag:        attr(el, "tag"),
					Title:      attr(el, "title"),
					ShortTitle: attr(el, "shortTitle"),
					StopID:     attr(el, "stopId"),
				})
			}
		}
	}
	return stops
}

// ParsePredictions extracts arrival predictions and service messages from a
// decoded predictions response. One Prediction is produced per prediction
// element, carrying the title of its enclosing direction. Messages are the
// text attributes of the message elements, in document order.
func ParsePredictions(doc mxj.Map) ([]types.Prediction, []string) {
	var predictions []types.Prediction
	var messages []string
	for _, body := range elements(doc, "body") {
		for _, preds := range elements(body, "predictions") {
			for _, msg := range elements(preds, "message") {
				messages = append(messages, attr(msg, "text"))
			}
			for _, dir := range elements(preds, "direction") {
				dirTitle := attr(dir, "title")
				for _, el := range elements(dir, "prediction") {
					predictions = append(predictions, types.Prediction{
						Minutes:  attr(el, "minutes"),
						DirTitle: dirTitle,
						DirTag:   attr(el, "dirTag"),
					})
				}
			}
		}
	}
	return predictions, messages
}

// elements returns the child elements of node with the given name.
// mxj decodes a repeated element as []interface{}, a single one as
// map[string]interface{}, and one with neither attributes nor children as a
// bare string; all three shapes are normalized here.
func elements(node map[string]interface{}, name string) []map[string]interface{} {
	switch v := node[name].(type) {
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case map[string]interface{}:
				out = append(out, m)
			case string:
				out = append(out, map[string]interface{}{})
			}
		}
		return out
	case map[string]interface{}:
		return []map[string]interface{}{v}
	case string:
		return []map[string]interface{}{{}}
	default:
		return nil
	}
}

// attr returns an attribute value from an mxj element map, using mxj's
// default "-" attribute key prefix. Absent attributes yield "".
func attr(node map[string]interface{}, name string) string {
	if s, ok := node["-"+name].(string); ok {
		return s
	}
	return ""
}

// ToJSON renders any record or record collection as indented JSON. The CLI
// prints text; this is a library capability.
func ToJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
