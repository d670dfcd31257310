package types

import "fmt"

// Route is one bus line of an agency. Tag is the stable identifier used in
// routeConfig and predictions queries; Title is the display name.
type Route struct {
	Tag        string `json:"tag"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title,omitempty"`
}

func (r Route) String() string {
	return fmt.Sprintf("%s (%s)", r.Title, r.Tag)
}

// Stop is one physical stop along a route.
type Stop struct {
	Tag        string `json:"tag"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title,omitempty"`
	StopID     string `json:"stop_id,omitempty"`
}

func (s Stop) String() string {
	return fmt.Sprintf("%s (%s)", s.Title, s.Tag)
}

// Prediction is one estimated arrival for a stop in one direction. Minutes is
// kept textual verbatim from the feed, which may emit values such as
// "approaching" instead of a number.
type Prediction struct {
	Minutes  string `json:"minutes"`
	DirTitle string `json:"dir_title"`
	DirTag   string `json:"dir_tag,omitempty"`
}

func (p Prediction) String() string {
	return fmt.Sprintf("%s min  %s", p.Minutes, p.DirTitle)
}
