package lookup

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nextbuscli/pkg/nextbus"
)

const routeConfigXML = `<?xml version="1.0" encoding="utf-8" ?>
<body copyright="All data copyright AC Transit 2024.">
<route tag="18" title="18 - Park Blvd">
<stop tag="1012430" title="E. 59th/Telegraph" stopId="55555"/>
<stop tag="1036440" title="Park Blvd &amp; Wellington St" stopId="52246"/>
<stop tag="1018890" title="Lakeshore Av &amp; Trestle Glen Rd" stopId="51418"/>
</route>
</body>`

const predictionsXML = `<?xml version="1.0" encoding="utf-8" ?>
<body>
<predictions agencyTitle="AC Transit" routeTag="18" stopTitle="E. 59th/Telegraph">
<direction title="Inbound to Downtown">
<prediction minutes="5" dirTag="18_1_var0"/>
<prediction minutes="21" dirTag="18_1_var0"/>
</direction>
<message text="Sunday schedule on Memorial Day."/>
</predictions>
</body>`

// feedServer serves routeConfig and predictions fixtures and records the
// query string of every predictions request.
func feedServer(t *testing.T, predictionQueries *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		switch r.URL.Query().Get("command") {
		case "routeConfig":
			w.Write([]byte(routeConfigXML))
		case "predictions":
			*predictionQueries = append(*predictionQueries, r.URL.RawQuery)
			w.Write([]byte(predictionsXML))
		default:
			t.Errorf("unexpected command in query %q", r.URL.RawQuery)
			http.NotFound(w, r)
		}
	}))
}

func newTestLookup(t *testing.T, serverURL, stopQuery string) (*Lookup, *bytes.Buffer) {
	t.Helper()
	l, err := New(Config{
		Agency:    "actransit",
		Route:     "18",
		StopQuery: stopQuery,
	}, nextbus.NewClient(serverURL, 0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var out bytes.Buffer
	l.SetOutput(&out)
	return l, &out
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"missing agency", Config{Route: "18", StopQuery: "59th"}},
		{"missing route", Config{Agency: "actransit", StopQuery: "59th"}},
		{"missing stop query", Config{Agency: "actransit", Route: "18"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config, nextbus.NewClient("", 0)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunMatchingStop(t *testing.T) {
	var predictionQueries []string
	server := feedServer(t, &predictionQueries)
	defer server.Close()

	l, out := newTestLookup(t, server.URL, "59th")

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The 59th substring matches exactly one stop; its tag scopes the
	// predictions query.
	if len(predictionQueries) != 1 {
		t.Fatalf("got %d predictions requests, want 1", len(predictionQueries))
	}
	for _, want := range []string{"a=actransit", "r=18", "s=1012430"} {
		if !strings.Contains(predictionQueries[0], want) {
			t.Errorf("expected %q in predictions query, got %q", want, predictionQueries[0])
		}
	}

	output := out.String()
	if !strings.Contains(output, "Predictions for E. 59th/Telegraph (1012430):") {
		t.Errorf("missing status line in output:\n%s", output)
	}
	if !strings.Contains(output, "5 min  Inbound to Downtown") {
		t.Errorf("missing first prediction line in output:\n%s", output)
	}
	if !strings.Contains(output, "21 min  Inbound to Downtown") {
		t.Errorf("missing second prediction line in output:\n%s", output)
	}
	if !strings.Contains(output, "Sunday schedule on Memorial Day.") {
		t.Errorf("missing message in output:\n%s", output)
	}
}

func TestRunMultipleMatches(t *testing.T) {
	var predictionQueries []string
	server := feedServer(t, &predictionQueries)
	defer server.Close()

	// Both "Park Blvd & Wellington St" and "Lakeshore Av & Trestle Glen Rd"
	// contain " & ".
	l, out := newTestLookup(t, server.URL, " & ")

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(predictionQueries) != 2 {
		t.Fatalf("got %d predictions requests, want 2", len(predictionQueries))
	}
	// Matches are processed in sorted tag order.
	if !strings.Contains(predictionQueries[0], "s=1018890") {
		t.Errorf("first predictions query should target 1018890, got %q", predictionQueries[0])
	}
	if !strings.Contains(predictionQueries[1], "s=1036440") {
		t.Errorf("second predictions query should target 1036440, got %q", predictionQueries[1])
	}

	output := out.String()
	if !strings.Contains(output, "Lakeshore Av & Trestle Glen Rd (1018890)") {
		t.Errorf("missing first stop status line:\n%s", output)
	}
	if !strings.Contains(output, "Park Blvd & Wellington St (1036440)") {
		t.Errorf("missing second stop status line:\n%s", output)
	}
}

func TestRunNoMatch(t *testing.T) {
	var predictionQueries []string
	server := feedServer(t, &predictionQueries)
	defer server.Close()

	l, out := newTestLookup(t, server.URL, "xyzzy")

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run should not fail on no match: %v", err)
	}

	if got, want := out.String(), "Cannot find stop containing \"xyzzy\"\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if len(predictionQueries) != 0 {
		t.Errorf("no predictions query should be issued, got %d", len(predictionQueries))
	}
}

func TestRunCaseSensitiveFilter(t *testing.T) {
	var predictionQueries []string
	server := feedServer(t, &predictionQueries)
	defer server.Close()

	// telegraph does not match E. 59th/Telegraph: the filter is case-sensitive.
	l, out := newTestLookup(t, server.URL, "telegraph")

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), `Cannot find stop containing "telegraph"`) {
		t.Errorf("lowercase query should not match, output:\n%s", out.String())
	}
	if len(predictionQueries) != 0 {
		t.Errorf("no predictions query should be issued, got %d", len(predictionQueries))
	}
}

func TestRunStopsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	l, _ := newTestLookup(t, server.URL, "59th")

	if err := l.Run(context.Background()); err == nil {
		t.Error("expected error when the stops fetch fails, got nil")
	}
}

func TestRunPredictionsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("command") == "routeConfig" {
			w.Write([]byte(routeConfigXML))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	l, _ := newTestLookup(t, server.URL, "59th")

	if err := l.Run(context.Background()); err == nil {
		t.Error("expected error when the predictions fetch fails, got nil")
	}
}
