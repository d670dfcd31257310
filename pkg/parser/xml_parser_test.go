package parser

import (
	"testing"

	"github.com/clbanning/mxj/v2"
)

const routeListXML = `<?xml version="1.0" encoding="utf-8" ?>
<body copyright="All data copyright AC Transit 2024.">
<route tag="1" title="1 - International Blvd" shortTitle="1-Intl"/>
<route tag="18" title="18 - Park Blvd"/>
<route tag="51A" title="51A - Fruitvale BART" shortTitle="51A"/>
</body>`

const routeConfigXML = `<?xml version="1.0" encoding="utf-8" ?>
<body copyright="All data copyright AC Transit 2024.">
<route tag="18" title="18 - Park Blvd" color="006600" oppositeColor="ffffff">
<stop tag="1012430" title="E. 59th/Telegraph" stopId="55555"/>
<stop tag="1036440" title="Park Blvd &amp; Wellington St" shortTitle="Park &amp; Wellington" stopId="52246"/>
<stop tag="1018890" title="Lakeshore Av &amp; Trestle Glen Rd"/>
<direction tag="18_1_var0" title="Inbound to Downtown" useForUI="true">
<stop tag="1012430"/>
<stop tag="1036440"/>
</direction>
<path>
<point lat="37.80952" lon="-122.24092"/>
</path>
</route>
</body>`

const predictionsXML = `<?xml version="1.0" encoding="utf-8" ?>
<body copyright="All data copyright AC Transit 2024.">
<predictions agencyTitle="AC Transit" routeTag="18" routeTitle="18 - Park Blvd" stopTitle="E. 59th/Telegraph">
<direction title="Inbound to Downtown">
<prediction epochTime="1718000000000" seconds="312" minutes="5" dirTag="18_1_var0" vehicle="1418" block="1802"/>
<prediction epochTime="1718000700000" seconds="732" minutes="12" dirTag="18_1_var0" vehicle="1422" block="1804"/>
</direction>
<direction title="Outbound to Montclair">
<prediction minutes="approaching" dirTag="18_0_var0"/>
</direction>
<message text="Masks are required on all buses."/>
<message text="Sunday schedule on Memorial Day."/>
</predictions>
</body>`

func decode(t *testing.T, xml string) mxj.Map {
	t.Helper()
	doc, err := mxj.NewMapXml([]byte(xml))
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return doc
}

func TestParseRoutes(t *testing.T) {
	routes := ParseRoutes(decode(t, routeListXML))

	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 3", len(routes))
	}

	if routes[0].Tag != "1" || routes[0].Title != "1 - International Blvd" || routes[0].ShortTitle != "1-Intl" {
		t.Errorf("unexpected first route: %+v", routes[0])
	}

	// shortTitle absent on the 18
	if routes[1].Tag != "18" || routes[1].ShortTitle != "" {
		t.Errorf("absent shortTitle should map to empty string, got %+v", routes[1])
	}

	// document order preserved
	if routes[2].Tag != "51A" {
		t.Errorf("routes out of document order: %+v", routes)
	}
}

func TestParseRoutesSingleRoute(t *testing.T) {
	xml := `<body><route tag="7" title="7 - Arlington"/></body>`
	routes := ParseRoutes(decode(t, xml))

	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	if routes[0].Tag != "7" {
		t.Errorf("Tag = %q, want %q", routes[0].Tag, "7")
	}
}

func TestParseRoutesEmptyBody(t *testing.T) {
	if routes := ParseRoutes(decode(t, `<body/>`)); len(routes) != 0 {
		t.Errorf("got %d routes from empty body, want 0", len(routes))
	}
}

func TestParseStops(t *testing.T) {
	stops := ParseStops(decode(t, routeConfigXML))

	if len(stops) != 3 {
		t.Fatalf("got %d stops, want 3 (direction stop references must not count)", len(stops))
	}

	first := stops[0]
	if first.Tag != "1012430" || first.Title != "E. 59th/Telegraph" || first.StopID != "55555" {
		t.Errorf("unexpected first stop: %+v", first)
	}
	if first.ShortTitle != "" {
		t.Errorf("absent shortTitle should map to empty string, got %q", first.ShortTitle)
	}

	if stops[1].Title != "Park Blvd & Wellington St" {
		t.Errorf("entity-escaped title not decoded: %q", stops[1].Title)
	}

	// stopId absent on the third
	if stops[2].Tag != "1018890" || stops[2].StopID != "" {
		t.Errorf("absent stopId should map to empty string, got %+v", stops[2])
	}
}

func TestParsePredictions(t *testing.T) {
	predictions, messages := ParsePredictions(decode(t, predictionsXML))

	// 2 predictions inbound + 1 outbound
	if len(predictions) != 3 {
		t.Fatalf("got %d predictions, want 3", len(predictions))
	}

	if predictions[0].Minutes != "5" || predictions[0].DirTitle != "Inbound to Downtown" || predictions[0].DirTag != "18_1_var0" {
		t.Errorf("unexpected first prediction: %+v", predictions[0])
	}
	if predictions[1].Minutes != "12" || predictions[1].DirTitle != "Inbound to Downtown" {
		t.Errorf("unexpected second prediction: %+v", predictions[1])
	}

	// non-numeric minutes is kept verbatim
	if predictions[2].Minutes != "approaching" || predictions[2].DirTitle != "Outbound to Montclair" {
		t.Errorf("unexpected third prediction: %+v", predictions[2])
	}

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0] != "Masks are required on all buses." {
		t.Errorf("unexpected first message: %q", messages[0])
	}
	if messages[1] != "Sunday schedule on Memorial Day." {
		t.Errorf("unexpected second message: %q", messages[1])
	}
}

func TestParsePredictionsEmpty(t *testing.T) {
	xml := `<body><predictions agencyTitle="AC Transit" routeTag="18" stopTitle="E. 59th/Telegraph"/></body>`
	predictions, messages := ParsePredictions(decode(t, xml))

	if len(predictions) != 0 {
		t.Errorf("got %d predictions, want 0", len(predictions))
	}
	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
}

func TestParsePredictionsMissingAttributes(t *testing.T) {
	xml := `<body><predictions>
<direction>
<prediction/>
</direction>
<message/>
</predictions></body>`
	predictions, messages := ParsePredictions(decode(t, xml))

	if len(predictions) != 1 {
		t.Fatalf("got %d predictions, want 1", len(predictions))
	}
	p := predictions[0]
	if p.Minutes != "" || p.DirTitle != "" || p.DirTag != "" {
		t.Errorf("absent attributes should map to empty strings, got %+v", p)
	}
	if len(messages) != 1 || messages[0] != "" {
		t.Errorf("absent text attribute should map to empty string, got %v", messages)
	}
}
