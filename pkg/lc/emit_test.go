package lc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
)

func sampleConnection() Connection {
	return Connection{
		ID:                   "http://ex.org/connections/20260205/SJ1/1",
		DepartureStop:        "http://ex.org/stops/S1",
		ArrivalStop:          "http://ex.org/stops/S2",
		DepartureTime:        "2026-02-05T10:00:00Z",
		ArrivalTime:          "2026-02-05T10:30:00Z",
		Route:                util.Ptr("http://ex.org/lines/L1"),
		LinePublicCode:       util.Ptr("1"),
		DepartureDelay:       util.Ptr(-30),
		DepartureStopName:    util.Ptr("First"),
		DepartureLat:         util.Ptr(59.9),
		DepartureLon:         util.Ptr(10.7),
		ArrivalLat:           util.Ptr(59.8),
		WheelchairAccessible: util.Ptr(true),
	}
}

func TestConnectionDocument(t *testing.T) {
	document := sampleConnection().Document()

	assert.Equal(t, "http://ex.org/connections/20260205/SJ1/1", document.ID)
	assert.Equal(t, TypeConnection, document.Type)

	departure := document.Properties["lc:departureStop"].(Ref)
	assert.Equal(t, "http://ex.org/stops/S1", departure.ID)
	assert.Equal(t, "First", departure.Properties["netex:Name"])
	assert.Equal(t, 59.9, departure.Properties["geo:lat"])

	// half a coordinate pair is not emitted
	arrival := document.Properties["lc:arrivalStop"].(Ref)
	assert.NotContains(t, arrival.Properties, "geo:lat")

	assert.Equal(t, TypedLiteral{Value: "-30", Datatype: DatatypeInteger}, document.Properties["lc:departureDelay"])
	assert.NotContains(t, document.Properties, "lc:arrivalDelay")
	assert.Equal(t, TypedLiteral{Value: "true", Datatype: DatatypeBoolean}, document.Properties["netex:wheelchairAccessible"])

	line := document.Properties["netex:line"].(Ref)
	assert.Equal(t, "1", line.Properties["netex:PublicCode"])
	assert.NotContains(t, line.Properties, "netex:Name")
}

func TestDocumentJSON(t *testing.T) {
	data, err := json.Marshal(sampleConnection().Document())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "lc:Connection", decoded["@type"])
	assert.Equal(t, map[string]any{"@value": "2026-02-05T10:00:00Z", "@type": "xsd:dateTime"}, decoded["lc:departureTime"])
	assert.Equal(t, map[string]any{"@id": "http://ex.org/lines/L1", "netex:PublicCode": "1"}, decoded["netex:line"])

	again, err := json.Marshal(sampleConnection().Document())
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestTriples(t *testing.T) {
	triples := Triples(sampleConnection().Document())
	require.NotEmpty(t, triples)

	first := triples[0]
	assert.Equal(t, IRI("http://ex.org/connections/20260205/SJ1/1"), first.Subject)
	assert.Equal(t, NamespaceRDF+"type", first.Predicate.Value)
	assert.Equal(t, NamespaceLC+"Connection", first.Object.Value)

	var stopLat *Triple
	for i := range triples {
		if triples[i].Subject.Value == "http://ex.org/stops/S1" && triples[i].Predicate.Value == NamespaceGeo+"lat" {
			stopLat = &triples[i]
		}
	}
	require.NotNil(t, stopLat, "stop coordinates hang off the stop IRI")
	assert.Equal(t, "59.9", stopLat.Object.Value)
	assert.Equal(t, NamespaceXSD+"double", stopLat.Object.Datatype)

	assert.Equal(t, triples, Triples(sampleConnection().Document()))
}

func TestVehiclePositionDocument(t *testing.T) {
	strategy := uri.New("http://ex.org", nil)

	position := VehiclePosition{
		VehicleID:   "V1",
		RecordedAt:  "2026-02-05T10:00:00Z",
		Latitude:    util.Ptr(59.9),
		LineRef:     util.Ptr("L1"),
		NextStopRef: util.Ptr("S9"),
		Monitored:   true,
	}

	document, err := position.Document(strategy)
	require.NoError(t, err)

	assert.Equal(t, "http://ex.org/vehicles/V1", document.ID)
	assert.Equal(t, TypeVehicleActivity, document.Type)
	assert.Equal(t, true, document.Properties["siri:monitored"])
	assert.NotContains(t, document.Properties, "siri:vehicleLocation")
	assert.NotContains(t, document.Properties, "siri:inCongestion")
	assert.Equal(t, Ref{ID: "http://ex.org/lines/L1"}, document.Properties["netex:line"])
	assert.Equal(t, Ref{ID: "http://ex.org/stops/S9"}, document.Properties["siri:nextStopPoint"])

	position.Longitude = util.Ptr(10.7)
	document, err = position.Document(strategy)
	require.NoError(t, err)
	assert.Equal(t, Node{"geo:lat": 59.9, "geo:long": 10.7}, document.Properties["siri:vehicleLocation"])

	triples := Triples(document)
	blanks := 0
	for _, triple := range triples {
		if triple.Subject.Kind == TermBlank {
			blanks++
		}
	}
	assert.Equal(t, 2, blanks)
}

func TestServiceAlertDocument(t *testing.T) {
	strategy := uri.New("http://ex.org", nil)

	alert := ServiceAlert{
		SituationNumber: "SIT-1",
		CreationTime:    "2026-02-05T08:00:00Z",
		Summary:         util.Ptr("Closed"),
		ValidityStart:   util.Ptr("2026-02-05T08:00:00Z"),
		AffectedStops: []AffectedStop{
			{StopRef: "S1", StopName: util.Ptr("First")},
			{StopRef: "S2"},
		},
		AffectedLines: []AffectedLine{{LineRef: "LINE1"}},
		Consequences: []Consequence{
			{Condition: util.Ptr("disturbed"), BlockingJourneyPlanner: true},
		},
	}

	document, err := alert.Document(strategy)
	require.NoError(t, err)

	assert.Equal(t, "http://ex.org/alerts/SIT-1", document.ID)
	assert.Equal(t, DateTime("2026-02-05T08:00:00Z"), document.Properties["siri:validityStart"])
	assert.Equal(t, []any{
		Ref{ID: "http://ex.org/stops/S1", Properties: map[string]any{"siri:stopPointName": "First"}},
		Ref{ID: "http://ex.org/stops/S2", Properties: map[string]any{}},
	}, document.Properties["siri:affectedStopPoints"])
	assert.Equal(t, []any{Ref{ID: "http://ex.org/lines/LINE1"}}, document.Properties["siri:affectedLines"])
	assert.Equal(t, []any{Node{"siri:condition": "disturbed", "siri:blockingJourneyPlanner": true}}, document.Properties["siri:consequences"])
}

func TestCollectionDocumentsPropagatesConfigurationErrors(t *testing.T) {
	strategy := uri.New("http://ex.org", map[string]string{"vehicle": "{base_uri}/v/{fleet}"})

	collection := Collection{
		Connections:      []Connection{sampleConnection()},
		VehiclePositions: []VehiclePosition{{VehicleID: "V1", RecordedAt: "2026-02-05T10:00:00Z"}},
	}

	_, err := collection.Documents(strategy)
	var configErr *uri.ConfigurationError
	assert.ErrorAs(t, err, &configErr)

	documents, err := Collection{Connections: collection.Connections}.Documents(strategy)
	require.NoError(t, err)
	assert.Len(t, documents, 1)
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, NamespaceLC+"Connection", Expand("lc:Connection"))
	assert.Equal(t, "unknown:x", Expand("unknown:x"))

	compact, ok := Compact(NamespaceSIRI + "vehicleLocation")
	assert.True(t, ok)
	assert.Equal(t, "siri:vehicleLocation", compact)

	_, ok = Compact("http://ex.org/stops/S1")
	assert.False(t, ok)

	assert.Equal(t, NamespaceGeo, Context()["geo"])
}
