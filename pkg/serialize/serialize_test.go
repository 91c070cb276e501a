package serialize

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
)

func sampleCollection() lc.Collection {
	return lc.Collection{
		Connections: []lc.Connection{
			{
				ID:                "http://ex.org/connections/20260205/SJ1/1",
				DepartureStop:     "http://ex.org/stops/S1",
				ArrivalStop:       "http://ex.org/stops/S2",
				DepartureTime:     "2026-02-05T10:00:00Z",
				ArrivalTime:       "2026-02-05T10:30:00Z",
				Route:             util.Ptr("http://ex.org/lines/L1"),
				Headsign:          util.Ptr(`Harbour "North" & <East>`),
				DepartureDelay:    util.Ptr(300),
				DepartureStopName: util.Ptr("First"),
			},
		},
		VehiclePositions: []lc.VehiclePosition{
			{
				VehicleID:  "V1",
				RecordedAt: "2026-02-05T10:00:00Z",
				Latitude:   util.Ptr(59.9),
				Longitude:  util.Ptr(10.7),
				Monitored:  true,
			},
		},
	}
}

func render(t *testing.T, format Format, pretty bool) string {
	t.Helper()

	var buffer bytes.Buffer
	err := Write(&buffer, sampleCollection(), uri.New("http://ex.org", nil), Options{Format: format, Pretty: pretty})
	require.NoError(t, err)

	return buffer.String()
}

func TestParseFormat(t *testing.T) {
	for name, expected := range map[string]Format{
		"jsonld": FormatJSONLD,
		"TTL":    FormatTurtle,
		"nt":     FormatNTriples,
		"xml":    FormatRDFXML,
		"csv":    FormatCSV,
	} {
		format, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, expected, format)
	}

	_, err := ParseFormat("yaml")
	assert.Error(t, err)

	assert.Equal(t, "text/turtle", FormatTurtle.ContentType())
}

func TestJSONLD(t *testing.T) {
	output := render(t, FormatJSONLD, true)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	context := decoded["@context"].(map[string]any)
	assert.Equal(t, lc.NamespaceLC, context["lc"])

	graph := decoded["@graph"].([]any)
	require.Len(t, graph, 2)

	connection := graph[0].(map[string]any)
	assert.Equal(t, "lc:Connection", connection["@type"])
	assert.Equal(t, `Harbour "North" & <East>`, connection["gtfs:headsign"])
	assert.Contains(t, output, "& <East>", "HTML characters are not escaped")
	assert.Contains(t, output, "\n  ")

	compact := render(t, FormatJSONLD, false)
	assert.Equal(t, 1, strings.Count(compact, "\n"))
	assert.Equal(t, compact, render(t, FormatJSONLD, false))
}

func TestEmptyJSONLD(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, Write(&buffer, lc.Collection{}, uri.Default(), Options{Format: FormatJSONLD}))
	assert.Contains(t, buffer.String(), `"@graph":[]`)
}

func TestNTriples(t *testing.T) {
	output := render(t, FormatNTriples, false)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	assert.Contains(t, lines, "<http://ex.org/connections/20260205/SJ1/1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://semweb.mmlab.be/ns/linkedconnections#Connection> .")
	assert.Contains(t, lines, `<http://ex.org/connections/20260205/SJ1/1> <http://semweb.mmlab.be/ns/linkedconnections#departureDelay> "300"^^<http://www.w3.org/2001/XMLSchema#integer> .`)
	assert.Contains(t, lines, `<http://ex.org/connections/20260205/SJ1/1> <http://vocab.gtfs.org/terms#headsign> "Harbour \"North\" & <East>" .`)
	assert.Contains(t, lines, `<http://ex.org/stops/S1> <http://data.europa.eu/949/Name> "First" .`)
	assert.Contains(t, output, "_:b0 <http://www.w3.org/2003/01/geo/wgs84_pos#lat> ")

	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}
}

func TestTurtle(t *testing.T) {
	output := render(t, FormatTurtle, false)

	assert.True(t, strings.HasPrefix(output, "@prefix lc: <http://semweb.mmlab.be/ns/linkedconnections#> ."))
	assert.Contains(t, output, "<http://ex.org/connections/20260205/SJ1/1>\n    a lc:Connection ;")
	assert.Contains(t, output, `lc:departureDelay "300"^^xsd:integer ;`)
	assert.Contains(t, output, `lc:departureTime "2026-02-05T10:00:00Z"^^xsd:dateTime ;`)
	assert.Contains(t, output, "<http://ex.org/vehicles/V1>\n    a siri:VehicleActivity ;")
	assert.Contains(t, output, "siri:vehicleLocation _:b0")
}

func TestRDFXML(t *testing.T) {
	output := render(t, FormatRDFXML, false)

	decoder := xml.NewDecoder(strings.NewReader(output))
	for {
		_, err := decoder.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error(), "output is well formed")
			break
		}
	}

	assert.Contains(t, output, `<rdf:Description rdf:about="http://ex.org/connections/20260205/SJ1/1">`)
	assert.Contains(t, output, `<rdf:type rdf:resource="http://semweb.mmlab.be/ns/linkedconnections#Connection"/>`)
	assert.Contains(t, output, `<gtfs:headsign>Harbour &#34;North&#34; &amp; &lt;East&gt;</gtfs:headsign>`)
	assert.Contains(t, output, `<rdf:Description rdf:nodeID="b0">`)
}

func TestSplitIRI(t *testing.T) {
	namespace, local := splitIRI("http://example.org/vocab#term")
	assert.Equal(t, "http://example.org/vocab#", namespace)
	assert.Equal(t, "term", local)

	var buffer bytes.Buffer
	err := WriteRDFXML(&buffer, []lc.Triple{{
		Subject:   lc.IRI("http://ex.org/a"),
		Predicate: lc.IRI("http://example.org/vocab/related"),
		Object:    lc.IRI("http://ex.org/b"),
	}})
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), `xmlns:ns0="http://example.org/vocab/"`)
	assert.Contains(t, buffer.String(), `<ns0:related rdf:resource="http://ex.org/b"/>`)
}

func TestIRIEscaping(t *testing.T) {
	triples := []lc.Triple{{
		Subject:   lc.IRI("http://ex.org/stops/Oslo S"),
		Predicate: lc.IRI("http://example.org/vocab/related"),
		Object:    lc.IRI("http://ex.org/lines/<1>"),
	}}

	var ntriples bytes.Buffer
	require.NoError(t, WriteNTriples(&ntriples, triples))
	assert.Equal(t, "<http://ex.org/stops/Oslo%20S> <http://example.org/vocab/related> <http://ex.org/lines/%3C1%3E> .\n", ntriples.String())

	var turtle bytes.Buffer
	require.NoError(t, WriteTurtle(&turtle, triples))
	assert.Contains(t, turtle.String(), "<http://ex.org/stops/Oslo%20S>")
	assert.Contains(t, turtle.String(), "<http://ex.org/lines/%3C1%3E> .")

	var rdfxml bytes.Buffer
	require.NoError(t, WriteRDFXML(&rdfxml, triples))
	assert.Contains(t, rdfxml.String(), `rdf:about="http://ex.org/stops/Oslo%20S"`)

	assert.Equal(t, "http://ex.org/a%7Cb%5C", escapeIRI(`http://ex.org/a|b\`))
}

func TestJSON(t *testing.T) {
	output := render(t, FormatJSON, false)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	connections := decoded["connections"].([]any)
	require.Len(t, connections, 1)
	assert.Equal(t, "First", connections[0].(map[string]any)["departure_stop_name"])

	basic, err := Reduce(sampleCollection().Connections, "basic")
	require.NoError(t, err)
	data, err := json.Marshal(basic)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "departure_stop_name")
	assert.Contains(t, string(data), "departure_delay")
}

func TestCSV(t *testing.T) {
	output := render(t, FormatCSV, false)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,departure_stop,departure_time,arrival_stop,arrival_time,route"))
	assert.True(t, strings.HasPrefix(lines[1], "http://ex.org/connections/20260205/SJ1/1,http://ex.org/stops/S1,2026-02-05T10:00:00Z"))
	assert.Contains(t, lines[1], ",300,")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nt")

	require.NoError(t, WriteFile(path, sampleCollection(), uri.New("http://ex.org", nil), Options{Format: FormatNTriples}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render(t, FormatNTriples, false), string(data))
}
