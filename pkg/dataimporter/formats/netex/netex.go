package netex

import (
	"fmt"
	"io"
	"os"

	"github.com/sourcegraph/conc/iter"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

var (
	passingTimeTags   = []string{"TimetabledPassingTime", "PassingTime"}
	stopRefTags       = []string{"StopPointRef", "ScheduledStopPointRef", "StopPointInJourneyPatternRef", "QuayRef", "StopPlaceRef"}
	departureTimeTags = []string{"DepartureTime", "AimedDepartureTime", "ExpectedDepartureTime"}
	arrivalTimeTags   = []string{"ArrivalTime", "AimedArrivalTime", "ExpectedArrivalTime"}
	callTimeTags      = []string{"Time", "ArrivalTime", "DepartureTime", "AimedArrivalTime", "AimedDepartureTime"}
)

type NeTEx struct {
	root *xmltree.Node
}

func (n *NeTEx) ParseFile(reader io.Reader) error {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return err
	}

	n.root = root

	return nil
}

func (n *NeTEx) Extract(pctx *parsing.Context, strategy *uri.Strategy) (lc.Collection, error) {
	connections, err := ExtractConnections(pctx, n.root, strategy)
	if err != nil {
		return lc.Collection{}, err
	}

	return lc.Collection{Connections: connections}, nil
}

// ParseFiles extracts every file concurrently and concatenates the results in
// input order.
func ParseFiles(pctx *parsing.Context, paths []string, strategy *uri.Strategy) ([]lc.Connection, error) {
	type fileResult struct {
		connections []lc.Connection
		context     *parsing.Context
	}

	results, err := iter.MapErr(paths, func(path *string) (fileResult, error) {
		fileContext := pctx.Child(*path)

		root, err := xmltree.ParseFile(*path)
		if err != nil {
			return fileResult{}, err
		}

		connections, err := ExtractConnections(fileContext, root, strategy)
		if err != nil {
			return fileResult{}, fmt.Errorf("%s: %w", *path, err)
		}

		return fileResult{connections: connections, context: fileContext}, nil
	})
	if err != nil {
		return nil, err
	}

	var connections []lc.Connection
	for _, result := range results {
		pctx.Merge(result.context)
		connections = append(connections, result.connections...)
	}

	return connections, nil
}

// Parse reads each source in turn.
func Parse(pctx *parsing.Context, sources []io.Reader, strategy *uri.Strategy) ([]lc.Connection, error) {
	var connections []lc.Connection

	for _, source := range sources {
		root, err := xmltree.Parse(source)
		if err != nil {
			return nil, err
		}

		extracted, err := ExtractConnections(pctx, root, strategy)
		if err != nil {
			return nil, err
		}
		connections = append(connections, extracted...)
	}

	return connections, nil
}

func ParseFile(pctx *parsing.Context, path string, strategy *uri.Strategy) ([]lc.Connection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(pctx, []io.Reader{file}, strategy)
}

// ExtractConnections builds the connections of every ServiceJourney in the
// document.
func ExtractConnections(pctx *parsing.Context, root *xmltree.Node, strategy *uri.Strategy) ([]lc.Connection, error) {
	if root == nil {
		return nil, nil
	}

	index := newDocumentIndex(root)

	var connections []lc.Connection

	for journey := range xmltree.IterElements(root, "ServiceJourney") {
		extracted, err := extractJourney(pctx, journey, index, strategy)
		if err != nil {
			return nil, err
		}

		connections = append(connections, extracted...)
	}

	return connections, nil
}

func journeyID(journey *xmltree.Node) (string, bool) {
	if id, ok := journey.Attribute("id"); ok && id != "" {
		return id, true
	}

	return xmltree.FindText(journey, "ServiceJourneyRef", "ServiceJourneyId", "Id")
}

func extractJourney(pctx *parsing.Context, journey *xmltree.Node, index *documentIndex, strategy *uri.Strategy) ([]lc.Connection, error) {
	serviceJourneyID, ok := journeyID(journey)
	if !ok {
		pctx.Skip("ServiceJourney without identifier", "")
		return nil, nil
	}

	visits := extractPassingTimes(pctx, journey)
	if len(visits) == 0 {
		visits = extractCalls(pctx, journey)
	}
	if len(visits) == 0 {
		pctx.Skip("ServiceJourney without stop visits", serviceJourneyID)
		return nil, nil
	}

	visits = formats.SortStopVisits(visits)

	trip, err := strategy.ServiceJourney(serviceJourneyID)
	if err != nil {
		return nil, err
	}

	template := lc.Connection{
		Trip: &trip,
	}

	if lineRef, ok := xmltree.FindRef(journey, "LineRef"); ok {
		route, err := strategy.Line(lineRef)
		if err != nil {
			return nil, err
		}
		template.Route = &route

		if line, ok := index.lines[lineRef]; ok {
			template.LineName = line.name
			template.LinePublicCode = line.publicCode
			template.TransportMode = line.transportMode
		}
	}

	if operatorRef, ok := xmltree.FindRef(journey, "OperatorRef", "OperatorRefStructure"); ok {
		operator, err := strategy.Operator(operatorRef)
		if err != nil {
			return nil, err
		}
		template.Operator = &operator
	}

	if mode, ok := xmltree.FindText(journey, "TransportMode"); ok {
		template.TransportMode = &mode
	}
	if displayRef, ok := xmltree.FindRef(journey, "DestinationDisplayRef"); ok {
		if frontText, ok := index.destinationDisplays[displayRef]; ok {
			template.Headsign = util.Ptr(frontText)
		}
	}
	if access, ok := xmltree.FindText(journey, "WheelchairAccess"); ok {
		template.WheelchairAccessible = util.Ptr(util.IsTrue(access))
	}

	var connections []lc.Connection

	for sequence, leg := range formats.Legs(visits) {
		departure, arrival := leg[0], leg[1]

		departureTime := departure.DepartureTime()
		arrivalTime := arrival.ArrivalTime()
		if departureTime == "" || arrivalTime == "" {
			pctx.Skip("Connection without departure or arrival time", fmt.Sprintf("%s#%d", serviceJourneyID, sequence))
			continue
		}

		id, err := strategy.Connection(util.CompactDate(departureTime), serviceJourneyID, sequence)
		if err != nil {
			return nil, err
		}
		departureStop, err := strategy.Stop(departure.StopRef)
		if err != nil {
			return nil, err
		}
		arrivalStop, err := strategy.Stop(arrival.StopRef)
		if err != nil {
			return nil, err
		}

		connection := template
		connection.ID = id
		connection.DepartureStop = departureStop
		connection.ArrivalStop = arrivalStop
		connection.DepartureTime = departureTime
		connection.ArrivalTime = arrivalTime

		if stop, ok := index.stop(departure.StopRef); ok {
			connection.DepartureStopName = stop.name
			connection.DepartureLat, connection.DepartureLon = stop.latitude, stop.longitude
		}
		if stop, ok := index.stop(arrival.StopRef); ok {
			connection.ArrivalStopName = stop.name
			connection.ArrivalLat, connection.ArrivalLon = stop.latitude, stop.longitude
		}

		pctx.Success(id)
		connections = append(connections, connection)
	}

	return connections, nil
}

// extractPassingTimes reads the TimetabledPassingTime style calling pattern.
func extractPassingTimes(pctx *parsing.Context, journey *xmltree.Node) []formats.StopVisit {
	var visits []formats.StopVisit

	for _, passingTime := range xmltree.FindAll(journey, passingTimeTags...) {
		stopRef, ok := xmltree.FindRef(passingTime, stopRefTags...)
		if !ok {
			pctx.Skip("Passing time without stop reference", "")
			continue
		}

		order, hasOrder := passingTime.Attribute("order")
		if !hasOrder {
			order, hasOrder = xmltree.FindText(passingTime, "SequenceNumber", "Order")
		}

		departure, _ := xmltree.FindText(passingTime, departureTimeTags...)
		arrival, _ := xmltree.FindText(passingTime, arrivalTimeTags...)

		visits = append(visits, formats.StopVisit{
			Order:          util.ParseSequence(order, hasOrder),
			StopRef:        stopRef,
			AimedDeparture: departure,
			AimedArrival:   arrival,
		})
	}

	return visits
}

// extractCalls reads the Call style calling pattern, where times sit inside
// Arrival and Departure wrappers.
func extractCalls(pctx *parsing.Context, journey *xmltree.Node) []formats.StopVisit {
	var visits []formats.StopVisit

	for call := range xmltree.IterElements(journey, "Call") {
		stopRef, ok := xmltree.FindRef(call, stopRefTags...)
		if !ok {
			pctx.Skip("Call without stop reference", "")
			continue
		}

		order, hasOrder := call.Attribute("order")
		if !hasOrder {
			order, hasOrder = xmltree.FindText(call, "Order", "SequenceNumber")
		}

		visits = append(visits, formats.StopVisit{
			Order:          util.ParseSequence(order, hasOrder),
			StopRef:        stopRef,
			AimedArrival:   callTime(call, "Arrival"),
			AimedDeparture: callTime(call, "Departure"),
		})
	}

	return visits
}

func callTime(call *xmltree.Node, wrapper string) string {
	for element := range xmltree.IterElements(call, wrapper) {
		if value, ok := xmltree.FindText(element, callTimeTags...); ok {
			return value
		}
	}

	return ""
}
