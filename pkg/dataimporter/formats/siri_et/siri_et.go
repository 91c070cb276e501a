package siri_et

import (
	"fmt"
	"io"
	"time"

	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

var stopRefTags = []string{"StopPointRef", "ScheduledStopPointRef"}

type SiriET struct {
	root *xmltree.Node

	// ServiceDate anchors calls that only carry a time of day
	ServiceDate *time.Time
}

func (s *SiriET) ParseFile(reader io.Reader) error {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return err
	}

	s.root = root

	return nil
}

func (s *SiriET) Extract(pctx *parsing.Context, strategy *uri.Strategy) (lc.Collection, error) {
	connections, err := ExtractConnections(pctx, s.root, strategy, s.ServiceDate)
	if err != nil {
		return lc.Collection{}, err
	}

	return lc.Collection{Connections: connections}, nil
}

// ExtractConnections turns every EstimatedVehicleJourney into connections
// carrying real-time delays.
func ExtractConnections(pctx *parsing.Context, root *xmltree.Node, strategy *uri.Strategy, serviceDate *time.Time) ([]lc.Connection, error) {
	if root == nil {
		return nil, nil
	}

	var retrievedRecords int64
	var connections []lc.Connection

	for journey := range xmltree.IterElements(root, "EstimatedVehicleJourney") {
		retrievedRecords += 1

		extracted, err := extractJourney(pctx, journey, strategy, serviceDate)
		if err != nil {
			return nil, err
		}

		connections = append(connections, extracted...)
	}

	pctx.Log().Debug().Int64("retrieved", retrievedRecords).Int("submitted", len(connections)).Msgf("Parsed Siri-ET response")

	return connections, nil
}

func extractJourney(pctx *parsing.Context, journey *xmltree.Node, strategy *uri.Strategy, serviceDate *time.Time) ([]lc.Connection, error) {
	journeyID, ok := xmltree.FindText(journey, "DatedVehicleJourneyRef", "VehicleJourneyRef")
	if !ok {
		pctx.Skip("EstimatedVehicleJourney without journey reference", "")
		return nil, nil
	}

	visits := extractCalls(pctx, journey, journeyID)
	if len(visits) < 2 {
		pctx.Skip("EstimatedVehicleJourney with fewer than two calls", journeyID)
		return nil, nil
	}

	visits = formats.SortStopVisits(visits)

	trip, err := strategy.ServiceJourney(journeyID)
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
	}
	if operatorRef, ok := xmltree.FindRef(journey, "OperatorRef"); ok {
		operator, err := strategy.Operator(operatorRef)
		if err != nil {
			return nil, err
		}
		template.Operator = &operator
	}

	template.Headsign = util.StringPtr(xmltree.FindText(journey, "DestinationName", "DestinationDisplay"))
	template.TransportMode = util.StringPtr(xmltree.FindText(journey, "VehicleMode"))

	var connections []lc.Connection

	for sequence, leg := range formats.Legs(visits) {
		departure, arrival := leg[0], leg[1]
		legID := fmt.Sprintf("%s#%d", journeyID, sequence)

		departureTime, departureDelay, ok := resolve(serviceDate,
			family{departure.ExpectedDeparture, departure.AimedDeparture},
			family{departure.ExpectedArrival, departure.AimedArrival},
		)
		if !ok {
			pctx.Skip("Connection without resolvable departure time", legID)
			continue
		}

		arrivalTime, arrivalDelay, ok := resolve(serviceDate,
			family{arrival.ExpectedArrival, arrival.AimedArrival},
			family{arrival.ExpectedDeparture, arrival.AimedDeparture},
		)
		if !ok {
			pctx.Skip("Connection without resolvable arrival time", legID)
			continue
		}

		id, err := strategy.Connection(departureTime.Time.Format("20060102"), journeyID, sequence)
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
		connection.DepartureTime = departureTime.String()
		connection.ArrivalTime = arrivalTime.String()
		connection.DepartureDelay = departureDelay
		connection.ArrivalDelay = arrivalDelay
		connection.DepartureStatus = util.StringPtr(departure.DepartureStatus, departure.DepartureStatus != "")
		connection.ArrivalStatus = util.StringPtr(arrival.ArrivalStatus, arrival.ArrivalStatus != "")

		pctx.Success(id)
		connections = append(connections, connection)
	}

	return connections, nil
}

// extractCalls reads recorded calls, whose observed times are Actual*, and
// estimated calls in document order.
func extractCalls(pctx *parsing.Context, journey *xmltree.Node, journeyID string) []formats.StopVisit {
	var visits []formats.StopVisit

	for _, call := range xmltree.FindAll(journey, "RecordedCall", "EstimatedCall") {
		stopRef, ok := xmltree.FindRef(call, stopRefTags...)
		if !ok {
			pctx.Skip("Call without stop reference", journeyID)
			continue
		}

		order, hasOrder := xmltree.FindText(call, "Order", "VisitNumber")

		visit := formats.StopVisit{
			Order:          util.ParseSequence(order, hasOrder),
			StopRef:        stopRef,
			AimedArrival:   text(call, "AimedArrivalTime"),
			AimedDeparture: text(call, "AimedDepartureTime"),
		}

		if call.LocalName() == "RecordedCall" {
			visit.ExpectedArrival = text(call, "ActualArrivalTime", "ExpectedArrivalTime")
			visit.ExpectedDeparture = text(call, "ActualDepartureTime", "ExpectedDepartureTime")
		} else {
			visit.ExpectedArrival = text(call, "ExpectedArrivalTime")
			visit.ExpectedDeparture = text(call, "ExpectedDepartureTime")
		}

		visit.ArrivalStatus = text(call, "ArrivalStatus")
		visit.DepartureStatus = text(call, "DepartureStatus")

		visits = append(visits, visit)
	}

	return visits
}

func text(node *xmltree.Node, names ...string) string {
	value, _ := xmltree.FindText(node, names...)
	return value
}

// family is an expected/aimed pair for the same event.
type family struct {
	expected string
	aimed    string
}

// resolve picks the first family with any value, prefers its expected time
// and derives the delay from that family only.
func resolve(serviceDate *time.Time, families ...family) (util.Timestamp, *int, bool) {
	for _, f := range families {
		if f.expected == "" && f.aimed == "" {
			continue
		}

		expected, hasExpected := normalize(f.expected, serviceDate)
		aimed, hasAimed := normalize(f.aimed, serviceDate)

		var delay *int
		if hasExpected && hasAimed {
			delay = util.Ptr(expected.Sub(aimed))
		}

		switch {
		case hasExpected:
			return expected, delay, true
		case hasAimed:
			return aimed, delay, true
		default:
			return util.Timestamp{}, nil, false
		}
	}

	return util.Timestamp{}, nil, false
}

// normalize accepts full timestamps, or a time of day when a service date is
// known.
func normalize(value string, serviceDate *time.Time) (util.Timestamp, bool) {
	if value == "" {
		return util.Timestamp{}, false
	}

	if ts, err := util.ParseTimestamp(value); err == nil {
		return ts, true
	}

	if serviceDate == nil {
		return util.Timestamp{}, false
	}

	ts, err := util.ParseTimeOfDay(value, *serviceDate)
	if err != nil {
		return util.Timestamp{}, false
	}

	return ts, true
}
