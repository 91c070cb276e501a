package lc

import (
	"github.com/travigo/linkedconnections/pkg/uri"
)

func stopRef(id string, name *string, lat *float64, lon *float64) Ref {
	properties := map[string]any{}

	if name != nil && *name != "" {
		properties["netex:Name"] = *name
	}
	if lat != nil && lon != nil {
		properties["geo:lat"] = *lat
		properties["geo:long"] = *lon
	}

	return Ref{ID: id, Properties: properties}
}

func setString(properties map[string]any, key string, value *string) {
	if value != nil && *value != "" {
		properties[key] = *value
	}
}

// Document maps the connection onto the Linked Connections vocabulary.
func (c Connection) Document() Document {
	properties := map[string]any{
		"lc:departureStop": stopRef(c.DepartureStop, c.DepartureStopName, c.DepartureLat, c.DepartureLon),
		"lc:arrivalStop":   stopRef(c.ArrivalStop, c.ArrivalStopName, c.ArrivalLat, c.ArrivalLon),
		"lc:departureTime": DateTime(c.DepartureTime),
		"lc:arrivalTime":   DateTime(c.ArrivalTime),
	}

	if c.Route != nil && *c.Route != "" {
		line := Ref{ID: *c.Route, Properties: map[string]any{}}
		setString(line.Properties, "netex:Name", c.LineName)
		setString(line.Properties, "netex:PublicCode", c.LinePublicCode)
		properties["netex:line"] = line
	}
	if c.Trip != nil && *c.Trip != "" {
		properties["netex:serviceJourney"] = Ref{ID: *c.Trip}
	}
	if c.Operator != nil && *c.Operator != "" {
		properties["netex:operator"] = Ref{ID: *c.Operator}
	}

	setString(properties, "gtfs:headsign", c.Headsign)

	if c.DepartureDelay != nil {
		properties["lc:departureDelay"] = Integer(*c.DepartureDelay)
	}
	if c.ArrivalDelay != nil {
		properties["lc:arrivalDelay"] = Integer(*c.ArrivalDelay)
	}

	setString(properties, "siri:departureStatus", c.DepartureStatus)
	setString(properties, "siri:arrivalStatus", c.ArrivalStatus)
	setString(properties, "netex:transportMode", c.TransportMode)

	if c.WheelchairAccessible != nil {
		properties["netex:wheelchairAccessible"] = Boolean(*c.WheelchairAccessible)
	}
	if c.BikesAllowed != nil {
		properties["gtfs:bikesAllowed"] = Boolean(*c.BikesAllowed)
	}

	return Document{
		ID:         c.ID,
		Type:       TypeConnection,
		Properties: properties,
	}
}

func (p VehiclePosition) Document(strategy *uri.Strategy) (Document, error) {
	id, err := strategy.Vehicle(p.VehicleID)
	if err != nil {
		return Document{}, err
	}

	properties := map[string]any{
		"siri:recordedAtTime": DateTime(p.RecordedAt),
		"siri:monitored":      p.Monitored,
	}

	if p.Latitude != nil && p.Longitude != nil {
		properties["siri:vehicleLocation"] = Node{
			"geo:lat":  *p.Latitude,
			"geo:long": *p.Longitude,
		}
	}
	if p.Bearing != nil {
		properties["siri:bearing"] = *p.Bearing
	}
	if p.Speed != nil {
		properties["siri:speed"] = *p.Speed
	}

	setString(properties, "siri:delay", p.Delay)
	setString(properties, "siri:progressRate", p.ProgressRate)

	refs := []struct {
		key     string
		value   *string
		resolve func(string) (string, error)
	}{
		{"netex:line", p.LineRef, strategy.Line},
		{"netex:serviceJourney", p.JourneyRef, strategy.ServiceJourney},
		{"netex:operator", p.OperatorRef, strategy.Operator},
		{"siri:destinationRef", p.DestinationRef, strategy.Stop},
		{"siri:currentStopPoint", p.CurrentStopRef, strategy.Stop},
		{"siri:nextStopPoint", p.NextStopRef, strategy.Stop},
	}

	for _, ref := range refs {
		if ref.value == nil || *ref.value == "" {
			continue
		}

		resolved, err := ref.resolve(*ref.value)
		if err != nil {
			return Document{}, err
		}
		properties[ref.key] = Ref{ID: resolved}
	}

	setString(properties, "siri:originName", p.OriginName)
	setString(properties, "siri:destinationName", p.DestinationName)

	if p.InCongestion {
		properties["siri:inCongestion"] = true
	}

	setString(properties, "siri:occupancy", p.Occupancy)

	return Document{
		ID:         id,
		Type:       TypeVehicleActivity,
		Properties: properties,
	}, nil
}

func (a ServiceAlert) Document(strategy *uri.Strategy) (Document, error) {
	id, err := strategy.Alert(a.SituationNumber)
	if err != nil {
		return Document{}, err
	}

	properties := map[string]any{
		"siri:situationNumber": a.SituationNumber,
		"siri:creationTime":    DateTime(a.CreationTime),
	}

	setString(properties, "siri:participantRef", a.ParticipantRef)
	setString(properties, "siri:version", a.Version)
	setString(properties, "siri:progress", a.Progress)
	setString(properties, "siri:severity", a.Severity)
	setString(properties, "siri:summary", a.Summary)
	setString(properties, "siri:description", a.Description)
	setString(properties, "siri:reason", a.Reason)
	setString(properties, "siri:audience", a.Audience)
	setString(properties, "siri:reportType", a.ReportType)

	if a.ValidityStart != nil && *a.ValidityStart != "" {
		properties["siri:validityStart"] = DateTime(*a.ValidityStart)
	}
	if a.ValidityEnd != nil && *a.ValidityEnd != "" {
		properties["siri:validityEnd"] = DateTime(*a.ValidityEnd)
	}

	if len(a.AffectedStops) > 0 {
		var stops []any
		for _, stop := range a.AffectedStops {
			stopURI, err := strategy.Stop(stop.StopRef)
			if err != nil {
				return Document{}, err
			}

			ref := Ref{ID: stopURI, Properties: map[string]any{}}
			setString(ref.Properties, "siri:stopPointName", stop.StopName)
			stops = append(stops, ref)
		}
		properties["siri:affectedStopPoints"] = stops
	}

	if len(a.AffectedLines) > 0 {
		var lines []any
		for _, line := range a.AffectedLines {
			lineURI, err := strategy.Line(line.LineRef)
			if err != nil {
				return Document{}, err
			}
			lines = append(lines, Ref{ID: lineURI})
		}
		properties["siri:affectedLines"] = lines
	}

	if len(a.Consequences) > 0 {
		var consequences []any
		for _, consequence := range a.Consequences {
			consequences = append(consequences, consequence.node())
		}
		properties["siri:consequences"] = consequences
	}

	return Document{
		ID:         id,
		Type:       TypePtSituation,
		Properties: properties,
	}, nil
}

func (c Consequence) node() Node {
	node := Node{}

	setString(node, "siri:condition", c.Condition)
	setString(node, "siri:severity", c.Severity)

	if c.BlockingJourneyPlanner {
		node["siri:blockingJourneyPlanner"] = true
	}
	if c.BlockingRealtime {
		node["siri:blockingRealTime"] = true
	}

	setString(node, "siri:arrivalBoardingActivity", c.ArrivalBoardingActivity)
	setString(node, "siri:departureBoardingActivity", c.DepartureBoardingActivity)

	return node
}

// Documents converts every entity of the collection, connections first.
func (c Collection) Documents(strategy *uri.Strategy) ([]Document, error) {
	documents := make([]Document, 0, c.Len())

	for _, connection := range c.Connections {
		documents = append(documents, connection.Document())
	}

	for _, position := range c.VehiclePositions {
		document, err := position.Document(strategy)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	for _, alert := range c.ServiceAlerts {
		document, err := alert.Document(strategy)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, nil
}
