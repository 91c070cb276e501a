package lc

// Connection is a single hop of a vehicle between two consecutive stops.
type Connection struct {
	ID            string `groups:"basic,detailed" json:"id" bson:"_id"`
	DepartureStop string `groups:"basic,detailed" json:"departure_stop" bson:"departure_stop"`
	ArrivalStop   string `groups:"basic,detailed" json:"arrival_stop" bson:"arrival_stop"`
	DepartureTime string `groups:"basic,detailed" json:"departure_time" bson:"departure_time"`
	ArrivalTime   string `groups:"basic,detailed" json:"arrival_time" bson:"arrival_time"`

	Route    *string `groups:"basic,detailed" json:"route,omitempty" bson:"route,omitempty"`
	Trip     *string `groups:"basic,detailed" json:"trip,omitempty" bson:"trip,omitempty"`
	Operator *string `groups:"basic,detailed" json:"operator,omitempty" bson:"operator,omitempty"`
	Headsign *string `groups:"detailed" json:"headsign,omitempty" bson:"headsign,omitempty"`

	DepartureDelay  *int    `groups:"basic,detailed" json:"departure_delay,omitempty" bson:"departure_delay,omitempty"`
	ArrivalDelay    *int    `groups:"basic,detailed" json:"arrival_delay,omitempty" bson:"arrival_delay,omitempty"`
	DepartureStatus *string `groups:"detailed" json:"departure_status,omitempty" bson:"departure_status,omitempty"`
	ArrivalStatus   *string `groups:"detailed" json:"arrival_status,omitempty" bson:"arrival_status,omitempty"`

	TransportMode        *string `groups:"detailed" json:"transport_mode,omitempty" bson:"transport_mode,omitempty"`
	WheelchairAccessible *bool   `groups:"detailed" json:"wheelchair_accessible,omitempty" bson:"wheelchair_accessible,omitempty"`
	BikesAllowed         *bool   `groups:"detailed" json:"bikes_allowed,omitempty" bson:"bikes_allowed,omitempty"`

	DepartureStopName *string  `groups:"detailed" json:"departure_stop_name,omitempty" bson:"departure_stop_name,omitempty"`
	DepartureLat      *float64 `groups:"detailed" json:"departure_lat,omitempty" bson:"departure_lat,omitempty"`
	DepartureLon      *float64 `groups:"detailed" json:"departure_lon,omitempty" bson:"departure_lon,omitempty"`
	ArrivalStopName   *string  `groups:"detailed" json:"arrival_stop_name,omitempty" bson:"arrival_stop_name,omitempty"`
	ArrivalLat        *float64 `groups:"detailed" json:"arrival_lat,omitempty" bson:"arrival_lat,omitempty"`
	ArrivalLon        *float64 `groups:"detailed" json:"arrival_lon,omitempty" bson:"arrival_lon,omitempty"`

	LineName       *string `groups:"detailed" json:"line_name,omitempty" bson:"line_name,omitempty"`
	LinePublicCode *string `groups:"detailed" json:"line_public_code,omitempty" bson:"line_public_code,omitempty"`
}

// VehiclePosition is a SIRI-VM vehicle activity snapshot.
type VehiclePosition struct {
	VehicleID  string `groups:"basic,detailed" json:"vehicle_id" bson:"vehicle_id"`
	RecordedAt string `groups:"basic,detailed" json:"recorded_at" bson:"recorded_at"`

	Latitude  *float64 `groups:"basic,detailed" json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `groups:"basic,detailed" json:"longitude,omitempty" bson:"longitude,omitempty"`
	Bearing   *float64 `groups:"basic,detailed" json:"bearing,omitempty" bson:"bearing,omitempty"`
	Speed     *float64 `groups:"detailed" json:"speed,omitempty" bson:"speed,omitempty"`

	Delay        *string `groups:"basic,detailed" json:"delay,omitempty" bson:"delay,omitempty"`
	DelaySeconds *int    `groups:"detailed" json:"delay_seconds,omitempty" bson:"delay_seconds,omitempty"`
	ProgressRate *string `groups:"detailed" json:"progress_rate,omitempty" bson:"progress_rate,omitempty"`

	LineRef         *string `groups:"basic,detailed" json:"line_ref,omitempty" bson:"line_ref,omitempty"`
	JourneyRef      *string `groups:"basic,detailed" json:"journey_ref,omitempty" bson:"journey_ref,omitempty"`
	OperatorRef     *string `groups:"basic,detailed" json:"operator_ref,omitempty" bson:"operator_ref,omitempty"`
	OriginName      *string `groups:"detailed" json:"origin_name,omitempty" bson:"origin_name,omitempty"`
	DestinationName *string `groups:"detailed" json:"destination_name,omitempty" bson:"destination_name,omitempty"`
	DestinationRef  *string `groups:"detailed" json:"destination_ref,omitempty" bson:"destination_ref,omitempty"`

	Monitored    bool `groups:"basic,detailed" json:"monitored" bson:"monitored"`
	InCongestion bool `groups:"detailed" json:"in_congestion" bson:"in_congestion"`

	CurrentStopRef *string `groups:"detailed" json:"current_stop_ref,omitempty" bson:"current_stop_ref,omitempty"`
	NextStopRef    *string `groups:"detailed" json:"next_stop_ref,omitempty" bson:"next_stop_ref,omitempty"`
	Occupancy      *string `groups:"detailed" json:"occupancy,omitempty" bson:"occupancy,omitempty"`
}

type AffectedStop struct {
	StopRef   string   `groups:"basic,detailed" json:"stop_ref" bson:"stop_ref"`
	StopName  *string  `groups:"basic,detailed" json:"stop_name,omitempty" bson:"stop_name,omitempty"`
	StopType  *string  `groups:"detailed" json:"stop_type,omitempty" bson:"stop_type,omitempty"`
	Latitude  *float64 `groups:"detailed" json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `groups:"detailed" json:"longitude,omitempty" bson:"longitude,omitempty"`
}

type AffectedLine struct {
	LineRef      string  `groups:"basic,detailed" json:"line_ref" bson:"line_ref"`
	LineName     *string `groups:"basic,detailed" json:"line_name,omitempty" bson:"line_name,omitempty"`
	DirectionRef *string `groups:"detailed" json:"direction_ref,omitempty" bson:"direction_ref,omitempty"`
}

type Consequence struct {
	Condition              *string `groups:"basic,detailed" json:"condition,omitempty" bson:"condition,omitempty"`
	Severity               *string `groups:"basic,detailed" json:"severity,omitempty" bson:"severity,omitempty"`
	BlockingJourneyPlanner bool    `groups:"detailed" json:"blocking_journey_planner" bson:"blocking_journey_planner"`
	BlockingRealtime       bool    `groups:"detailed" json:"blocking_realtime" bson:"blocking_realtime"`

	ArrivalBoardingActivity   *string `groups:"detailed" json:"arrival_boarding_activity,omitempty" bson:"arrival_boarding_activity,omitempty"`
	DepartureBoardingActivity *string `groups:"detailed" json:"departure_boarding_activity,omitempty" bson:"departure_boarding_activity,omitempty"`
}

// ServiceAlert is a SIRI-SX situation element.
type ServiceAlert struct {
	SituationNumber string  `groups:"basic,detailed" json:"situation_number" bson:"_id"`
	CreationTime    string  `groups:"basic,detailed" json:"creation_time" bson:"creation_time"`
	ParticipantRef  *string `groups:"detailed" json:"participant_ref,omitempty" bson:"participant_ref,omitempty"`
	Version         *string `groups:"detailed" json:"version,omitempty" bson:"version,omitempty"`

	ValidityStart *string `groups:"basic,detailed" json:"validity_start,omitempty" bson:"validity_start,omitempty"`
	ValidityEnd   *string `groups:"basic,detailed" json:"validity_end,omitempty" bson:"validity_end,omitempty"`

	Progress    *string `groups:"detailed" json:"progress,omitempty" bson:"progress,omitempty"`
	Severity    *string `groups:"basic,detailed" json:"severity,omitempty" bson:"severity,omitempty"`
	Reason      *string `groups:"detailed" json:"reason,omitempty" bson:"reason,omitempty"`
	Summary     *string `groups:"basic,detailed" json:"summary,omitempty" bson:"summary,omitempty"`
	Description *string `groups:"detailed" json:"description,omitempty" bson:"description,omitempty"`
	Audience    *string `groups:"detailed" json:"audience,omitempty" bson:"audience,omitempty"`
	ReportType  *string `groups:"detailed" json:"report_type,omitempty" bson:"report_type,omitempty"`

	AffectedStops []AffectedStop `groups:"basic,detailed" json:"affected_stops,omitempty" bson:"affected_stops,omitempty"`
	AffectedLines []AffectedLine `groups:"basic,detailed" json:"affected_lines,omitempty" bson:"affected_lines,omitempty"`
	Consequences  []Consequence  `groups:"detailed" json:"consequences,omitempty" bson:"consequences,omitempty"`
}

// Collection is the uniform result of every extractor.
type Collection struct {
	Connections      []Connection      `groups:"basic,detailed" json:"connections,omitempty"`
	VehiclePositions []VehiclePosition `groups:"basic,detailed" json:"vehicle_positions,omitempty"`
	ServiceAlerts    []ServiceAlert    `groups:"basic,detailed" json:"service_alerts,omitempty"`
}

func (c Collection) Len() int {
	return len(c.Connections) + len(c.VehiclePositions) + len(c.ServiceAlerts)
}

func (c *Collection) Append(other Collection) {
	c.Connections = append(c.Connections, other.Connections...)
	c.VehiclePositions = append(c.VehiclePositions, other.VehiclePositions...)
	c.ServiceAlerts = append(c.ServiceAlerts, other.ServiceAlerts...)
}
