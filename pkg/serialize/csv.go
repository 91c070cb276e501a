package serialize

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/travigo/linkedconnections/pkg/lc"
)

type connectionRow struct {
	ID              string   `csv:"id"`
	DepartureStop   string   `csv:"departure_stop"`
	DepartureTime   string   `csv:"departure_time"`
	ArrivalStop     string   `csv:"arrival_stop"`
	ArrivalTime     string   `csv:"arrival_time"`
	Route           *string  `csv:"route"`
	Trip            *string  `csv:"trip"`
	Operator        *string  `csv:"operator"`
	Headsign        *string  `csv:"headsign"`
	DepartureDelay  *int     `csv:"departure_delay"`
	ArrivalDelay    *int     `csv:"arrival_delay"`
	DepartureStatus *string  `csv:"departure_status"`
	ArrivalStatus   *string  `csv:"arrival_status"`
	TransportMode   *string  `csv:"transport_mode"`
	DepartureLat    *float64 `csv:"departure_lat"`
	DepartureLon    *float64 `csv:"departure_lon"`
	ArrivalLat      *float64 `csv:"arrival_lat"`
	ArrivalLon      *float64 `csv:"arrival_lon"`
}

// WriteCSV writes one row per connection. Vehicle positions and alerts have
// no tabular form and are left out.
func WriteCSV(writer io.Writer, connections []lc.Connection) error {
	rows := make([]*connectionRow, 0, len(connections))

	for _, connection := range connections {
		rows = append(rows, &connectionRow{
			ID:              connection.ID,
			DepartureStop:   connection.DepartureStop,
			DepartureTime:   connection.DepartureTime,
			ArrivalStop:     connection.ArrivalStop,
			ArrivalTime:     connection.ArrivalTime,
			Route:           connection.Route,
			Trip:            connection.Trip,
			Operator:        connection.Operator,
			Headsign:        connection.Headsign,
			DepartureDelay:  connection.DepartureDelay,
			ArrivalDelay:    connection.ArrivalDelay,
			DepartureStatus: connection.DepartureStatus,
			ArrivalStatus:   connection.ArrivalStatus,
			TransportMode:   connection.TransportMode,
			DepartureLat:    connection.DepartureLat,
			DepartureLon:    connection.DepartureLon,
			ArrivalLat:      connection.ArrivalLat,
			ArrivalLon:      connection.ArrivalLon,
		})
	}

	return gocsv.Marshal(rows, writer)
}
