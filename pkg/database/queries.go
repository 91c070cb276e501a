package database

import (
	"context"

	"github.com/travigo/linkedconnections/pkg/lc"
	"go.mongodb.org/mongo-driver/bson"
)

// Query narrows a lookup of stored records. Empty fields do not filter.
type Query struct {
	Dataset string
	Line    string
	Limit   int64
}

func (q Query) filter(lineField string) bson.M {
	filter := bson.M{}

	if q.Dataset != "" {
		filter["datasource.datasetid"] = q.Dataset
	}
	if q.Line != "" {
		filter[lineField] = q.Line
	}

	return filter
}

// MongoStore reads the records written by the database import destination.
type MongoStore struct{}

// Connections are returned in departure order. Line is matched against the
// route URI.
func (MongoStore) Connections(ctx context.Context, query Query) ([]lc.Connection, error) {
	records, err := Find[ConnectionRecord](ctx, CollectionConnections, query.filter("route"),
		bson.D{{Key: "departure_time", Value: 1}, {Key: "_id", Value: 1}}, query.Limit)
	if err != nil {
		return nil, err
	}

	connections := make([]lc.Connection, 0, len(records))
	for _, record := range records {
		connections = append(connections, record.Connection)
	}

	return connections, nil
}

func (MongoStore) VehiclePositions(ctx context.Context, query Query) ([]lc.VehiclePosition, error) {
	records, err := Find[VehiclePositionRecord](ctx, CollectionVehiclePositions, query.filter("line_ref"),
		bson.D{{Key: "vehicle_id", Value: 1}}, query.Limit)
	if err != nil {
		return nil, err
	}

	positions := make([]lc.VehiclePosition, 0, len(records))
	for _, record := range records {
		positions = append(positions, record.VehiclePosition)
	}

	return positions, nil
}

func (MongoStore) ServiceAlerts(ctx context.Context, query Query) ([]lc.ServiceAlert, error) {
	records, err := Find[ServiceAlertRecord](ctx, CollectionServiceAlerts, query.filter("affected_lines.line_ref"),
		bson.D{{Key: "creation_time", Value: -1}}, query.Limit)
	if err != nil {
		return nil, err
	}

	alerts := make([]lc.ServiceAlert, 0, len(records))
	for _, record := range records {
		alerts = append(alerts, record.ServiceAlert)
	}

	return alerts, nil
}
