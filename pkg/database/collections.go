package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionConnections      = "connections"
	CollectionVehiclePositions = "vehicle_positions"
	CollectionServiceAlerts    = "service_alerts"
)

var datasourceIndex = mongo.IndexModel{
	Keys: bson.D{
		{Key: "datasource.provider", Value: 1},
		{Key: "datasource.datasetid", Value: 1},
		{Key: "datasource.timestamp", Value: 1},
	},
}

func createIndexes() {
	createConnectionsIndexes()
	createRealtimeIndexes()
}

func createConnectionsIndexes() {
	connectionsCollection := GetCollection(CollectionConnections)
	_, err := connectionsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "departure_time", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "trip", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "route", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "departure_stop", Value: 1}},
		},
		datasourceIndex,
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createRealtimeIndexes() {
	vehiclePositionsCollection := GetCollection(CollectionVehiclePositions)
	_, err := vehiclePositionsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vehicle_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "line_ref", Value: 1}},
		},
		datasourceIndex,
		{
			Keys:    bson.D{{Key: "modificationdatetime", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(4 * 3600), // Expire after 4 hours
		},
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	serviceAlertsCollection := GetCollection(CollectionServiceAlerts)
	_, err = serviceAlertsCollection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "affected_lines.line_ref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "affected_stops.stop_ref", Value: 1}},
		},
		datasourceIndex,
	}, options.CreateIndexes())
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
