package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/lc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConnectionRecord struct {
	lc.Connection `bson:",inline"`

	DataSource           *lc.DataSource
	ModificationDateTime time.Time
}

type VehiclePositionRecord struct {
	ID string `bson:"_id"`

	lc.VehiclePosition `bson:",inline"`

	DataSource           *lc.DataSource
	ModificationDateTime time.Time
}

type ServiceAlertRecord struct {
	lc.ServiceAlert `bson:",inline"`

	DataSource           *lc.DataSource
	ModificationDateTime time.Time
}

// WriteModels builds one upsert per record, keyed by collection name.
func WriteModels(collection lc.Collection, datasource *lc.DataSource, now time.Time) map[string][]mongo.WriteModel {
	writes := map[string][]mongo.WriteModel{}

	for _, connection := range collection.Connections {
		record := ConnectionRecord{Connection: connection, DataSource: datasource, ModificationDateTime: now}
		writes[CollectionConnections] = append(writes[CollectionConnections], upsert(connection.ID, record))
	}

	for _, position := range collection.VehiclePositions {
		record := VehiclePositionRecord{
			ID:                   fmt.Sprintf("%s:%s", datasource.DatasetID, position.VehicleID),
			VehiclePosition:      position,
			DataSource:           datasource,
			ModificationDateTime: now,
		}
		writes[CollectionVehiclePositions] = append(writes[CollectionVehiclePositions], upsert(record.ID, record))
	}

	for _, alert := range collection.ServiceAlerts {
		record := ServiceAlertRecord{ServiceAlert: alert, DataSource: datasource, ModificationDateTime: now}
		writes[CollectionServiceAlerts] = append(writes[CollectionServiceAlerts], upsert(alert.SituationNumber, record))
	}

	return writes
}

func upsert(id string, record any) mongo.WriteModel {
	return mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": id}).
		SetReplacement(record).
		SetUpsert(true)
}

// StaleQuery matches records of the same dataset left over from an earlier
// import.
func StaleQuery(datasource *lc.DataSource) bson.M {
	return bson.M{
		"datasource.provider":  datasource.Provider,
		"datasource.datasetid": datasource.DatasetID,
		"datasource.timestamp": bson.M{"$ne": datasource.Timestamp},
	}
}

// Upsert stores the latest import of a dataset and removes whatever the
// previous import left behind. It returns the number of writes per collection.
func Upsert(ctx context.Context, collection lc.Collection, datasource *lc.DataSource) (map[string]int, error) {
	written := map[string]int{}
	writes := WriteModels(collection, datasource, time.Now())

	for _, name := range []string{CollectionConnections, CollectionVehiclePositions, CollectionServiceAlerts} {
		mongoCollection := GetCollection(name)

		if operations := writes[name]; len(operations) > 0 {
			_, err := mongoCollection.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false))
			if err != nil {
				return written, fmt.Errorf("bulk write %s: %w", name, err)
			}
			written[name] = len(operations)
		}

		deleted, err := mongoCollection.DeleteMany(ctx, StaleQuery(datasource))
		if err != nil {
			return written, fmt.Errorf("delete stale %s: %w", name, err)
		}
		if deleted.DeletedCount > 0 {
			log.Info().
				Str("dataset", datasource.DatasetID).
				Str("collection", name).
				Int64("length", deleted.DeletedCount).
				Msg("delete expired records")
		}
	}

	return written, nil
}

// Find returns the records of one collection matching filter in sort order.
// A limit of 0 returns everything.
func Find[T any](ctx context.Context, collectionName string, filter bson.M, sort bson.D, limit int64) ([]T, error) {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := GetCollection(collectionName).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
