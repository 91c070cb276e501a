package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestWriteModels(t *testing.T) {
	datasource := &lc.DataSource{Provider: "Entur", DatasetID: "no-vm", Timestamp: "1770285600"}

	writes := WriteModels(lc.Collection{
		Connections: []lc.Connection{
			{ID: "http://ex.org/connections/20260205/SJ1/1"},
			{ID: "http://ex.org/connections/20260205/SJ1/2"},
		},
		VehiclePositions: []lc.VehiclePosition{{VehicleID: "V1"}},
		ServiceAlerts:    []lc.ServiceAlert{{SituationNumber: "SX-1"}},
	}, datasource, time.Unix(1770285600, 0))

	require.Len(t, writes[CollectionConnections], 2)
	require.Len(t, writes[CollectionVehiclePositions], 1)
	require.Len(t, writes[CollectionServiceAlerts], 1)

	vehicle := writes[CollectionVehiclePositions][0].(*mongo.ReplaceOneModel)
	assert.Equal(t, bson.M{"_id": "no-vm:V1"}, vehicle.Filter)
	assert.True(t, *vehicle.Upsert)

	alert := writes[CollectionServiceAlerts][0].(*mongo.ReplaceOneModel)
	assert.Equal(t, bson.M{"_id": "SX-1"}, alert.Filter)
}

func TestRecordDocumentLayout(t *testing.T) {
	record := ConnectionRecord{
		Connection: lc.Connection{
			ID:             "http://ex.org/connections/20260205/SJ1/1",
			DepartureDelay: util.Ptr(60),
		},
		DataSource: &lc.DataSource{DatasetID: "no-et", Provider: "Entur"},
	}

	data, err := bson.Marshal(record)
	require.NoError(t, err)

	var document bson.M
	require.NoError(t, bson.Unmarshal(data, &document))

	assert.Equal(t, "http://ex.org/connections/20260205/SJ1/1", document["_id"])
	assert.EqualValues(t, 60, document["departure_delay"])
	assert.Equal(t, "no-et", document["datasource"].(bson.M)["datasetid"])
	assert.NotContains(t, document, "route")
}

func TestStaleQuery(t *testing.T) {
	query := StaleQuery(&lc.DataSource{Provider: "Entur", DatasetID: "no-sx", Timestamp: "2"})

	assert.Equal(t, "no-sx", query["datasource.datasetid"])
	assert.Equal(t, bson.M{"$ne": "2"}, query["datasource.timestamp"])
}

func TestQueryFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, Query{Limit: 10}.filter("route"))
	assert.Equal(t, bson.M{
		"datasource.datasetid": "no-vm",
		"line_ref":             "L1",
	}, Query{Dataset: "no-vm", Line: "L1"}.filter("line_ref"))
}
