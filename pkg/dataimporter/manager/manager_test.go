package manager

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eko/gocache/lib/v4/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
)

const vehicleMonitoring = `<?xml version="1.0" encoding="UTF-8"?>
<Siri xmlns="http://www.siri.org.uk/siri" version="2.0">
  <ServiceDelivery>
    <VehicleMonitoringDelivery>
      <VehicleActivity>
        <RecordedAtTime>2026-02-05T10:00:00Z</RecordedAtTime>
        <MonitoredVehicleJourney>
          <LineRef>L1</LineRef>
          <OperatorRef>RUT</OperatorRef>
          <VehicleRef>V1</VehicleRef>
          <Delay>PT2M</Delay>
        </MonitoredVehicleJourney>
      </VehicleActivity>
      <VehicleActivity>
        <RecordedAtTime>2026-02-05T10:00:05Z</RecordedAtTime>
        <MonitoredVehicleJourney>
          <LineRef>L2</LineRef>
          <OperatorRef>VYX</OperatorRef>
          <VehicleRef>V2</VehicleRef>
        </MonitoredVehicleJourney>
      </VehicleActivity>
      <VehicleActivity>
        <RecordedAtTime>2026-02-05T10:00:09Z</RecordedAtTime>
        <MonitoredVehicleJourney>
          <LineRef>L3</LineRef>
          <OperatorRef>VYX</OperatorRef>
          <VehicleRef>V3</VehicleRef>
        </MonitoredVehicleJourney>
      </VehicleActivity>
    </VehicleMonitoringDelivery>
  </ServiceDelivery>
</Siri>`

const registry = `identifier: no-entur
region: NO
provider:
  name: Entur
  website: https://entur.no
sourceauthentication:
  header:
    ET-Client-Name: linkedconnections
datasets:
  - identifier: vm
    format: eu-siri-vm
    source: https://api.entur.io/realtime/v1/rest/vm
    refreshinterval: 30s
    importdestination: realtime-queue
    supportedobjects:
      vehiclepositions: true
  - identifier: netex
    format: eu-netex
    source: /data/netex/rb_norway.xml
    importdestination: database
---
identifier: se-trafiklab
provider:
  name: Trafiklab
datasets:
  - identifier: sx
    format: eu-siri-sx
    source: https://opendata.samtrafiken.se/sx
    filter: severity == "severe"
`

func writeFile(t *testing.T, directory string, name string, content string) string {
	t.Helper()

	path := filepath.Join(directory, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestGetRegisteredDataSets(t *testing.T) {
	directory := t.TempDir()
	writeFile(t, directory, "nordic/sources.yaml", registry)
	writeFile(t, directory, "README.md", "not a datasource")

	registered, err := GetRegisteredDataSets(directory)
	require.NoError(t, err)
	require.Len(t, registered, 3)

	vm := registered[0]
	assert.Equal(t, "no-entur-vm", vm.Identifier)
	assert.Equal(t, datasets.DataSetFormatSiriVM, vm.Format)
	assert.Equal(t, 30*time.Second, vm.RefreshInterval)
	assert.Equal(t, datasets.ImportDestinationRealtimeQueue, vm.ImportDestination)
	assert.Equal(t, "Entur", vm.Provider.Name)
	assert.Equal(t, "linkedconnections", vm.SourceAuthentication.Header["ET-Client-Name"])
	assert.True(t, vm.SupportedObjects.VehiclePositions)

	assert.Equal(t, "se-trafiklab-sx", registered[2].Identifier)
	assert.Equal(t, `severity == "severe"`, registered[2].Filter)

	dataset, err := GetDataset(directory, "no-entur-netex")
	require.NoError(t, err)
	assert.Equal(t, datasets.ImportDestinationDatabase, dataset.ImportDestination)

	_, err = GetDataset(directory, "missing")
	assert.ErrorContains(t, err, "could not be found")
}

func TestGetRegisteredDataSetsInvalidYAML(t *testing.T) {
	directory := t.TempDir()
	writeFile(t, directory, "broken.yaml", "identifier: [broken")

	_, err := GetRegisteredDataSets(directory)
	assert.Error(t, err)
}

func TestEndpointDataSets(t *testing.T) {
	cfg := config.Default()
	cfg.SiriVMEndpoint = "https://api.example.org/siri/vm"
	cfg.SiriSXEndpoint = "https://api.example.org/siri/sx"
	cfg.PollInterval = 15
	cfg.OutputPath = "/tmp/out.ttl"
	cfg.OutputFormat = "turtle"

	endpoints := EndpointDataSets(cfg)
	require.Len(t, endpoints, 2)

	assert.Equal(t, "config-siri-vm", endpoints[0].Identifier)
	assert.Equal(t, datasets.DataSetFormatSiriVM, endpoints[0].Format)
	assert.Equal(t, 15*time.Second, endpoints[0].RefreshInterval)
	assert.Equal(t, "/tmp/out.ttl", endpoints[0].Destination)
	assert.Equal(t, datasets.DataSetFormatSiriSX, endpoints[1].Format)
	assert.True(t, endpoints[1].SupportedObjects.ServiceAlerts)
}

func TestNewFormat(t *testing.T) {
	_, err := NewFormat(&datasets.DataSet{Format: "gb-transxchange"})
	assert.ErrorIs(t, err, formats.ErrUnsupportedFormat)

	_, err = NewFormat(&datasets.DataSet{Format: datasets.DataSetFormatSiriET, ServiceDate: "05.02.2026"})
	assert.ErrorContains(t, err, "invalid service date")

	format, err := NewFormat(&datasets.DataSet{Format: datasets.DataSetFormatSiri, ServiceDate: "2026-02-05"})
	require.NoError(t, err)
	assert.NotNil(t, format)
}

func TestImportLocalFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vm.xml", vehicleMonitoring)

	collection, pctx, err := Import(context.Background(), &datasets.DataSet{
		Identifier: "test-vm",
		Format:     datasets.DataSetFormatSiri,
		Source:     path,
		IgnoreObjects: datasets.IgnoreObjects{
			Lines: []string{"L3"},
		},
	}, uri.Default())
	require.NoError(t, err)

	// ignored records are extracted first, then dropped
	assert.Equal(t, 3, pctx.Processed())
	require.Len(t, collection.VehiclePositions, 2)
	assert.Equal(t, "V1", collection.VehiclePositions[0].VehicleID)
	assert.Equal(t, "V2", collection.VehiclePositions[1].VehicleID)
}

func TestImportFilterExpression(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vm.xml", vehicleMonitoring)

	collection, _, err := Import(context.Background(), &datasets.DataSet{
		Identifier: "test-vm",
		Format:     datasets.DataSetFormatSiriVM,
		Source:     path,
		Filter:     `kind == "vehicle" && delay_seconds != nil && delay_seconds >= 60`,
	}, uri.Default())
	require.NoError(t, err)

	require.Len(t, collection.VehiclePositions, 1)
	assert.Equal(t, "V1", collection.VehiclePositions[0].VehicleID)

	_, _, err = Import(context.Background(), &datasets.DataSet{
		Format: datasets.DataSetFormatSiriVM,
		Source: path,
		Filter: `delay_seconds >=`,
	}, uri.Default())
	assert.ErrorContains(t, err, "compile filter")
}

func TestImportSupportedObjects(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vm.xml", vehicleMonitoring)

	collection, _, err := Import(context.Background(), &datasets.DataSet{
		Format:           datasets.DataSetFormatSiriVM,
		Source:           path,
		SupportedObjects: datasets.SupportedObjects{ServiceAlerts: true},
	}, uri.Default())
	require.NoError(t, err)
	assert.Equal(t, 0, collection.Len())
}

func TestImportMissingFile(t *testing.T) {
	_, _, err := Import(context.Background(), &datasets.DataSet{
		Format: datasets.DataSetFormatNeTEx,
		Source: filepath.Join(t.TempDir(), "missing.xml"),
	}, uri.Default())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportDownloadRetries(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		assert.Equal(t, "linkedconnections", r.Header.Get("ET-Client-Name"))
		w.Write([]byte(vehicleMonitoring))
	}))
	defer server.Close()

	dataset := &datasets.DataSet{
		Identifier: "remote-vm",
		Format:     datasets.DataSetFormatSiriVM,
		Source:     server.URL + "/vm",
	}
	dataset.SourceAuthentication.Query = map[string]string{"apikey": "secret"}
	dataset.SourceAuthentication.Header = map[string]string{"ET-Client-Name": "linkedconnections"}

	collection, _, err := Import(context.Background(), dataset, uri.Default())
	require.NoError(t, err)

	assert.Len(t, collection.VehiclePositions, 3)
	assert.EqualValues(t, 2, requests.Load())
}

func TestImportDownloadClientError(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, _, err := Import(context.Background(), &datasets.DataSet{
		Format: datasets.DataSetFormatSiriVM,
		Source: server.URL,
	}, uri.Default())

	assert.ErrorContains(t, err, "403")
	assert.EqualValues(t, 1, requests.Load())
}

func TestIsValidUrl(t *testing.T) {
	assert.True(t, isValidUrl("https://api.entur.io/realtime/v1/rest/vm"))
	assert.False(t, isValidUrl("/data/netex/file.xml"))
	assert.False(t, isValidUrl("data.xml"))
}

type fakeQueue struct {
	published [][]byte
}

func (q *fakeQueue) PublishBytes(payload ...[]byte) error {
	q.published = append(q.published, payload...)
	return nil
}

type fakeCache struct {
	values map[string]string
}

func (c *fakeCache) Get(_ context.Context, key any) (string, error) {
	value, ok := c.values[key.(string)]
	if !ok {
		return "", errors.New("value not found")
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key any, object string, _ ...store.Option) error {
	c.values[key.(string)] = object
	return nil
}

func TestQueueDestinationSuppressesUnchanged(t *testing.T) {
	queue := &fakeQueue{}
	destination := &QueueDestination{
		Queue:    queue,
		Cache:    &fakeCache{values: map[string]string{}},
		Strategy: uri.Default(),
	}
	dataset := &datasets.DataSet{Identifier: "test-vm"}

	first := lc.Collection{VehiclePositions: []lc.VehiclePosition{
		{VehicleID: "V1", RecordedAt: "2026-02-05T10:00:00Z"},
		{VehicleID: "V2", RecordedAt: "2026-02-05T10:00:00Z"},
	}}
	require.NoError(t, destination.Publish(context.Background(), dataset, first))
	assert.Len(t, queue.published, 2)

	second := lc.Collection{VehiclePositions: []lc.VehiclePosition{
		{VehicleID: "V1", RecordedAt: "2026-02-05T10:00:00Z"},
		{VehicleID: "V2", RecordedAt: "2026-02-05T10:00:30Z"},
	}}
	require.NoError(t, destination.Publish(context.Background(), dataset, second))
	require.Len(t, queue.published, 3)
	assert.Contains(t, string(queue.published[2]), "10:00:30")
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nt")

	destination, err := NewDestination(&datasets.DataSet{
		ImportDestination: datasets.ImportDestinationFile,
		Destination:       path,
		OutputFormat:      "nt",
	}, uri.Default())
	require.NoError(t, err)

	err = destination.Publish(context.Background(), &datasets.DataSet{Identifier: "test"}, lc.Collection{
		Connections: []lc.Connection{{
			ID:            "http://ex.org/c/1",
			DepartureStop: "http://ex.org/s/1",
			ArrivalStop:   "http://ex.org/s/2",
			DepartureTime: "2026-02-05T10:00:00Z",
			ArrivalTime:   "2026-02-05T10:05:00Z",
			Route:         util.Ptr("http://ex.org/l/1"),
		}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<http://ex.org/c/1> <http://semweb.mmlab.be/ns/linkedconnections#departureStop> <http://ex.org/s/1> .")

	_, err = NewDestination(&datasets.DataSet{ImportDestination: "kafka"}, uri.Default())
	assert.ErrorContains(t, err, "unrecognised import destination")

	_, err = NewDestination(&datasets.DataSet{OutputFormat: "yaml"}, uri.Default())
	assert.Error(t, err)
}

func TestRefreshInterval(t *testing.T) {
	assert.Equal(t, 45*time.Second, RefreshInterval(&datasets.DataSet{RefreshInterval: 45 * time.Second}))
	assert.Equal(t, 10*time.Minute, RefreshInterval(&datasets.DataSet{Format: datasets.DataSetFormatSiriSX}))
	assert.Equal(t, 2*time.Minute, RefreshInterval(&datasets.DataSet{Format: datasets.DataSetFormatSiriVM}))

	realtime := RealtimeDataSets([]datasets.DataSet{
		{Identifier: "a", Format: datasets.DataSetFormatNeTEx},
		{Identifier: "b", Format: datasets.DataSetFormatSiriET},
	})
	require.Len(t, realtime, 1)
	assert.Equal(t, "b", realtime[0].Identifier)
}

func TestRunPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32

	done := make(chan error)
	go func() {
		done <- runPolling(ctx, []datasets.DataSet{
			{Identifier: "fast", RefreshInterval: 10 * time.Millisecond},
		}, func(ctx context.Context, dataset *datasets.DataSet) error {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return errors.New("feed unavailable")
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after cancel")
	}

	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestFilterCollectionAlerts(t *testing.T) {
	collection, err := filterCollection(parsing.NewContext("test"), &datasets.DataSet{
		IgnoreObjects: datasets.IgnoreObjects{Lines: []string{"L9"}},
		Filter:        `kind != "alert" || severity == "severe"`,
	}, lc.Collection{ServiceAlerts: []lc.ServiceAlert{
		{SituationNumber: "1", Severity: util.Ptr("severe"), AffectedLines: []lc.AffectedLine{{LineRef: "L9"}}},
		{SituationNumber: "2", Severity: util.Ptr("severe"), AffectedLines: []lc.AffectedLine{{LineRef: "L9"}, {LineRef: "L1"}}},
		{SituationNumber: "3", Severity: util.Ptr("slight")},
		{SituationNumber: "4"},
	}})
	require.NoError(t, err)

	require.Len(t, collection.ServiceAlerts, 1)
	assert.Equal(t, "2", collection.ServiceAlerts[0].SituationNumber)
}
