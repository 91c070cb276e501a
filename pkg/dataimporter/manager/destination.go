package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/database"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/redis_client"
	"github.com/travigo/linkedconnections/pkg/serialize"
	"github.com/travigo/linkedconnections/pkg/uri"
)

const RealtimeQueueName = "realtime-queue"

// Destination receives the filtered result of one import.
type Destination interface {
	Publish(ctx context.Context, dataset *datasets.DataSet, collection lc.Collection) error
}

// NewDestination builds the destination a dataset asks for. The queue and
// database destinations need redis_client and database to be connected.
func NewDestination(dataset *datasets.DataSet, strategy *uri.Strategy) (Destination, error) {
	switch dataset.ImportDestination {
	case datasets.ImportDestinationFile, "":
		outputFormat := dataset.OutputFormat
		if outputFormat == "" {
			outputFormat = string(serialize.FormatJSONLD)
		}

		format, err := serialize.ParseFormat(outputFormat)
		if err != nil {
			return nil, err
		}

		path := dataset.Destination
		if path == "" {
			path = "-"
		}

		return &FileDestination{
			Path:     path,
			Strategy: strategy,
			Options:  serialize.Options{Format: format, Pretty: true},
		}, nil
	case datasets.ImportDestinationRealtimeQueue:
		queue, err := redis_client.QueueConnection.OpenQueue(RealtimeQueueName)
		if err != nil {
			return nil, err
		}

		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(90*time.Minute))

		return &QueueDestination{
			Queue:    queue,
			Cache:    cache.New[string](redisStore),
			Strategy: strategy,
		}, nil
	case datasets.ImportDestinationDatabase:
		return &DatabaseDestination{}, nil
	default:
		return nil, fmt.Errorf("unrecognised import destination %s", dataset.ImportDestination)
	}
}

type FileDestination struct {
	Path     string
	Strategy *uri.Strategy
	Options  serialize.Options
}

func (d *FileDestination) Publish(_ context.Context, dataset *datasets.DataSet, collection lc.Collection) error {
	if err := serialize.WriteFile(d.Path, collection, d.Strategy, d.Options); err != nil {
		return err
	}

	log.Info().Str("id", dataset.Identifier).Str("path", d.Path).Int("records", collection.Len()).Msg("Wrote dataset output")

	return nil
}

type queuePublisher interface {
	PublishBytes(payload ...[]byte) error
}

type changeCache interface {
	Get(ctx context.Context, key any) (string, error)
	Set(ctx context.Context, key any, object string, options ...store.Option) error
}

// QueueDestination publishes every record as a JSON-LD node. A record whose
// node is identical to the one last published under the same @id is not
// published again.
type QueueDestination struct {
	Queue    queuePublisher
	Cache    changeCache
	Strategy *uri.Strategy
}

func (d *QueueDestination) Publish(ctx context.Context, dataset *datasets.DataSet, collection lc.Collection) error {
	documents, err := collection.Documents(d.Strategy)
	if err != nil {
		return err
	}

	var submittedRecords int64
	var suppressedRecords int64

	for _, document := range documents {
		payload, err := json.Marshal(document)
		if err != nil {
			return err
		}

		cacheKey := fmt.Sprintf("lc:published:%s", document.ID)

		if previous, err := d.Cache.Get(ctx, cacheKey); err == nil && previous == string(payload) {
			suppressedRecords += 1
			continue
		}

		if err := d.Queue.PublishBytes(payload); err != nil {
			return err
		}
		if err := d.Cache.Set(ctx, cacheKey, string(payload)); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache published record")
		}

		submittedRecords += 1
	}

	Metrics.QueuePublished.Add(float64(submittedRecords))
	Metrics.QueueSuppressed.Add(float64(suppressedRecords))

	log.Info().
		Str("id", dataset.Identifier).
		Int64("submitted", submittedRecords).
		Int64("suppressed", suppressedRecords).
		Msg("Published to realtime queue")

	return nil
}

type DatabaseDestination struct{}

func (d *DatabaseDestination) Publish(ctx context.Context, dataset *datasets.DataSet, collection lc.Collection) error {
	datasource := &lc.DataSource{
		OriginalFormat: string(dataset.Format),
		Provider:       dataset.Provider.Name,
		DatasetID:      dataset.Identifier,
		Timestamp:      fmt.Sprintf("%d", time.Now().Unix()),
	}

	written, err := database.Upsert(ctx, collection, datasource)
	for name, count := range written {
		Metrics.DatabaseWrites.WithLabelValues(name).Add(float64(count))
	}

	return err
}
