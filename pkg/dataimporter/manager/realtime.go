package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/uri"
)

// RefreshInterval is how often a realtime dataset is polled when it does not
// set its own interval.
func RefreshInterval(dataset *datasets.DataSet) time.Duration {
	switch {
	case dataset.RefreshInterval.Seconds() > 0:
		return dataset.RefreshInterval
	case dataset.SupportedObjects.ServiceAlerts && !dataset.SupportedObjects.Connections && !dataset.SupportedObjects.VehiclePositions:
		return 10 * time.Minute
	case dataset.Format == datasets.DataSetFormatSiriSX:
		return 10 * time.Minute
	default:
		return 2 * time.Minute
	}
}

// RealtimeDataSets keeps the datasets that are polled.
func RealtimeDataSets(all []datasets.DataSet) []datasets.DataSet {
	var realtime []datasets.DataSet

	for _, dataset := range all {
		if dataset.Format.IsRealtime() || dataset.ImportDestination == datasets.ImportDestinationRealtimeQueue {
			realtime = append(realtime, dataset)
		}
	}

	return realtime
}

// RunRealtime polls every dataset on its own interval until ctx is cancelled.
// A failed import is logged and retried on the next tick.
func RunRealtime(ctx context.Context, realtimeDatasets []datasets.DataSet, strategy *uri.Strategy) error {
	return runPolling(ctx, realtimeDatasets, func(ctx context.Context, dataset *datasets.DataSet) error {
		return ImportDataset(ctx, dataset, strategy)
	})
}

func runPolling(ctx context.Context, realtimeDatasets []datasets.DataSet, importer func(context.Context, *datasets.DataSet) error) error {
	p := pool.New().WithContext(ctx)

	for _, dataset := range realtimeDatasets {
		repeatDuration := RefreshInterval(&dataset)

		log.Info().Str("interval", repeatDuration.String()).Str("id", dataset.Identifier).Msg("Loaded realtime dataset")

		p.Go(func(ctx context.Context) error {
			for {
				startTime := time.Now()

				if err := importer(ctx, &dataset); err != nil {
					log.Error().Err(err).Str("id", dataset.Identifier).Msg("Failed to import dataset")
				}

				executionDuration := time.Since(startTime)
				log.Info().Str("id", dataset.Identifier).Msgf("Operation took %s", executionDuration.String())

				waitTime := repeatDuration - executionDuration
				if waitTime < 0 {
					waitTime = 0
				}

				select {
				case <-ctx.Done():
					return nil
				case <-time.After(waitTime):
				}
			}
		})
	}

	return p.Wait()
}
