package dataimporter

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/database"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/dataimporter/manager"
	"github.com/travigo/linkedconnections/pkg/redis_client"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

// connectDestinations opens redis and mongo only when some dataset writes
// there.
func connectDestinations(importDatasets []datasets.DataSet) error {
	var needsRedis, needsDatabase bool

	for _, dataset := range importDatasets {
		switch dataset.ImportDestination {
		case datasets.ImportDestinationRealtimeQueue:
			needsRedis = true
		case datasets.ImportDestinationDatabase:
			needsDatabase = true
		}
	}

	if needsDatabase {
		if err := database.Connect(); err != nil {
			return err
		}
	}
	if needsRedis {
		if err := redis_client.Connect(); err != nil {
			return err
		}
	}

	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.LoadFile(path)
}

func datasourcesDirectory(c *cli.Context, cfg *config.Config) string {
	if directory := c.String("datasources"); directory != "" {
		return directory
	}
	if cfg.Datasources != "" {
		return cfg.Datasources
	}

	return manager.DefaultDatasourcesDirectory
}

func RegisterCLI() *cli.Command {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the YAML config file",
		},
		&cli.StringFlag{
			Name:  "datasources",
			Usage: "directory holding the datasource YAML files",
		},
	}

	return &cli.Command{
		Name:  "data-importer",
		Usage: "Download & convert registered NeTEx and SIRI datasets",
		Subcommands: []*cli.Command{
			{
				Name:  "dataset",
				Usage: "Import a dataset",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this file import every X (Go duration)",
						Required: false,
					},
				}, commonFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}

					strategy, err := cfg.URIStrategy()
					if err != nil {
						return err
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)
						if err != nil {
							return err
						}
					}

					dataset, err := manager.GetDataset(datasourcesDirectory(c, cfg), c.String("id"))
					if err != nil {
						return err
					}

					if err := connectDestinations([]datasets.DataSet{dataset}); err != nil {
						return err
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					for {
						startTime := time.Now()

						if err := manager.ImportDataset(ctx, &dataset, strategy); err != nil {
							return err
						}
						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						select {
						case <-ctx.Done():
							return nil
						case <-time.After(repeatDuration - executionDuration):
						}
					}

					return nil
				},
			},
			{
				Name:  "multi-realtime",
				Usage: "Poll every realtime dataset and the SIRI endpoints of the config",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "metrics-listen",
						Usage: "serve Prometheus metrics on this address",
					},
				}, commonFlags...),
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c.String("config"))
					if err != nil {
						return err
					}

					strategy, err := cfg.URIStrategy()
					if err != nil {
						return err
					}

					allDatasets, err := manager.GetRegisteredDataSets(datasourcesDirectory(c, cfg))
					if err != nil && !os.IsNotExist(err) {
						return err
					}

					realtimeDatasets := append(manager.RealtimeDataSets(allDatasets), manager.EndpointDataSets(cfg)...)
					if len(realtimeDatasets) == 0 {
						log.Warn().Msg("No realtime datasets to poll")
						return nil
					}

					if err := connectDestinations(realtimeDatasets); err != nil {
						return err
					}

					if listen := c.String("metrics-listen"); listen != "" {
						server := manager.Metrics.Serve(listen)
						defer server.Shutdown(context.Background())
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					return manager.RunRealtime(ctx, realtimeDatasets, strategy)
				},
			},
		},
	}
}
