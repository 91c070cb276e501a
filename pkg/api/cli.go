package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/database"
	"github.com/travigo/linkedconnections/pkg/dataimporter/manager"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Serves imported connections, vehicle positions and alerts",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the YAML config file",
					},
				},
				Action: func(c *cli.Context) error {
					cfg := config.Default()
					if path := c.String("config"); path != "" {
						loaded, err := config.LoadFile(path)
						if err != nil {
							return err
						}
						cfg = loaded
					}

					strategy, err := cfg.URIStrategy()
					if err != nil {
						return err
					}

					if err := database.Connect(); err != nil {
						return err
					}

					datasources := cfg.Datasources
					if datasources == "" {
						datasources = manager.DefaultDatasourcesDirectory
					}

					log.Info().Str("listen", c.String("listen")).Msg("Starting web api")

					return SetupServer(c.String("listen"), Options{
						Store:       database.MongoStore{},
						Strategy:    strategy,
						Datasources: datasources,
						Collector:   manager.Metrics,
					})
				},
			},
		},
	}
}
