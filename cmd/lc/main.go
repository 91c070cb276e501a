package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/api"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/convert"
	"github.com/travigo/linkedconnections/pkg/dataimporter"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	config.LoadEnvironment()

	// stdout carries the converted output
	if os.Getenv("LC_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = log.Output(os.Stderr)
	}

	if os.Getenv("LC_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	commands := convert.RegisterCLI()
	commands = append(commands,
		dataimporter.RegisterCLI(),
		api.RegisterCLI(),
	)

	app := &cli.App{
		Name:        "lc",
		Usage:       "NeTEx and SIRI to Linked Connections converter",
		Description: "Converts NeTEx timetables and SIRI realtime deliveries into Linked Connections documents",
		Commands:    commands,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
