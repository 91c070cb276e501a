package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/netex"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/serialize"
	"github.com/travigo/linkedconnections/pkg/uri"
)

var ErrNoInput = errors.New("no input files given")

// ApplyLogLevel lowers or raises the global level for --verbose / --quiet.
func ApplyLogLevel(cfg *config.Config) {
	switch {
	case cfg.Verbose:
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	case cfg.Quiet:
		log.Logger = log.Logger.Level(zerolog.ErrorLevel)
	}
}

// validInputs drops files that are missing or not well formed XML. In strict
// mode the first such file is an error.
func validInputs(cfg *config.Config, paths []string, profile string) ([]string, error) {
	if !cfg.ShouldValidate() {
		return paths, nil
	}

	var valid []string

	for _, path := range paths {
		_, warnings, err := formats.ValidateFile(path, profile)
		if err != nil {
			if cfg.Strict {
				return nil, err
			}

			log.Error().Err(err).Str("file", path).Msg("Skipping input file")
			continue
		}

		for _, warning := range warnings {
			log.Warn().Str("file", path).Msg(warning)
		}

		valid = append(valid, path)
	}

	return valid, nil
}

// NeTEx extracts the connections of every configured NeTEx file.
func NeTEx(cfg *config.Config, strategy *uri.Strategy) (lc.Collection, *parsing.Context, error) {
	if len(cfg.NeTExFiles) == 0 {
		return lc.Collection{}, nil, ErrNoInput
	}

	paths, err := validInputs(cfg, cfg.NeTExFiles, "")
	if err != nil {
		return lc.Collection{}, nil, err
	}

	pctx := parsing.NewContext("netex")

	connections, err := netex.ParseFiles(pctx, paths, strategy)
	if err != nil {
		return lc.Collection{}, pctx, err
	}

	return lc.Collection{Connections: connections}, pctx, nil
}

// Siri extracts the configured SIRI file with the configured or detected
// profile.
func Siri(cfg *config.Config, strategy *uri.Strategy) (lc.Collection, *parsing.Context, error) {
	if cfg.SiriFile == "" {
		return lc.Collection{}, nil, ErrNoInput
	}

	profile := cfg.SiriType
	if profile == "auto" {
		profile = ""
	}

	paths, err := validInputs(cfg, []string{cfg.SiriFile}, profile)
	if err != nil {
		return lc.Collection{}, nil, err
	}
	if len(paths) == 0 {
		return lc.Collection{}, nil, fmt.Errorf("%w: %s is not readable", ErrNoInput, cfg.SiriFile)
	}

	serviceDate, err := cfg.ParsedServiceDate()
	if err != nil {
		return lc.Collection{}, nil, err
	}

	file, err := os.Open(paths[0])
	if err != nil {
		return lc.Collection{}, nil, err
	}
	defer file.Close()

	format := &siri.Siri{
		Profile:     cfg.SiriType,
		ServiceDate: serviceDate,
	}
	if err := format.ParseFile(file); err != nil {
		return lc.Collection{}, nil, err
	}

	pctx := parsing.NewContext("siri-" + format.Profile)

	collection, err := format.Extract(pctx, strategy)
	if err != nil {
		return lc.Collection{}, pctx, err
	}

	return collection, pctx, nil
}

// Finish reports the run, applies the strict policy and writes the output.
func Finish(cfg *config.Config, strategy *uri.Strategy, collection lc.Collection, pctx *parsing.Context) error {
	pctx.Report()

	if cfg.Strict {
		if collection.Len() == 0 {
			return fmt.Errorf("%w: no records produced", parsing.ErrStrict)
		}
		if err := pctx.CheckStrict(); err != nil {
			return err
		}
	}

	format, err := serialize.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	if err := serialize.WriteFile(cfg.OutputPath, collection, strategy, serialize.Options{
		Format: format,
		Pretty: cfg.IsPretty(),
	}); err != nil {
		return err
	}

	log.Info().
		Int("records", collection.Len()).
		Str("destination", cfg.OutputPath).
		Str("format", string(format)).
		Msg("Wrote output")

	return nil
}
