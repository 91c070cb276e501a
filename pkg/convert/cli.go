package convert

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
	"github.com/urfave/cli/v2"
)

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file, - for stdout",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "output format: jsonld, turtle, ntriples, rdfxml, json or csv",
		},
		&cli.StringFlag{
			Name:  "uris",
			Usage: "YAML or JSON file with URI templates",
		},
		&cli.StringFlag{
			Name:  "base-uri",
			Usage: "base URI for generated identifiers",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to the YAML config file",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "indent JSON output",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "validate",
			Usage: "check inputs before extraction",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail when records are skipped or nothing is produced",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
		},
	}
}

// loadConfig reads the optional config file and merges the command line
// flags over it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := config.Config{
		OutputPath:   c.String("output"),
		OutputFormat: c.String("format"),
		URIsFile:     c.String("uris"),
		BaseURI:      c.String("base-uri"),
		Strict:       c.Bool("strict"),
		Verbose:      c.Bool("verbose"),
		Quiet:        c.Bool("quiet"),
	}
	if c.IsSet("pretty") {
		overrides.Pretty = util.Ptr(c.Bool("pretty"))
	}
	if c.IsSet("validate") {
		overrides.Validate = util.Ptr(c.Bool("validate"))
	}
	if c.IsSet("input") {
		overrides.NeTExFiles = c.StringSlice("input")
		overrides.SiriFile = c.StringSlice("input")[0]
	}
	if c.IsSet("type") {
		overrides.SiriType = c.String("type")
	}
	if c.IsSet("service-date") {
		overrides.ServiceDate = c.String("service-date")
	}

	if err := cfg.Merge(overrides); err != nil {
		return nil, err
	}

	ApplyLogLevel(cfg)

	return cfg, nil
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "netex",
			Usage: "Convert NeTEx timetables to Linked Connections",
			Flags: append([]cli.Flag{
				&cli.StringSliceFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Usage:   "NeTEx XML file, may be repeated",
				},
			}, outputFlags()...),
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}

				strategy, err := cfg.URIStrategy()
				if err != nil {
					return err
				}

				collection, pctx, err := NeTEx(cfg, strategy)
				if err != nil {
					return err
				}

				return Finish(cfg, strategy, collection, pctx)
			},
		},
		{
			Name:  "siri",
			Usage: "Convert a SIRI ET, VM or SX delivery",
			Flags: append([]cli.Flag{
				&cli.StringSliceFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Usage:   "SIRI XML file",
				},
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Usage:   "SIRI profile: et, vm, sx or auto",
				},
				&cli.StringFlag{
					Name:  "service-date",
					Usage: "date (YYYY-MM-DD) for ET times without a date",
				},
			}, outputFlags()...),
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}

				strategy, err := cfg.URIStrategy()
				if err != nil {
					return err
				}

				collection, pctx, err := Siri(cfg, strategy)
				if err != nil {
					return err
				}

				return Finish(cfg, strategy, collection, pctx)
			},
		},
		{
			Name:  "inspect",
			Usage: "Detect the format of an XML file and check its structure",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Aliases:  []string{"i"},
					Required: true,
				},
				&cli.IntFlag{
					Name:  "limit",
					Value: 5,
					Usage: "number of elements to dump",
				},
			},
			Action: func(c *cli.Context) error {
				return Inspect(c.String("input"), c.Int("limit"))
			},
		},
		{
			Name:  "config",
			Usage: "Configuration helpers",
			Subcommands: []*cli.Command{
				{
					Name:  "example",
					Usage: "print an example config file",
					Action: func(c *cli.Context) error {
						_, err := fmt.Fprint(os.Stdout, config.Example)
						return err
					},
				},
			},
		},
	}
}

type inspectSummary struct {
	Format   string
	Profile  string
	Root     string
	Elements []string
}

// Inspect logs what the file looks like and dumps a short summary.
func Inspect(path string, limit int) error {
	root, warnings, err := formats.ValidateFile(path, "")
	if err != nil {
		return err
	}

	summary := inspectSummary{
		Format: formats.DetectFormat(root),
		Root:   root.LocalName(),
	}
	if summary.Format == formats.KindSiri {
		summary.Profile = formats.DetectSiriProfile(root)
	}

	for node := range xmltree.Descendants(root) {
		if len(summary.Elements) >= limit {
			break
		}
		summary.Elements = append(summary.Elements, node.LocalName())
	}

	log.Info().Str("format", summary.Format).Str("profile", summary.Profile).Msg("Detected input")
	for _, warning := range warnings {
		log.Warn().Msg(warning)
	}

	_, err = pretty.Println(summary)
	return err
}
