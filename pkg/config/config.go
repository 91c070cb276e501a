package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"github.com/travigo/linkedconnections/pkg/uri"
	"gopkg.in/yaml.v3"
)

const DefaultPollInterval = 30

// Config is the flattened runtime configuration shared by every command.
// Pointer fields distinguish "not set" from false when merging.
type Config struct {
	NeTExFiles  []string `validate:"dive,required"`
	SiriFile    string
	SiriType    string `validate:"omitempty,oneof=et vm sx auto"`
	ServiceDate string `validate:"omitempty,datetime=2006-01-02"`

	OutputPath   string
	OutputFormat string `validate:"omitempty,oneof=jsonld json-ld turtle ttl ntriples nt rdfxml xml json csv"`
	Pretty       *bool

	BaseURI      string `validate:"omitempty,url"`
	URITemplates map[string]string
	URIsFile     string

	Validate *bool
	Strict   bool
	Verbose  bool
	Quiet    bool

	SiriETEndpoint string `validate:"omitempty,url"`
	SiriVMEndpoint string `validate:"omitempty,url"`
	SiriSXEndpoint string `validate:"omitempty,url"`
	PollInterval   int    `validate:"gte=0"`

	Datasources string
}

type fileConfig struct {
	Input struct {
		NeTEx struct {
			Files    []string `yaml:"files,omitempty"`
			Validate *bool    `yaml:"validate,omitempty"`
		} `yaml:"netex"`
		Siri struct {
			File        string `yaml:"file,omitempty"`
			Type        string `yaml:"type,omitempty"`
			ServiceDate string `yaml:"service_date,omitempty"`
			Endpoints   struct {
				VehicleMonitoring  string `yaml:"vehicle_monitoring,omitempty"`
				EstimatedTimetable string `yaml:"estimated_timetable,omitempty"`
				SituationExchange  string `yaml:"situation_exchange,omitempty"`
			} `yaml:"endpoints"`
			PollInterval *int `yaml:"poll_interval,omitempty"`
		} `yaml:"siri"`
	} `yaml:"input"`

	Output struct {
		Format      string `yaml:"format,omitempty"`
		Destination string `yaml:"destination,omitempty"`
		Pretty      *bool  `yaml:"pretty,omitempty"`
	} `yaml:"output"`

	URIs struct {
		BaseURI      string            `yaml:"base_uri,omitempty"`
		BaseURICamel string            `yaml:"baseUri,omitempty"`
		Templates    map[string]string `yaml:"templates,omitempty"`
		File         string            `yaml:"file,omitempty"`
	} `yaml:"uris"`

	Strict  bool `yaml:"strict,omitempty"`
	Verbose bool `yaml:"verbose,omitempty"`
	Quiet   bool `yaml:"quiet,omitempty"`

	Logging struct {
		Level string `yaml:"level,omitempty"`
	} `yaml:"logging"`

	Datasources string `yaml:"datasources,omitempty"`
}

func Default() *Config {
	return &Config{
		SiriType:     "auto",
		OutputPath:   "-",
		OutputFormat: "jsonld",
		BaseURI:      uri.DefaultBaseURI,
		PollInterval: DefaultPollInterval,
	}
}

// LoadEnvironment reads a .env file from the working directory when one
// exists.
func LoadEnvironment() {
	_ = godotenv.Load()
}

func Load(reader io.Reader) (*Config, error) {
	var file fileConfig

	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config := Default()
	config.NeTExFiles = file.Input.NeTEx.Files
	config.Validate = file.Input.NeTEx.Validate

	siri := file.Input.Siri
	config.SiriFile = siri.File
	if siri.Type != "" {
		config.SiriType = strings.ToLower(siri.Type)
	}
	config.ServiceDate = siri.ServiceDate
	config.SiriETEndpoint = siri.Endpoints.EstimatedTimetable
	config.SiriVMEndpoint = siri.Endpoints.VehicleMonitoring
	config.SiriSXEndpoint = siri.Endpoints.SituationExchange
	if siri.PollInterval != nil {
		config.PollInterval = *siri.PollInterval
	}

	if file.Output.Format != "" {
		config.OutputFormat = strings.ToLower(file.Output.Format)
	}
	if file.Output.Destination != "" {
		config.OutputPath = file.Output.Destination
	}
	config.Pretty = file.Output.Pretty

	switch {
	case file.URIs.BaseURI != "":
		config.BaseURI = file.URIs.BaseURI
	case file.URIs.BaseURICamel != "":
		config.BaseURI = file.URIs.BaseURICamel
	}
	config.URITemplates = file.URIs.Templates
	config.URIsFile = file.URIs.File

	config.Strict = file.Strict
	config.Verbose = file.Verbose
	config.Quiet = file.Quiet

	switch strings.ToUpper(file.Logging.Level) {
	case "DEBUG":
		config.Verbose = true
	case "ERROR":
		config.Quiet = true
	}

	config.Datasources = file.Datasources

	if err := config.Check(); err != nil {
		return nil, err
	}

	return config, nil
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}

	return Load(bytes.NewReader(data))
}

// Check validates field values.
func (c *Config) Check() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Merge applies every non-empty field of overrides, typically the command
// line flags, on top of c.
func (c *Config) Merge(overrides Config) error {
	if err := copier.CopyWithOption(c, &overrides, copier.Option{IgnoreEmpty: true}); err != nil {
		return err
	}

	return c.Check()
}

func (c *Config) IsPretty() bool {
	return c.Pretty == nil || *c.Pretty
}

func (c *Config) ShouldValidate() bool {
	return c.Validate == nil || *c.Validate
}

// ParsedServiceDate returns nil when no service date is configured.
func (c *Config) ParsedServiceDate() (*time.Time, error) {
	if c.ServiceDate == "" {
		return nil, nil
	}

	date, err := time.Parse("2006-01-02", c.ServiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid service date %q, expected YYYY-MM-DD", c.ServiceDate)
	}

	return &date, nil
}

// URIStrategy builds the strategy from the optional URI file, then the base
// URI and templates set in the config.
func (c *Config) URIStrategy() (*uri.Strategy, error) {
	strategy := uri.Default()

	if c.URIsFile != "" {
		loaded, err := uri.LoadFile(c.URIsFile)
		if err != nil {
			return nil, err
		}
		strategy = loaded
	}

	templates := strategy.Templates()
	maps.Copy(templates, c.URITemplates)

	baseURI := strategy.BaseURI()
	if c.BaseURI != "" && (c.URIsFile == "" || c.BaseURI != uri.DefaultBaseURI) {
		baseURI = c.BaseURI
	}

	return uri.New(baseURI, templates), nil
}

// YAML renders the config back into the file layout.
func (c *Config) YAML() ([]byte, error) {
	var file fileConfig

	file.Input.NeTEx.Files = c.NeTExFiles
	file.Input.NeTEx.Validate = c.Validate
	file.Input.Siri.File = c.SiriFile
	file.Input.Siri.Type = c.SiriType
	file.Input.Siri.ServiceDate = c.ServiceDate
	file.Input.Siri.Endpoints.EstimatedTimetable = c.SiriETEndpoint
	file.Input.Siri.Endpoints.VehicleMonitoring = c.SiriVMEndpoint
	file.Input.Siri.Endpoints.SituationExchange = c.SiriSXEndpoint
	file.Input.Siri.PollInterval = &c.PollInterval
	file.Output.Format = c.OutputFormat
	file.Output.Destination = c.OutputPath
	file.Output.Pretty = c.Pretty
	file.URIs.BaseURI = c.BaseURI
	file.URIs.Templates = c.URITemplates
	file.URIs.File = c.URIsFile
	file.Strict = c.Strict
	file.Verbose = c.Verbose
	file.Quiet = c.Quiet
	file.Datasources = c.Datasources

	return yaml.Marshal(file)
}
