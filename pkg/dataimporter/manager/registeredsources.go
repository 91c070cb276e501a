package manager

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/config"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"gopkg.in/yaml.v3"
)

const DefaultDatasourcesDirectory = "data/datasources/"

// GetRegisteredDataSets walks the registry directory. Every .yaml file may
// hold several datasource documents.
func GetRegisteredDataSets(directory string) ([]datasets.DataSet, error) {
	if directory == "" {
		directory = DefaultDatasourcesDirectory
	}

	var registeredDatasets []datasets.DataSet

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading datasource file")

			datasourceYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(datasourceYaml))

			for {
				var datasource datasets.DataSource
				if err := decoder.Decode(&datasource); err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					return err
				}

				registeredDatasets = append(registeredDatasets, datasource.Expand()...)
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return registeredDatasets, nil
}

// EndpointDataSets turns the SIRI endpoints of the application config into
// polled datasets writing to the configured output.
func EndpointDataSets(cfg *config.Config) []datasets.DataSet {
	endpoints := []struct {
		identifier string
		format     datasets.DataSetFormat
		source     string
		supported  datasets.SupportedObjects
	}{
		{"siri-et", datasets.DataSetFormatSiriET, cfg.SiriETEndpoint, datasets.SupportedObjects{Connections: true}},
		{"siri-vm", datasets.DataSetFormatSiriVM, cfg.SiriVMEndpoint, datasets.SupportedObjects{VehiclePositions: true}},
		{"siri-sx", datasets.DataSetFormatSiriSX, cfg.SiriSXEndpoint, datasets.SupportedObjects{ServiceAlerts: true}},
	}

	var endpointDatasets []datasets.DataSet

	for _, endpoint := range endpoints {
		if endpoint.source == "" {
			continue
		}

		endpointDatasets = append(endpointDatasets, datasets.DataSet{
			Identifier:        "config-" + endpoint.identifier,
			DataSourceRef:     "config",
			Format:            endpoint.format,
			Source:            endpoint.source,
			ServiceDate:       cfg.ServiceDate,
			RefreshInterval:   time.Duration(cfg.PollInterval) * time.Second,
			SupportedObjects:  endpoint.supported,
			ImportDestination: datasets.ImportDestinationFile,
			Destination:       cfg.OutputPath,
			OutputFormat:      cfg.OutputFormat,
		})
	}

	return endpointDatasets
}
