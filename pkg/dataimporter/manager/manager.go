package manager

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/linkedconnections/pkg/dataimporter/datasets"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/netex"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_et"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_sx"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_vm"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/stats"
	"github.com/travigo/linkedconnections/pkg/uri"
)

var Metrics = stats.NewCollector()

func GetDataset(directory string, identifier string) (datasets.DataSet, error) {
	registered, err := GetRegisteredDataSets(directory)
	if err != nil {
		return datasets.DataSet{}, err
	}

	for _, dataset := range registered {
		if dataset.Identifier == identifier {
			return dataset, nil
		}
	}

	return datasets.DataSet{}, fmt.Errorf("dataset %s could not be found", identifier)
}

// NewFormat returns the parser for a dataset format.
func NewFormat(dataset *datasets.DataSet) (formats.Format, error) {
	var serviceDate *time.Time
	if dataset.ServiceDate != "" {
		date, err := time.Parse("2006-01-02", dataset.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid service date %q, expected YYYY-MM-DD", dataset.ServiceDate)
		}
		serviceDate = &date
	}

	switch dataset.Format {
	case datasets.DataSetFormatNeTEx:
		return &netex.NeTEx{}, nil
	case datasets.DataSetFormatSiri:
		return &siri.Siri{ServiceDate: serviceDate}, nil
	case datasets.DataSetFormatSiriET:
		return &siri_et.SiriET{ServiceDate: serviceDate}, nil
	case datasets.DataSetFormatSiriVM:
		return &siri_vm.SiriVM{}, nil
	case datasets.DataSetFormatSiriSX:
		return &siri_sx.SiriSX{}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognised format %s", formats.ErrUnsupportedFormat, dataset.Format)
	}
}

// Import downloads (when the source is a URL), parses and filters a dataset
// without publishing it.
func Import(ctx context.Context, dataset *datasets.DataSet, strategy *uri.Strategy) (lc.Collection, *parsing.Context, error) {
	format, err := NewFormat(dataset)
	if err != nil {
		return lc.Collection{}, nil, err
	}

	source := dataset.Source
	if isValidUrl(dataset.Source) {
		source, err = tempDownloadFile(ctx, dataset.Source, dataset.SourceAuthentication)
		if err != nil {
			return lc.Collection{}, nil, err
		}
		defer os.Remove(source)
	}

	file, err := os.Open(source)
	if err != nil {
		return lc.Collection{}, nil, err
	}
	defer file.Close()

	if err := format.ParseFile(file); err != nil {
		return lc.Collection{}, nil, fmt.Errorf("parse %s: %w", dataset.Identifier, err)
	}

	pctx := parsing.NewContext(dataset.Identifier)

	collection, err := format.Extract(pctx, strategy)
	if err != nil {
		return lc.Collection{}, pctx, err
	}

	collection, err = filterCollection(pctx, dataset, collection)
	if err != nil {
		return lc.Collection{}, pctx, err
	}

	return collection, pctx, nil
}

// ImportDataset runs a full import and hands the result to the dataset's
// destination.
func ImportDataset(ctx context.Context, dataset *datasets.DataSet, strategy *uri.Strategy) error {
	destination, err := NewDestination(dataset, strategy)
	if err != nil {
		return err
	}

	return importInto(ctx, dataset, strategy, destination)
}

func importInto(ctx context.Context, dataset *datasets.DataSet, strategy *uri.Strategy, destination Destination) (err error) {
	startTime := time.Now()
	defer func() {
		Metrics.ObserveImport(dataset.Identifier, time.Since(startTime), err)
	}()

	log.Info().Str("id", dataset.Identifier).Str("format", string(dataset.Format)).Msg("Importing dataset")

	collection, pctx, err := Import(ctx, dataset, strategy)
	if err != nil {
		return err
	}

	pctx.Report()
	Metrics.ObserveRecords(
		dataset.Identifier,
		len(collection.Connections),
		len(collection.VehiclePositions),
		len(collection.ServiceAlerts),
		pctx.Skipped(),
	)

	return destination.Publish(ctx, dataset, collection)
}
