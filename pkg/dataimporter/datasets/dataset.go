package datasets

import (
	"time"
)

type DataSet struct {
	Identifier    string
	DataSourceRef string `json:"-"`
	Format        DataSetFormat

	Provider Provider

	Source               string
	SourceAuthentication SourceAuthentication `json:"-"`

	// ServiceDate (YYYY-MM-DD) anchors SIRI-ET calls that only carry a time
	// of day
	ServiceDate string

	RefreshInterval time.Duration

	SupportedObjects SupportedObjects
	IgnoreObjects    IgnoreObjects

	// Filter is an expression evaluated against every extracted record,
	// records it does not match are dropped
	Filter string

	ImportDestination ImportDestination `json:"-"`
	Destination       string            `json:"-"`
	OutputFormat      string            `json:"-"`
}

type SourceAuthentication struct {
	Query  map[string]string
	Header map[string]string
	Basic  struct {
		Username string
		Password string
	}
}

func (a SourceAuthentication) IsEmpty() bool {
	return len(a.Query) == 0 && len(a.Header) == 0 && a.Basic.Username == ""
}

type DataSetFormat string

const (
	DataSetFormatNeTEx  DataSetFormat = "eu-netex"
	DataSetFormatSiri   DataSetFormat = "eu-siri"
	DataSetFormatSiriET DataSetFormat = "eu-siri-et"
	DataSetFormatSiriVM DataSetFormat = "eu-siri-vm"
	DataSetFormatSiriSX DataSetFormat = "eu-siri-sx"
)

// IsRealtime reports whether the format is a SIRI feed that is polled.
func (f DataSetFormat) IsRealtime() bool {
	switch f {
	case DataSetFormatSiri, DataSetFormatSiriET, DataSetFormatSiriVM, DataSetFormatSiriSX:
		return true
	default:
		return false
	}
}

type Provider struct {
	Name    string
	Website string
}

type ImportDestination string

const (
	ImportDestinationFile          ImportDestination = "file"
	ImportDestinationDatabase      ImportDestination = "database"
	ImportDestinationRealtimeQueue ImportDestination = "realtime-queue"
)
