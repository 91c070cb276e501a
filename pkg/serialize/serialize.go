package serialize

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/uri"
)

type Format string

const (
	FormatJSONLD   Format = "jsonld"
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

var formatAliases = map[string]Format{
	"jsonld":   FormatJSONLD,
	"json-ld":  FormatJSONLD,
	"turtle":   FormatTurtle,
	"ttl":      FormatTurtle,
	"ntriples": FormatNTriples,
	"nt":       FormatNTriples,
	"rdfxml":   FormatRDFXML,
	"xml":      FormatRDFXML,
	"json":     FormatJSON,
	"csv":      FormatCSV,
}

// ParseFormat resolves a format name or alias, case insensitively.
func ParseFormat(name string) (Format, error) {
	format, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unsupported output format: %s", name)
	}

	return format, nil
}

// ContentType is the media type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSONLD:
		return "application/ld+json"
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatRDFXML:
		return "application/rdf+xml"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

type Options struct {
	Format Format
	Pretty bool
}

// Write serializes the collection. RDF formats go through the Linked
// Connections documents, json and csv dump the model itself.
func Write(writer io.Writer, collection lc.Collection, strategy *uri.Strategy, options Options) error {
	switch options.Format {
	case FormatJSON:
		return WriteJSON(writer, collection, options.Pretty)
	case FormatCSV:
		return WriteCSV(writer, collection.Connections)
	}

	documents, err := collection.Documents(strategy)
	if err != nil {
		return err
	}

	switch options.Format {
	case FormatJSONLD, "":
		return WriteJSONLD(writer, documents, options.Pretty)
	case FormatTurtle:
		return WriteTurtle(writer, lc.Triples(documents...))
	case FormatNTriples:
		return WriteNTriples(writer, lc.Triples(documents...))
	case FormatRDFXML:
		return WriteRDFXML(writer, lc.Triples(documents...))
	}

	return fmt.Errorf("unsupported output format: %s", options.Format)
}

// WriteFile writes to path, or to stdout when path is "-".
func WriteFile(path string, collection lc.Collection, strategy *uri.Strategy, options Options) error {
	if path == "-" || path == "" {
		buffered := bufio.NewWriter(os.Stdout)
		if err := Write(buffered, collection, strategy, options); err != nil {
			return err
		}
		return buffered.Flush()
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(file)
	if err := Write(buffered, collection, strategy, options); err != nil {
		file.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
