package serialize

import (
	"encoding/json"
	"io"

	"github.com/liip/sheriff"
	"github.com/travigo/linkedconnections/pkg/lc"
)

type graphDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []lc.Document     `json:"@graph"`
}

func newEncoder(writer io.Writer, pretty bool) *json.Encoder {
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder
}

// WriteJSONLD writes a single JSON-LD document with the vocabulary context
// and every document in @graph.
func WriteJSONLD(writer io.Writer, documents []lc.Document, pretty bool) error {
	if documents == nil {
		documents = []lc.Document{}
	}

	return newEncoder(writer, pretty).Encode(graphDocument{
		Context: lc.Context(),
		Graph:   documents,
	})
}

// WriteJSON dumps the canonical model with every detailed field.
func WriteJSON(writer io.Writer, collection lc.Collection, pretty bool) error {
	reduced, err := Reduce(collection, "detailed")
	if err != nil {
		return err
	}

	return newEncoder(writer, pretty).Encode(reduced)
}

// Reduce limits the model to the fields of the given sheriff groups.
func Reduce(data any, groups ...string) (any, error) {
	return sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, data)
}
