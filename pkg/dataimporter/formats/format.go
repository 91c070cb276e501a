package formats

import (
	"io"

	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
)

// Format is one input profile. ParseFile loads the document, Extract turns it
// into the canonical model.
type Format interface {
	ParseFile(io.Reader) error
	Extract(*parsing.Context, *uri.Strategy) (lc.Collection, error)
}
