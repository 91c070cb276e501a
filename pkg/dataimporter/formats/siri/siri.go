package siri

import (
	"fmt"
	"io"
	"time"

	"github.com/travigo/linkedconnections/pkg/dataimporter/formats"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_et"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_sx"
	"github.com/travigo/linkedconnections/pkg/dataimporter/formats/siri_vm"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

// Siri extracts whichever profile a SIRI delivery carries. With Profile left
// empty or set to auto the profile is detected while parsing.
type Siri struct {
	root *xmltree.Node

	Profile     string
	ServiceDate *time.Time
}

func (s *Siri) ParseFile(reader io.Reader) error {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return err
	}

	s.root = root

	if s.Profile == "" || s.Profile == "auto" {
		s.Profile = formats.DetectSiriProfile(root)
	}

	return nil
}

func (s *Siri) Root() *xmltree.Node {
	return s.root
}

func (s *Siri) Extract(pctx *parsing.Context, strategy *uri.Strategy) (lc.Collection, error) {
	switch s.Profile {
	case formats.ProfileET:
		connections, err := siri_et.ExtractConnections(pctx, s.root, strategy, s.ServiceDate)
		if err != nil {
			return lc.Collection{}, err
		}

		return lc.Collection{Connections: connections}, nil
	case formats.ProfileVM:
		return lc.Collection{VehiclePositions: siri_vm.ExtractVehiclePositions(pctx, s.root)}, nil
	case formats.ProfileSX:
		return lc.Collection{ServiceAlerts: siri_sx.ExtractServiceAlerts(pctx, s.root)}, nil
	case "":
		return lc.Collection{}, fmt.Errorf("%w: could not detect SIRI profile", formats.ErrUnsupportedFormat)
	default:
		return lc.Collection{}, fmt.Errorf("%w: SIRI profile %q", formats.ErrUnsupportedFormat, s.Profile)
	}
}
