package siri_sx

import (
	"io"

	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

type SiriSX struct {
	root *xmltree.Node
}

func (s *SiriSX) ParseFile(reader io.Reader) error {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return err
	}

	s.root = root

	return nil
}

func (s *SiriSX) Extract(pctx *parsing.Context, _ *uri.Strategy) (lc.Collection, error) {
	return lc.Collection{ServiceAlerts: ExtractServiceAlerts(pctx, s.root)}, nil
}

// ExtractServiceAlerts reads public transport situations first, then road
// situations.
func ExtractServiceAlerts(pctx *parsing.Context, root *xmltree.Node) []lc.ServiceAlert {
	if root == nil {
		return nil
	}

	var retrievedRecords int64
	var submittedRecords int64

	var alerts []lc.ServiceAlert

	for _, elementName := range []string{"PtSituationElement", "RoadSituationElement"} {
		for situation := range xmltree.IterElements(root, elementName) {
			retrievedRecords += 1

			alert, ok := parseSituationElement(pctx, situation)
			if !ok {
				continue
			}

			submittedRecords += 1
			alerts = append(alerts, alert)
		}
	}

	pctx.Log().Debug().Int64("retrieved", retrievedRecords).Int64("submitted", submittedRecords).Msgf("Parsed Siri-SX response")

	return alerts
}
