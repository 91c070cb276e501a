package netex

import (
	"fmt"
	"strings"

	"github.com/paulcager/osgridref"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

type stopInfo struct {
	name      *string
	latitude  *float64
	longitude *float64
}

type lineInfo struct {
	name          *string
	publicCode    *string
	transportMode *string
}

// documentIndex holds stop, line and display metadata defined in the same
// document as the journeys, keyed by NeTEx id.
type documentIndex struct {
	stops               map[string]stopInfo
	journeyPatternStops map[string]string
	stopAssignments     map[string]string
	lines               map[string]lineInfo
	destinationDisplays map[string]string
}

func newDocumentIndex(root *xmltree.Node) *documentIndex {
	index := &documentIndex{
		stops:               map[string]stopInfo{},
		journeyPatternStops: map[string]string{},
		stopAssignments:     map[string]string{},
		lines:               map[string]lineInfo{},
		destinationDisplays: map[string]string{},
	}

	for node := range xmltree.Descendants(root) {
		switch node.LocalName() {
		case "StopPlace", "Quay", "ScheduledStopPoint":
			id, ok := node.Attribute("id")
			if !ok {
				continue
			}

			stop := stopInfo{name: childText(node, "Name")}
			stop.latitude, stop.longitude = location(node)
			index.stops[id] = stop
		case "StopPointInJourneyPattern":
			id, ok := node.Attribute("id")
			if !ok {
				continue
			}
			if ref, ok := xmltree.FindRef(node, "ScheduledStopPointRef"); ok {
				index.journeyPatternStops[id] = ref
			}
		case "PassengerStopAssignment":
			scheduled, ok := xmltree.FindRef(node, "ScheduledStopPointRef")
			if !ok {
				continue
			}

			target, ok := xmltree.FindRef(node, "QuayRef")
			if !ok {
				target, ok = xmltree.FindRef(node, "StopPlaceRef")
			}
			if ok {
				index.stopAssignments[scheduled] = target
			}
		case "Line":
			id, ok := node.Attribute("id")
			if !ok {
				continue
			}

			index.lines[id] = lineInfo{
				name:          childText(node, "Name"),
				publicCode:    childText(node, "PublicCode"),
				transportMode: childText(node, "TransportMode"),
			}
		case "DestinationDisplay":
			id, ok := node.Attribute("id")
			if !ok {
				continue
			}
			if frontText, ok := xmltree.FindText(node, "FrontText"); ok {
				index.destinationDisplays[id] = frontText
			}
		}
	}

	return index
}

// stop follows journey pattern and stop assignment references until it has
// both a name and coordinates, or runs out of references.
func (i *documentIndex) stop(ref string) (stopInfo, bool) {
	var result stopInfo
	found := false

	seen := map[string]bool{}
	for ref != "" && !seen[ref] {
		seen[ref] = true

		if stop, ok := i.stops[ref]; ok {
			found = true
			if result.name == nil {
				result.name = stop.name
			}
			if result.latitude == nil && stop.latitude != nil && stop.longitude != nil {
				result.latitude, result.longitude = stop.latitude, stop.longitude
			}
		}

		if result.name != nil && result.latitude != nil {
			break
		}

		if next, ok := i.journeyPatternStops[ref]; ok {
			ref = next
		} else {
			ref = i.stopAssignments[ref]
		}
	}

	return result, found
}

func childText(node *xmltree.Node, name string) *string {
	child := node.Child(name)
	if child == nil {
		return nil
	}

	text := child.TrimmedText()
	if text == "" {
		return nil
	}

	return &text
}

// location reads WGS84 Latitude/Longitude, a gml:pos or a British National
// Grid easting/northing pair.
func location(node *xmltree.Node) (*float64, *float64) {
	loc := xmltree.FindFirst(node, "Location")
	if loc == nil {
		return nil, nil
	}

	latitude := util.ParseFloat(xmltree.FindText(loc, "Latitude"))
	longitude := util.ParseFloat(xmltree.FindText(loc, "Longitude"))
	if latitude != nil && longitude != nil {
		return latitude, longitude
	}

	easting, hasEasting := xmltree.FindText(loc, "Easting")
	northing, hasNorthing := xmltree.FindText(loc, "Northing")
	if hasEasting && hasNorthing {
		return fromGridRef(easting, northing)
	}

	pos := xmltree.FindFirst(loc, "pos")
	if pos == nil {
		return nil, nil
	}

	fields := strings.Fields(pos.TrimmedText())
	if len(fields) != 2 {
		return nil, nil
	}

	srsName, _ := pos.Attribute("srsName")
	if srsName == "" {
		srsName, _ = loc.Attribute("srsName")
	}

	if strings.HasSuffix(srsName, "27700") {
		return fromGridRef(fields[0], fields[1])
	}

	latitude = util.ParseFloat(fields[0], true)
	longitude = util.ParseFloat(fields[1], true)
	if latitude == nil || longitude == nil {
		return nil, nil
	}

	return latitude, longitude
}

func fromGridRef(easting string, northing string) (*float64, *float64) {
	gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", easting, northing))
	if err != nil {
		return nil, nil
	}

	latitude, longitude := gridRef.ToLatLon()

	return &latitude, &longitude
}
