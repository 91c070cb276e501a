package formats

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/travigo/linkedconnections/pkg/xmltree"
)

var ErrUnsupportedFormat = errors.New("unsupported input format")

const (
	KindNeTEx = "netex"
	KindSiri  = "siri"

	ProfileET = "et"
	ProfileVM = "vm"
	ProfileSX = "sx"
	ProfileSM = "sm"
)

// Elements that identify a SIRI profile, checked in this order
var siriProfiles = []struct {
	profile  string
	elements []string
}{
	{ProfileET, []string{"EstimatedTimetableDelivery", "EstimatedVehicleJourney"}},
	{ProfileVM, []string{"VehicleMonitoringDelivery", "VehicleActivity"}},
	{ProfileSX, []string{"SituationExchangeDelivery", "PtSituationElement"}},
	{ProfileSM, []string{"StopMonitoringDelivery"}},
}

// DetectFormat tells NeTEx and SIRI documents apart by root namespace or
// root element. It returns an empty string when neither matches.
func DetectFormat(root *xmltree.Node) string {
	if root == nil {
		return ""
	}

	namespace := strings.ToLower(root.Name.Space)

	switch {
	case strings.Contains(namespace, "netex"):
		return KindNeTEx
	case strings.Contains(namespace, "siri"):
		return KindSiri
	}

	switch root.LocalName() {
	case "PublicationDelivery", "CompositeFrame", "TimetableFrame":
		return KindNeTEx
	case "Siri", "ServiceDelivery":
		return KindSiri
	}

	return ""
}

// DetectSiriProfile returns et, vm, sx or sm depending on which delivery
// elements are present, or an empty string.
func DetectSiriProfile(root *xmltree.Node) string {
	if root == nil {
		return ""
	}

	present := map[string]bool{root.LocalName(): true}
	for node := range xmltree.Descendants(root) {
		present[node.LocalName()] = true
	}

	for _, candidate := range siriProfiles {
		for _, element := range candidate.elements {
			if present[element] {
				return candidate.profile
			}
		}
	}

	return ""
}

// ValidateStructure returns warnings about content the extractors would find
// nothing in. profile is the SIRI profile the caller asked for, if any.
func ValidateStructure(root *xmltree.Node, profile string) []string {
	var warnings []string

	has := func(names ...string) bool {
		return xmltree.FindFirst(root, names...) != nil
	}

	switch DetectFormat(root) {
	case KindNeTEx:
		if !has("ServiceJourney") {
			warnings = append(warnings, "No ServiceJourney elements found - file may not contain timetable data")
		}
		if !has("TimetabledPassingTime", "PassingTime", "Call") {
			warnings = append(warnings, "No PassingTime/Call elements found - connections cannot be generated")
		}
	case KindSiri:
		detected := DetectSiriProfile(root)
		if profile != "" && detected != "" && profile != detected {
			warnings = append(warnings, fmt.Sprintf("Specified profile '%s' doesn't match detected profile '%s'", profile, detected))
		}

		switch detected {
		case ProfileET:
			if !has("EstimatedVehicleJourney") {
				warnings = append(warnings, "No EstimatedVehicleJourney elements found")
			}
		case ProfileVM:
			if !has("VehicleActivity") {
				warnings = append(warnings, "No VehicleActivity elements found")
			}
		case ProfileSX:
			if !has("PtSituationElement", "RoadSituationElement") {
				warnings = append(warnings, "No situation elements found")
			}
		}
	default:
		warnings = append(warnings, "Could not detect format (NeTEx/SIRI)")
	}

	return warnings
}

// ValidateFile checks that the file exists and is well formed, returning the
// parsed document with any structure warnings.
func ValidateFile(path string, profile string) (*xmltree.Node, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("file not found: %s", path)
	}

	root, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("XML syntax error in %s: %w", path, err)
	}

	return root, ValidateStructure(root, profile), nil
}
