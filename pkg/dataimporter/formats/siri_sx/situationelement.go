package siri_sx

import (
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

// Reason elements in priority order
var reasonTags = []string{"MiscellaneousReason", "PersonnelReason", "EquipmentReason", "EnvironmentReason"}

func parseSituationElement(pctx *parsing.Context, situation *xmltree.Node) (lc.ServiceAlert, bool) {
	situationNumber, hasNumber := xmltree.FindText(situation, "SituationNumber")
	creationTime, hasCreationTime := xmltree.FindText(situation, "CreationTime")
	if !hasNumber || !hasCreationTime {
		pctx.Skip("Situation without SituationNumber or CreationTime", situationNumber)
		return lc.ServiceAlert{}, false
	}

	alert := lc.ServiceAlert{
		SituationNumber: situationNumber,
		CreationTime:    creationTime,

		ParticipantRef: util.StringPtr(xmltree.FindText(situation, "ParticipantRef")),
		Version:        util.StringPtr(xmltree.FindText(situation, "Version")),
		Progress:       util.StringPtr(xmltree.FindText(situation, "Progress")),
		Severity:       util.StringPtr(xmltree.FindText(situation, "Severity")),
		Summary:        util.StringPtr(xmltree.FindText(situation, "Summary")),
		Description:    util.StringPtr(xmltree.FindText(situation, "Description")),
		Audience:       util.StringPtr(xmltree.FindText(situation, "Audience")),
		ReportType:     util.StringPtr(xmltree.FindText(situation, "ReportType")),

		AffectedStops: affectedStops(situation),
		AffectedLines: affectedLines(situation),
		Consequences:  consequences(situation),
	}

	for _, tag := range reasonTags {
		if reason, ok := xmltree.FindText(situation, tag); ok {
			alert.Reason = &reason
			break
		}
	}

	// Only the first validity period is kept
	if period := xmltree.FindFirst(situation, "ValidityPeriod"); period != nil {
		alert.ValidityStart = util.StringPtr(xmltree.FindText(period, "StartTime"))
		alert.ValidityEnd = util.StringPtr(xmltree.FindText(period, "EndTime"))
	}

	pctx.Success(situationNumber)

	return alert, true
}

func affectedStops(situation *xmltree.Node) []lc.AffectedStop {
	var stops []lc.AffectedStop

	for _, element := range xmltree.FindAll(situation, "AffectedStopPoint", "AffectedStopPlace") {
		if element.LocalName() == "AffectedStopPlace" {
			stopRef, ok := xmltree.FindRef(element, "StopPlaceRef")
			if !ok {
				continue
			}

			stops = append(stops, lc.AffectedStop{
				StopRef:  stopRef,
				StopName: util.StringPtr(xmltree.FindText(element, "StopPlaceName")),
			})
			continue
		}

		stopRef, ok := xmltree.FindRef(element, "StopPointRef")
		if !ok {
			continue
		}

		stop := lc.AffectedStop{
			StopRef:  stopRef,
			StopName: util.StringPtr(xmltree.FindText(element, "StopPointName")),
			StopType: util.StringPtr(xmltree.FindText(element, "StopPointType")),
		}
		if location := xmltree.FindFirst(element, "Location"); location != nil {
			stop.Latitude = util.ParseFloat(xmltree.FindText(location, "Latitude"))
			stop.Longitude = util.ParseFloat(xmltree.FindText(location, "Longitude"))
		}

		stops = append(stops, stop)
	}

	return stops
}

// affectedLines merges AffectedLine elements with bare LineRefs found under
// Affects. The first discovery of a reference wins.
func affectedLines(situation *xmltree.Node) []lc.AffectedLine {
	var lines []lc.AffectedLine

	for element := range xmltree.IterElements(situation, "AffectedLine") {
		lineRef, ok := xmltree.FindRef(element, "LineRef")
		if !ok {
			continue
		}

		lines = append(lines, lc.AffectedLine{
			LineRef:      lineRef,
			LineName:     util.StringPtr(xmltree.FindText(element, "PublishedLineName", "LineName")),
			DirectionRef: util.StringPtr(xmltree.FindRef(element, "DirectionRef")),
		})
	}

	for affects := range xmltree.IterElements(situation, "Affects") {
		for lineRef := range xmltree.IterElements(affects, "LineRef") {
			ref, ok := lineRef.Attribute("ref")
			if !ok || ref == "" {
				ref = lineRef.TrimmedText()
			}

			lines = append(lines, lc.AffectedLine{LineRef: ref})
		}
	}

	return util.RemoveDuplicates(lines, func(line lc.AffectedLine) string {
		return line.LineRef
	})
}

func consequences(situation *xmltree.Node) []lc.Consequence {
	var result []lc.Consequence

	for element := range xmltree.IterElements(situation, "Consequence") {
		consequence := lc.Consequence{
			Condition: util.StringPtr(xmltree.FindText(element, "Condition")),
			Severity:  util.StringPtr(xmltree.FindText(element, "Severity")),
		}

		if blocking := xmltree.FindFirst(element, "Blocking"); blocking != nil {
			journeyPlanner, _ := xmltree.FindText(blocking, "JourneyPlanner")
			realtime, _ := xmltree.FindText(blocking, "RealTime")

			consequence.BlockingJourneyPlanner = util.IsTrue(journeyPlanner)
			consequence.BlockingRealtime = util.IsTrue(realtime)
		}

		if boarding := xmltree.FindFirst(element, "Boarding"); boarding != nil {
			consequence.ArrivalBoardingActivity = util.StringPtr(xmltree.FindText(boarding, "ArrivalBoardingActivity"))
			consequence.DepartureBoardingActivity = util.StringPtr(xmltree.FindText(boarding, "DepartureBoardingActivity"))
		}

		result = append(result, consequence)
	}

	return result
}
