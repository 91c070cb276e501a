package siri_vm

import (
	"io"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/travigo/linkedconnections/pkg/lc"
	"github.com/travigo/linkedconnections/pkg/parsing"
	"github.com/travigo/linkedconnections/pkg/uri"
	"github.com/travigo/linkedconnections/pkg/util"
	"github.com/travigo/linkedconnections/pkg/xmltree"
)

type SiriVM struct {
	root *xmltree.Node
}

func (s *SiriVM) ParseFile(reader io.Reader) error {
	root, err := xmltree.Parse(reader)
	if err != nil {
		return err
	}

	s.root = root

	return nil
}

func (s *SiriVM) Extract(pctx *parsing.Context, _ *uri.Strategy) (lc.Collection, error) {
	return lc.Collection{VehiclePositions: ExtractVehiclePositions(pctx, s.root)}, nil
}

// ExtractVehiclePositions reads every VehicleActivity of the delivery.
func ExtractVehiclePositions(pctx *parsing.Context, root *xmltree.Node) []lc.VehiclePosition {
	if root == nil {
		return nil
	}

	var retrievedRecords int64
	var submittedRecords int64

	var positions []lc.VehiclePosition

	for activity := range xmltree.IterElements(root, "VehicleActivity") {
		retrievedRecords += 1

		position, ok := parseVehicleActivity(pctx, activity)
		if !ok {
			continue
		}

		submittedRecords += 1
		positions = append(positions, position)
	}

	pctx.Log().Debug().Int64("retrieved", retrievedRecords).Int64("submitted", submittedRecords).Msgf("Parsed Siri-VM response")

	return positions
}

func parseVehicleActivity(pctx *parsing.Context, activity *xmltree.Node) (lc.VehiclePosition, bool) {
	recordedAt, ok := xmltree.FindText(activity, "RecordedAtTime")
	if !ok {
		pctx.Skip("VehicleActivity without RecordedAtTime", "")
		return lc.VehiclePosition{}, false
	}

	journey := xmltree.FindFirst(activity, "MonitoredVehicleJourney")
	if journey == nil {
		pctx.Skip("VehicleActivity without MonitoredVehicleJourney", recordedAt)
		return lc.VehiclePosition{}, false
	}

	vehicleID, ok := xmltree.FindText(journey, "VehicleRef")
	if !ok {
		vehicleID, ok = xmltree.FindText(activity, "VehicleMonitoringRef", "ItemIdentifier")
	}
	if !ok {
		pctx.Skip("VehicleActivity without vehicle identifier", recordedAt)
		return lc.VehiclePosition{}, false
	}

	position := lc.VehiclePosition{
		VehicleID:  vehicleID,
		RecordedAt: recordedAt,

		// Speed is reserved and not read from Velocity
		Bearing: util.ParseFloat(xmltree.FindText(journey, "Bearing")),

		Delay:        util.StringPtr(xmltree.FindText(journey, "Delay")),
		ProgressRate: util.StringPtr(xmltree.FindText(journey, "ProgressRate")),

		LineRef:         util.StringPtr(xmltree.FindRef(journey, "LineRef")),
		OperatorRef:     util.StringPtr(xmltree.FindRef(journey, "OperatorRef")),
		OriginName:      util.StringPtr(xmltree.FindText(journey, "OriginName")),
		DestinationName: util.StringPtr(xmltree.FindText(journey, "DestinationName")),
		DestinationRef:  util.StringPtr(xmltree.FindRef(journey, "DestinationRef")),
		Occupancy:       util.StringPtr(xmltree.FindText(journey, "Occupancy", "OccupancyLevel")),
	}

	// Each axis is parsed on its own, a bad longitude keeps the latitude
	if location := xmltree.FindFirst(journey, "VehicleLocation"); location != nil {
		position.Latitude = util.ParseFloat(xmltree.FindText(location, "Latitude"))
		position.Longitude = util.ParseFloat(xmltree.FindText(location, "Longitude"))
	}

	if position.Delay != nil {
		position.DelaySeconds = delaySeconds(*position.Delay)
	}

	position.JourneyRef = util.StringPtr(xmltree.FindText(journey, "DatedVehicleJourneyRef", "VehicleJourneyRef"))

	if monitoredCall := xmltree.FindFirst(journey, "MonitoredCall"); monitoredCall != nil {
		position.CurrentStopRef = util.StringPtr(xmltree.FindRef(monitoredCall, "StopPointRef"))
	}
	if onwardCalls := xmltree.FindFirst(journey, "OnwardCalls"); onwardCalls != nil {
		if onwardCall := xmltree.FindFirst(onwardCalls, "OnwardCall"); onwardCall != nil {
			position.NextStopRef = util.StringPtr(xmltree.FindRef(onwardCall, "StopPointRef"))
		}
	}

	monitored, _ := xmltree.FindText(journey, "Monitored")
	position.Monitored = util.IsTrue(monitored)

	congestion, _ := xmltree.FindText(journey, "InCongestion")
	position.InCongestion = util.IsTrue(congestion)

	pctx.Success(vehicleID)

	return position, true
}

// delaySeconds converts an ISO-8601 duration such as PT2M or -PT30S into
// signed seconds.
func delaySeconds(value string) *int {
	value = strings.TrimSpace(value)

	sign := 1
	if strings.HasPrefix(value, "-") {
		sign = -1
		value = value[1:]
	}

	duration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return nil
	}

	anchor := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	seconds := int(duration.Shift(anchor).Sub(anchor).Seconds())

	return util.Ptr(sign * seconds)
}
