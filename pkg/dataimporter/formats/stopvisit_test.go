package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/linkedconnections/pkg/util"
)

func TestSortStopVisits(t *testing.T) {
	visits := []StopVisit{
		{StopRef: "C", Order: util.Ptr(3)},
		{StopRef: "A", Order: util.Ptr(1)},
		{StopRef: "B", Order: util.Ptr(2)},
	}

	sorted := SortStopVisits(visits)
	assert.Equal(t, "A", sorted[0].StopRef)
	assert.Equal(t, "B", sorted[1].StopRef)
	assert.Equal(t, "C", sorted[2].StopRef)
	assert.Equal(t, "C", visits[0].StopRef, "input is left untouched")

	// one missing order keeps document order for all
	visits[1].Order = nil
	kept := SortStopVisits(visits)
	assert.Equal(t, []string{"C", "A", "B"}, []string{kept[0].StopRef, kept[1].StopRef, kept[2].StopRef})
}

func TestLegs(t *testing.T) {
	visits := []StopVisit{{StopRef: "A"}, {StopRef: "B"}, {StopRef: "C"}}

	var sequences []int
	var pairs []string
	for sequence, leg := range Legs(visits) {
		sequences = append(sequences, sequence)
		pairs = append(pairs, leg[0].StopRef+leg[1].StopRef)
	}

	assert.Equal(t, []int{1, 2}, sequences)
	assert.Equal(t, []string{"AB", "BC"}, pairs)

	for range Legs(visits[:1]) {
		t.Fatal("a single visit has no legs")
	}
}

func TestVisitTimes(t *testing.T) {
	visit := StopVisit{AimedArrival: "10:00", AimedDeparture: "10:02", ExpectedDeparture: "10:04"}
	assert.Equal(t, "10:04", visit.DepartureTime())
	assert.Equal(t, "10:00", visit.ArrivalTime())

	visit = StopVisit{AimedArrival: "10:00"}
	assert.Equal(t, "10:00", visit.DepartureTime())

	visit = StopVisit{AimedDeparture: "10:02"}
	assert.Equal(t, "10:02", visit.ArrivalTime())

	assert.Empty(t, StopVisit{}.DepartureTime())
}
