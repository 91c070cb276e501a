package formats

import (
	"iter"

	"golang.org/x/exp/slices"
)

// StopVisit is one scheduled or observed call at a stop within a journey.
// Empty strings mean the value was not present in the source.
type StopVisit struct {
	Order   *int
	StopRef string

	AimedArrival      string
	AimedDeparture    string
	ExpectedArrival   string
	ExpectedDeparture string

	ArrivalStatus   string
	DepartureStatus string
}

// SortStopVisits orders visits by Order when every visit has one. Otherwise
// document order is kept untouched.
func SortStopVisits(visits []StopVisit) []StopVisit {
	for _, visit := range visits {
		if visit.Order == nil {
			return visits
		}
	}

	sorted := slices.Clone(visits)
	slices.SortStableFunc(sorted, func(a, b StopVisit) int {
		return *a.Order - *b.Order
	})

	return sorted
}

// Legs yields each adjacent pair of visits with its 1-based position.
func Legs(visits []StopVisit) iter.Seq2[int, [2]StopVisit] {
	return func(yield func(int, [2]StopVisit) bool) {
		for i := 0; i+1 < len(visits); i++ {
			if !yield(i+1, [2]StopVisit{visits[i], visits[i+1]}) {
				return
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}

// DepartureTime prefers the observed departure, then the aimed one, falling
// back to the arrival variants.
func (v StopVisit) DepartureTime() string {
	return firstNonEmpty(v.ExpectedDeparture, v.AimedDeparture, v.ExpectedArrival, v.AimedArrival)
}

// ArrivalTime prefers the observed arrival, then the aimed one, falling back
// to the departure variants.
func (v StopVisit) ArrivalTime() string {
	return firstNonEmpty(v.ExpectedArrival, v.AimedArrival, v.ExpectedDeparture, v.AimedDeparture)
}
