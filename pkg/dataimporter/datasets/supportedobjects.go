package datasets

// SupportedObjects selects which record kinds of an import are kept. When
// nothing is set every kind is kept.
type SupportedObjects struct {
	Connections      bool
	VehiclePositions bool
	ServiceAlerts    bool
}

func (s SupportedObjects) All() bool {
	return !s.Connections && !s.VehiclePositions && !s.ServiceAlerts
}
