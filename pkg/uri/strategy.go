package uri

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

const DefaultBaseURI = "http://transport.example.org"

const (
	TemplateStopPlace      = "stop_place"
	TemplateQuay           = "quay"
	TemplateLine           = "line"
	TemplateServiceJourney = "service_journey"
	TemplateConnection     = "connection"
	TemplateOperator       = "operator"
	TemplateVehicle        = "vehicle"
	TemplateAlert          = "alert"
)

var defaultTemplates = map[string]string{
	TemplateStopPlace:      "{base_uri}/stops/{stop_id}",
	TemplateQuay:           "{base_uri}/stops/{stop_place_id}/quays/{quay_id}",
	TemplateLine:           "{base_uri}/lines/{line_id}",
	TemplateServiceJourney: "{base_uri}/journeys/{service_journey_id}",
	TemplateConnection:     "{base_uri}/connections/{departure_date}/{service_journey_id}/{sequence}",
	TemplateOperator:       "{base_uri}/operators/{operator_id}",
	TemplateVehicle:        "{base_uri}/vehicles/{vehicle_id}",
	TemplateAlert:          "{base_uri}/alerts/{situation_number}",
}

var keyAliases = map[string]string{
	"baseUri":        "base_uri",
	"stopPlace":      TemplateStopPlace,
	"serviceJourney": TemplateServiceJourney,
}

// Linked Connections server style placeholders such as
// {departureTime(yyyyMMdd)} collapse to their bare name.
var departureTimePattern = regexp.MustCompile(`\{departureTime\([^}]*\)\}`)

// Strategy turns domain identifiers into stable URIs. It is immutable once
// built and safe for concurrent use.
type Strategy struct {
	baseURI   string
	templates map[string]string
}

// DefaultTemplates returns a copy of the built in template set.
func DefaultTemplates() map[string]string {
	return maps.Clone(defaultTemplates)
}

// New builds a strategy whose templates override the defaults key by key.
// An empty base URI selects DefaultBaseURI.
func New(baseURI string, templates map[string]string) *Strategy {
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}

	merged := DefaultTemplates()
	for key, template := range templates {
		merged[NormalizeKey(key)] = departureTimePattern.ReplaceAllString(template, "{departureTime}")
	}

	return &Strategy{
		baseURI:   strings.TrimRight(baseURI, "/"),
		templates: merged,
	}
}

func Default() *Strategy {
	return New(DefaultBaseURI, nil)
}

// NormalizeKey maps camelCase template keys onto their canonical names.
func NormalizeKey(key string) string {
	if alias, ok := keyAliases[key]; ok {
		return alias
	}

	return key
}

func (s *Strategy) BaseURI() string {
	return s.baseURI
}

func (s *Strategy) Templates() map[string]string {
	return maps.Clone(s.templates)
}

// WithBaseURI returns a copy of the strategy using a different base.
func (s *Strategy) WithBaseURI(baseURI string) *Strategy {
	return New(baseURI, s.templates)
}

// Resolve fills the named template. base_uri is always available as a
// placeholder.
func (s *Strategy) Resolve(key string, values map[string]string) (string, error) {
	template, ok := s.templates[NormalizeKey(key)]
	if !ok {
		return "", &ConfigurationError{Key: key, Reason: "no template configured"}
	}
	if template == "" {
		return "", &ConfigurationError{Key: key, Reason: "empty template"}
	}

	var out strings.Builder

	for i := 0; i < len(template); i++ {
		c := template[i]

		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}

			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", &ConfigurationError{Key: key, Reason: "unterminated placeholder"}
			}

			name := template[i+1 : i+1+end]
			spec := ""
			if colon := strings.IndexByte(name, ':'); colon >= 0 {
				name, spec = name[:colon], name[colon+1:]
			}

			value, found := s.lookup(name, values)
			if !found {
				return "", &ConfigurationError{Key: key, Placeholder: name, Reason: "unknown placeholder"}
			}

			formatted, err := applyFormatSpec(value, spec)
			if err != nil {
				return "", &ConfigurationError{Key: key, Placeholder: name, Reason: err.Error()}
			}

			out.WriteString(formatted)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
			}
			out.WriteByte('}')
		default:
			out.WriteByte(c)
		}
	}

	return out.String(), nil
}

func (s *Strategy) lookup(name string, values map[string]string) (string, bool) {
	if value, ok := values[name]; ok {
		return value, true
	}

	switch name {
	case "base_uri", "baseUri":
		return s.baseURI, true
	}

	return "", false
}

// applyFormatSpec supports zero padded integer widths ({sequence:03d}).
func applyFormatSpec(value string, spec string) (string, error) {
	if spec == "" {
		return value, nil
	}

	if strings.HasSuffix(spec, "d") {
		width := strings.TrimSuffix(spec, "d")
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("value %q is not an integer", value)
		}

		if width == "" {
			return strconv.Itoa(n), nil
		}

		w, err := strconv.Atoi(width)
		if err != nil {
			return "", fmt.Errorf("unsupported format %q", spec)
		}

		if strings.HasPrefix(width, "0") {
			return fmt.Sprintf("%0*d", w, n), nil
		}
		return fmt.Sprintf("%*d", w, n), nil
	}

	return "", fmt.Errorf("unsupported format %q", spec)
}

func (s *Strategy) Stop(stopID string) (string, error) {
	return s.Resolve(TemplateStopPlace, map[string]string{
		"stop_id":       stopID,
		"stopId":        stopID,
		"stopPlaceId":   stopID,
		"stop_place_id": stopID,
	})
}

func (s *Strategy) Quay(stopPlaceID string, quayID string) (string, error) {
	return s.Resolve(TemplateQuay, map[string]string{
		"stop_place_id": stopPlaceID,
		"stopPlaceId":   stopPlaceID,
		"quay_id":       quayID,
		"quayId":        quayID,
	})
}

func (s *Strategy) Line(lineID string) (string, error) {
	return s.Resolve(TemplateLine, map[string]string{
		"line_id": lineID,
		"lineId":  lineID,
	})
}

func (s *Strategy) ServiceJourney(serviceJourneyID string) (string, error) {
	return s.Resolve(TemplateServiceJourney, map[string]string{
		"service_journey_id": serviceJourneyID,
		"serviceJourneyId":   serviceJourneyID,
	})
}

func (s *Strategy) Operator(operatorID string) (string, error) {
	return s.Resolve(TemplateOperator, map[string]string{
		"operator_id": operatorID,
		"operatorId":  operatorID,
	})
}

// Connection resolves a connection URI. departureDate is expected as YYYYMMDD.
func (s *Strategy) Connection(departureDate string, serviceJourneyID string, sequence int) (string, error) {
	return s.Resolve(TemplateConnection, map[string]string{
		"departure_date":     departureDate,
		"departureDate":      departureDate,
		"departureTime":      departureDate,
		"service_journey_id": serviceJourneyID,
		"serviceJourneyId":   serviceJourneyID,
		"sequence":           strconv.Itoa(sequence),
	})
}

func (s *Strategy) Vehicle(vehicleID string) (string, error) {
	return s.Resolve(TemplateVehicle, map[string]string{
		"vehicle_id": vehicleID,
		"vehicleId":  vehicleID,
	})
}

func (s *Strategy) Alert(situationNumber string) (string, error) {
	return s.Resolve(TemplateAlert, map[string]string{
		"situation_number": situationNumber,
		"situationNumber":  situationNumber,
	})
}
