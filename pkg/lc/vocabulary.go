package lc

import (
	"strings"
)

const (
	NamespaceLC    = "http://semweb.mmlab.be/ns/linkedconnections#"
	NamespaceNeTEx = "http://data.europa.eu/949/"
	NamespaceGTFS  = "http://vocab.gtfs.org/terms#"
	NamespaceSIRI  = "http://www.siri.org.uk/siri#"
	NamespaceGeo   = "http://www.w3.org/2003/01/geo/wgs84_pos#"
	NamespaceXSD   = "http://www.w3.org/2001/XMLSchema#"
	NamespaceRDF   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

const (
	TypeConnection      = "lc:Connection"
	TypeVehicleActivity = "siri:VehicleActivity"
	TypePtSituation     = "siri:PtSituationElement"
	DatatypeDateTime    = "xsd:dateTime"
	DatatypeInteger     = "xsd:integer"
	DatatypeBoolean     = "xsd:boolean"
	DatatypeDouble      = "xsd:double"
	PredicateType       = "rdf:type"
)

// Prefixes lists the vocabulary prefixes in the order writers emit them.
var Prefixes = []Prefix{
	{"lc", NamespaceLC},
	{"netex", NamespaceNeTEx},
	{"gtfs", NamespaceGTFS},
	{"siri", NamespaceSIRI},
	{"geo", NamespaceGeo},
	{"xsd", NamespaceXSD},
}

type Prefix struct {
	Name      string
	Namespace string
}

// Context returns the JSON-LD @context mapping.
func Context() map[string]string {
	context := map[string]string{}
	for _, prefix := range Prefixes {
		context[prefix.Name] = prefix.Namespace
	}

	return context
}

// Expand turns a compact name such as lc:Connection into a full IRI. Values
// with an unknown prefix are returned unchanged.
func Expand(name string) string {
	prefix, local, found := strings.Cut(name, ":")
	if !found {
		return name
	}

	if prefix == "rdf" {
		return NamespaceRDF + local
	}

	for _, p := range Prefixes {
		if p.Name == prefix {
			return p.Namespace + local
		}
	}

	return name
}

// Compact is the inverse of Expand for IRIs inside a known namespace.
func Compact(iri string) (string, bool) {
	for _, p := range Prefixes {
		if local, found := strings.CutPrefix(iri, p.Namespace); found && isLocalName(local) {
			return p.Name + ":" + local, true
		}
	}

	return "", false
}

func isLocalName(local string) bool {
	if local == "" {
		return false
	}

	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}

	return true
}
