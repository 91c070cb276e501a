package lc

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// Document is the subject/type/predicate view of one entity, handed to the
// serialize package unchanged. Property values are one of string, int,
// float64, bool, TypedLiteral, Ref, Node or []any of those.
type Document struct {
	ID         string
	Type       string
	Properties map[string]any
}

// TypedLiteral is a literal with an explicit datatype such as xsd:dateTime.
type TypedLiteral struct {
	Value    string
	Datatype string
}

// Ref points at another resource, optionally describing it inline.
type Ref struct {
	ID         string
	Properties map[string]any
}

// Node is an anonymous nested resource.
type Node map[string]any

func DateTime(value string) TypedLiteral {
	return TypedLiteral{Value: value, Datatype: DatatypeDateTime}
}

func Integer(value int) TypedLiteral {
	return TypedLiteral{Value: strconv.Itoa(value), Datatype: DatatypeInteger}
}

func Boolean(value bool) TypedLiteral {
	return TypedLiteral{Value: strconv.FormatBool(value), Datatype: DatatypeBoolean}
}

// Keys returns the property names in sorted order.
func (d Document) Keys() []string {
	return slices.Sorted(maps.Keys(d.Properties))
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"@id": d.ID,
	}
	if d.Type != "" {
		out["@type"] = d.Type
	}

	for key, value := range d.Properties {
		out[key] = jsonValue(value)
	}

	return json.Marshal(out)
}

func jsonValue(value any) any {
	switch v := value.(type) {
	case TypedLiteral:
		return map[string]string{"@value": v.Value, "@type": v.Datatype}
	case Ref:
		out := map[string]any{"@id": v.ID}
		for key, property := range v.Properties {
			out[key] = jsonValue(property)
		}
		return out
	case Node:
		out := map[string]any{}
		for key, property := range v {
			out[key] = jsonValue(property)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, jsonValue(item))
		}
		return out
	default:
		return v
	}
}
