package lc

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

type TermKind int

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
)

// Term is one position of a triple. Datatype is a full IRI and only set for
// typed literals.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
}

type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func IRI(value string) Term {
	return Term{Kind: TermIRI, Value: value}
}

// Triples flattens documents into triples. Output order follows document
// order then sorted predicate names, and blank nodes are numbered in that
// order so the result is stable for a given input.
func Triples(documents ...Document) []Triple {
	b := &tripleBuilder{}

	for _, document := range documents {
		subject := IRI(document.ID)
		if document.Type != "" {
			b.add(subject, Expand(PredicateType), IRI(Expand(document.Type)))
		}
		b.properties(subject, document.Properties)
	}

	return b.triples
}

type tripleBuilder struct {
	triples []Triple
	blanks  int
}

func (b *tripleBuilder) add(subject Term, predicate string, object Term) {
	b.triples = append(b.triples, Triple{Subject: subject, Predicate: IRI(predicate), Object: object})
}

func (b *tripleBuilder) properties(subject Term, properties map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(properties)) {
		b.value(subject, Expand(key), properties[key])
	}
}

func (b *tripleBuilder) value(subject Term, predicate string, value any) {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			b.value(subject, predicate, item)
		}
	case Ref:
		object := IRI(v.ID)
		b.add(subject, predicate, object)
		b.properties(object, v.Properties)
	case Node:
		object := Term{Kind: TermBlank, Value: fmt.Sprintf("b%d", b.blanks)}
		b.blanks++
		b.add(subject, predicate, object)
		b.properties(object, v)
	default:
		if object, ok := literal(v); ok {
			b.add(subject, predicate, object)
		}
	}
}

func literal(value any) (Term, bool) {
	switch v := value.(type) {
	case TypedLiteral:
		return Term{Kind: TermLiteral, Value: v.Value, Datatype: Expand(v.Datatype)}, true
	case string:
		return Term{Kind: TermLiteral, Value: v}, true
	case int:
		return Term{Kind: TermLiteral, Value: strconv.Itoa(v), Datatype: Expand(DatatypeInteger)}, true
	case float64:
		return Term{Kind: TermLiteral, Value: strconv.FormatFloat(v, 'f', -1, 64), Datatype: Expand(DatatypeDouble)}, true
	case bool:
		return Term{Kind: TermLiteral, Value: strconv.FormatBool(v), Datatype: Expand(DatatypeBoolean)}, true
	}

	return Term{}, false
}
