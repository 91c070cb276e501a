package serialize

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/travigo/linkedconnections/pkg/lc"
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

const iriExcluded = "<>\"{}|^`\\"

// escapeIRI percent-encodes the characters an IRIREF may not contain.
func escapeIRI(iri string) string {
	var builder strings.Builder

	for i := 0; i < len(iri); i++ {
		c := iri[i]
		if c <= 0x20 || strings.IndexByte(iriExcluded, c) >= 0 {
			fmt.Fprintf(&builder, "%%%02X", c)
			continue
		}
		builder.WriteByte(c)
	}

	return builder.String()
}

func ntriplesTerm(term lc.Term) string {
	switch term.Kind {
	case lc.TermBlank:
		return "_:" + term.Value
	case lc.TermLiteral:
		literal := `"` + literalEscaper.Replace(term.Value) + `"`
		if term.Datatype != "" {
			literal += "^^<" + escapeIRI(term.Datatype) + ">"
		}
		return literal
	default:
		return "<" + escapeIRI(term.Value) + ">"
	}
}

// WriteNTriples writes one triple per line with full IRIs.
func WriteNTriples(writer io.Writer, triples []lc.Triple) error {
	buffered := bufio.NewWriter(writer)

	for _, triple := range triples {
		fmt.Fprintf(buffered, "%s %s %s .\n", ntriplesTerm(triple.Subject), ntriplesTerm(triple.Predicate), ntriplesTerm(triple.Object))
	}

	return buffered.Flush()
}

func turtleTerm(term lc.Term) string {
	switch term.Kind {
	case lc.TermBlank:
		return "_:" + term.Value
	case lc.TermLiteral:
		literal := `"` + literalEscaper.Replace(term.Value) + `"`
		if term.Datatype != "" {
			literal += "^^" + turtleIRI(term.Datatype)
		}
		return literal
	default:
		return turtleIRI(term.Value)
	}
}

func turtleIRI(iri string) string {
	if compact, ok := lc.Compact(iri); ok {
		return compact
	}

	return "<" + escapeIRI(iri) + ">"
}

// subjectGroups keeps the triples of each subject together, in order of
// first appearance.
func subjectGroups(triples []lc.Triple) ([]lc.Term, map[lc.Term][]lc.Triple) {
	var subjects []lc.Term
	groups := map[lc.Term][]lc.Triple{}

	for _, triple := range triples {
		if _, ok := groups[triple.Subject]; !ok {
			subjects = append(subjects, triple.Subject)
		}
		groups[triple.Subject] = append(groups[triple.Subject], triple)
	}

	return subjects, groups
}

// WriteTurtle writes prefixed Turtle, one block per subject.
func WriteTurtle(writer io.Writer, triples []lc.Triple) error {
	buffered := bufio.NewWriter(writer)

	for _, prefix := range lc.Prefixes {
		fmt.Fprintf(buffered, "@prefix %s: <%s> .\n", prefix.Name, prefix.Namespace)
	}

	subjects, groups := subjectGroups(triples)

	for _, subject := range subjects {
		buffered.WriteString("\n")
		buffered.WriteString(turtleTerm(subject))

		group := groups[subject]
		for i, triple := range group {
			predicate := turtleIRI(triple.Predicate.Value)
			if triple.Predicate.Value == lc.NamespaceRDF+"type" {
				predicate = "a"
			}

			separator := " ;"
			if i == len(group)-1 {
				separator = " ."
			}

			fmt.Fprintf(buffered, "\n    %s %s%s", predicate, turtleTerm(triple.Object), separator)
		}
		buffered.WriteString("\n")
	}

	return buffered.Flush()
}

// splitIRI cuts an IRI into namespace and local name at the last '#' or '/'.
func splitIRI(iri string) (string, string) {
	index := strings.LastIndexAny(iri, "#/")
	if index < 0 || index == len(iri)-1 {
		return "", iri
	}

	return iri[:index+1], iri[index+1:]
}

type rdfxmlWriter struct {
	out        *bufio.Writer
	namespaces map[string]string
	order      []string
}

func (w *rdfxmlWriter) qname(iri string) string {
	if compact, ok := lc.Compact(iri); ok {
		return compact
	}
	if local, found := strings.CutPrefix(iri, lc.NamespaceRDF); found {
		return "rdf:" + local
	}

	namespace, local := splitIRI(iri)
	prefix, ok := w.namespaces[namespace]
	if !ok {
		prefix = fmt.Sprintf("ns%d", len(w.namespaces))
		w.namespaces[namespace] = prefix
		w.order = append(w.order, namespace)
	}

	return prefix + ":" + local
}

func escapeXML(value string) string {
	var builder strings.Builder
	xml.EscapeText(&builder, []byte(value))

	return builder.String()
}

// WriteRDFXML writes an rdf:RDF document with one rdf:Description per
// subject.
func WriteRDFXML(writer io.Writer, triples []lc.Triple) error {
	subjects, groups := subjectGroups(triples)

	// Namespaces outside the vocabulary are collected while rendering the
	// body, so the body is built first.
	w := &rdfxmlWriter{namespaces: map[string]string{}}
	var body strings.Builder
	w.out = bufio.NewWriter(&body)

	for _, subject := range subjects {
		if subject.Kind == lc.TermBlank {
			fmt.Fprintf(w.out, "  <rdf:Description rdf:nodeID=\"%s\">\n", escapeXML(subject.Value))
		} else {
			fmt.Fprintf(w.out, "  <rdf:Description rdf:about=\"%s\">\n", escapeXML(escapeIRI(subject.Value)))
		}

		for _, triple := range groups[subject] {
			name := w.qname(triple.Predicate.Value)
			object := triple.Object

			switch object.Kind {
			case lc.TermIRI:
				fmt.Fprintf(w.out, "    <%s rdf:resource=\"%s\"/>\n", name, escapeXML(escapeIRI(object.Value)))
			case lc.TermBlank:
				fmt.Fprintf(w.out, "    <%s rdf:nodeID=\"%s\"/>\n", name, escapeXML(object.Value))
			default:
				if object.Datatype != "" {
					fmt.Fprintf(w.out, "    <%s rdf:datatype=\"%s\">%s</%s>\n", name, escapeXML(object.Datatype), escapeXML(object.Value), name)
				} else {
					fmt.Fprintf(w.out, "    <%s>%s</%s>\n", name, escapeXML(object.Value), name)
				}
			}
		}

		w.out.WriteString("  </rdf:Description>\n")
	}

	if err := w.out.Flush(); err != nil {
		return err
	}

	out := bufio.NewWriter(writer)
	out.WriteString(xml.Header)
	fmt.Fprintf(out, "<rdf:RDF\n   xmlns:rdf=\"%s\"", lc.NamespaceRDF)
	for _, prefix := range lc.Prefixes {
		fmt.Fprintf(out, "\n   xmlns:%s=\"%s\"", prefix.Name, prefix.Namespace)
	}
	for _, namespace := range w.order {
		fmt.Fprintf(out, "\n   xmlns:%s=\"%s\"", w.namespaces[namespace], escapeXML(namespace))
	}
	out.WriteString(">\n")
	out.WriteString(body.String())
	out.WriteString("</rdf:RDF>\n")

	return out.Flush()
}
