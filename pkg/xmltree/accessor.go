package xmltree

import (
	"iter"
	"strings"

	"golang.org/x/exp/slices"
)

// LocalName strips a Clark-notation namespace wrapper or a prefix from a tag.
func LocalName(tag string) string {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return tag[i+1:]
	}
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}

	return tag
}

// Namespace returns the namespace URI of a Clark-notation tag.
func Namespace(tag string) (string, bool) {
	if !strings.HasPrefix(tag, "{") {
		return "", false
	}

	end := strings.Index(tag, "}")
	if end < 0 {
		return "", false
	}

	return tag[1:end], true
}

// Descendants yields every element below root in document order. Root itself
// is not yielded.
func Descendants(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if root == nil {
			return
		}
		walk(root, yield)
	}
}

func walk(node *Node, yield func(*Node) bool) bool {
	for _, child := range node.Children {
		if !yield(child) {
			return false
		}
		if !walk(child, yield) {
			return false
		}
	}

	return true
}

// IterElements yields descendants of root whose local name matches name.
func IterElements(root *Node, name string) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for node := range Descendants(root) {
			if node.LocalName() == name {
				if !yield(node) {
					return
				}
			}
		}
	}
}

// FindFirst returns the first descendant, in document order, whose local name
// is any of names. The order of names does not express a priority.
func FindFirst(root *Node, names ...string) *Node {
	for node := range Descendants(root) {
		if slices.Contains(names, node.LocalName()) {
			return node
		}
	}

	return nil
}

func FindAll(root *Node, names ...string) []*Node {
	var found []*Node

	for node := range Descendants(root) {
		if slices.Contains(names, node.LocalName()) {
			found = append(found, node)
		}
	}

	return found
}

// FindText returns the trimmed text of FindFirst. Whitespace-only text counts
// as absent.
func FindText(root *Node, names ...string) (string, bool) {
	node := FindFirst(root, names...)
	if node == nil {
		return "", false
	}

	text := node.TrimmedText()

	return text, text != ""
}

// FindRef resolves the first matching reference element: its ref attribute,
// then its id attribute, then its text.
func FindRef(root *Node, names ...string) (string, bool) {
	node := FindFirst(root, names...)
	if node == nil {
		return "", false
	}

	if ref, ok := node.Attribute("ref"); ok && ref != "" {
		return ref, true
	}
	if id, ok := node.Attribute("id"); ok && id != "" {
		return id, true
	}

	text := node.TrimmedText()

	return text, text != ""
}

func FindAttribute(root *Node, attribute string, names ...string) (string, bool) {
	node := FindFirst(root, names...)
	if node == nil {
		return "", false
	}

	value, ok := node.Attribute(attribute)

	return value, ok && value != ""
}
