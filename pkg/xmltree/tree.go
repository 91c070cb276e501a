package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

var ErrEmptyDocument = errors.New("xml document has no root element")

// Node is a single element of a parsed document. Text holds the character
// data before the first child element, child elements are in Children.
type Node struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Node
	Text     string
}

// Tag returns the element tag in Clark notation ({namespace}local) when the
// element is namespaced, otherwise the bare local name.
func (n *Node) Tag() string {
	if n.Name.Space == "" {
		return n.Name.Local
	}

	return fmt.Sprintf("{%s}%s", n.Name.Space, n.Name.Local)
}

func (n *Node) LocalName() string {
	return LocalName(n.Name.Local)
}

// Attribute looks an attribute up by its local name, ignoring any namespace.
func (n *Node) Attribute(name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}

	return "", false
}

// TrimmedText returns the element text with surrounding whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Children {
		if child.LocalName() == name {
			return child
		}
	}

	return nil
}

func Parse(reader io.Reader) (*Node, error) {
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Name: ty.Name,
				Attr: append([]xml.Attr(nil), ty.Attr...),
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xml document has more than one root element")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}

			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			// only text before the first child belongs to the element
			if len(stack) > 0 && len(stack[len(stack)-1].Children) == 0 {
				stack[len(stack)-1].Text += string(ty)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}

	return root, nil
}

func ParseBytes(data []byte) (*Node, error) {
	return Parse(bytes.NewReader(data))
}

func ParseFile(path string) (*Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	root, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return root, nil
}
