package uri

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy from a YAML mapping. Templates are taken from the
// "templates" key when present, otherwise from the top level mapping. The
// base URI comes from "baseUri" or "base_uri".
func Load(reader io.Reader) (*Strategy, error) {
	var raw map[string]any

	decoder := yaml.NewDecoder(reader)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, fmt.Errorf("decode uri config: %w", err)
	}

	return fromMap(raw), nil
}

func LoadFile(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Load(bytes.NewReader(data))
}

func fromMap(raw map[string]any) *Strategy {
	baseURI := DefaultBaseURI
	for _, key := range []string{"baseUri", "base_uri"} {
		if value, ok := raw[key].(string); ok && value != "" {
			baseURI = value
			break
		}
	}

	templateSource := raw
	if nested, ok := raw["templates"].(map[string]any); ok && len(nested) > 0 {
		templateSource = nested
	}

	templates := map[string]string{}
	for key, value := range templateSource {
		switch template := value.(type) {
		case string:
			templates[key] = template
		case nil:
			// kept so that resolving the key fails instead of using the default
			templates[key] = ""
		}
	}
	delete(templates, "baseUri")
	delete(templates, "base_uri")
	delete(templates, "templates")

	return New(baseURI, templates)
}
