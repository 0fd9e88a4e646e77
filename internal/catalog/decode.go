package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a catalog document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Decode parses a catalog document and applies defaults.
func Decode(data []byte, format Format) (*Catalog, error) {
	var cat Catalog
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cat); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
	cat.normalize()
	return &cat, nil
}

// Encode renders the catalog as JSON, the format stored in the cache.
func Encode(c *Catalog) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// LoadFile reads, validates, and decodes a catalog file.
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if err := Validate(data, format); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Decode(data, format)
}
