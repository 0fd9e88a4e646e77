package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// documentSchema describes a catalog document. Unknown keys are allowed so
// older clients keep reading newer catalogs.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "categories": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id":   {"type": "string", "minLength": 1},
          "name": {"type": "string"}
        }
      }
    },
    "tools": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "category"],
        "properties": {
          "id":              {"type": "string", "minLength": 1},
          "name":            {"type": "string"},
          "description":     {"type": "string"},
          "category":        {"type": "string"},
          "brew_package":    {"type": "string"},
          "check_command":   {"type": "string"},
          "type":            {"enum": ["standard", "custom"]},
          "cask":            {"type": "boolean"},
          "requires":        {"type": "array", "items": {"type": "string"}},
          "install_command": {"type": "string"},
          "pre_install":     {"type": "array", "items": {"type": "string"}},
          "post_install":    {"type": "array", "items": {"type": "string"}}
        },
        "if":   {"properties": {"type": {"const": "custom"}}, "required": ["type"]},
        "then": {"required": ["install_command"]}
      }
    }
  }
}`

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("catalog failed validation: %s", strings.Join(e.Errors, "; "))
}

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Validate checks a raw document against the catalog schema. It returns a
// *ValidationError when the document parses but breaks the schema.
func Validate(data []byte, format Format) error {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("parsing catalog JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing catalog YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown catalog format %q", format)
	}
	if doc == nil {
		return &ValidationError{Errors: []string{"document is empty"}}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &ValidationError{Errors: msgs}
	}
	return nil
}
