package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/relayout/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (use json, yaml, or toml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "%s: no file extension to infer the format from", path)
	}
	return ParseFormat(ext)
}

// ReadFile reads and parses a document, inferring the format from the
// extension.
func ReadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return doc, nil
}

// Parse decodes a document, validates it against the schema and checks its
// name.
func Parse(data []byte, format Format) (*Document, error) {
	normalized, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(normalized); err != nil {
		return nil, err
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if err := errors.ValidateDocumentName(doc.Name); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks an already decoded document against the schema.
func (d *Document) Validate() error {
	data, err := d.Marshal()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	if err := validateJSON(data); err != nil {
		return err
	}
	return errors.ValidateDocumentName(d.Name)
}

// toJSON normalizes any supported encoding to JSON.
func toJSON(data []byte, format Format) ([]byte, error) {
	var raw any
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "malformed JSON")
		}
		return data, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse YAML")
		}
	case FormatTOML:
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse TOML")
		}
		raw = m
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "convert %s to JSON", format)
	}
	return out, nil
}

//go:embed schema.json
var schemaJSON string

const schemaURL = "document.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(schemaURL, schemaJSON)
})

// Schema returns the embedded JSON Schema source.
func Schema() []byte { return []byte(schemaJSON) }

func validateJSON(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile document schema")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "malformed JSON")
	}
	if err := schema.Validate(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "schema validation failed")
	}
	return nil
}
