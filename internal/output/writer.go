package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/inodb/pharmaguard/internal/report"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTab  = "tab"
)

// Writer writes assessment results.
type Writer interface {
	Write(res *report.Result) error
	Flush() error
}

// New returns a writer for the given format.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(w), nil
	case FormatYAML, "yml":
		return NewYAMLWriter(w), nil
	case FormatTab, "tsv":
		return NewTabWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONWriter writes each result as an indented JSON document.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSONWriter{enc: enc}
}

// Write encodes a single result.
func (jw *JSONWriter) Write(res *report.Result) error {
	if err := jw.enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// Flush is a no-op; results are written as they are encoded.
func (jw *JSONWriter) Flush() error {
	return nil
}

// YAMLWriter writes results as a stream of YAML documents.
type YAMLWriter struct {
	enc *yaml.Encoder
}

// NewYAMLWriter creates a new YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLWriter{enc: enc}
}

// Write encodes a single result as a YAML document.
func (yw *YAMLWriter) Write(res *report.Result) error {
	if err := yw.enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// Flush closes the YAML stream.
func (yw *YAMLWriter) Flush() error {
	return yw.enc.Close()
}
