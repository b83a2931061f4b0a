package exporting

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLFormat{})
}

// YAMLFormat writes one YAML document per record.
type YAMLFormat struct{}

func (f *YAMLFormat) Name() string         { return "yaml" }
func (f *YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }
func (f *YAMLFormat) Flat() bool           { return false }
func (f *YAMLFormat) Reader() Reader       { return &YAMLReader{} }
func (f *YAMLFormat) Writer() Writer       { return &YAMLWriter{} }

// YAMLReader decodes every document in the stream.
type YAMLReader struct{}

func (r *YAMLReader) Read(in io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(in)
	var records []Record
	for {
		var record Record
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("document %d: %w", len(records), err)
		}
		if record != nil {
			records = append(records, record)
		}
	}
}

// YAMLWriter separates records with document markers.
type YAMLWriter struct {
	enc *yaml.Encoder
}

func (w *YAMLWriter) Init(out io.Writer) error {
	w.enc = yaml.NewEncoder(out)
	w.enc.SetIndent(2)
	return nil
}

func (w *YAMLWriter) Write(record Record) error {
	if err := w.enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

func (w *YAMLWriter) Close() error {
	if w.enc == nil {
		return nil
	}
	return w.enc.Close()
}
