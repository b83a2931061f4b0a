package exporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

func init() {
	Register(&JSONFormat{})
}

// JSONFormat writes a single record as an indented object, or several as
// an indented array.
type JSONFormat struct{}

func (f *JSONFormat) Name() string         { return "json" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }
func (f *JSONFormat) Flat() bool           { return false }
func (f *JSONFormat) Reader() Reader       { return &JSONReader{} }
func (f *JSONFormat) Writer() Writer       { return &JSONWriter{} }

// JSONReader accepts either form written by JSONWriter.
type JSONReader struct{}

func (r *JSONReader) Read(in io.Reader) ([]Record, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode array: %w", err)
		}
		return records, nil
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return []Record{record}, nil
}

// JSONWriter buffers records until Close.
type JSONWriter struct {
	out     io.Writer
	records []Record
}

func (w *JSONWriter) Init(out io.Writer) error {
	w.out = out
	return nil
}

func (w *JSONWriter) Write(record Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *JSONWriter) Close() error {
	if w.out == nil || len(w.records) == 0 {
		return nil
	}
	var v any = w.records
	if len(w.records) == 1 {
		v = w.records[0]
	}
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	w.records = nil
	return nil
}
