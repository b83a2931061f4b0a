// Package exporting encodes snapshot records into files or streams.
package exporting

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Record is one snapshot: metadata keys plus one key per section.
type Record = map[string]any

// Format defines the interface for a data format.
type Format interface {
	Name() string
	Extensions() []string
	// Flat reports whether the format needs flattened records.
	Flat() bool
	Reader() Reader
	Writer() Writer
}

// Reader decodes every record from a stream.
type Reader interface {
	Read(r io.Reader) ([]Record, error)
}

// Writer encodes records onto a stream. Close flushes but never closes the
// underlying stream.
type Writer interface {
	Init(w io.Writer) error
	Write(record Record) error
	Close() error
}

// Registry management
var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// GetByPath returns a format based on the file's extension, looking
// through a compression suffix.
func GetByPath(path string) (Format, bool) {
	path, _ = SplitCompression(path)
	return GetByExtension(filepath.Ext(path))
}

// Names lists the registered formats.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetExtension returns the primary file extension for a format name.
func GetExtension(format string) string {
	f, ok := Get(format)
	if !ok || len(f.Extensions()) == 0 {
		return ".json"
	}
	return f.Extensions()[0]
}

// Encode writes records onto w in the named format.
func Encode(w io.Writer, format string, records ...Record) error {
	f, ok := Get(format)
	if !ok {
		return fmt.Errorf("unsupported format: %s", format)
	}
	writer := f.Writer()
	if err := writer.Init(w); err != nil {
		return fmt.Errorf("failed to initialize writer: %w", err)
	}
	for i, r := range records {
		r, err := prepare(r, f.Flat())
		if err != nil {
			return err
		}
		if err := writer.Write(r); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Close()
}

// Decode reads every record from r in the named format.
func Decode(r io.Reader, format string) ([]Record, error) {
	f, ok := Get(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	records, err := f.Reader().Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

func prepare(r Record, flat bool) (Record, error) {
	n, err := Normalize(r)
	if err != nil {
		return nil, err
	}
	if flat {
		return Flatten(n), nil
	}
	return n, nil
}
