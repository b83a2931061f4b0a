package exporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exporter streams records into a file or stdout in one format, optionally
// compressed.
type Exporter struct {
	path        string
	format      Format
	compression Compression
	file        *os.File
	stream      io.WriteCloser
	writer      Writer
	count       int
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithCompression wraps the output stream.
func WithCompression(c Compression) ExporterOption {
	return func(e *Exporter) {
		e.compression = c
	}
}

// NewExporter creates an exporter for path, or stdout when path is "" or
// "-".
func NewExporter(path, format string, opts ...ExporterOption) (*Exporter, error) {
	f, ok := Get(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	e := &Exporter{path: path, format: f, compression: CompressionNone}
	for _, opt := range opts {
		opt(e)
	}

	var out io.Writer = os.Stdout
	if path != "" && path != "-" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file: %w", err)
		}
		e.file = file
		out = file
	}

	stream, err := Compress(out, e.compression)
	if err != nil {
		e.closeFile()
		return nil, err
	}
	e.stream = stream

	e.writer = f.Writer()
	if err := e.writer.Init(stream); err != nil {
		e.closeFile()
		return nil, fmt.Errorf("failed to initialize writer: %w", err)
	}

	return e, nil
}

// Path returns the output path; empty for stdout.
func (e *Exporter) Path() string {
	if e.file == nil {
		return ""
	}
	return e.path
}

// Format returns the output format name.
func (e *Exporter) Format() string {
	return e.format.Name()
}

// Count is the number of records written so far.
func (e *Exporter) Count() int {
	return e.count
}

// Write normalizes a record, flattening it when the format requires, and
// writes it.
func (e *Exporter) Write(record Record) error {
	r, err := prepare(record, e.format.Flat())
	if err != nil {
		return err
	}
	if err := e.writer.Write(r); err != nil {
		return err
	}
	e.count++
	return nil
}

// Close flushes the format, the compressor and the file, in that order.
func (e *Exporter) Close() error {
	werr := e.writer.Close()
	serr := e.stream.Close()
	ferr := e.closeFile()
	switch {
	case werr != nil:
		return werr
	case serr != nil:
		return fmt.Errorf("failed to flush compressed stream: %w", serr)
	default:
		return ferr
	}
}

func (e *Exporter) closeFile() error {
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// LoadRecords reads every record from a file, picking the format and
// compression from its extensions.
func LoadRecords(path string) ([]Record, error) {
	f, ok := GetByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}
	_, c := SplitCompression(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	in, release, err := Decompress(file, c)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := f.Reader().Read(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

// SaveRecords writes records to path, picking the format and compression
// from its extensions.
func SaveRecords(path string, records []Record) error {
	f, ok := GetByPath(path)
	if !ok {
		return fmt.Errorf("unsupported format for file: %s", path)
	}
	_, c := SplitCompression(path)

	e, err := NewExporter(path, f.Name(), WithCompression(c))
	if err != nil {
		return err
	}
	for i, r := range records {
		if err := e.Write(r); err != nil {
			e.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return e.Close()
}
