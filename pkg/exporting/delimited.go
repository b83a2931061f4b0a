package exporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
}

// CSVFormat handles CSV files.
type CSVFormat struct{}

func (f *CSVFormat) Name() string         { return "csv" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }
func (f *CSVFormat) Flat() bool           { return true }
func (f *CSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: ','} }
func (f *CSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: ','} }

// TSVFormat handles TSV files.
type TSVFormat struct{}

func (f *TSVFormat) Name() string         { return "tsv" }
func (f *TSVFormat) Extensions() []string { return []string{".tsv"} }
func (f *TSVFormat) Flat() bool           { return true }
func (f *TSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: '\t'} }
func (f *TSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: '\t'} }

// DelimitedReader reads CSV/TSV streams with a header row.
type DelimitedReader struct {
	delimiter rune
}

// Read parses all rows after the header.
func (r *DelimitedReader) Read(in io.Reader) ([]Record, error) {
	reader := csv.NewReader(in)
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		records = append(records, rowToRecord(header, row))
	}

	return records, nil
}

func rowToRecord(header, row []string) Record {
	record := make(Record)

	for i, val := range row {
		if i >= len(header) || val == "" {
			continue
		}
		key := header[i]

		if i64, err := strconv.ParseInt(val, 10, 64); err == nil {
			record[key] = i64
		} else if f, err := strconv.ParseFloat(val, 64); err == nil && strings.ContainsAny(val, ".eE") {
			record[key] = f
		} else if strings.EqualFold(val, "true") {
			record[key] = true
		} else if strings.EqualFold(val, "false") {
			record[key] = false
		} else {
			record[key] = val
		}
	}

	return record
}

// DelimitedWriter writes CSV/TSV streams. The first record fixes the
// header.
type DelimitedWriter struct {
	writer    *csv.Writer
	header    []string
	delimiter rune
	mu        sync.Mutex
}

// Init prepares the writer.
func (w *DelimitedWriter) Init(out io.Writer) error {
	w.writer = csv.NewWriter(out)
	w.writer.Comma = w.delimiter
	return nil
}

// Write writes a single record.
func (w *DelimitedWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.header == nil {
		w.header = sortedKeys(record)
		if err := w.writer.Write(w.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := make([]string, len(w.header))
	for i, key := range w.header {
		if val, ok := record[key]; ok {
			row[i] = FormatValue(val)
		}
	}

	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Close flushes buffered rows.
func (w *DelimitedWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		w.writer.Flush()
		return w.writer.Error()
	}
	return nil
}

func sortedKeys(record Record) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
