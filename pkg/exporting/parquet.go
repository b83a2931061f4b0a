package exporting

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/parquet-go/parquet-go"
)

const ParquetBatchSize = 1000

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files. Records are flattened; the first
// record fixes the columns and later keys outside them are dropped.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Flat() bool           { return true }
func (f *ParquetFormat) Reader() Reader       { return &ParquetReader{} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// ParquetReader reads Parquet data. The footer sits at the end, so the
// stream is buffered whole.
type ParquetReader struct{}

func (r *ParquetReader) Read(in io.Reader) ([]Record, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}

	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := pf.Schema().Fields()
	fieldNames := make([]string, len(fields))
	for i, f := range fields {
		fieldNames[i] = f.Name()
	}

	records := make([]Record, 0, pf.NumRows())
	rowBuf := make([]parquet.Row, 100)

	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()

		for {
			n, err := rows.ReadRows(rowBuf)
			for i := 0; i < n; i++ {
				record := make(Record, len(fields))
				for j, val := range rowBuf[i] {
					if j >= len(fieldNames) || val.IsNull() {
						continue
					}
					record[fieldNames[j]] = parquetValueToGo(val)
				}
				records = append(records, record)
			}

			if err != nil {
				rows.Close()
				if err != io.EOF {
					return nil, fmt.Errorf("failed to read rows: %w", err)
				}
				break
			}
			if n == 0 {
				rows.Close()
				break
			}
		}
	}

	return records, nil
}

func parquetValueToGo(v parquet.Value) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

type columnKind int

const (
	columnString columnKind = iota
	columnInt
	columnDouble
	columnBool
)

// ParquetWriter writes Parquet data using the Row API.
type ParquetWriter struct {
	out     io.Writer
	writer  *parquet.Writer
	columns []string
	kinds   []columnKind
	buffer  []parquet.Row
	mu      sync.Mutex
}

func (w *ParquetWriter) Init(out io.Writer) error {
	w.out = out
	w.buffer = make([]parquet.Row, 0, ParquetBatchSize)
	return nil
}

func (w *ParquetWriter) initSchema(record Record) {
	w.columns = make([]string, 0, len(record))
	for k := range record {
		w.columns = append(w.columns, k)
	}
	sort.Strings(w.columns)

	group := make(parquet.Group)
	w.kinds = make([]columnKind, len(w.columns))
	for i, name := range w.columns {
		w.kinds[i] = kindOf(record[name])
		group[name] = kindNode(w.kinds[i])
	}

	w.writer = parquet.NewWriter(w.out, parquet.NewSchema("snapshot", group),
		parquet.Compression(&parquet.Snappy),
	)
}

func kindOf(val any) columnKind {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return columnInt
	case float32, float64:
		return columnDouble
	case bool:
		return columnBool
	default:
		return columnString
	}
}

func kindNode(k columnKind) parquet.Node {
	switch k {
	case columnInt:
		return parquet.Optional(parquet.Int(64))
	case columnDouble:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case columnBool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func (w *ParquetWriter) recordToRow(record Record) parquet.Row {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		val, ok := record[name]
		if !ok || val == nil {
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		v := toParquetValue(val, w.kinds[i])
		if v.IsNull() {
			row[i] = v.Level(0, 0, i)
			continue
		}
		row[i] = v.Level(0, 1, i)
	}
	return row
}

// toParquetValue coerces val to the column's kind, so a later record
// carrying 2000 where the first carried 2000.5 still fits.
func toParquetValue(val any, kind columnKind) parquet.Value {
	switch kind {
	case columnInt:
		if i, ok := ToInt64(val); ok {
			return parquet.Int64Value(i)
		}
	case columnDouble:
		if f, ok := ToFloat64(val); ok {
			return parquet.DoubleValue(f)
		}
	case columnBool:
		if b, ok := val.(bool); ok {
			return parquet.BooleanValue(b)
		}
	default:
		return parquet.ByteArrayValue([]byte(FormatValue(val)))
	}
	return parquet.NullValue()
}

func (w *ParquetWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		w.initSchema(record)
	}

	w.buffer = append(w.buffer, w.recordToRow(record))
	if len(w.buffer) >= ParquetBatchSize {
		return w.flushBuffer()
	}
	return nil
}

func (w *ParquetWriter) flushBuffer() error {
	if len(w.buffer) == 0 || w.writer == nil {
		return nil
	}
	if _, err := w.writer.WriteRows(w.buffer); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	w.buffer = w.buffer[:0]
	return nil
}

func (w *ParquetWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.flushBuffer(); err != nil {
		return err
	}
	if w.writer != nil {
		return w.writer.Close()
	}
	return nil
}
