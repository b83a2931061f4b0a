package exporting

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Deterministic encoding: sorted map keys, smallest integer form.
var cborEncMode cbor.EncMode

// Decoded maps come back as map[string]any so they mix with the other
// formats' records.
var cborDecMode cbor.DecMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("exporting: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("exporting: CBOR decoder initialization failed: " + err.Error())
	}

	Register(&CBORFormat{})
}

// CBORFormat writes a sequence of CBOR data items, one per record.
type CBORFormat struct{}

func (f *CBORFormat) Name() string         { return "cbor" }
func (f *CBORFormat) Extensions() []string { return []string{".cbor"} }
func (f *CBORFormat) Flat() bool           { return false }
func (f *CBORFormat) Reader() Reader       { return &CBORReader{} }
func (f *CBORFormat) Writer() Writer       { return &CBORWriter{} }

// CBORReader decodes items until the stream ends.
type CBORReader struct{}

func (r *CBORReader) Read(in io.Reader) ([]Record, error) {
	dec := cborDecMode.NewDecoder(in)
	var records []Record
	for {
		var record Record
		if err := dec.Decode(&record); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("item %d: %w", len(records), err)
		}
		records = append(records, record)
	}
}

// CBORWriter encodes each record as it arrives.
type CBORWriter struct {
	enc *cbor.Encoder
}

func (w *CBORWriter) Init(out io.Writer) error {
	w.enc = cborEncMode.NewEncoder(out)
	return nil
}

func (w *CBORWriter) Write(record Record) error {
	if err := w.enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode CBOR: %w", err)
	}
	return nil
}

func (w *CBORWriter) Close() error { return nil }
