package exporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"HostFacts/pkg/collecting"
)

// Metadata keys present on every record.
const (
	KeySessionID = "session_id"
	KeyTimestamp = "timestamp"
	KeyPlatform  = "platform"
	KeyErrors    = "errors"
)

// Meta identifies one snapshot.
type Meta struct {
	SessionID uuid.UUID
	Timestamp time.Time
	Platform  string
}

// NewRecord assembles a record from collected sections. A failed section
// is left out and its error is listed under KeyErrors.
func NewRecord(meta Meta, sections []collecting.Section) Record {
	r := Record{
		KeySessionID: meta.SessionID.String(),
		KeyTimestamp: meta.Timestamp.UnixNano(),
		KeyPlatform:  meta.Platform,
	}
	errs := map[string]string{}
	for _, s := range sections {
		if s.Err != nil {
			errs[s.Name] = s.Err.Error()
			continue
		}
		r[s.Name] = s.Value
	}
	if len(errs) > 0 {
		r[KeyErrors] = errs
	}
	return r
}

// Normalize converts typed section values into plain maps, slices and
// scalars keyed by their json names. Integers keep full precision.
func Normalize(r Record) (Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out Record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return convertNumbers(out).(Record), nil
}

func convertNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = convertNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = convertNumbers(val)
		}
		return t
	case json.Number:
		return numberValue(string(t))
	default:
		return v
	}
}

func numberValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
