package decoding

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// KeyValue is one `label: value` line of an info listing.
type KeyValue struct {
	Key   string
	Value string
}

// SplitKeyValue splits a line on its first colon and trims both sides.
// Lines without a colon report ok=false.
func SplitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx == -1 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// DecodeKeyValue collects every key:value line of text in order. Lines
// without a colon are ignored.
func DecodeKeyValue(text string) []KeyValue {
	var out []KeyValue
	for _, line := range strings.Split(text, "\n") {
		if k, v, ok := SplitKeyValue(line); ok && k != "" {
			out = append(out, KeyValue{Key: k, Value: v})
		}
	}
	return out
}

// firstValues maps each key to its first occurrence.
func firstValues(kvs []KeyValue) map[string]string {
	m := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		if _, seen := m[kv.Key]; !seen {
			m[kv.Key] = kv.Value
		}
	}
	return m
}

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
	tib = 1024 * gib
)

var unitMultipliers = map[string]uint64{
	"":    1,
	"B":   1,
	"kB":  kib,
	"K":   kib,
	"KB":  kib,
	"KiB": kib,
	"mB":  mib,
	"M":   mib,
	"MB":  mib,
	"MiB": mib,
	"gB":  gib,
	"G":   gib,
	"GB":  gib,
	"GiB": gib,
	"tB":  tib,
	"T":   tib,
	"TB":  tib,
	"TiB": tib,
}

// ParseQuantity converts "16314244 kB", "2048.00M" or "512" into bytes.
// The unit may be separated by whitespace or glued to the number.
// Fractional numbers are accepted only with a unit.
func ParseQuantity(value string) (uint64, error) {
	v := strings.TrimSpace(value)
	end := 0
	for end < len(v) && (v[end] >= '0' && v[end] <= '9' || v[end] == '.') {
		end++
	}
	number, unit := v[:end], strings.TrimSpace(v[end:])
	if number == "" {
		return 0, failure.Malformedf("quantity", value, "no number")
	}
	mult, ok := unitMultipliers[unit]
	if !ok {
		return 0, failure.Malformedf("quantity", value, "unknown unit %q", unit)
	}

	if !strings.Contains(number, ".") {
		n, err := strconv.ParseUint(number, 10, 64)
		if err != nil {
			return 0, failure.Malformed("quantity", value, err)
		}
		hi, scaled := bits.Mul64(n, mult)
		if hi != 0 {
			return 0, failure.Malformedf("quantity", value, "overflows 64 bits")
		}
		return scaled, nil
	}
	if unit == "" {
		return 0, failure.Malformedf("quantity", value, "fractional value without unit")
	}
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, failure.Malformed("quantity", value, err)
	}
	scaled := f * float64(mult)
	if scaled >= math.Exp2(64) {
		return 0, failure.Malformedf("quantity", value, "overflows 64 bits")
	}
	return uint64(scaled), nil
}

// requireKey returns the value of a required key or a MissingKey error.
func requireKey(op string, m map[string]string, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", failure.MissingKey(op, key)
	}
	return v, nil
}

// quantityOf parses the named key as a quantity, wrapping failures in the
// caller's op.
func quantityOf(op string, m map[string]string, key string) (uint64, error) {
	v, err := requireKey(op, m, key)
	if err != nil {
		return 0, err
	}
	n, err := ParseQuantity(v)
	if err != nil {
		return 0, failure.Malformed(op, key+": "+v, fmt.Errorf("parse quantity: %w", err))
	}
	return n, nil
}
