package failure

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("reading interfaces: %w", Unavailable("net/dev", "/proc/net/dev", fs.ErrNotExist))

	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("errors.Is(err, ErrSourceUnavailable) = false; want true")
	}
	if errors.Is(err, ErrDecode) {
		t.Errorf("errors.Is(err, ErrDecode) = true; want false")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("wrapped cause not reachable through Unwrap")
	}
	if !IsKind(err, SourceUnavailable) {
		t.Errorf("IsKind(err, SourceUnavailable) = false; want true")
	}
}

func TestFieldCountMessage(t *testing.T) {
	err := FieldCount("net/dev", "eth0: 1 2 3", 16, 3)
	msg := err.Error()
	for _, want := range []string{"net/dev", "expected 16 fields, got 3", `"eth0: 1 2 3"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q; missing %q", msg, want)
		}
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("field count error should be a decode error")
	}
}

func TestKindsAreDistinct(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{Unavailable("op", "in", nil), SourceUnavailable},
		{Malformedf("op", "in", "bad %d", 1), Decode},
		{MissingKey("meminfo", "MemTotal"), Decode},
		{InvalidDevice("dm-0", "sd"), InvalidDeviceKind},
		{Unsupported("processes", "plan9"), UnsupportedPlatform},
	}
	for _, tt := range tests {
		for _, k := range []Kind{SourceUnavailable, Decode, InvalidDeviceKind, UnsupportedPlatform} {
			if got := IsKind(tt.err, k); got != (k == tt.kind) {
				t.Errorf("IsKind(%v, %v) = %v", tt.err, k, got)
			}
		}
	}
}
