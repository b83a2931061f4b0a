package decoding

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"HostFacts/pkg/failure"
)

// ArchKind is the processor architecture reported by the windows
// SYSTEM_INFO discriminant.
type ArchKind int

const (
	ArchUnknown ArchKind = iota
	ArchX86
	ArchARM
	ArchItanium
	ArchX64
	ArchARM64
)

// Architecture keeps the raw discriminant alongside the decoded kind so
// unknown codes stay visible.
type Architecture struct {
	Kind ArchKind
	Code uint16
}

var archCodes = map[uint16]ArchKind{
	0:  ArchX86,
	5:  ArchARM,
	6:  ArchItanium,
	9:  ArchX64,
	12: ArchARM64,
}

// DecodeArchitecture maps a wProcessorArchitecture value.
func DecodeArchitecture(code uint16) Architecture {
	if k, ok := archCodes[code]; ok {
		return Architecture{Kind: k, Code: code}
	}
	return Architecture{Kind: ArchUnknown, Code: code}
}

func (a Architecture) String() string {
	switch a.Kind {
	case ArchX86:
		return "x86"
	case ArchARM:
		return "ARM"
	case ArchItanium:
		return "Intel Itanium-based"
	case ArchX64:
		return "x64"
	case ArchARM64:
		return "ARM64"
	default:
		return fmt.Sprintf("Unknown(%d)", a.Code)
	}
}

// DecodeUptime decodes the first field of /proc/uptime (seconds, with a
// fractional part).
func DecodeUptime(text string) (time.Duration, error) {
	f := strings.Fields(text)
	if len(f) == 0 {
		return 0, failure.Malformedf("uptime", text, "empty")
	}
	secs, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return 0, failure.Malformed("uptime", text, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
