package decoding

import (
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

const mountFields = 6

// MountPoint is one row of /proc/mounts.
type MountPoint struct {
	Source  string   `json:"source" yaml:"source"`
	Target  string   `json:"target" yaml:"target"`
	FSType  string   `json:"fstype" yaml:"fstype"`
	Options []string `json:"options" yaml:"options"`
	Dump    int      `json:"dump" yaml:"dump"`
	Pass    int      `json:"pass" yaml:"pass"`
}

// MountPoints keeps mount-table order.
type MountPoints []MountPoint

// ByTarget returns the last mount on target, which is the visible one.
func (ms MountPoints) ByTarget(target string) (MountPoint, bool) {
	for i := len(ms) - 1; i >= 0; i-- {
		if ms[i].Target == target {
			return ms[i], true
		}
	}
	return MountPoint{}, false
}

// DecodeMountLine decodes one mount-table row.
func DecodeMountLine(line string) (MountPoint, error) {
	f := strings.Fields(line)
	if len(f) != mountFields {
		return MountPoint{}, failure.FieldCount("mounts", line, mountFields, len(f))
	}
	dump, err := strconv.Atoi(f[4])
	if err != nil {
		return MountPoint{}, failure.Malformed("mounts", line, err)
	}
	pass, err := strconv.Atoi(f[5])
	if err != nil {
		return MountPoint{}, failure.Malformed("mounts", line, err)
	}
	return MountPoint{
		Source:  unescapeMount(f[0]),
		Target:  unescapeMount(f[1]),
		FSType:  f[2],
		Options: strings.Split(f[3], ","),
		Dump:    dump,
		Pass:    pass,
	}, nil
}

// DecodeMounts decodes /proc/mounts (or /etc/mtab).
func DecodeMounts(text string) (MountPoints, error) {
	out := MountPoints{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, err := DecodeMountLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// unescapeMount decodes the kernel's three-digit octal escapes (\040 for
// space, \011 tab, \012 newline, \134 backslash).
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }
