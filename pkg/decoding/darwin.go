package decoding

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"HostFacts/pkg/failure"
)

// VMStat is the decoded output of `vm_stat`: the page size from the
// header and every counter keyed by its label ("Pages free", "Pageins").
type VMStat struct {
	PageSize uint64
	Counters map[string]uint64
}

// Pages returns the byte size of the "Pages <label>" counter.
func (v VMStat) Pages(label string) uint64 {
	return v.Counters["Pages "+label] * v.PageSize
}

// Memory maps the page counters onto the Memory record. vm_stat does not
// report the physical total or swap, so those come from the caller.
func (v VMStat) Memory(total, swapTotal, swapFree uint64) Memory {
	free := v.Pages("free") + v.Pages("speculative")
	return Memory{
		Total:     total,
		Free:      free,
		Available: free + v.Pages("inactive") + v.Pages("purgeable"),
		Cached:    v.Counters["File-backed pages"] * v.PageSize,
		SwapTotal: swapTotal,
		SwapFree:  swapFree,
	}
}

// DecodeVMStat decodes `vm_stat` output. The first line must carry
// "(page size of N bytes)".
func DecodeVMStat(text string) (VMStat, error) {
	const op = "vm_stat"
	lines := strings.Split(strings.TrimSpace(text), "\n")
	header := lines[0]
	start := strings.Index(header, "page size of ")
	if start == -1 {
		return VMStat{}, failure.Malformedf(op, header, "missing page size")
	}
	f := strings.Fields(header[start+len("page size of "):])
	if len(f) == 0 {
		return VMStat{}, failure.Malformedf(op, header, "missing page size")
	}
	pageSize, err := strconv.ParseUint(f[0], 10, 64)
	if err != nil {
		return VMStat{}, failure.Malformed(op, header, err)
	}

	vm := VMStat{PageSize: pageSize, Counters: map[string]uint64{}}
	for _, line := range lines[1:] {
		label, value, ok := SplitKeyValue(line)
		if !ok {
			continue
		}
		label = strings.Trim(label, `"`)
		n, err := strconv.ParseUint(strings.TrimSuffix(value, "."), 10, 64)
		if err != nil {
			return VMStat{}, failure.Malformed(op, line, err)
		}
		vm.Counters[label] = n
	}
	return vm, nil
}

// SwapUsage is the decoded vm.swapusage sysctl, in bytes.
type SwapUsage struct {
	Total uint64 `json:"total" yaml:"total"`
	Used  uint64 `json:"used" yaml:"used"`
	Free  uint64 `json:"free" yaml:"free"`
}

// DecodeSwapUsage decodes "total = 2048.00M  used = 1024.00M  free =
// 1024.00M  (encrypted)".
func DecodeSwapUsage(text string) (SwapUsage, error) {
	const op = "vm.swapusage"
	f := strings.Fields(text)
	values := map[string]string{}
	for i := 0; i+2 < len(f); i++ {
		if f[i+1] == "=" {
			values[f[i]] = f[i+2]
			i += 2
		}
	}
	var s SwapUsage
	for key, dst := range map[string]*uint64{"total": &s.Total, "used": &s.Used, "free": &s.Free} {
		v, ok := values[key]
		if !ok {
			return SwapUsage{}, failure.MissingKey(op, key)
		}
		n, err := ParseQuantity(v)
		if err != nil {
			return SwapUsage{}, failure.Malformed(op, text, err)
		}
		*dst = n
	}
	return s, nil
}

// timevalSize is sizeof(struct timeval) on 64-bit darwin: int64 seconds,
// int32 microseconds and 4 bytes of padding.
const timevalSize = 16

// DecodeTimeval decodes a raw kern.boottime value.
func DecodeTimeval(raw []byte) (time.Time, error) {
	if len(raw) < timevalSize {
		return time.Time{}, failure.FieldCount("kern.boottime", hex.EncodeToString(raw), timevalSize, len(raw))
	}
	sec := int64(binary.LittleEndian.Uint64(raw[0:8]))
	usec := int32(binary.LittleEndian.Uint32(raw[8:12]))
	if usec < 0 || usec >= 1e6 {
		return time.Time{}, failure.Malformedf("kern.boottime", strconv.Itoa(int(usec)), "microseconds out of range")
	}
	return time.Unix(sec, int64(usec)*int64(time.Microsecond)), nil
}
