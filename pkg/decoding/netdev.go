// Package decoding turns raw host-source text into typed records. Every
// function here is pure: it never touches the filesystem, and it either
// returns a fully validated record or a *failure.Error.
package decoding

import (
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// netDevFields is the number of counters following the interface name on
// a /proc/net/dev line.
const netDevFields = 16

// netDevHeaderLines precede the per-interface rows in /proc/net/dev.
const netDevHeaderLines = 2

// InterfaceStat holds the 16 traffic counters of one interface, in the
// order they appear on the source line.
type InterfaceStat struct {
	RxBytes      uint64 `json:"rx_bytes" yaml:"rx_bytes"`
	RxPackets    uint64 `json:"rx_packets" yaml:"rx_packets"`
	RxErrs       uint64 `json:"rx_errs" yaml:"rx_errs"`
	RxDrop       uint64 `json:"rx_drop" yaml:"rx_drop"`
	RxFifo       uint64 `json:"rx_fifo" yaml:"rx_fifo"`
	RxFrame      uint64 `json:"rx_frame" yaml:"rx_frame"`
	RxCompressed uint64 `json:"rx_compressed" yaml:"rx_compressed"`
	RxMulticast  uint64 `json:"rx_multicast" yaml:"rx_multicast"`
	TxBytes      uint64 `json:"tx_bytes" yaml:"tx_bytes"`
	TxPackets    uint64 `json:"tx_packets" yaml:"tx_packets"`
	TxErrs       uint64 `json:"tx_errs" yaml:"tx_errs"`
	TxDrop       uint64 `json:"tx_drop" yaml:"tx_drop"`
	TxFifo       uint64 `json:"tx_fifo" yaml:"tx_fifo"`
	TxFrame      uint64 `json:"tx_frame" yaml:"tx_frame"`
	TxCompressed uint64 `json:"tx_compressed" yaml:"tx_compressed"`
	TxMulticast  uint64 `json:"tx_multicast" yaml:"tx_multicast"`
}

// Fields returns the counters in source order.
func (s InterfaceStat) Fields() [netDevFields]uint64 {
	return [netDevFields]uint64{
		s.RxBytes, s.RxPackets, s.RxErrs, s.RxDrop,
		s.RxFifo, s.RxFrame, s.RxCompressed, s.RxMulticast,
		s.TxBytes, s.TxPackets, s.TxErrs, s.TxDrop,
		s.TxFifo, s.TxFrame, s.TxCompressed, s.TxMulticast,
	}
}

func interfaceStatFromFields(v [netDevFields]uint64) InterfaceStat {
	return InterfaceStat{
		RxBytes: v[0], RxPackets: v[1], RxErrs: v[2], RxDrop: v[3],
		RxFifo: v[4], RxFrame: v[5], RxCompressed: v[6], RxMulticast: v[7],
		TxBytes: v[8], TxPackets: v[9], TxErrs: v[10], TxDrop: v[11],
		TxFifo: v[12], TxFrame: v[13], TxCompressed: v[14], TxMulticast: v[15],
	}
}

// Interface pairs an interface name with its counters.
type Interface struct {
	Name string        `json:"name" yaml:"name"`
	Stat InterfaceStat `json:"stat" yaml:"stat"`
}

// Interfaces keeps the order in which names were enumerated.
type Interfaces []Interface

// Names returns the interface names in order.
func (is Interfaces) Names() []string {
	names := make([]string, len(is))
	for i, iface := range is {
		names[i] = iface.Name
	}
	return names
}

// Find returns the interface with the given name.
func (is Interfaces) Find(name string) (Interface, bool) {
	for _, iface := range is {
		if iface.Name == name {
			return iface, true
		}
	}
	return Interface{}, false
}

// DecodeNetDevLine decodes one per-interface row of /proc/net/dev. The
// name ends at the first colon and may be glued to the first counter.
func DecodeNetDevLine(line string) (string, InterfaceStat, error) {
	idx := strings.IndexByte(line, ':')
	if idx == -1 {
		return "", InterfaceStat{}, failure.Malformedf("net/dev", line, "missing interface name separator")
	}
	name := strings.TrimSpace(line[:idx])
	if name == "" {
		return "", InterfaceStat{}, failure.Malformedf("net/dev", line, "empty interface name")
	}

	fields := strings.Fields(line[idx+1:])
	if len(fields) != netDevFields {
		return "", InterfaceStat{}, failure.FieldCount("net/dev", line, netDevFields, len(fields))
	}

	var values [netDevFields]uint64
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return "", InterfaceStat{}, failure.Malformed("net/dev", line, err)
		}
		values[i] = v
	}
	return name, interfaceStatFromFields(values), nil
}

// DecodeNetDev decodes the whole /proc/net/dev table. Rows keep file order.
func DecodeNetDev(text string) (Interfaces, error) {
	lines := strings.Split(text, "\n")
	var out Interfaces
	for i, line := range lines {
		if i < netDevHeaderLines || strings.TrimSpace(line) == "" {
			continue
		}
		name, stat, err := DecodeNetDevLine(line)
		if err != nil {
			return nil, err
		}
		out = append(out, Interface{Name: name, Stat: stat})
	}
	return out, nil
}
