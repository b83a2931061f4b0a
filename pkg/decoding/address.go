package decoding

import (
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"

	"HostFacts/pkg/failure"
)

// ExtractAddress isolates the address part of a socket-address string.
// IPv4 "10.0.0.5:8080" anchors on the last ':'; IPv6 "[fe80::1]:443"
// anchors on the last ']' because the address itself contains colons.
// Input without the delimiter is returned unchanged.
func ExtractAddress(composite string, v6 bool) string {
	if v6 {
		end := strings.LastIndexByte(composite, ']')
		if end == -1 {
			return composite
		}
		return strings.TrimPrefix(composite[:end], "[")
	}
	end := strings.LastIndexByte(composite, ':')
	if end == -1 {
		return composite
	}
	return composite[:end]
}

// FirstAddress returns the first address of the requested family among
// socket-address strings. An empty result is reported with ok=false.
func FirstAddress(composites []string, v6 bool) (string, bool) {
	for _, c := range composites {
		isV6 := strings.HasPrefix(c, "[")
		if isV6 != v6 {
			continue
		}
		if addr := ExtractAddress(c, v6); addr != "" {
			return addr, true
		}
	}
	return "", false
}

// DecodeMAC validates a hardware address read from sysfs.
func DecodeMAC(text string) (string, error) {
	v := strings.TrimSpace(text)
	hw, err := net.ParseMAC(v)
	if err != nil {
		return "", failure.Malformed("mac", v, err)
	}
	return hw.String(), nil
}

// ARPEntry is one row of /proc/net/arp.
type ARPEntry struct {
	IP        string `json:"ip"`
	HWType    uint64 `json:"hw_type"`
	Flags     uint64 `json:"flags"`
	HWAddress string `json:"hw_address"`
	Mask      string `json:"mask"`
	Device    string `json:"device"`
}

const arpFields = 6

// DecodeARPTable decodes /proc/net/arp. The first line is a header.
func DecodeARPTable(text string) ([]ARPEntry, error) {
	var out []ARPEntry
	for i, line := range strings.Split(text, "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != arpFields {
			return nil, failure.FieldCount("net/arp", line, arpFields, len(f))
		}
		hwType, err := strconv.ParseUint(f[1], 0, 64)
		if err != nil {
			return nil, failure.Malformed("net/arp", line, err)
		}
		flags, err := strconv.ParseUint(f[2], 0, 64)
		if err != nil {
			return nil, failure.Malformed("net/arp", line, err)
		}
		out = append(out, ARPEntry{
			IP:        f[0],
			HWType:    hwType,
			Flags:     flags,
			HWAddress: f[3],
			Mask:      f[4],
			Device:    f[5],
		})
	}
	return out, nil
}

// Route is one row of /proc/net/route.
type Route struct {
	Iface       string `json:"iface"`
	Destination net.IP `json:"destination"`
	Gateway     net.IP `json:"gateway"`
	Flags       uint64 `json:"flags"`
	Metric      uint64 `json:"metric"`
	Mask        net.IP `json:"mask"`
}

const (
	routeFields = 11
	routeFlagUp = 0x1
)

// DecodeRouteTable decodes /proc/net/route. Addresses are 8-digit hex in
// host (little-endian) byte order.
func DecodeRouteTable(text string) ([]Route, error) {
	var out []Route
	for i, line := range strings.Split(text, "\n") {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != routeFields {
			return nil, failure.FieldCount("net/route", line, routeFields, len(f))
		}
		dst, err := decodeHexIPv4(f[1])
		if err != nil {
			return nil, failure.Malformed("net/route", line, err)
		}
		gw, err := decodeHexIPv4(f[2])
		if err != nil {
			return nil, failure.Malformed("net/route", line, err)
		}
		flags, err := strconv.ParseUint(f[3], 16, 64)
		if err != nil {
			return nil, failure.Malformed("net/route", line, err)
		}
		metric, err := strconv.ParseUint(f[6], 10, 64)
		if err != nil {
			return nil, failure.Malformed("net/route", line, err)
		}
		mask, err := decodeHexIPv4(f[7])
		if err != nil {
			return nil, failure.Malformed("net/route", line, err)
		}
		out = append(out, Route{Iface: f[0], Destination: dst, Gateway: gw, Flags: flags, Metric: metric, Mask: mask})
	}
	return out, nil
}

// DefaultRoute picks the up 0.0.0.0/0 route with the lowest metric. Routes
// without a gateway (point-to-point or tunnel devices) qualify too.
func DefaultRoute(routes []Route) (Route, bool) {
	var best Route
	found := false
	for _, r := range routes {
		if !r.Destination.Equal(net.IPv4zero) || !r.Mask.Equal(net.IPv4zero) {
			continue
		}
		if r.Flags&routeFlagUp == 0 {
			continue
		}
		if !found || r.Metric < best.Metric {
			best, found = r, true
		}
	}
	return best, found
}

func decodeHexIPv4(s string) (net.IP, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != net.IPv4len {
		return nil, fmt.Errorf("address %q: want %d bytes, got %d", s, net.IPv4len, len(b))
	}
	return net.IPv4(b[3], b[2], b[1], b[0]).To4(), nil
}

// DecodeRouteGetDefault finds the interface in `route -n get default`
// output. Absence of the line is reported with ok=false.
func DecodeRouteGetDefault(text string) (string, bool) {
	const label = "interface:"
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, label) {
			name := strings.TrimSpace(line[len(label):])
			return name, name != ""
		}
	}
	return "", false
}

// Inet6Addr is one row of /proc/net/if_inet6.
type Inet6Addr struct {
	Address   net.IP `json:"address"`
	Index     uint64 `json:"index"`
	PrefixLen uint64 `json:"prefix_len"`
	Scope     uint64 `json:"scope"`
	Flags     uint64 `json:"flags"`
	Iface     string `json:"iface"`
}

const inet6Fields = 6

// DecodeIfInet6 decodes /proc/net/if_inet6. There is no header line.
func DecodeIfInet6(text string) ([]Inet6Addr, error) {
	var out []Inet6Addr
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) != inet6Fields {
			return nil, failure.FieldCount("net/if_inet6", line, inet6Fields, len(f))
		}
		raw, err := hex.DecodeString(f[0])
		if err != nil || len(raw) != net.IPv6len {
			return nil, failure.Malformedf("net/if_inet6", line, "bad address %q", f[0])
		}
		var nums [4]uint64
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseUint(f[i+1], 16, 64)
			if err != nil {
				return nil, failure.Malformed("net/if_inet6", line, err)
			}
			nums[i] = v
		}
		out = append(out, Inet6Addr{
			Address:   net.IP(raw),
			Index:     nums[0],
			PrefixLen: nums[1],
			Scope:     nums[2],
			Flags:     nums[3],
			Iface:     f[5],
		})
	}
	return out, nil
}
