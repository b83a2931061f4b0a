package decoding

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"HostFacts/pkg/failure"
)

// loadFixture reads a sample source text from testdata.
func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return string(data)
}

func mustUint(t *testing.T, s string) uint64 {
	t.Helper()
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

// ============================================================================
// /proc/net/dev
// ============================================================================

func TestDecodeNetDevFixture(t *testing.T) {
	ifaces, err := DecodeNetDev(loadFixture(t, "net_dev"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(ifaces.Names(), ","); got != "lo,enp0s3" {
		t.Fatalf("Expected names lo,enp0s3, got %s", got)
	}

	lo := ifaces[0].Stat
	wantLo := [16]uint64{17776656, 127989, 0, 0, 0, 0, 0, 0, 17776656, 127989, 0, 0, 0, 0, 0, 0}
	if lo.Fields() != wantLo {
		t.Errorf("lo fields = %v, want %v", lo.Fields(), wantLo)
	}
	if lo.RxBytes != 17776656 || lo.RxPackets != 127989 || lo.TxMulticast != 0 {
		t.Errorf("lo named fields mismatch: %+v", lo)
	}

	enp, ok := ifaces.Find("enp0s3")
	if !ok {
		t.Fatal("Expected enp0s3 in decoded table")
	}
	if enp.Stat.RxBytes != 482459368 {
		t.Errorf("Expected rx_bytes 482459368, got %d", enp.Stat.RxBytes)
	}
	if enp.Stat.RxMulticast != 4785 {
		t.Errorf("Expected rx_multicast 4785, got %d", enp.Stat.RxMulticast)
	}
	if enp.Stat.TxPackets != 198549 {
		t.Errorf("Expected tx_packets 198549, got %d", enp.Stat.TxPackets)
	}
}

func TestDecodeNetDevLineRoundTrip(t *testing.T) {
	lines := []string{
		"    lo: 17776656  127989    0    0    0     0          0         0 17776656  127989    0    0    0     0       0          0",
		"eth0:1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16",
		"wlp2s0: 18446744073709551615 0 1 0 1 0 1 0 1 0 1 0 1 0 1 18446744073709551615",
	}
	for _, line := range lines {
		name, stat, err := DecodeNetDevLine(line)
		if err != nil {
			t.Fatalf("DecodeNetDevLine(%q): %v", line, err)
		}
		fields := strings.Fields(line[strings.IndexByte(line, ':')+1:])
		got := stat.Fields()
		for i, f := range fields {
			if want := mustUint(t, f); got[i] != want {
				t.Errorf("%s field %d: got %d, want %d", name, i, got[i], want)
			}
		}
		if interfaceStatFromFields(got) != stat {
			t.Errorf("%s: re-serialized counters do not rebuild the record", name)
		}
	}
}

func TestDecodeNetDevLineGluedName(t *testing.T) {
	name, stat, err := DecodeNetDevLine("eth0:1234 5 0 0 0 0 0 0 99 7 0 0 0 0 0 0")
	if err != nil {
		t.Fatal(err)
	}
	if name != "eth0" || stat.RxBytes != 1234 || stat.TxBytes != 99 {
		t.Errorf("Unexpected decode: %s %+v", name, stat)
	}
}

func TestDecodeNetDevLineFieldCount(t *testing.T) {
	cases := map[string]string{
		"fewer": "eth0: 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15",
		"more":  "eth0: 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17",
		"none":  "eth0:",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, stat, err := DecodeNetDevLine(line)
			if !failure.IsKind(err, failure.Decode) {
				t.Fatalf("Expected decode error, got %v", err)
			}
			var fe *failure.Error
			if !errors.As(err, &fe) || fe.Expected != 16 || fe.Input != line {
				t.Errorf("Expected field-count error carrying the line, got %#v", err)
			}
			if stat != (InterfaceStat{}) {
				t.Errorf("Expected no partial record, got %+v", stat)
			}
		})
	}
}

func TestDecodeNetDevLineBadNumber(t *testing.T) {
	_, _, err := DecodeNetDevLine("eth0: 1 2 3 4 5 6 7 x 9 10 11 12 13 14 15 16")
	if !failure.IsKind(err, failure.Decode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
	if _, _, err := DecodeNetDevLine("no separator here"); !failure.IsKind(err, failure.Decode) {
		t.Fatalf("Expected decode error for missing ':', got %v", err)
	}
}

// ============================================================================
// Addresses
// ============================================================================

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		in   string
		v6   bool
		want string
	}{
		{"10.0.0.5:8080", false, "10.0.0.5"},
		{"[fe80::1]:443", true, "fe80::1"},
		{"[fe80::1%eth0]:0", true, "fe80::1%eth0"},
		{"[2001:db8::2]:0", true, "2001:db8::2"},
		{"10.0.0.5", false, "10.0.0.5"},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := ExtractAddress(tt.in, tt.v6); got != tt.want {
			t.Errorf("ExtractAddress(%q, %v) = %q, want %q", tt.in, tt.v6, got, tt.want)
		}
	}
}

func TestFirstAddress(t *testing.T) {
	addrs := []string{"[fe80::1]:0", "192.168.1.4:0"}
	if v4, ok := FirstAddress(addrs, false); !ok || v4 != "192.168.1.4" {
		t.Errorf("Expected 192.168.1.4, got %q (%v)", v4, ok)
	}
	if v6, ok := FirstAddress(addrs, true); !ok || v6 != "fe80::1" {
		t.Errorf("Expected fe80::1, got %q (%v)", v6, ok)
	}
	if v, ok := FirstAddress(nil, false); ok || v != "" {
		t.Errorf("Expected empty result for no addresses, got %q", v)
	}
	if v, ok := FirstAddress([]string{"10.0.0.1:0"}, true); ok || v != "" {
		t.Errorf("Expected no IPv6 address, got %q", v)
	}
}

func TestDecodeMAC(t *testing.T) {
	mac, err := DecodeMAC("52:54:00:12:34:56\n")
	if err != nil {
		t.Fatal(err)
	}
	if mac != "52:54:00:12:34:56" {
		t.Errorf("Expected 52:54:00:12:34:56, got %s", mac)
	}
	if _, err := DecodeMAC("not-a-mac"); !failure.IsKind(err, failure.Decode) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestDecodeRouteTable(t *testing.T) {
	routes, err := DecodeRouteTable(loadFixture(t, "route"))
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 3 {
		t.Fatalf("Expected 3 routes, got %d", len(routes))
	}
	if routes[0].Gateway.String() != "192.168.0.1" {
		t.Errorf("Expected wlan0 gateway 192.168.0.1, got %s", routes[0].Gateway)
	}
	if routes[2].Destination.String() != "10.0.2.0" || routes[2].Mask.String() != "255.255.255.0" {
		t.Errorf("Unexpected subnet route %+v", routes[2])
	}

	def, ok := DefaultRoute(routes)
	if !ok {
		t.Fatal("Expected a default route")
	}
	if def.Iface != "enp0s3" || def.Gateway.String() != "10.0.2.2" {
		t.Errorf("Expected enp0s3 via 10.0.2.2 (lowest metric), got %s via %s", def.Iface, def.Gateway)
	}

	if _, ok := DefaultRoute(routes[2:]); ok {
		t.Error("Expected no default route among subnet routes")
	}
}

func TestDefaultRouteWithoutGateway(t *testing.T) {
	table := "Iface\tDestination\tGateway \tFlags\tRefCnt\tUse\tMetric\tMask\t\tMTU\tWindow\tIRTT\n" +
		"wg0\t00000000\t00000000\t0001\t0\t0\t50\t00000000\t0\t0\t0\n" +
		"eth0\t00000000\t0100A8C0\t0003\t0\t0\t100\t00000000\t0\t0\t0\n" +
		"tun0\t00000000\t00000000\t0000\t0\t0\t1\t00000000\t0\t0\t0\n"
	routes, err := DecodeRouteTable(table)
	if err != nil {
		t.Fatal(err)
	}

	def, ok := DefaultRoute(routes)
	if !ok {
		t.Fatal("Expected a default route")
	}
	if def.Iface != "wg0" || !def.Gateway.Equal(net.IPv4zero) {
		t.Errorf("Expected device route on wg0, got %s via %s", def.Iface, def.Gateway)
	}
}

func TestDecodeARPTable(t *testing.T) {
	entries, err := DecodeARPTable(loadFixture(t, "arp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Device != "enp0s3" || entries[0].IP != "10.0.2.2" || entries[0].Flags != 2 {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}

	empty, err := DecodeARPTable("IP address       HW type     Flags       HW address            Mask     Device\n")
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected header-only table to decode empty, got %v, %v", empty, err)
	}
}

func TestDecodeRouteGetDefault(t *testing.T) {
	out := "   route to: default\ndestination: default\n       mask: default\n    gateway: 192.168.1.1\n  interface: en0\n      flags: <UP,GATEWAY,DONE,STATIC,PRCLONING>\n"
	if name, ok := DecodeRouteGetDefault(out); !ok || name != "en0" {
		t.Errorf("Expected en0, got %q (%v)", name, ok)
	}
	if _, ok := DecodeRouteGetDefault("route: writing to routing socket: not in table\n"); ok {
		t.Error("Expected no interface when route lookup fails")
	}
}

func TestDecodeIfInet6(t *testing.T) {
	addrs, err := DecodeIfInet6(loadFixture(t, "if_inet6"))
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 2 {
		t.Fatalf("Expected 2 addresses, got %d", len(addrs))
	}
	if addrs[0].Address.String() != "::1" || addrs[0].PrefixLen != 128 {
		t.Errorf("Unexpected loopback entry %+v", addrs[0])
	}
	if addrs[1].Iface != "enp0s3" || addrs[1].Address.String() != "fe80::a00:27ff:fe1a:2b3c" || addrs[1].Scope != 0x20 {
		t.Errorf("Unexpected link-local entry %+v", addrs[1])
	}
}
