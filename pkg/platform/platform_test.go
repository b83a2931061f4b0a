package platform

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
)

// stubFacts answers a fixed set of facts and leaves the rest unsupported.
type stubFacts struct {
	unsupported
	defaultIface string
	ifaces       decoding.Interfaces
	hostnameErr  error
	machineID    uuid.UUID
	machineIDErr error
}

func newStub() *stubFacts {
	return &stubFacts{
		unsupported:  unsupported{goos: "stub"},
		defaultIface: "eth0",
		ifaces: decoding.Interfaces{
			{Name: "lo", Stat: decoding.InterfaceStat{RxBytes: 10, TxBytes: 10}},
			{Name: "eth0", Stat: decoding.InterfaceStat{RxBytes: 2048, TxBytes: 1024}},
		},
	}
}

func (s *stubFacts) Hostname() (string, error) {
	if s.hostnameErr != nil {
		return "", s.hostnameErr
	}
	return "node-1", nil
}

func (s *stubFacts) Uptime() (time.Duration, error) { return 90 * time.Second, nil }

func (s *stubFacts) MachineID() (uuid.UUID, error) {
	if s.machineIDErr != nil {
		return uuid.Nil, s.machineIDErr
	}
	if s.machineID == uuid.Nil {
		return s.unsupported.MachineID()
	}
	return s.machineID, nil
}

func (s *stubFacts) Interfaces() (decoding.Interfaces, error) { return s.ifaces, nil }

func (s *stubFacts) DefaultInterface() (string, bool, error) {
	return s.defaultIface, s.defaultIface != "", nil
}

func (s *stubFacts) IPv4(string) (string, bool, error) { return "10.0.0.5", true, nil }

func (s *stubFacts) MemoryInfo() (decoding.Memory, error) {
	return decoding.Memory{Total: 4096, Available: 1024}, nil
}

// ============================================================================
// Unsupported variant
// ============================================================================

func TestUnsupportedFailsEveryFact(t *testing.T) {
	u := unsupported{goos: "plan9"}
	checks := map[string]error{}
	_, checks["hostname"] = u.Hostname()
	_, checks["uptime"] = u.Uptime()
	_, checks["machine id"] = u.MachineID()
	_, checks["memory"] = u.Memory()
	_, _, checks["default"] = u.DefaultInterface()
	_, checks["processes"] = u.Processes()
	_, checks["block"] = u.StatBlockDevice("sda")
	_, checks["mounts"] = u.Mounts()

	for name, err := range checks {
		if !errors.Is(err, failure.ErrUnsupportedPlatform) {
			t.Errorf("%s: expected unsupported platform, got %v", name, err)
		}
	}
	if u.Name() != "plan9" {
		t.Errorf("Expected name plan9, got %q", u.Name())
	}
}

func TestNewReturnsVariant(t *testing.T) {
	facts := New()
	if facts == nil || facts.Name() == "" {
		t.Fatal("Expected a named variant")
	}
}

// ============================================================================
// Sections
// ============================================================================

func TestCollectSystemToleratesUnsupported(t *testing.T) {
	s, err := CollectSystem(newStub())
	if err != nil {
		t.Fatalf("Expected unsupported facts to be tolerated, got %v", err)
	}
	if s.Hostname != "node-1" || s.UptimeSeconds != 90 || s.Platform != "stub" {
		t.Errorf("Unexpected system section %+v", s)
	}
	if s.Kernel != "" || s.Arch != "" {
		t.Errorf("Expected unsupported facts to stay empty, got %+v", s)
	}
}

func TestCollectSystemMachineID(t *testing.T) {
	stub := newStub()
	stub.machineID = uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	s, err := CollectSystem(stub)
	if err != nil || s.MachineID != "01234567-89ab-cdef-0123-456789abcdef" {
		t.Errorf("CollectSystem() = %+v, %v", s, err)
	}

	stub = newStub()
	stub.machineIDErr = failure.Unavailable("read", "/etc/machine-id", errors.New("no such file"))
	if s, err := CollectSystem(stub); err != nil || s.MachineID != "" {
		t.Errorf("Expected a missing machine id to be tolerated, got %+v, %v", s, err)
	}

	stub = newStub()
	stub.machineIDErr = failure.Malformed("machine-id", "garbage", errors.New("bad length"))
	if _, err := CollectSystem(stub); !errors.Is(err, failure.ErrDecode) {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestCollectSystemRequiresHostname(t *testing.T) {
	stub := newStub()
	stub.hostnameErr = failure.Unavailable("read", "/proc/sys/kernel/hostname", errors.New("gone"))
	if _, err := CollectSystem(stub); !errors.Is(err, failure.ErrSourceUnavailable) {
		t.Fatalf("Expected source unavailable, got %v", err)
	}
}

func TestCollectNetwork(t *testing.T) {
	n, err := CollectNetwork(newStub())
	if err != nil {
		t.Fatal(err)
	}
	if n.DefaultInterface != "eth0" || n.IPv4 != "10.0.0.5" {
		t.Errorf("Unexpected default interface facts %+v", n)
	}
	if n.IPv6 != "" || n.MAC != "" {
		t.Errorf("Expected unsupported IPv6 and MAC to stay empty, got %+v", n)
	}
	if len(n.Interfaces) != 2 {
		t.Errorf("Expected 2 interfaces, got %d", len(n.Interfaces))
	}
}

func TestCollectNetworkWithoutDefaultRoute(t *testing.T) {
	stub := newStub()
	stub.defaultIface = ""
	n, err := CollectNetwork(stub)
	if err != nil {
		t.Fatal(err)
	}
	if n.DefaultInterface != "" || n.IPv4 != "" {
		t.Errorf("Expected no default interface facts, got %+v", n)
	}
}

func TestCollectors(t *testing.T) {
	cols, err := Collectors(newStub(), []string{"memory", " System "})
	if err != nil {
		t.Fatal(err)
	}
	sections := collecting.NewManager(cols, false, nil).Collect()
	if len(sections) != 2 || sections[0].Name != SectionMemory || sections[1].Name != SectionSystem {
		t.Fatalf("Unexpected sections %+v", sections)
	}
	mem, ok := sections[0].Value.(decoding.Memory)
	if !ok || mem.Total != 4096 {
		t.Errorf("Unexpected memory section %#v", sections[0].Value)
	}
}

func TestCollectorsDefaultsToEverySection(t *testing.T) {
	cols, err := Collectors(newStub(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != len(Sections) {
		t.Fatalf("Expected %d collectors, got %d", len(Sections), len(cols))
	}
	sections := collecting.NewManager(cols, true, nil).Collect()
	for _, s := range sections {
		switch s.Name {
		case SectionProcesses, SectionMounts, SectionBlock, SectionCPU:
			if !errors.Is(s.Err, failure.ErrUnsupportedPlatform) {
				t.Errorf("%s: expected unsupported platform, got %v", s.Name, s.Err)
			}
		default:
			if s.Err != nil {
				t.Errorf("%s: unexpected error %v", s.Name, s.Err)
			}
		}
	}
}

func TestCollectorsUnknownSection(t *testing.T) {
	_, err := Collectors(newStub(), []string{"gpu"})
	if err == nil || !strings.Contains(err.Error(), "unknown section") {
		t.Fatalf("Expected unknown section error, got %v", err)
	}
}

// ============================================================================
// gopsutil mapping
// ============================================================================

func TestInterfaceStatFromCounters(t *testing.T) {
	st := interfaceStatFromCounters(net.IOCountersStat{
		Name:        "en0",
		BytesSent:   100,
		BytesRecv:   200,
		PacketsSent: 3,
		PacketsRecv: 4,
		Errin:       5,
		Errout:      6,
		Dropin:      7,
		Dropout:     8,
	})
	want := decoding.InterfaceStat{
		RxBytes: 200, RxPackets: 4, RxErrs: 5, RxDrop: 7,
		TxBytes: 100, TxPackets: 3, TxErrs: 6, TxDrop: 8,
	}
	if st != want {
		t.Errorf("Expected %+v, got %+v", want, st)
	}
}

func TestMountFromPartition(t *testing.T) {
	m := mountFromPartition(disk.PartitionStat{
		Device:     "/dev/disk3s1",
		Mountpoint: "/",
		Fstype:     "apfs",
		Opts:       []string{"ro", " ", "journaled"},
	})
	if m.Source != "/dev/disk3s1" || m.Target != "/" || m.FSType != "apfs" {
		t.Errorf("Unexpected mount %+v", m)
	}
	if strings.Join(m.Options, ",") != "ro,journaled" {
		t.Errorf("Expected blank options dropped, got %v", m.Options)
	}
}

func TestMemoryFromStats(t *testing.T) {
	vm := &mem.VirtualMemoryStat{Total: 8 << 30, Available: 5 << 30, Free: 3 << 30, Cached: 1 << 30}
	sw := &mem.SwapMemoryStat{Total: 2 << 30, Free: 1 << 30}

	m := memoryFromStats(vm, sw)
	want := decoding.Memory{
		Total: 8 << 30, Free: 3 << 30, Available: 5 << 30, Cached: 1 << 30,
		SwapTotal: 2 << 30, SwapFree: 1 << 30,
	}
	if m != want {
		t.Errorf("Expected %+v, got %+v", want, m)
	}
	if m.Used() != 3<<30 {
		t.Errorf("Expected 3 GiB used, got %d", m.Used())
	}

	if m := memoryFromStats(vm, nil); m.SwapTotal != 0 || m.Total != 8<<30 {
		t.Errorf("Expected no swap without swap stats, got %+v", m)
	}
}

func TestSkipOptionalLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	skipOptional(logger, "cpu vendor", failure.Unavailable("sysctl", "machdep.cpu.vendor", errors.New("not found")))
	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "fact=\"cpu vendor\"") {
		t.Errorf("Unexpected log line %q", out)
	}
}
