package decoding

import (
	"strings"
	"testing"

	"HostFacts/pkg/failure"
)

func TestSplitKeyValue(t *testing.T) {
	k, v, ok := SplitKeyValue("model name\t: Intel(R) Xeon(R) CPU @ 2.20GHz")
	if !ok || k != "model name" || v != "Intel(R) Xeon(R) CPU @ 2.20GHz" {
		t.Errorf("Unexpected split: %q %q %v", k, v, ok)
	}
	k, v, ok = SplitKeyValue("CPU architecture: 8")
	if !ok || k != "CPU architecture" || v != "8" {
		t.Errorf("Unexpected split: %q %q %v", k, v, ok)
	}
	if _, _, ok := SplitKeyValue("no delimiter"); ok {
		t.Error("Expected ok=false without a colon")
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"512", 512},
		{"512 B", 512},
		{"16314244 kB", 16314244 * 1024},
		{"12288 KB", 12582912},
		{"4K", 4096},
		{"3 KiB", 3072},
		{"2048.00M", 2147483648},
		{"1 MB", 1 << 20},
		{"1.5G", 1610612736},
		{"2 GiB", 2 << 30},
		{"1T", 1 << 40},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if err != nil {
			t.Errorf("ParseQuantity(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "kB", "12 parsecs", "1.5", "1.2.3 kB"} {
		if _, err := ParseQuantity(bad); !failure.IsKind(err, failure.Decode) {
			t.Errorf("ParseQuantity(%q) error = %v, want decode error", bad, err)
		}
	}
}

func TestParseQuantityOverflow(t *testing.T) {
	for _, huge := range []string{"18014398509481984 kB", "99999999999999999999.5 TB", "18446744073709551616"} {
		if _, err := ParseQuantity(huge); !failure.IsKind(err, failure.Decode) {
			t.Errorf("ParseQuantity(%q) error = %v, want decode error", huge, err)
		}
	}

	got, err := ParseQuantity("18014398509481983 kB")
	if err != nil {
		t.Fatalf("ParseQuantity: %v", err)
	}
	if got != 18446744073709550592 {
		t.Errorf("ParseQuantity = %d, want 18446744073709550592", got)
	}
}

func TestDecodeMeminfo(t *testing.T) {
	mem, err := DecodeMeminfo(loadFixture(t, "meminfo"))
	if err != nil {
		t.Fatal(err)
	}
	want := Memory{
		Total:     16705785856,
		Free:      1232433152,
		Available: 10113576960,
		Buffers:   422195200,
		Cached:    7838023680,
		Shared:    353894400,
		SwapTotal: 2147479552,
		SwapFree:  2147479552,
	}
	if mem != want {
		t.Errorf("DecodeMeminfo =\n%+v\nwant\n%+v", mem, want)
	}
	if mem.Used() != want.Total-want.Available {
		t.Errorf("Expected used %d, got %d", want.Total-want.Available, mem.Used())
	}
}

func TestDecodeMeminfoMissingKey(t *testing.T) {
	text := strings.Replace(loadFixture(t, "meminfo"), "MemAvailable:", "MemAvail:", 1)
	_, err := DecodeMeminfo(text)
	if !failure.IsKind(err, failure.Decode) {
		t.Fatalf("Expected decode error, got %v", err)
	}
	if !strings.Contains(err.Error(), "MemAvailable") {
		t.Errorf("Expected error to name the missing key, got %v", err)
	}
}

func TestDecodeMeminfoOptionalKeys(t *testing.T) {
	text := "MemTotal: 1000 kB\nMemFree: 10 kB\nMemAvailable: 500 kB\nSwapTotal: 0 kB\nSwapFree: 0 kB\n"
	mem, err := DecodeMeminfo(text)
	if err != nil {
		t.Fatal(err)
	}
	if mem.Buffers != 0 || mem.Cached != 0 || mem.Shared != 0 {
		t.Errorf("Expected zero optional fields, got %+v", mem)
	}
}

func TestDecodeCPUInfoX86(t *testing.T) {
	p, cores, err := DecodeCPUInfo(loadFixture(t, "cpuinfo_x86"))
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelName != "Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz" {
		t.Errorf("Expected first model name to win, got %q", p.ModelName)
	}
	if p.Vendor != "GenuineIntel" || p.Family != "6" || p.Model != "158" || p.Stepping != "10" || p.Microcode != "0xf4" {
		t.Errorf("Unexpected identity: %+v", p)
	}
	if p.CacheSize != 12582912 {
		t.Errorf("Expected cache size 12582912, got %d", p.CacheSize)
	}
	if p.MHz != 3192.0 {
		t.Errorf("Expected 3192 MHz, got %v", p.MHz)
	}
	if len(p.Flags) != 6 || p.Flags[0] != "fpu" {
		t.Errorf("Unexpected flags %v", p.Flags)
	}
	if p.LogicalCores != 4 || p.PhysicalCores != 2 {
		t.Errorf("Expected 4 logical / 2 physical cores, got %d / %d", p.LogicalCores, p.PhysicalCores)
	}

	if len(cores) != 4 {
		t.Fatalf("Expected 4 cores, got %d", len(cores))
	}
	for i, c := range cores {
		if c.ID != i {
			t.Errorf("Expected core %d in order, got id %d", i, c.ID)
		}
	}
	if cores[1].MHz != 3600.125 || cores.MaxMHz() != 3600.125 {
		t.Errorf("Unexpected clocks: %v (max %v)", cores[1].MHz, cores.MaxMHz())
	}
}

func TestDecodeCPUInfoARM(t *testing.T) {
	p, cores, err := DecodeCPUInfo(loadFixture(t, "cpuinfo_arm"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cores) != 2 || p.LogicalCores != 2 {
		t.Fatalf("Expected 2 cores, got %d", len(cores))
	}
	if p.ModelName != "0x41" || p.Vendor != "0x41" || p.Model != "0xd08" {
		t.Errorf("Unexpected ARM identity: %+v", p)
	}
	if p.PhysicalCores != 2 {
		t.Errorf("Expected physical count to fall back to logical, got %d", p.PhysicalCores)
	}
	if len(p.Flags) != 5 || p.Flags[1] != "asimd" {
		t.Errorf("Expected Features as flags, got %v", p.Flags)
	}
}

func TestDecodeCPUInfoHardwareFallback(t *testing.T) {
	text := "processor\t: 0\nBogoMIPS\t: 38.40\n\nHardware\t: Allwinner sun50i\n"
	p, _, err := DecodeCPUInfo(text)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelName != "Allwinner sun50i" {
		t.Errorf("Expected Hardware fallback, got %q", p.ModelName)
	}
}

func TestDecodeCPUInfoMissingProcessor(t *testing.T) {
	for _, text := range []string{"", "vendor_id\t: GenuineIntel\n"} {
		if _, _, err := DecodeCPUInfo(text); !failure.IsKind(err, failure.Decode) {
			t.Errorf("DecodeCPUInfo(%q) error = %v, want decode error", text, err)
		}
	}
}

func TestDecodeCPUInfoCoresFallback(t *testing.T) {
	text := "processor\t: 0\ncpu cores\t: 8\n\nprocessor\t: 1\ncpu cores\t: 8\n"
	p, _, err := DecodeCPUInfo(text)
	if err != nil {
		t.Fatal(err)
	}
	if p.PhysicalCores != 8 {
		t.Errorf("Expected cpu cores fallback 8, got %d", p.PhysicalCores)
	}
}
