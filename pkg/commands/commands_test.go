package commands

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/exporting"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/platform"
)

// stubFacts answers a fixed hostname and memory size; everything else is
// unsupported.
type stubFacts struct {
	platform.HostFacts
}

func (stubFacts) Name() string { return "stub" }

func (stubFacts) Hostname() (string, error) { return "stub-host", nil }

func (stubFacts) Memory() (uint64, error) { return 4 << 30, nil }

func newStub() stubFacts {
	return stubFacts{HostFacts: platform.Unsupported()}
}

// kernelFailure cannot read its kernel release.
type kernelFailure struct {
	stubFacts
}

func (kernelFailure) KernelVersion() (string, error) {
	return "", failure.Unavailable("read", "/proc/sys/kernel/osrelease", errors.New("permission denied"))
}

func TestRootHasCommands(t *testing.T) {
	root := NewRootCmd()
	want := []string{"summary", "snapshot", "record", "iface", "ps", "block", "mounts", "report", "serve"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected subcommand %s, got %v (%v)", name, cmd, err)
		}
	}
	for _, flag := range []string{"config", "proc-root", "sys-root", "etc-root", "log-level", "log-json", "color"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Expected persistent flag --%s", flag)
		}
	}
}

func TestInvalidConfigurationRejected(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"mounts", "--log-level", "loud"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got %v", err)
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows(kernelFailure{newStub()})
	labels := make(map[string]summaryRow)
	for _, r := range rows {
		labels[r.label] = r
	}
	if labels["Hostname"].value != "stub-host" {
		t.Errorf("Expected hostname row, got %+v", labels["Hostname"])
	}
	if labels["Memory"].value != "4.00 GB" {
		t.Errorf("Expected memory row, got %+v", labels["Memory"])
	}
	if _, ok := labels["CPU"]; ok {
		t.Error("Expected unsupported CPU row omitted")
	}
	if labels["Kernel"].err == nil {
		t.Error("Expected kernel failure shown in place")
	}
}

func TestWriteSummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSummary(&buf, kernelFailure{newStub()}, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Error("Expected no escape sequences without color")
	}
	for _, want := range []string{"stub-host", "unavailable:", "hostfacts · stub"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, out)
		}
	}
}

func TestOutputTarget(t *testing.T) {
	tests := []struct {
		args        []string
		format      string
		compression exporting.Compression
	}{
		{nil, "json", exporting.CompressionNone},
		{[]string{"-o", "snap.parquet.zst"}, "parquet", exporting.CompressionZstd},
		{[]string{"-o", "snap.parquet.zst", "-f", "yaml"}, "yaml", exporting.CompressionZstd},
		{[]string{"-o", "snap.cbor", "--compress", "lz4"}, "cbor", exporting.CompressionLZ4},
		{[]string{"-o", "-", "-f", "jsonl"}, "jsonl", exporting.CompressionNone},
	}
	for _, tt := range tests {
		cmd := findCmd(t, NewRootCmd(), "snapshot")
		if err := cmd.ParseFlags(tt.args); err != nil {
			t.Fatal(err)
		}
		format, compression := outputTarget(cmd)
		if format != tt.format || compression != tt.compression {
			t.Errorf("outputTarget(%v) = %s, %s; want %s, %s", tt.args, format, compression, tt.format, tt.compression)
		}
	}
}

func TestDeltaOf(t *testing.T) {
	initial := exporting.Record{exporting.KeyTimestamp: int64(1000), "memory": map[string]any{"free": uint64(100)}}
	final := exporting.Record{exporting.KeyTimestamp: int64(2000), "memory": map[string]any{"free": uint64(40)}}
	d, err := deltaOf(initial, final, 1500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if d["memory.free"] != int64(-60) {
		t.Errorf("Expected memory.free delta -60, got %v", d["memory.free"])
	}
	if d[exporting.KeyDeltaDuration] != int64(1500) {
		t.Errorf("Expected 1500ms, got %v", d[exporting.KeyDeltaDuration])
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	Cfg.ApplyDefaults()
	facts = newStub()
	collectors, err := platform.Collectors(facts, []string{platform.SectionSystem})
	if err != nil {
		t.Fatal(err)
	}
	server := &factsServer{manager: collecting.NewManager(collectors, false, logger)}
	ts := httptest.NewServer(server.routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestServeSection(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/sections/system")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), `"hostname": "stub-host"`) {
		t.Errorf("Unexpected body %s", buf.String())
	}

	for path, status := range map[string]int{
		"/sections/gpu":         http.StatusNotFound,
		"/sections/cpu":         http.StatusNotImplemented,
		"/snapshot?format=xml":  http.StatusBadRequest,
		"/snapshot?format=yaml": http.StatusOK,
		"/":                     http.StatusOK,
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != status {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, status)
		}
	}
}

func TestServeSnapshotFreshRecord(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	records, err := exporting.Decode(resp.Body, "json")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0][exporting.KeyPlatform] != "stub" {
		t.Errorf("Unexpected snapshot %v", records)
	}
}

func findCmd(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatal(err)
	}
	return cmd
}
