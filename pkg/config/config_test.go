package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

func TestNewIsValid(t *testing.T) {
	c := New()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if c.SessionID == uuid.Nil {
		t.Error("Expected a session id")
	}
	if c.FS().ProcRoot != "/proc" {
		t.Errorf("Expected live proc root, got %s", c.FS().ProcRoot)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"interval", func(c *Config) { c.Interval = time.Microsecond }, "interval"},
		{"duration", func(c *Config) { c.Duration = -time.Second }, "duration"},
		{"format", func(c *Config) { c.OutputFormat = "xml" }, "output format"},
		{"compression", func(c *Config) { c.Compression = "gzip" }, "compression"},
		{"section", func(c *Config) { c.Sections = []string{"gpu"} }, "section"},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"color", func(c *Config) { c.Color = "rainbow" }, "color"},
		{"root", func(c *Config) { c.SysRoot = "" }, "sys root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
}

func TestGenerateOutputPath(t *testing.T) {
	c := New()
	c.OutputFormat = "jsonl"
	c.Compression = "zstd"
	path := c.GenerateOutputPath("out", "hostfacts")
	if filepath.Dir(path) != "out" || !strings.HasSuffix(path, ".jsonl.zst") {
		t.Errorf("Unexpected output path %s", path)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New()
	c.LogLevel = "info"
	c.LogJSON = true
	logger := c.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Expected debug line filtered")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("Expected JSON log line, got %q", out)
	}
}

func TestParseFileYAML(t *testing.T) {
	f, err := ParseFile([]byte("format: yaml\ninterval: 250ms\nsections: [system, memory]\n"), ".yaml")
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	if err := c.ApplyFile(f, nil); err != nil {
		t.Fatal(err)
	}
	if c.OutputFormat != "yaml" || c.Interval != 250*time.Millisecond || len(c.Sections) != 2 {
		t.Errorf("Unexpected config %+v", c)
	}
}

func TestParseFileJSONC(t *testing.T) {
	data := []byte(`{
	// roots for a captured tree
	"proc_root": "/tmp/proc",
	"log_json": true,
}`)
	f, err := ParseFile(data, ".jsonc")
	if err != nil {
		t.Fatal(err)
	}
	c := New()
	if err := c.ApplyFile(f, nil); err != nil {
		t.Fatal(err)
	}
	if c.ProcRoot != "/tmp/proc" || !c.LogJSON {
		t.Errorf("Unexpected config %+v", c)
	}
}

func TestParseFileRejectsUnknown(t *testing.T) {
	if _, err := ParseFile([]byte("gpu: true\n"), ".yml"); err == nil {
		t.Error("Expected unknown yaml field rejected")
	}
	if _, err := ParseFile([]byte(`{"gpu": true}`), ".json"); err == nil {
		t.Error("Expected unknown json field rejected")
	}
	if _, err := ParseFile(nil, ".toml"); err == nil {
		t.Error("Expected unsupported extension rejected")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostfacts.yaml")
	if err := os.WriteFile(path, []byte("format: cbor\nlog_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.AddSourceFlags(flags)
	c.AddOutputFlags(flags)
	c.AddLogFlags(flags)
	if err := flags.Parse([]string{"--config", path, "-f", "parquet"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(flags); err != nil {
		t.Fatal(err)
	}
	if c.OutputFormat != "parquet" {
		t.Errorf("Expected flag to win, got format %s", c.OutputFormat)
	}
	if c.LogLevel != "debug" {
		t.Errorf("Expected file log level, got %s", c.LogLevel)
	}
}

func TestUseColor(t *testing.T) {
	c := New()
	c.Color = ColorAlways
	if !c.UseColor(os.Stdout) {
		t.Error("Expected always to force color")
	}
	c.Color = ColorNever
	if c.UseColor(os.Stdout) {
		t.Error("Expected never to disable color")
	}
}
