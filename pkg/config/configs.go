// Package config provides configuration management for hostfacts.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"HostFacts/pkg/exporting"
	"HostFacts/pkg/platform"
	"HostFacts/pkg/probing"
)

// Config holds all hostfacts configuration options.
type Config struct {
	// Source roots
	ProcRoot   string
	SysRoot    string
	EtcRoot    string
	Concurrent bool

	// Output settings
	OutputFormat string
	OutputPath   string
	Compression  string
	Sections     []string

	// Recording settings
	Interval time.Duration
	Duration time.Duration

	// Logging
	LogLevel string
	LogJSON  bool
	Color    string

	// ConfigFile is read before flags are applied.
	ConfigFile string

	SessionID uuid.UUID
}

// Default configuration values.
const (
	DefaultInterval = time.Second
	DefaultFormat   = "json"
	DefaultLogLevel = "warn"
	DefaultColor    = ColorAuto
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// New creates a Config with default values.
func New() *Config {
	live := probing.DefaultFS()
	return &Config{
		ProcRoot:     live.ProcRoot,
		SysRoot:      live.SysRoot,
		EtcRoot:      live.EtcRoot,
		OutputFormat: DefaultFormat,
		Compression:  string(exporting.CompressionNone),
		Interval:     DefaultInterval,
		LogLevel:     DefaultLogLevel,
		Color:        DefaultColor,
		SessionID:    uuid.New(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Interval < time.Millisecond {
		return fmt.Errorf("interval must be at least 1ms, got %v", c.Interval)
	}

	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %v", c.Duration)
	}

	if _, ok := exporting.Get(c.OutputFormat); !ok {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.OutputFormat, strings.Join(exporting.Names(), ", "))
	}

	if _, err := exporting.ParseCompression(c.Compression); err != nil {
		return err
	}

	for _, s := range c.Sections {
		if !slices.Contains(platform.Sections, strings.ToLower(strings.TrimSpace(s))) {
			return fmt.Errorf("invalid section: %s (valid: %s)", s, strings.Join(platform.Sections, ", "))
		}
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %s (valid: auto, always, never)", c.Color)
	}

	for name, root := range map[string]string{"proc": c.ProcRoot, "sys": c.SysRoot, "etc": c.EtcRoot} {
		if root == "" {
			return fmt.Errorf("%s root cannot be empty", name)
		}
	}

	return nil
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	live := probing.DefaultFS()
	if c.ProcRoot == "" {
		c.ProcRoot = live.ProcRoot
	}
	if c.SysRoot == "" {
		c.SysRoot = live.SysRoot
	}
	if c.EtcRoot == "" {
		c.EtcRoot = live.EtcRoot
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultFormat
	}
	if c.Compression == "" {
		c.Compression = string(exporting.CompressionNone)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.SessionID == uuid.Nil {
		c.SessionID = uuid.New()
	}
}

// FS returns the pseudo-filesystem roots to read.
func (c *Config) FS() probing.FS {
	return probing.FS{ProcRoot: c.ProcRoot, SysRoot: c.SysRoot, EtcRoot: c.EtcRoot}
}

// CompressionMode returns the parsed compression; Validate rejects bad
// names first.
func (c *Config) CompressionMode() exporting.Compression {
	mode, _ := exporting.ParseCompression(c.Compression)
	return mode
}

// GenerateOutputPath creates an auto-generated output path in dir.
func (c *Config) GenerateOutputPath(dir, prefix string) string {
	timestamp := time.Now().Format("20060102-150405")
	ext := exporting.GetExtension(c.OutputFormat) + c.CompressionMode().Extension()
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", prefix, timestamp, ext))
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", name)
	}
	return level, nil
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// UseColor decides whether styled output goes to f.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
