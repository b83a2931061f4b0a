package config

import (
	"strings"

	"github.com/spf13/pflag"

	"HostFacts/pkg/exporting"
	"HostFacts/pkg/platform"
)

// Flag names shared between the flag set and the config file.
const (
	FlagConfig     = "config"
	FlagProcRoot   = "proc-root"
	FlagSysRoot    = "sys-root"
	FlagEtcRoot    = "etc-root"
	FlagConcurrent = "concurrent"
	FlagFormat     = "format"
	FlagOutput     = "output"
	FlagCompress   = "compress"
	FlagSections   = "sections"
	FlagInterval   = "interval"
	FlagDuration   = "duration"
	FlagLogLevel   = "log-level"
	FlagLogJSON    = "log-json"
	FlagColor      = "color"
)

// AddSourceFlags binds the pseudo-filesystem roots.
func (c *Config) AddSourceFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.ConfigFile, FlagConfig, c.ConfigFile, "Config file (.yaml, .yml, .json, .jsonc)")
	flags.StringVar(&c.ProcRoot, FlagProcRoot, c.ProcRoot, "Root of the proc filesystem")
	flags.StringVar(&c.SysRoot, FlagSysRoot, c.SysRoot, "Root of the sys filesystem")
	flags.StringVar(&c.EtcRoot, FlagEtcRoot, c.EtcRoot, "Root of the etc directory")
	flags.BoolVar(&c.Concurrent, FlagConcurrent, c.Concurrent, "Read processes and sections concurrently")
}

// AddOutputFlags binds the snapshot output options.
func (c *Config) AddOutputFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.OutputFormat, FlagFormat, "f", c.OutputFormat,
		"Output format ("+strings.Join(exporting.Names(), ", ")+")")
	flags.StringVarP(&c.OutputPath, FlagOutput, "o", c.OutputPath, "Output file (stdout if empty or -)")
	flags.StringVar(&c.Compression, FlagCompress, c.Compression, "Output compression (none, zstd, lz4)")
	flags.StringSliceVar(&c.Sections, FlagSections, c.Sections,
		"Sections to include ("+strings.Join(platform.Sections, ", ")+"); all if empty")
}

// AddRecordingFlags binds the sampling loop options.
func (c *Config) AddRecordingFlags(flags *pflag.FlagSet) {
	flags.DurationVar(&c.Interval, FlagInterval, c.Interval, "Sampling interval")
	flags.DurationVar(&c.Duration, FlagDuration, c.Duration, "Recording duration (0 = until interrupted)")
}

// AddLogFlags binds logging and terminal styling.
func (c *Config) AddLogFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.LogLevel, FlagLogLevel, c.LogLevel, "Log level (debug, info, warn, error)")
	flags.BoolVar(&c.LogJSON, FlagLogJSON, c.LogJSON, "Log as JSON")
	flags.StringVar(&c.Color, FlagColor, c.Color, "Color output (auto, always, never)")
}
