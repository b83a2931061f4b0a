package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of Config. Fields left out of the file keep the
// flag value.
type File struct {
	ProcRoot   *string  `yaml:"proc_root" json:"proc_root"`
	SysRoot    *string  `yaml:"sys_root" json:"sys_root"`
	EtcRoot    *string  `yaml:"etc_root" json:"etc_root"`
	Concurrent *bool    `yaml:"concurrent" json:"concurrent"`
	Format     *string  `yaml:"format" json:"format"`
	Output     *string  `yaml:"output" json:"output"`
	Compress   *string  `yaml:"compress" json:"compress"`
	Sections   []string `yaml:"sections" json:"sections"`
	Interval   string   `yaml:"interval" json:"interval"`
	Duration   string   `yaml:"duration" json:"duration"`
	LogLevel   *string  `yaml:"log_level" json:"log_level"`
	LogJSON    *bool    `yaml:"log_json" json:"log_json"`
	Color      *string  `yaml:"color" json:"color"`
}

// LoadFile reads a YAML or JSONC config file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := ParseFile(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes data by extension: .yaml/.yml as YAML, .json/.jsonc
// with comments and trailing commas stripped.
func ParseFile(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q (valid: .yaml, .yml, .json, .jsonc)", ext)
	}
	return &f, nil
}

// ApplyFile copies file values into c for every flag not set on the
// command line. A nil flag set applies everything.
func (c *Config) ApplyFile(f *File, flags *pflag.FlagSet) error {
	unset := func(name string) bool {
		return flags == nil || !flags.Changed(name)
	}
	str := func(dst *string, src *string, name string) {
		if src != nil && unset(name) {
			*dst = *src
		}
	}
	boolean := func(dst *bool, src *bool, name string) {
		if src != nil && unset(name) {
			*dst = *src
		}
	}
	duration := func(dst *time.Duration, src, name string) error {
		if src == "" || !unset(name) {
			return nil
		}
		d, err := time.ParseDuration(src)
		if err != nil {
			return fmt.Errorf("invalid %s in config: %w", name, err)
		}
		*dst = d
		return nil
	}

	str(&c.ProcRoot, f.ProcRoot, FlagProcRoot)
	str(&c.SysRoot, f.SysRoot, FlagSysRoot)
	str(&c.EtcRoot, f.EtcRoot, FlagEtcRoot)
	boolean(&c.Concurrent, f.Concurrent, FlagConcurrent)
	str(&c.OutputFormat, f.Format, FlagFormat)
	str(&c.OutputPath, f.Output, FlagOutput)
	str(&c.Compression, f.Compress, FlagCompress)
	if f.Sections != nil && unset(FlagSections) {
		c.Sections = f.Sections
	}
	if err := duration(&c.Interval, f.Interval, FlagInterval); err != nil {
		return err
	}
	if err := duration(&c.Duration, f.Duration, FlagDuration); err != nil {
		return err
	}
	str(&c.LogLevel, f.LogLevel, FlagLogLevel)
	boolean(&c.LogJSON, f.LogJSON, FlagLogJSON)
	str(&c.Color, f.Color, FlagColor)
	return nil
}

// Load applies the config file named by c.ConfigFile, if any.
func (c *Config) Load(flags *pflag.FlagSet) error {
	if c.ConfigFile == "" {
		return nil
	}
	f, err := LoadFile(c.ConfigFile)
	if err != nil {
		return err
	}
	return c.ApplyFile(f, flags)
}
