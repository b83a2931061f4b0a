// Package graphing renders snapshot records into an HTML report of charts.
package graphing

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/exporting"
	"HostFacts/pkg/platform"
)

// Snapshot is the typed view of one record. Sections that were missing or
// did not decode stay nil.
type Snapshot struct {
	SessionID string
	Timestamp time.Time
	Platform  string
	System    *platform.System
	CPU       *decoding.Processor
	Memory    *decoding.Memory
	Network   *platform.Network
	Processes decoding.Processes
	Mounts    decoding.MountPoints
	Block     *decoding.BlockDevices
	Errors    map[string]string
}

// ParseRecord decodes a nested or flat record section by section.
func ParseRecord(r exporting.Record, logger *slog.Logger) Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	if isFlat(r) {
		r = exporting.Unflatten(r)
	}

	s := Snapshot{Errors: make(map[string]string)}
	if v, ok := r[exporting.KeySessionID]; ok {
		s.SessionID = exporting.FormatValue(v)
	}
	if ns, ok := exporting.ToInt64(r[exporting.KeyTimestamp]); ok {
		s.Timestamp = time.Unix(0, ns)
	}
	if v, ok := r[exporting.KeyPlatform]; ok {
		s.Platform = exporting.FormatValue(v)
	}
	if errs, ok := r[exporting.KeyErrors].(map[string]any); ok {
		for k, v := range errs {
			s.Errors[k] = exporting.FormatValue(v)
		}
	}
	if errs, ok := r[exporting.KeyErrors].(map[string]string); ok {
		for k, v := range errs {
			s.Errors[k] = v
		}
	}

	targets := map[string]any{
		platform.SectionSystem:    &s.System,
		platform.SectionCPU:       &s.CPU,
		platform.SectionMemory:    &s.Memory,
		platform.SectionNetwork:   &s.Network,
		platform.SectionProcesses: &s.Processes,
		platform.SectionMounts:    &s.Mounts,
		platform.SectionBlock:     &s.Block,
	}
	for name, target := range targets {
		v, ok := r[name]
		if !ok {
			continue
		}
		if err := decodeSection(v, target); err != nil {
			logger.Debug("skipping section", "section", name, "error", err)
		}
	}
	return s
}

func isFlat(r exporting.Record) bool {
	for k := range r {
		if strings.Contains(k, exporting.FlattenSeparator) {
			return true
		}
	}
	return false
}

func decodeSection(v, target any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Generator turns records into a single HTML page.
type Generator struct {
	snapshots []Snapshot
	logger    *slog.Logger
	topN      int
}

// DefaultTopProcesses bounds the process chart.
const DefaultTopProcesses = 15

// NewGenerator sorts records by timestamp and decodes them.
func NewGenerator(records []exporting.Record, logger *slog.Logger) (*Generator, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to graph")
	}
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{logger: logger, topN: DefaultTopProcesses}
	for _, r := range records {
		g.snapshots = append(g.snapshots, ParseRecord(r, logger))
	}
	sort.SliceStable(g.snapshots, func(i, j int) bool {
		return g.snapshots[i].Timestamp.Before(g.snapshots[j].Timestamp)
	})
	return g, nil
}

// NewGeneratorFromFile loads every record of path.
func NewGeneratorFromFile(path string, logger *slog.Logger) (*Generator, error) {
	records, err := exporting.LoadRecords(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return NewGenerator(records, logger)
}

// SetTopProcesses changes how many processes the RSS chart shows.
func (g *Generator) SetTopProcesses(n int) {
	if n > 0 {
		g.topN = n
	}
}

// Latest is the newest snapshot.
func (g *Generator) Latest() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

// Snapshots returns the decoded records in time order.
func (g *Generator) Snapshots() []Snapshot {
	return g.snapshots
}

// Generate writes the report to w.
func (g *Generator) Generate(w io.Writer) error {
	page, count, err := g.render()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, page); err != nil {
		return err
	}
	g.logger.Debug("rendered report", "charts", count, "records", len(g.snapshots))
	return nil
}

// WriteFile writes the report to path, creating its directory.
func (g *Generator) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	page, count, err := g.render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	g.logger.Info("generated report", "path", path, "charts", count)
	return nil
}
