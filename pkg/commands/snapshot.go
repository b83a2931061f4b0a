package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/config"
	"HostFacts/pkg/exporting"
	"HostFacts/pkg/platform"
)

var snapshotDelta time.Duration

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"ss"},
		Short:   "Capture a single record of host facts",
		Long: `Capture one record of the selected sections and write it in the
chosen format. Sections that cannot be read are listed under "errors".

With --delta, two records are taken the given time apart and the numeric
difference is written instead.

Example:
  hostfacts snapshot
  hostfacts snapshot --sections system,network -f yaml
  hostfacts snapshot -o snap.parquet.zst
  hostfacts snapshot --sections network --delta 1s`,
		Args: cobra.NoArgs,
		RunE: runSnapshot,
	}

	Cfg.AddOutputFlags(cmd.Flags())
	cmd.Flags().DurationVar(&snapshotDelta, "delta", 0, "Write the difference of two records taken this far apart")

	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	record := sample(manager)
	if snapshotDelta > 0 {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(snapshotDelta):
		}
		record, err = deltaOf(record, sample(manager), snapshotDelta)
		if err != nil {
			return err
		}
	}

	format, compression := outputTarget(cmd)
	exp, err := exporting.NewExporter(Cfg.OutputPath, format, exporting.WithCompression(compression))
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}
	if err := exp.Write(record); err != nil {
		exp.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := exp.Close(); err != nil {
		return fmt.Errorf("failed to close exporter: %w", err)
	}
	if exp.Path() != "" {
		logger.Info("snapshot written", "path", exp.Path(), "format", exp.Format())
	}
	return nil
}

// newManager builds a manager over the configured sections.
func newManager() (*collecting.Manager, error) {
	collectors, err := platform.Collectors(facts, Cfg.Sections)
	if err != nil {
		return nil, err
	}
	return collecting.NewManager(collectors, Cfg.Concurrent, logger), nil
}

// sample reads every section once into a record.
func sample(manager *collecting.Manager) exporting.Record {
	sections := manager.Collect()
	for _, s := range sections {
		if s.Err != nil {
			logger.Warn("section unavailable", "section", s.Name, "error", s.Err)
		}
	}
	return exporting.NewRecord(exporting.Meta{
		SessionID: Cfg.SessionID,
		Timestamp: time.Now(),
		Platform:  facts.Name(),
	}, sections)
}

// deltaOf flattens both records and subtracts their numeric values.
func deltaOf(initial, final exporting.Record, elapsed time.Duration) (exporting.Record, error) {
	a, err := exporting.Normalize(initial)
	if err != nil {
		return nil, err
	}
	b, err := exporting.Normalize(final)
	if err != nil {
		return nil, err
	}
	return exporting.DeltaRecord(exporting.Flatten(a), exporting.Flatten(b), elapsed.Milliseconds()), nil
}

// outputTarget picks format and compression from flags, falling back to
// the output path's extensions when the flags were left at defaults.
func outputTarget(cmd *cobra.Command) (string, exporting.Compression) {
	format := Cfg.OutputFormat
	compression := Cfg.CompressionMode()
	if Cfg.OutputPath == "" || Cfg.OutputPath == "-" {
		return format, compression
	}
	if !cmd.Flags().Changed(config.FlagFormat) {
		if f, ok := exporting.GetByPath(Cfg.OutputPath); ok {
			format = f.Name()
		}
	}
	if !cmd.Flags().Changed(config.FlagCompress) {
		if _, c := exporting.SplitCompression(Cfg.OutputPath); c != exporting.CompressionNone {
			compression = c
		}
	}
	return format, compression
}
