// Package commands provides CLI command implementations.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"HostFacts/pkg/config"
	"HostFacts/pkg/platform"
)

var (
	// Cfg is the shared configuration instance.
	Cfg = config.New()

	facts  platform.HostFacts
	logger = slog.Default()
)

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	Cfg = config.New()

	root := &cobra.Command{
		Use:   "hostfacts",
		Short: "Read facts about the running host",
		Long: `hostfacts reads identity, CPU, memory, network, process and storage
facts from the running host. Every invocation reads the live sources.

Commands:
  summary    Styled overview of the host
  snapshot   Capture one record of selected sections
  record     Capture records at an interval until interrupted
  iface      Interface counters as JSON
  ps         Process records as JSON
  block      Block devices as JSON
  mounts     Mount table as JSON
  report     Generate an HTML report of charts
  serve      Run HTTP server exposing facts`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	Cfg.AddSourceFlags(root.PersistentFlags())
	Cfg.AddLogFlags(root.PersistentFlags())

	root.AddCommand(
		NewSummaryCmd(),
		NewSnapshotCmd(),
		NewRecordCmd(),
		NewIfaceCmd(),
		NewPsCmd(),
		NewBlockCmd(),
		NewMountsCmd(),
		NewReportCmd(),
		NewServeCmd(),
	)

	return root
}

// setup applies the config file, validates, and builds the logger and the
// platform variant shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	if err := Cfg.Load(cmd.Flags()); err != nil {
		return err
	}
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = Cfg.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	facts = platform.NewWith(platform.Options{
		FS:         Cfg.FS(),
		Logger:     logger,
		Concurrent: Cfg.Concurrent,
	})
	logger.Debug("platform selected", "platform", facts.Name(), "session", Cfg.SessionID)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
