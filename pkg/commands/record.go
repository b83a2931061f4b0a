package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"HostFacts/pkg/exporting"
	"HostFacts/pkg/graphing"
)

var recordReport string

// NewRecordCmd creates the record subcommand.
func NewRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"rec"},
		Use:     "record [flags] [-- <command> [args...]]",
		Short:   "Capture records at an interval until interrupted",
		Long: `Take a fresh record of the selected sections every interval and
stream them to one file, until the duration elapses or Ctrl+C.
When a command follows '--', recording stops when the command exits.

Example:
  hostfacts record --interval 1s --duration 1m -f jsonl
  hostfacts record --sections network,memory -o net.parquet --report net.html
  hostfacts record -f jsonl -- ./benchmark --iterations 10`,
		RunE: runRecord,
	}

	Cfg.AddOutputFlags(cmd.Flags())
	Cfg.AddRecordingFlags(cmd.Flags())
	cmd.Flags().StringVar(&recordReport, "report", "", "Write an HTML report of the recording to this path")

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}

	format, compression := outputTarget(cmd)
	outputPath := Cfg.OutputPath
	if outputPath == "" {
		outputPath = Cfg.GenerateOutputPath(".", "hostfacts")
	}

	exp, err := exporting.NewExporter(outputPath, format, exporting.WithCompression(compression))
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if Cfg.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, Cfg.Duration)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var cmdDone chan error
	if len(args) > 0 {
		target := exec.CommandContext(ctx, args[0], args[1:]...)
		target.Stdout = cmd.OutOrStdout()
		target.Stderr = cmd.ErrOrStderr()
		target.Stdin = os.Stdin
		if err := target.Start(); err != nil {
			exp.Close()
			return fmt.Errorf("failed to start command: %w", err)
		}
		logger.Info("recording command", "command", args)
		cmdDone = make(chan error, 1)
		go func() { cmdDone <- target.Wait() }()
	}

	logger.Info("starting recording", "interval", Cfg.Interval, "output", outputPath, "format", format)

	ticker := time.NewTicker(Cfg.Interval)
	defer ticker.Stop()

	startTime := time.Now()
	write := func() {
		if err := exp.Write(sample(manager)); err != nil {
			logger.Error("failed to write record", "error", err)
			return
		}
		if exp.Count()%100 == 0 {
			logger.Info("recording", "records", exp.Count())
		}
	}
	write()

	for {
		select {
		case <-ctx.Done():
			return finalizeRecording(exp, startTime)

		case <-sigChan:
			logger.Info("received interrupt signal")
			return finalizeRecording(exp, startTime)

		case cmdErr := <-cmdDone:
			logger.Info("command exited", "elapsed", time.Since(startTime).Round(time.Millisecond), "error", cmdErr)
			write()
			if err := finalizeRecording(exp, startTime); err != nil {
				return err
			}
			return cmdErr

		case <-ticker.C:
			write()
		}
	}
}

func finalizeRecording(exp *exporting.Exporter, startTime time.Time) error {
	logger.Info("recording complete", "records", exp.Count(), "elapsed", time.Since(startTime).Round(time.Millisecond))

	if err := exp.Close(); err != nil {
		return fmt.Errorf("failed to close exporter: %w", err)
	}

	if recordReport == "" || exp.Path() == "" {
		return nil
	}
	gen, err := graphing.NewGeneratorFromFile(exp.Path(), logger)
	if err != nil {
		logger.Warn("failed to create report generator", "error", err)
		return nil
	}
	if err := gen.WriteFile(recordReport); err != nil {
		logger.Warn("failed to generate report", "error", err)
	}
	return nil
}
