package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"HostFacts/pkg/config"
	"HostFacts/pkg/exporting"
	"HostFacts/pkg/graphing"
)

var (
	reportInput   string
	reportOutput  string
	reportSamples int
	reportTop     int
	reportSave    string
)

// NewReportCmd creates the report subcommand.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"graph", "g"},
		Use:     "report",
		Short:   "Generate an HTML report of charts",
		Long: `Generate a single HTML page with interface traffic, memory, process,
block device and mount charts. Records come from the live host, or from a
file written by snapshot or record. With two or more records the page also
plots throughput and memory over time.

Supported input formats: json, jsonl, yaml, cbor, parquet, csv, tsv
(optionally .zst or .lz4 compressed)

Example:
  hostfacts report -o report.html
  hostfacts report --samples 10 --interval 1s
  hostfacts report --samples 10 --save samples.jsonl.zst
  hostfacts report -i hostfacts-20240101-120000.jsonl.zst -o report.html`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	cmd.Flags().StringVarP(&reportInput, "input", "i", "", "Read records from this file instead of the live host")
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "report.html", "Output HTML file")
	cmd.Flags().IntVar(&reportSamples, "samples", 1, "Live records to take")
	cmd.Flags().IntVar(&reportTop, "top", graphing.DefaultTopProcesses, "Processes shown in the RSS chart")
	cmd.Flags().StringVar(&reportSave, "save", "", "Also write the live records to this file (format from extension)")
	cmd.Flags().DurationVar(&Cfg.Interval, config.FlagInterval, Cfg.Interval, "Time between live records")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	var records []exporting.Record
	if reportInput != "" {
		if _, err := os.Stat(reportInput); err != nil {
			return fmt.Errorf("input file not found: %s", reportInput)
		}
		loaded, err := exporting.LoadRecords(reportInput)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		records = loaded
	} else {
		if reportSamples < 1 {
			return fmt.Errorf("samples must be at least 1, got %d", reportSamples)
		}
		manager, err := newManager()
		if err != nil {
			return err
		}
		for i := 0; i < reportSamples; i++ {
			if i > 0 {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(Cfg.Interval):
				}
			}
			records = append(records, sample(manager))
		}
		if reportSave != "" {
			if err := exporting.SaveRecords(reportSave, records); err != nil {
				return fmt.Errorf("failed to save records: %w", err)
			}
		}
	}

	gen, err := graphing.NewGenerator(records, logger)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	gen.SetTopProcesses(reportTop)
	if err := gen.WriteFile(reportOutput); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generated report: %s\n", reportOutput)
	return nil
}
