package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"HostFacts/pkg/config"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/platform"
)

// NewSummaryCmd creates the summary subcommand.
func NewSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print a styled overview of the host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := Cfg.Color == config.ColorAlways
			if f, ok := out.(*os.File); ok {
				color = Cfg.UseColor(f)
			}
			return writeSummary(out, facts, color)
		},
	}
}

type summaryStyles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

func newSummaryStyles(w io.Writer, color bool) summaryStyles {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)

	return summaryStyles{
		title: r.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		label: r.NewStyle().Foreground(lipgloss.Color("241")).Width(18),
		value: r.NewStyle().Foreground(lipgloss.Color("220")),
		muted: r.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		box: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

type summaryRow struct {
	label string
	value string
	err   error
}

// summaryRows reads the overview facts. Unsupported facts are omitted;
// other failures are shown in place of the value.
func summaryRows(f platform.HostFacts) []summaryRow {
	var rows []summaryRow
	add := func(label string, value string, err error) {
		if failure.IsKind(err, failure.UnsupportedPlatform) {
			return
		}
		rows = append(rows, summaryRow{label: label, value: value, err: err})
	}

	v, err := f.Hostname()
	add("Hostname", v, err)
	id, err := f.MachineID()
	add("Machine ID", id.String(), err)
	v, err = f.KernelVersion()
	add("Kernel", v, err)
	v, err = f.Arch()
	add("Architecture", v, err)
	uptime, err := f.Uptime()
	add("Uptime", uptime.Round(time.Second).String(), err)

	v, err = f.CPU()
	add("CPU", v, err)
	mhz, err := f.CPUClock()
	add("Clock", fmt.Sprintf("%.0f MHz", mhz), err)
	phys, err := f.CPUCores()
	add("Cores", fmt.Sprint(phys), err)
	logical, err := f.LogicalCores()
	add("Logical Cores", fmt.Sprint(logical), err)

	mem, err := f.Memory()
	add("Memory", formatBytes(mem), err)
	swap, err := f.Swap()
	add("Swap", formatBytes(swap), err)

	iface, ok, err := f.DefaultInterface()
	switch {
	case err != nil:
		add("Default Interface", "", err)
	case !ok:
		add("Default Interface", "none", nil)
	default:
		add("Default Interface", iface, nil)
		addr, ok, err := f.IPv4(iface)
		if ok || err != nil {
			add("IPv4", addr, err)
		}
		addr, ok, err = f.IPv6(iface)
		if ok || err != nil {
			add("IPv6", addr, err)
		}
		mac, ok, err := f.MAC(iface)
		if ok || err != nil {
			add("MAC", mac, err)
		}
	}
	return rows
}

func writeSummary(w io.Writer, f platform.HostFacts, color bool) error {
	styles := newSummaryStyles(w, color)

	var lines []string
	lines = append(lines, styles.title.Render("hostfacts · "+f.Name()), "")
	for _, row := range summaryRows(f) {
		value := styles.value.Render(row.value)
		if row.err != nil {
			value = styles.muted.Render("unavailable: " + row.err.Error())
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styles.label.Render(row.label), value))
	}

	_, err := fmt.Fprintln(w, styles.box.Render(strings.Join(lines, "\n")))
	return err
}

// formatBytes formats bytes into human-readable format.
func formatBytes(n uint64) string {
	if n == 0 {
		return "0 B"
	}
	v := float64(n)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}
