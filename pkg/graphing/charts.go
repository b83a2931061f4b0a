package graphing

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/platform"
)

const chartHeight = "400px"

func baseOptions(title, subtitle string, legend bool) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend), Top: "30"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
	}
}

// createTrafficBar shows the byte counters of every interface.
func createTrafficBar(n *platform.Network) *charts.Bar {
	if n == nil || len(n.Interfaces) == 0 {
		return nil
	}
	bar := charts.NewBar()
	subtitle := ""
	if n.DefaultInterface != "" {
		subtitle = "Default: " + n.DefaultInterface
	}
	bar.SetGlobalOptions(append(baseOptions("Interface Traffic (MiB)", subtitle, true),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)...)

	names := make([]string, 0, len(n.Interfaces))
	rx := make([]opts.BarData, 0, len(n.Interfaces))
	tx := make([]opts.BarData, 0, len(n.Interfaces))
	for _, iface := range n.Interfaces {
		names = append(names, iface.Name)
		rx = append(rx, opts.BarData{Value: mebibytes(iface.Stat.RxBytes)})
		tx = append(tx, opts.BarData{Value: mebibytes(iface.Stat.TxBytes)})
	}
	bar.SetXAxis(names).AddSeries("rx", rx).AddSeries("tx", tx)
	return bar
}

// createMemoryPie splits total memory into used, buffers, cached and free.
func createMemoryPie(m *decoding.Memory) *charts.Pie {
	if m == nil || m.Total == 0 {
		return nil
	}
	used := m.Total
	for _, v := range []uint64{m.Free, m.Buffers, m.Cached} {
		if v > used {
			used = 0
			break
		}
		used -= v
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Memory (MiB)", Subtitle: "Total: " + formatBytesFunc(m.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
	)
	pie.AddSeries("memory", []opts.PieData{
		{Name: "used", Value: mebibytes(used)},
		{Name: "buffers", Value: mebibytes(m.Buffers)},
		{Name: "cached", Value: mebibytes(m.Cached)},
		{Name: "free", Value: mebibytes(m.Free)},
	}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}))
	return pie
}

// createProcessBar ranks the n largest resident sets.
func createProcessBar(ps decoding.Processes, n int) *charts.Bar {
	if len(ps) == 0 {
		return nil
	}
	ranked := make(decoding.Processes, len(ps))
	copy(ranked, ps)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].RSS > ranked[j].RSS })
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(baseOptions("Top Processes by RSS (pages)",
		fmt.Sprintf("%d of %d processes", len(ranked), len(ps)), false),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)...)

	labels := make([]string, 0, len(ranked))
	data := make([]opts.BarData, 0, len(ranked))
	for _, p := range ranked {
		labels = append(labels, fmt.Sprintf("%s (%d)", p.Name, p.Pid))
		data = append(data, opts.BarData{Value: p.RSS})
	}
	bar.SetXAxis(labels).AddSeries("rss", data)
	return bar
}

// createBlockBar compares the sizes of disks, mapped devices and arrays.
func createBlockBar(b *decoding.BlockDevices) *charts.Bar {
	if b == nil || b.Len() == 0 {
		return nil
	}
	var labels []string
	var data []opts.BarData
	add := func(info decoding.BlockInfo) {
		labels = append(labels, info.Name)
		data = append(data, opts.BarData{Value: gibibytes(info.Size)})
	}
	for _, d := range b.StorageDevices {
		add(d.BlockInfo)
		for _, p := range d.Partitions {
			add(p.BlockInfo)
		}
	}
	for _, d := range b.DeviceMappers {
		add(d.BlockInfo)
	}
	for _, d := range b.MultipleDeviceStorages {
		add(d.BlockInfo)
	}
	if len(labels) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(baseOptions("Block Devices (GiB)", "", false),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)...)
	bar.SetXAxis(labels).AddSeries("size", data)
	return bar
}

// createMountPie counts mounts per filesystem type.
func createMountPie(mounts decoding.MountPoints) *charts.Pie {
	if len(mounts) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, m := range mounts {
		counts[m.FSType]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})

	data := make([]opts.PieData, 0, len(types))
	for _, t := range types {
		data = append(data, opts.PieData{Name: t, Value: counts[t]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mounts by Filesystem", Subtitle: fmt.Sprintf("%d mounts", len(mounts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: chartHeight}),
	)
	pie.AddSeries("mounts", data, charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}))
	return pie
}

// createTrafficRateLine plots rx+tx bytes per second for every interface
// between consecutive snapshots.
func createTrafficRateLine(snaps []Snapshot) *charts.Line {
	var xLabels []string
	rates := make(map[string][]opts.LineData)
	var names []string

	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		if prev.Network == nil || cur.Network == nil {
			continue
		}
		elapsed := cur.Timestamp.Sub(prev.Timestamp).Seconds()
		if elapsed <= 0 {
			continue
		}
		xLabels = append(xLabels, cur.Timestamp.Format("15:04:05.000"))
		point := len(xLabels) - 1
		for _, iface := range cur.Network.Interfaces {
			before, ok := prev.Network.Interfaces.Find(iface.Name)
			if !ok {
				continue
			}
			if _, seen := rates[iface.Name]; !seen {
				names = append(names, iface.Name)
			}
			series := rates[iface.Name]
			for len(series) < point {
				series = append(series, opts.LineData{Value: 0})
			}
			delta := counterDelta(iface.Stat.RxBytes, before.Stat.RxBytes) +
				counterDelta(iface.Stat.TxBytes, before.Stat.TxBytes)
			rates[iface.Name] = append(series, opts.LineData{Value: float64(delta) / elapsed})
		}
	}
	if len(xLabels) == 0 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(baseOptions("Interface Throughput (Delta)", "bytes/s, rx+tx", true),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)...)
	line.SetXAxis(xLabels)
	sort.Strings(names)
	for _, name := range names {
		line.AddSeries(name, rates[name],
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
		)
	}
	line.SetSeriesOptions(charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	return line
}

// createMemoryLine plots used memory over time.
func createMemoryLine(snaps []Snapshot) *charts.Line {
	var xLabels []string
	var data []opts.LineData
	for _, s := range snaps {
		if s.Memory == nil {
			continue
		}
		xLabels = append(xLabels, s.Timestamp.Format("15:04:05.000"))
		data = append(data, opts.LineData{Value: mebibytes(s.Memory.Used())})
	}
	if len(data) < 2 {
		return nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(append(baseOptions("Memory Used (Raw)", "MiB", false),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)...)
	line.SetXAxis(xLabels).AddSeries("used", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
	)
	return line
}

// counterDelta treats a decrease as a counter reset.
func counterDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return cur
	}
	return cur - prev
}

func mebibytes(n uint64) float64 {
	return roundTo(float64(n)/(1<<20), 2)
}

func gibibytes(n uint64) float64 {
	return roundTo(float64(n)/(1<<30), 2)
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int64(v*p+0.5)) / p
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
