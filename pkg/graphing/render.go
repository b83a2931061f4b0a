package graphing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"
)

// render builds the chart page and injects the host summary of the latest
// snapshot. It returns the page and the number of charts.
func (g *Generator) render() (string, int, error) {
	latest := g.Latest()

	page := components.NewPage()
	page.PageTitle = "Host Facts"
	if latest.System != nil && latest.System.Hostname != "" {
		page.PageTitle = fmt.Sprintf("Host Facts - %s", latest.System.Hostname)
	}

	var added []components.Charter
	add := func(c components.Charter, ok bool) {
		if ok {
			added = append(added, c)
		}
	}
	if len(g.snapshots) > 1 {
		line := createTrafficRateLine(g.snapshots)
		add(line, line != nil)
		mem := createMemoryLine(g.snapshots)
		add(mem, mem != nil)
	}
	traffic := createTrafficBar(latest.Network)
	add(traffic, traffic != nil)
	memory := createMemoryPie(latest.Memory)
	add(memory, memory != nil)
	procs := createProcessBar(latest.Processes, g.topN)
	add(procs, procs != nil)
	block := createBlockBar(latest.Block)
	add(block, block != nil)
	mounts := createMountPie(latest.Mounts)
	add(mounts, mounts != nil)

	if len(added) == 0 {
		return "", 0, fmt.Errorf("no charts generated - records carry no chartable sections")
	}
	page.AddCharts(added...)

	// Render to buffer first
	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return "", 0, fmt.Errorf("failed to render charts: %w", err)
	}

	hostHTML, err := renderHostInfoHTML(latest)
	if err != nil {
		return "", 0, err
	}
	head, err := renderStylesAndScripts()
	if err != nil {
		return "", 0, err
	}

	htmlContent := buf.String()
	htmlContent = strings.Replace(htmlContent, "<body>", "<body>\n"+hostHTML, 1)
	htmlContent = strings.Replace(htmlContent, "</head>", head+"</head>", 1)
	return htmlContent, len(added), nil
}

// renderHostInfoHTML renders the summary tables of one snapshot.
func renderHostInfoHTML(s Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "host_info", s); err != nil {
		return "", fmt.Errorf("failed to execute host_info template: %w", err)
	}
	return buf.String(), nil
}

// renderStylesAndScripts returns the CSS and JavaScript as a string.
func renderStylesAndScripts() (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "styles", nil); err != nil {
		return "", err
	}
	if err := templates.ExecuteTemplate(&buf, "scripts", nil); err != nil {
		return "", err
	}
	return buf.String(), nil
}
