package graphing

import (
	"fmt"
	"html/template"
	"time"

	"HostFacts/pkg/exporting"
)

// HTML fragments injected around the chart page.
var templates = template.Must(template.New("").Funcs(templateFuncs).Parse(`
{{define "styles"}}
<style>
* {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
}
body {
    max-width: 1400px;
    margin: 0 auto;
    padding: 20px;
}
.host-info-container {
    margin-bottom: 20px;
}
.host-info-header {
    border-bottom: 2px solid #333;
    padding-bottom: 10px;
    margin-bottom: 15px;
}
.host-info-header h1 {
    margin: 0;
    font-size: 18px;
}
.session-id {
    font-size: 11px;
    color: #666;
    font-family: monospace;
}
.info-section {
    margin-bottom: 15px;
    padding: 15px;
    background: #f5f5f5;
    border: 1px solid #ddd;
}
.info-section h3 {
    margin: 0 0 10px 0;
    font-size: 13px;
}
.info-table {
    width: 100%;
    border-collapse: collapse;
    font-size: 12px;
}
.info-table td {
    padding: 3px 8px;
    border-bottom: 1px solid #eee;
}
.info-table td:first-child {
    width: 150px;
    color: #666;
}
.info-table td:last-child {
    font-family: monospace;
    font-size: 11px;
    word-break: break-all;
}
.info-table tr:last-child td {
    border-bottom: none;
}
.error-section {
    background: #fff4f4;
    border-color: #e0b4b4;
}
.container {
    display: block !important;
    margin: 0 0 10px 0 !important;
    padding: 15px !important;
    background: #f5f5f5 !important;
    border: 1px solid #ddd !important;
    overflow: hidden !important;
}
.item {
    margin: 0 !important;
}
</style>
{{end}}

{{define "scripts"}}
<script>
window.addEventListener('resize', function() {
    document.querySelectorAll('[_echarts_instance_]').forEach(function(el) {
        var c = echarts.getInstanceByDom(el);
        if (c) c.resize();
    });
});
</script>
{{end}}

{{define "host_info"}}
<div class="host-info-container">
    <div class="host-info-header">
        <h1>{{if .System}}{{.System.Hostname}}{{else}}Host Report{{end}}</h1>
        <div class="session-id">Session: {{.SessionID}} &middot; {{.Timestamp | formatTime}}</div>
    </div>

    {{template "system_section" .}}
    {{template "cpu_section" .CPU}}
    {{template "memory_section" .Memory}}
    {{template "network_section" .Network}}
    {{template "error_section" .Errors}}
</div>
{{end}}

{{define "system_section"}}
{{if .System}}
<div class="info-section">
    <h3>System</h3>
    <table class="info-table">
        {{template "row" dict "Label" "Platform" "Value" .Platform}}
        {{template "row" dict "Label" "Hostname" "Value" .System.Hostname}}
        {{template "row" dict "Label" "Domain" "Value" .System.Domainname}}
        {{template "row" dict "Label" "Kernel" "Value" .System.Kernel}}
        {{template "row" dict "Label" "Architecture" "Value" .System.Arch}}
        {{template "row" dict "Label" "Uptime" "Value" (.System.UptimeSeconds | formatSeconds)}}
    </table>
</div>
{{end}}
{{end}}

{{define "cpu_section"}}
{{if .}}
<div class="info-section">
    <h3>CPU</h3>
    <table class="info-table">
        {{template "row" dict "Label" "Model" "Value" .ModelName}}
        {{template "row" dict "Label" "Vendor" "Value" .Vendor}}
        {{template "row" dict "Label" "Physical Cores" "Value" .PhysicalCores}}
        {{template "row" dict "Label" "Logical Cores" "Value" .LogicalCores}}
        {{template "row_unit" dict "Label" "Frequency" "Value" .MHz "Unit" "MHz"}}
        {{template "row_bytes" dict "Label" "Cache" "Value" .CacheSize}}
    </table>
</div>
{{end}}
{{end}}

{{define "memory_section"}}
{{if .}}
<div class="info-section">
    <h3>Memory</h3>
    <table class="info-table">
        {{template "row_bytes" dict "Label" "Total" "Value" .Total}}
        {{template "row_bytes" dict "Label" "Available" "Value" .Available}}
        {{template "row_bytes" dict "Label" "Swap" "Value" .SwapTotal}}
    </table>
</div>
{{end}}
{{end}}

{{define "network_section"}}
{{if .}}
<div class="info-section">
    <h3>Network</h3>
    <table class="info-table">
        {{template "row" dict "Label" "Default Interface" "Value" .DefaultInterface}}
        {{template "row" dict "Label" "IPv4" "Value" .IPv4}}
        {{template "row" dict "Label" "IPv6" "Value" .IPv6}}
        {{template "row" dict "Label" "MAC" "Value" .MAC}}
        {{template "row" dict "Label" "Interfaces" "Value" (len .Interfaces)}}
    </table>
</div>
{{end}}
{{end}}

{{define "error_section"}}
{{if .}}
<div class="info-section error-section">
    <h3>Unavailable Sections</h3>
    <table class="info-table">
        {{range $name, $err := .}}
        <tr><td>{{$name}}</td><td>{{$err}}</td></tr>
        {{end}}
    </table>
</div>
{{end}}
{{end}}

{{define "row"}}
{{if and .Value (ne (printf "%v" .Value) "") (ne (printf "%v" .Value) "0")}}
<tr><td>{{.Label}}</td><td>{{.Value}}</td></tr>
{{end}}
{{end}}

{{define "row_unit"}}
{{if and .Value (ne (printf "%v" .Value) "0")}}
<tr><td>{{.Label}}</td><td>{{.Value}} {{.Unit}}</td></tr>
{{end}}
{{end}}

{{define "row_bytes"}}
{{if .Value}}
<tr><td>{{.Label}}</td><td>{{.Value | formatBytes}}</td></tr>
{{end}}
{{end}}
`))

// Template helper functions
var templateFuncs = template.FuncMap{
	"dict":          dictFunc,
	"formatBytes":   formatBytesFunc,
	"formatTime":    formatTimestamp,
	"formatSeconds": formatSecondsFunc,
}

// dictFunc creates a map from key-value pairs for template use.
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}

// formatBytesFunc formats bytes into human-readable format.
func formatBytesFunc(v any) string {
	bytes, _ := exporting.ToFloat64(v)
	if bytes == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for bytes >= 1024 && i < len(units)-1 {
		bytes /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", bytes, units[i])
}

// formatSecondsFunc renders an uptime.
func formatSecondsFunc(v any) string {
	secs, _ := exporting.ToFloat64(v)
	if secs <= 0 {
		return ""
	}
	return (time.Duration(secs) * time.Second).String()
}
