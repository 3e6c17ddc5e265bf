package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/sleep-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"orNone": func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	},
	"stateClass": func(s string) string {
		switch s {
		case "AWAKE":
			return "awake"
		case "LIGHT_SLEEP":
			return "light"
		case "DEEP_SLEEP":
			return "deep"
		}
		return "unknown"
	},
	"timeout": func(d time.Duration) string {
		if d <= 0 {
			return "disabled"
		}
		return d.String()
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sleep Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.awake { color: green; font-weight: bold; }
.light { color: #36c; }
.deep { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Sleep Controller</h1>

<h2>Power</h2>
<table>
<tr><th>State</th><td id="power-state" class="{{stateClass (printf "%s" .Power.State)}}">{{orUnknown (printf "%s" .Power.State)}}</td></tr>
<tr><th>Pending sleep</th><td>{{if .Power.PendingSleep}}yes{{else}}no{{end}}</td></tr>
<tr><th>Wake armed</th><td>{{if .Power.WakePrepare}}yes{{else}}no{{end}}</td></tr>
<tr><th>Last reason</th><td>{{orNone (printf "%s" .Power.LastReason)}}</td></tr>
</table>

<h2>Link</h2>
<table>
<tr><th>Transport</th><td id="transport">{{orUnknown (printf "%s" .Link.Transport)}}</td></tr>
{{if eq (printf "%s" .Link.Transport) "WIRELESS"}}<tr><th>Phase</th><td id="phase">{{.Link.Phase}}</td></tr>
<tr><th>Disconnected</th><td>{{.Power.RFDisconnectCount}} ticks</td></tr>
<tr><th>Linking</th><td>{{.Power.RFLinkingElapsed}}</td></tr>{{end}}
<tr><th>Charging</th><td>{{if .Link.Charging}}yes{{else}}no{{end}}</td></tr>
<tr><th>USB suspend</th><td>{{.Power.USBSuspendCount}} ticks</td></tr>
</table>

<h2>Settings</h2>
<table>
<tr><th>Sleep</th><td>{{if .Sleep.SleepEnabled}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>Sleep while wired</th><td>{{if .Sleep.USBSleepToggle}}yes{{else}}no{{end}}</td></tr>
<tr><th>Idle timeout</th><td>{{timeout .Sleep.SleepTimeout}}</td></tr>
<tr><th>Link timeout</th><td>{{if gt .Sleep.RFLinkTimeout 0}}{{.Sleep.RFLinkTimeout}}{{else}}default{{end}}</td></tr>
<tr><th>Source</th><td>{{.Config.Settings}}</td></tr>
</table>

<h2>Transition Counts</h2>
<table>
<tr><th>Sleep requests</th><td>{{.Power.Counts.SleepRequests}}</td></tr>
<tr><th>Light sleeps</th><td>{{.Power.Counts.LightSleeps}}</td></tr>
<tr><th>Deep sleeps</th><td>{{.Power.Counts.DeepSleeps}}</td></tr>
<tr><th>Wakes</th><td>{{.Power.Counts.Wakes}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Wireless</th><td>{{if .Config.Wireless}}yes{{else}}wired only{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// renderHTML buffers the page so a template error never leaves a partial
// response behind.
func renderHTML(w io.Writer, snap status.Snapshot) error {
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
