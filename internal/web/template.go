package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/status"
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
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"fahrenheit": func(c float64) string {
		return fmt.Sprintf("%.0f°F", sensor.CelsiusToFahrenheit(c))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>PitBoss</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ready { color: green; font-weight: bold; }
.error { color: red; font-weight: bold; }
.waiting { color: orange; }
.temp { font-size: 1.6em; }
</style>
</head>
<body>
<h1>{{if .DeviceName}}{{.DeviceName}}{{else}}PitBoss{{end}}</h1>

<h2>State</h2>
<table>
<tr><th>Application</th><td id="app-state" class="{{if eq (stateOrUnknown .Application) "READY"}}ready{{else if or (eq .Application "FATAL_ERROR") (eq .Application "SENSOR_ERROR")}}error{{else}}waiting{{end}}">{{stateOrUnknown .Application}}</td></tr>
</table>

<h2>Thermocouple</h2>
<table>
<tr><th>Sensor</th><td class="{{if eq .Sensor.State "READY"}}ready{{else}}error{{end}}">{{stateOrUnknown .Sensor.State}}{{if .Sensor.Err}} ({{.Sensor.Err}}){{end}}</td></tr>
{{if .Sensor.HasReading}}<tr><th>Probe</th><td class="temp">{{fahrenheit .Sensor.HotJunctionC}}</td></tr>
<tr><th>Ambient</th><td>{{fahrenheit .Sensor.ColdJunctionC}}</td></tr>{{else}}<tr><th>Probe</th><td>no reading yet</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Network</th><td>{{stateOrUnknown .Connectivity.State}}</td></tr>
{{if .Connectivity.Address}}<tr><th>IP</th><td>{{.Connectivity.Address}}</td></tr>
<tr><th>SSID</th><td>{{.Connectivity.SSID}}</td></tr>
<tr><th>Signal</th><td>{{.Connectivity.SignalQuality}}%</td></tr>{{end}}
<tr><th>MQTT</th><td>{{if .AnnouncerConnected}}connected{{else}}disconnected{{end}}{{if .Broker}} ({{.Broker}}){{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Time</th><td>{{.Clock}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Free heap</th><td>{{.HeapFree}} bytes</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/temperature">temperature</a> · <a href="/config">config</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Clock  string
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Clock:    snap.Now.Format(status.DateTimeLayout),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render: %v", err)
	}
}
