package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/panel-clock/internal/display"
	"github.com/sweeney/panel-clock/internal/status"
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
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Panel Clock</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.running { color: green; font-weight: bold; }
.paused { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
.panel { display: flex; gap: 16px; margin: 1em 0; }
.digit { position: relative; width: 56px; height: 96px; }
.seg { position: absolute; background: #eee; border-radius: 2px; }
.seg.on { background: #d22; }
.seg-a { left: 8px; top: 0; width: 40px; height: 8px; }
.seg-b { right: 0; top: 6px; width: 8px; height: 40px; }
.seg-c { right: 0; bottom: 6px; width: 8px; height: 40px; }
.seg-d { left: 8px; bottom: 0; width: 40px; height: 8px; }
.seg-e { left: 0; bottom: 6px; width: 8px; height: 40px; }
.seg-f { left: 0; top: 6px; width: 8px; height: 40px; }
.seg-g { left: 8px; top: 44px; width: 40px; height: 8px; }
</style>
</head>
<body>
<h1>Panel Clock{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<div class="panel">
<div class="digit" id="tens">
<div class="seg seg-a{{if .Tens.A}} on{{end}}"></div>
<div class="seg seg-b{{if .Tens.B}} on{{end}}"></div>
<div class="seg seg-c{{if .Tens.C}} on{{end}}"></div>
<div class="seg seg-d{{if .Tens.D}} on{{end}}"></div>
<div class="seg seg-e{{if .Tens.E}} on{{end}}"></div>
<div class="seg seg-f{{if .Tens.F}} on{{end}}"></div>
<div class="seg seg-g{{if .Tens.G}} on{{end}}"></div>
</div>
<div class="digit" id="ones">
<div class="seg seg-a{{if .Ones.A}} on{{end}}"></div>
<div class="seg seg-b{{if .Ones.B}} on{{end}}"></div>
<div class="seg seg-c{{if .Ones.C}} on{{end}}"></div>
<div class="seg seg-d{{if .Ones.D}} on{{end}}"></div>
<div class="seg seg-e{{if .Ones.E}} on{{end}}"></div>
<div class="seg seg-f{{if .Ones.F}} on{{end}}"></div>
<div class="seg seg-g{{if .Ones.G}} on{{end}}"></div>
</div>
</div>

<h2>State</h2>
<table>
<tr><th>Display</th><td id="display-text">{{.Display}}</td></tr>
<tr><th>Value</th><td>{{.Value}} {{.Unit}}</td></tr>
<tr><th>Direction</th><td id="dir-state">{{.Direction}}</td></tr>
<tr><th>Run state</th><td id="run-state" class="{{if .Running}}running{{else}}paused{{end}}">{{if .Running}}RUNNING{{else}}PAUSED{{end}}</td></tr>
<tr><th>Timer position</th><td>{{.TimerPosition}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}: {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Press Counts</h2>
<table>
<tr><th>Start-stop</th><td>{{.Counts.StartStop}}</td></tr>
<tr><th>Swap</th><td>{{.Counts.Swap}}</td></tr>
<tr><th>Reset</th><td>{{.Counts.Reset}}</td></tr>
<tr><th>Wraps</th><td>{{.Counts.Wraps}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Resolution</th><td>{{.Config.ResolutionMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Refresh</th><td>{{.Config.RefreshMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
<tr><th>Displays</th><td>{{.Config.Displays}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="https://unpkg.com/mqtt/dist/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "workshop/panel-clock/events";
  var dot = document.getElementById("live-dot");
  var tensEl = document.getElementById("tens");
  var onesEl = document.getElementById("ones");
  var dispEl = document.getElementById("display-text");
  var dirEl = document.getElementById("dir-state");
  var runEl = document.getElementById("run-state");

  var SEGMENTS = {
    "0": "abcdef", "1": "bc", "2": "abdeg", "3": "abcdg", "4": "bcfg",
    "5": "acdfg", "6": "acdefg", "7": "abc", "8": "abcdefg", "9": "abcfg"
  };

  function setDigit(el, ch) {
    var lit = SEGMENTS[ch] || "";
    ["a", "b", "c", "d", "e", "f", "g"].forEach(function(s) {
      var seg = el.querySelector(".seg-" + s);
      if (seg) seg.className = "seg seg-" + s + (lit.indexOf(s) >= 0 ? " on" : "");
    });
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (!msg.clock) return;
      setDigit(tensEl, msg.clock.display.charAt(0));
      setDigit(onesEl, msg.clock.display.charAt(1));
      dispEl.textContent = msg.clock.display;
      dirEl.textContent = msg.clock.direction;
      runEl.textContent = msg.clock.running ? "RUNNING" : "PAUSED";
      runEl.className = msg.clock.running ? "running" : "paused";
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

// segDigit holds one lit/unlit flag per display segment for the template.
type segDigit struct {
	A, B, C, D, E, F, G bool
}

func segmentsOf(pattern byte) segDigit {
	return segDigit{
		A: pattern&0x01 != 0,
		B: pattern&0x02 != 0,
		C: pattern&0x04 != 0,
		D: pattern&0x08 != 0,
		E: pattern&0x10 != 0,
		F: pattern&0x20 != 0,
		G: pattern&0x40 != 0,
	}
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	ones, tens := display.Digits(snap.Value, snap.Unit.DisplayScale())

	// Uptime shadows the snapshot method with a plain Duration; Tens and
	// Ones feed the segment markup.
	data := struct {
		status.Snapshot
		Uptime  time.Duration
		Display string
		Tens    segDigit
		Ones    segDigit
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Display:  snap.DisplayValue(),
		Tens:     segmentsOf(tens),
		Ones:     segmentsOf(ones),
	}
	indexTmpl.Execute(w, data)
}
