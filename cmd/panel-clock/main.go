// Command panel-clock drives a two-digit seven-segment counter from GPIO
// buttons and publishes state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/panel-clock/internal/clock"
	"github.com/sweeney/panel-clock/internal/display"
	"github.com/sweeney/panel-clock/internal/gpio"
	"github.com/sweeney/panel-clock/internal/mqtt"
	"github.com/sweeney/panel-clock/internal/status"
	"github.com/sweeney/panel-clock/internal/web"
)

// commandBacklog bounds remote commands waiting for the loop.
const commandBacklog = 16

type config struct {
	unit       clock.Unit
	resolution time.Duration
	poll       time.Duration
	refresh    time.Duration
	heartbeat  time.Duration
	broker     string
	httpAddr   string
	wsBroker   string
	displays   []string
	chip       string

	pinStartStop int
	pinSwap      int
	pinReset     int
	onesPins     []int
	tensPins     []int

	i2cBus     string
	i2cAddr    int
	brightness int

	lampTest   time.Duration
	sim        bool
	printState bool
}

func main() {
	unitFlag := flag.String("unit", "seconds", `Counting unit ("seconds" or "millis")`)
	resolution := flag.Duration("resolution", time.Millisecond, "Counter pulse period")
	poll := flag.Duration("poll", 25*time.Millisecond, "Button polling interval")
	refresh := flag.Duration("refresh", 50*time.Millisecond, "Display refresh interval")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	displays := flag.String("display", "console", "Comma-separated display backends: console, gpio, ht16k33, none")
	chip := flag.String("gpiochip", gpio.DefaultChip, "GPIO character device name")
	pinStartStop := flag.Int("pin-start-stop", gpio.DefaultPinStartStop, "BCM pin number for the start-stop button")
	pinSwap := flag.Int("pin-swap", gpio.DefaultPinSwap, "BCM pin number for the direction swap button")
	pinReset := flag.Int("pin-reset", gpio.DefaultPinReset, "BCM pin number for the reset button")
	onesPins := flag.String("ones-pins", joinPins(gpio.DefaultOnesPins), "BCM pins for ones-digit segments a-g")
	tensPins := flag.String("tens-pins", joinPins(gpio.DefaultTensPins), "BCM pins for tens-digit segments a-g")
	i2cBus := flag.String("i2c-bus", "1", "I2C bus for the ht16k33 backend (empty = first available)")
	i2cAddr := flag.Int("i2c-addr", 0x70, "I2C address of the ht16k33")
	brightness := flag.Int("brightness", 15, "ht16k33 brightness 0-15")
	lampTest := flag.Duration("lamp-test", 2*time.Second, "Light all segments for this long at startup (0 to skip)")
	sim := flag.Bool("sim", false, "Run without hardware (released buttons, console display)")
	printState := flag.Bool("print-state", false, "Print current button state and exit")

	flag.Parse()

	unit, err := clock.ParseUnit(*unitFlag)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *resolution <= 0 || *poll <= 0 || *refresh <= 0 {
		log.Fatalf("fatal: resolution, poll and refresh must be positive")
	}
	ones, err := parsePins(*onesPins)
	if err != nil {
		log.Fatalf("fatal: ones-pins: %v", err)
	}
	tens, err := parsePins(*tensPins)
	if err != nil {
		log.Fatalf("fatal: tens-pins: %v", err)
	}

	backends := splitList(*displays)
	if *sim {
		backends = []string{"console"}
	}

	ws := ""
	if *broker != "" {
		ws = resolveWSBroker(*wsBroker, *broker)
	}

	cfg := config{
		unit:         unit,
		resolution:   *resolution,
		poll:         *poll,
		refresh:      *refresh,
		heartbeat:    *heartbeat,
		broker:       *broker,
		httpAddr:     *httpAddr,
		wsBroker:     ws,
		displays:     backends,
		chip:         *chip,
		pinStartStop: *pinStartStop,
		pinSwap:      *pinSwap,
		pinReset:     *pinReset,
		onesPins:     ones,
		tensPins:     tens,
		i2cBus:       *i2cBus,
		i2cAddr:      *i2cAddr,
		brightness:   *brightness,
		lampTest:     *lampTest,
		sim:          *sim,
		printState:   *printState,
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config) error {
	// Buttons
	var reader gpio.Reader
	if cfg.sim {
		reader = gpio.NewFakeReader([]gpio.Sample{{}})
	} else {
		r, err := gpio.NewRealReader(cfg.chip, cfg.pinStartStop, cfg.pinSwap, cfg.pinReset)
		if err != nil {
			return fmt.Errorf("init buttons: %w", err)
		}
		reader = r
	}
	defer reader.Close()

	// Print state mode
	if cfg.printState {
		startStop, swap, reset, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read buttons: %w", err)
		}
		fmt.Printf("start-stop: %s, swap: %s, reset: %s\n",
			pressedString(startStop), pressedString(swap), pressedString(reset))
		return nil
	}

	// Display backends
	sink, err := buildSinks(cfg)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer sink.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttConn mqtt.ConnectionStatus
	var commands chan mqtt.Command
	if cfg.broker == "" {
		log.Printf("mqtt disabled (no broker configured)")
		nop := mqtt.NopPublisher{}
		publisher, mqttConn = nop, nop
	} else {
		commands = make(chan mqtt.Command, commandBacklog)
		real, err := mqtt.NewRealPublisher(cfg.broker, commands)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher, mqttConn = real, real
	}
	defer publisher.Close()

	counter := clock.NewCounter(cfg.unit, cfg.unit.TimerTop(cfg.resolution))

	// Initialize status tracker (before STARTUP so snapshot is available).
	// Seeded from the counter so the retained STARTUP reports the true boot
	// state: value 0, ascending, running.
	tracker := status.NewTracker(time.Now(), cfg.unit, statusConfig(cfg))
	tracker.Update(counter.Value(), counter.Direction(), counter.Running(), counter.TimerPosition(), clock.PressCounts{})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	// Lamp test: all segments plus decimal points until the first refresh
	if cfg.lampTest > 0 {
		if err := sink.Write(display.AllSegments, display.AllSegments); err != nil {
			log.Printf("lamp test write error: %v", err)
		}
		time.Sleep(cfg.lampTest)
	}

	log.Printf("started: unit=%s resolution=%v poll=%v refresh=%v broker=%s heartbeat=%v",
		cfg.unit, cfg.resolution, cfg.poll, cfg.refresh, cfg.broker, cfg.heartbeat)

	tick := time.NewTicker(cfg.resolution)
	defer tick.Stop()
	poll := time.NewTicker(cfg.poll)
	defer poll.Stop()
	refresh := time.NewTicker(cfg.refresh)
	defer refresh.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:     reader,
		sink:       sink,
		publisher:  publisher,
		mqttConn:   mqttConn,
		tracker:    tracker,
		counter:    counter,
		resolution: cfg.resolution,
		heartbeat:  cfg.heartbeat,
		now:        time.Now,
		tick:       tick.C,
		poll:       poll.C,
		refresh:    refresh.C,
		commands:   commands,
		sig:        sigCh,
	})
}

// loopDeps carries everything runLoop needs. Channels are injected so tests
// can drive the loop deterministically.
type loopDeps struct {
	reader     gpio.Reader
	sink       display.Sink
	publisher  mqtt.Publisher
	mqttConn   mqtt.ConnectionStatus
	tracker    *status.Tracker
	counter    *clock.Counter
	resolution time.Duration
	heartbeat  time.Duration
	now        func() time.Time

	tick     <-chan time.Time // counter pulse cadence
	poll     <-chan time.Time // button sampling cadence
	refresh  <-chan time.Time // display refresh cadence
	commands <-chan mqtt.Command
	sig      <-chan os.Signal
}

func runLoop(d loopDeps) error {
	startTime := d.now()
	tb := clock.NewTimebase(d.resolution, startTime)
	debouncer := clock.NewDebouncer()
	scale := d.counter.Unit().DisplayScale()
	counts := clock.PressCounts{}
	lastHeartbeat := startTime

	updateTracker := func() {
		if d.tracker == nil {
			return
		}
		d.tracker.Update(d.counter.Value(), d.counter.Direction(), d.counter.Running(), d.counter.TimerPosition(), counts)
		if d.mqttConn != nil {
			d.tracker.SetMQTTConnected(d.mqttConn.IsConnected())
		}
	}

	emit := func(t time.Time, typ clock.EventType, src clock.Source) {
		event := clock.Event{
			Timestamp: t,
			Type:      typ,
			Value:     d.counter.Value(),
			Unit:      d.counter.Unit(),
			Direction: d.counter.Direction(),
			Running:   d.counter.Running(),
			Source:    src,
		}
		log.Printf("event: %s (value=%d direction=%s running=%v source=%s)",
			event.Type, event.Value, event.Direction, event.Running, event.Source)
		if err := d.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	applyButton := func(t time.Time, b clock.Button, src clock.Source) {
		var typ clock.EventType
		switch b {
		case clock.BtnStartStop:
			if d.counter.ToggleRun() == clock.Running {
				typ = clock.EventStarted
			} else {
				typ = clock.EventStopped
			}
			counts.StartStop++
		case clock.BtnSwap:
			if d.counter.SwapDirection() == clock.Ascending {
				typ = clock.EventDirectionUp
			} else {
				typ = clock.EventDirectionDown
			}
			counts.Swap++
		case clock.BtnReset:
			d.counter.Reset()
			counts.Reset++
			typ = clock.EventReset
		}
		emit(t, typ, src)
	}

	for {
		select {
		case s := <-d.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				updateTracker()
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-d.tick:
			t := d.now()
			if pulses := tb.Pulses(t); pulses > 0 {
				wraps := d.counter.Clock(pulses)
				for i := 0; i < wraps; i++ {
					counts.Wraps++
					emit(t, clock.EventWrap, clock.SourceSelf)
				}
				if wraps > 0 {
					updateTracker()
				}
			}

			// Check for heartbeat
			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				log.Printf("heartbeat: uptime=%v value=%d wraps=%d",
					t.Sub(startTime).Truncate(time.Second), d.counter.Value(), counts.Wraps)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if d.tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						d.tracker.SetNetwork(net)
					}
					updateTracker()
					snap := d.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := d.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

		case <-d.poll:
			t := d.now()
			startStop, swap, reset, err := d.reader.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				continue
			}
			for _, b := range debouncer.Sample(startStop, swap, reset) {
				applyButton(t, b, clock.SourceButton)
			}
			updateTracker()

		case cmd := <-d.commands:
			t := d.now()
			log.Printf("remote command: %s", cmd)
			switch cmd {
			case mqtt.CmdToggle:
				applyButton(t, clock.BtnStartStop, clock.SourceRemote)
			case mqtt.CmdStart:
				if !d.counter.Running() {
					applyButton(t, clock.BtnStartStop, clock.SourceRemote)
				}
			case mqtt.CmdStop:
				if d.counter.Running() {
					applyButton(t, clock.BtnStartStop, clock.SourceRemote)
				}
			case mqtt.CmdSwap:
				applyButton(t, clock.BtnSwap, clock.SourceRemote)
			case mqtt.CmdReset:
				applyButton(t, clock.BtnReset, clock.SourceRemote)
			}
			updateTracker()

		case <-d.refresh:
			lo, hi := display.Digits(d.counter.Value(), scale)
			if err := d.sink.Write(lo, hi); err != nil {
				log.Printf("display write error: %v", err)
			}
			updateTracker()
		}
	}
}

// buildSinks assembles the display stack from the backend list.
func buildSinks(cfg config) (display.Sink, error) {
	brightness := cfg.brightness
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 15 {
		brightness = 15
	}

	var sinks display.Multi
	for _, name := range cfg.displays {
		switch name {
		case "none":
			// explicit no-display
		case "console":
			sinks = append(sinks, display.NewConsole(os.Stdout))
		case "gpio":
			ones, err := gpio.NewRealPort(cfg.chip, cfg.onesPins)
			if err != nil {
				sinks.Close()
				return nil, fmt.Errorf("ones port: %w", err)
			}
			tens, err := gpio.NewRealPort(cfg.chip, cfg.tensPins)
			if err != nil {
				ones.Close()
				sinks.Close()
				return nil, fmt.Errorf("tens port: %w", err)
			}
			sinks = append(sinks, display.NewPorts(ones, tens))
		case "ht16k33":
			h, err := display.NewHT16K33(cfg.i2cBus, uint8(cfg.i2cAddr), uint8(brightness))
			if err != nil {
				sinks.Close()
				return nil, fmt.Errorf("ht16k33: %w", err)
			}
			sinks = append(sinks, h)
		default:
			sinks.Close()
			return nil, fmt.Errorf("unknown display backend %q", name)
		}
	}

	if len(sinks) == 0 {
		return display.Null{}, nil
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

func statusConfig(cfg config) status.Config {
	sc := status.Config{
		ResolutionMs: cfg.resolution.Milliseconds(),
		PollMs:       cfg.poll.Milliseconds(),
		RefreshMs:    cfg.refresh.Milliseconds(),
		HeartbeatMs:  cfg.heartbeat.Milliseconds(),
		Broker:       cfg.broker,
		HTTPPort:     cfg.httpAddr,
		WSBroker:     cfg.wsBroker,
		Displays:     strings.Join(cfg.displays, ","),
	}
	if !cfg.sim {
		sc.Chip = cfg.chip
		sc.ButtonPins = fmt.Sprintf("%d,%d,%d", cfg.pinStartStop, cfg.pinSwap, cfg.pinReset)
		sc.OnesPins = joinPins(cfg.onesPins)
		sc.TensPins = joinPins(cfg.tensPins)
	}
	return sc
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

func joinPins(pins []int) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func parsePins(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty pin list")
	}
	pins := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", p, err)
		}
		pins = append(pins, n)
	}
	return pins, nil
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
