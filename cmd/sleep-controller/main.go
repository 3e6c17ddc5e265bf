// Command sleep-controller decides when the keyboard sleeps and wakes, and
// publishes its power transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/sleep-controller/internal/effector"
	"github.com/sweeney/sleep-controller/internal/gpio"
	"github.com/sweeney/sleep-controller/internal/input"
	"github.com/sweeney/sleep-controller/internal/logger"
	"github.com/sweeney/sleep-controller/internal/mqtt"
	"github.com/sweeney/sleep-controller/internal/power"
	"github.com/sweeney/sleep-controller/internal/settings"
	"github.com/sweeney/sleep-controller/internal/status"
	"github.com/sweeney/sleep-controller/internal/web"
)

type options struct {
	broker       string
	httpAddr     string
	redisAddr    string
	envFile      string
	refresh      time.Duration
	wireless     bool
	linkingReset power.LinkingReset
	printState   bool

	pinUSBSuspend int
	pinModeSwitch int
	pinCharge     int
	keyPins       []int

	// Set by tests; nil means the wall clock.
	clock func() time.Time
	wait  func(time.Duration)
}

func main() {
	logLevel := flag.String("log", "info", "Log level (none, error, warn, info, debug or 0-4)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	redisAddr := flag.String("redis", "127.0.0.1:6379", "Redis address for settings (empty to use the env file)")
	envFile := flag.String("env-file", "/etc/sleep-controller.env", "Settings env file, used when --redis is empty")
	refresh := flag.Duration("refresh", 5*time.Second, "Settings refresh interval")
	wireless := flag.Bool("wireless", true, "Enable the wireless decision branch")
	linkingReset := flag.String("linking-reset", "always", `When to clear the linking timer ("always" or "timeout")`)
	pinUSB := flag.Int("pin-usb-suspend", gpio.DefaultPinUSBSuspend, "BCM pin number for USB suspend")
	pinMode := flag.Int("pin-mode", gpio.DefaultPinModeSwitch, "BCM pin number for the wired/wireless switch")
	pinCharge := flag.Int("pin-charge", gpio.DefaultPinCharge, "BCM pin number for the charge status")
	keyPins := flag.String("key-pins", joinPins(gpio.DefaultKeyPins), "Comma-separated BCM pins watched for wake")
	printState := flag.Bool("print-state", false, "Print current signals and settings and exit")

	flag.Parse()

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	l := logger.New(newStdLogger(), level)

	reset, err := parseLinkingReset(*linkingReset)
	if err != nil {
		l.Fatalf("%v", err)
	}
	pins, err := parsePins(*keyPins)
	if err != nil {
		l.Fatalf("%v", err)
	}

	opts := options{
		broker:        *broker,
		httpAddr:      *httpAddr,
		redisAddr:     *redisAddr,
		envFile:       *envFile,
		refresh:       *refresh,
		wireless:      *wireless,
		linkingReset:  reset,
		printState:    *printState,
		pinUSBSuspend: *pinUSB,
		pinModeSwitch: *pinMode,
		pinCharge:     *pinCharge,
		keyPins:       pins,
	}
	if err := run(opts, l); err != nil {
		l.Fatalf("%v", err)
	}
}

// newStdLogger drops timestamps under systemd; journald adds its own.
func newStdLogger() *log.Logger {
	if os.Getenv("INVOCATION_ID") != "" {
		return log.New(os.Stdout, "", 0)
	}
	return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
}

func run(opts options, l *logger.Logger) error {
	// Initialize GPIO
	gpioReader, err := gpio.NewRealReader(opts.pinUSBSuspend, opts.pinModeSwitch, opts.pinCharge)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	// Settings
	src, reloader, closeSettings, settingsDesc, err := openSettings(opts, l.WithTag("settings"))
	if err != nil {
		return err
	}
	defer closeSettings()

	// Print state mode
	if opts.printState {
		sig, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		cfg := src.SleepConfig()
		fmt.Printf("usb-suspended: %v, wireless: %v, charging: %v, rf: %s\n",
			sig.USBSuspended, sig.Wireless, sig.Charging, src.Phase())
		fmt.Printf("sleep: %v, usb-sleep: %v, timeout: %v, rf-link-timeout: %v\n",
			cfg.SleepEnabled, cfg.USBSleepToggle, cfg.SleepTimeout, cfg.RFLinkTimeout)
		return nil
	}

	keys, err := gpio.NewKeyWatcher(opts.keyPins, 64)
	if err != nil {
		return fmt.Errorf("init key lines: %w", err)
	}
	defer keys.Close()

	leds, err := gpio.NewRealLEDs(gpio.DefaultPinLEDPower, gpio.DefaultPinLEDRed, gpio.DefaultPinLEDGreen, gpio.DefaultPinLEDBlue)
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(opts.broker, l.WithTag("mqtt"))
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:   power.TickInterval.Milliseconds(),
		Broker:   opts.broker,
		HTTPAddr: opts.httpAddr,
		Settings: settingsDesc,
		Wireless: opts.wireless,
	})

	// A signal must also end a deep sleep halt, which blocks the run loop.
	haltCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := newDaemon(haltCtx, gpioReader, src, keys.Events(), leds, publisher, opts, l)
	d.refresher = reloader
	d.mqttStatus = publisher
	d.tracker = tracker

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		l.Warnf("failed to publish startup event: %v", err)
	} else {
		l.Infof("published startup event")
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				l.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		l.Infof("http status server listening on %s", opts.httpAddr)
	}

	l.Infof("started: tick=%v broker=%s settings=%s wireless=%v", power.TickInterval, opts.broker, settingsDesc, opts.wireless)

	ticker := time.NewTicker(power.TickInterval)
	defer ticker.Stop()

	var refreshC <-chan time.Time
	if reloader != nil && opts.refresh > 0 {
		rt := time.NewTicker(opts.refresh)
		defer rt.Stop()
		refreshC = rt.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return d.runLoop(time.Now, ticker.C, keys.Events(), refreshC, sigCh)
}

// settingsSource is what the daemon needs from a settings store.
type settingsSource interface {
	power.ConfigSource
	Phase() power.Phase
}

// refresher reloads a settings store.
type refresher interface {
	Refresh(ctx context.Context) error
}

// openSettings picks Redis when an address is given, otherwise the env file.
func openSettings(opts options, l *logger.Logger) (settingsSource, refresher, func() error, string, error) {
	if opts.redisAddr == "" {
		store, warnings, err := settings.LoadEnv(opts.envFile)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("load settings: %w", err)
		}
		for _, w := range warnings {
			l.Warnf("%v", w)
		}
		return store, nil, func() error { return nil }, opts.envFile, nil
	}

	store := settings.NewRedisStore(opts.redisAddr, l)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		l.Warnf("%v; sleep stays disabled until settings load", err)
	} else if err := store.Refresh(ctx); err != nil {
		l.Warnf("initial refresh: %v", err)
	}
	return store, store, store.Close, "redis://" + opts.redisAddr, nil
}

// daemon holds everything the run loop drives.
type daemon struct {
	link       *hostLink
	settings   settingsSource
	refresher  refresher
	activity   *input.Activity
	keyboard   *input.Keyboard
	deep       *effector.DeepSleep
	controller *power.Controller
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	log        *logger.Logger
}

// newDaemon wires the controller to its host collaborators. wake is the key
// event channel; the deep sleep effector blocks on it while halted.
func newDaemon(haltCtx context.Context, reader gpio.Reader, src settingsSource, wake <-chan gpio.KeyEvent, leds gpio.LEDs, pub mqtt.Publisher, opts options, l *logger.Logger) *daemon {
	clock := opts.clock
	if clock == nil {
		clock = time.Now
	}
	pl := l.WithTag("power")
	link := newHostLink(reader, src, l.WithTag("gpio"))
	activity := input.NewActivity(clock)
	keyboard := input.NewKeyboard(activity, func(k input.Key) {
		l.Debugf("released key %d before sleep", k)
	})

	indicator := effector.NewIndicator(leds, pl, opts.wait)
	deep := effector.NewDeepSleep(haltCtx, wake, indicator, pl)

	ctrlOpts := []power.Option{power.WithLinkingReset(opts.linkingReset), power.WithClock(clock)}
	if opts.wireless {
		ctrlOpts = append(ctrlOpts, power.WithWireless())
	}
	controller := power.New(power.Hardware{
		Config:    src,
		Link:      link,
		USB:       link,
		Activity:  activity,
		Keys:      keyboard,
		Light:     effector.NewLightSleep(indicator, pl),
		Deep:      deep,
		Indicator: indicator,
		Sync:      effector.NewLinkSync(pub, link, pl, clock),
		Reporter:  effector.NewReporter(pub, pl),
	}, ctrlOpts...)
	keyboard.SetWakeHook(controller)

	return &daemon{
		link:       link,
		settings:   src,
		activity:   activity,
		keyboard:   keyboard,
		deep:       deep,
		controller: controller,
		publisher:  pub,
		log:        l,
	}
}

func (d *daemon) runLoop(now func() time.Time, tick <-chan time.Time, keys <-chan gpio.KeyEvent, refresh <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			d.log.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				d.updateTracker()
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				d.log.Warnf("failed to publish shutdown event: %v", err)
			} else {
				d.log.Infof("published shutdown event")
			}
			return nil

		case ev, ok := <-keys:
			if !ok {
				d.log.Warnf("key event channel closed")
				keys = nil
				continue
			}
			d.handleKey(ev)

		case <-refresh:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := d.refresher.Refresh(ctx); err != nil {
				d.log.Warnf("settings refresh: %v", err)
			}
			cancel()

		case <-tick:
			d.link.sample()
			d.controller.Tick(now())

			// The press that ended a deep sleep is still a keystroke.
			if ev, ok := d.deep.TakeWake(); ok {
				d.handleKey(ev)
			}

			if d.tracker != nil {
				d.updateTracker()
			}
		}
	}
}

func (d *daemon) handleKey(ev gpio.KeyEvent) {
	woke := d.keyboard.Handle(input.KeyEvent{
		Key:     input.Key(ev.Line),
		Pressed: ev.Pressed,
		Time:    ev.Time,
	})
	if woke {
		d.log.Debugf("key line %d ended light sleep", ev.Line)
	}
}

func (d *daemon) updateTracker() {
	d.tracker.Update(d.controller.Snapshot(), d.link.LinkStatus(), d.settings.SleepConfig())
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
}

func parseLinkingReset(s string) (power.LinkingReset, error) {
	switch strings.ToLower(s) {
	case "always", "":
		return power.LinkingResetAlways, nil
	case "timeout", "on-timeout":
		return power.LinkingResetOnTimeout, nil
	}
	return 0, fmt.Errorf("unknown linking reset policy %q", s)
}
