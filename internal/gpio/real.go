//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const chipName = "gpiochip0"

// RealReader reads power signals from actual hardware using the Linux GPIO character device.
type RealReader struct {
	chip       *gpiocdev.Chip
	usbSuspend *gpiocdev.Line
	modeSwitch *gpiocdev.Line
	charge     *gpiocdev.Line
}

// NewRealReader requests the suspend-detect, mode-switch and charge-detect lines.
func NewRealReader(pinUSBSuspend, pinModeSwitch, pinCharge int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	r := &RealReader{chip: chip}

	// The suspend detect and charger status outputs are open-drain, active low.
	r.usbSuspend, err = chip.RequestLine(pinUSBSuspend, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request usb suspend pin %d: %w", pinUSBSuspend, err)
	}

	r.modeSwitch, err = chip.RequestLine(pinModeSwitch, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request mode switch pin %d: %w", pinModeSwitch, err)
	}

	r.charge, err = chip.RequestLine(pinCharge, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request charge pin %d: %w", pinCharge, err)
	}

	return r, nil
}

// Read returns the logical levels of the three lines.
func (r *RealReader) Read() (Signals, error) {
	usb, err := r.usbSuspend.Value()
	if err != nil {
		return Signals{}, fmt.Errorf("read usb suspend pin: %w", err)
	}
	mode, err := r.modeSwitch.Value()
	if err != nil {
		return Signals{}, fmt.Errorf("read mode switch pin: %w", err)
	}
	chg, err := r.charge.Value()
	if err != nil {
		return Signals{}, fmt.Errorf("read charge pin: %w", err)
	}
	return Signals{
		USBSuspended: usb == 1,
		Wireless:     mode == 1,
		Charging:     chg == 1,
	}, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error
	for name, l := range map[string]*gpiocdev.Line{
		"usb suspend": r.usbSuspend,
		"mode switch": r.modeSwitch,
		"charge":      r.charge,
	} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// KeyWatcher delivers edge events from the key lines. These are the wake
// interrupts: the deep sleep effector blocks on the same channel.
type KeyWatcher struct {
	lines  *gpiocdev.Lines
	events chan KeyEvent
}

// NewKeyWatcher requests the key lines with edge detection on both edges.
// Events are dropped if the channel buffer is full.
func NewKeyWatcher(pins []int, buffer int) (*KeyWatcher, error) {
	w := &KeyWatcher{events: make(chan KeyEvent, buffer)}
	lines, err := gpiocdev.RequestLines(chipName, pins,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(keyDebounce),
		gpiocdev.WithEventHandler(w.handle),
	)
	if err != nil {
		return nil, fmt.Errorf("request key pins %v: %w", pins, err)
	}
	w.lines = lines
	return w, nil
}

func (w *KeyWatcher) handle(evt gpiocdev.LineEvent) {
	ev := KeyEvent{
		Line:    evt.Offset,
		Pressed: evt.Type == gpiocdev.LineEventRisingEdge,
		Time:    time.Now(),
	}
	select {
	case w.events <- ev:
	default:
	}
}

// Events returns the key event channel.
func (w *KeyWatcher) Events() <-chan KeyEvent {
	return w.events
}

// Close releases the key lines. The events channel is left open; the
// handler may still be draining.
func (w *KeyWatcher) Close() error {
	if w.lines == nil {
		return nil
	}
	if err := w.lines.Close(); err != nil {
		return fmt.Errorf("close key lines: %w", err)
	}
	return nil
}

// RealLEDs drives the indicator from output lines ordered power, red, green, blue.
type RealLEDs struct {
	lines  *gpiocdev.Lines
	values []int
}

// NewRealLEDs requests the indicator lines as outputs, all off.
func NewRealLEDs(pinPower, pinRed, pinGreen, pinBlue int) (*RealLEDs, error) {
	lines, err := gpiocdev.RequestLines(chipName, []int{pinPower, pinRed, pinGreen, pinBlue},
		gpiocdev.AsOutput(0, 0, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("request led pins: %w", err)
	}
	return &RealLEDs{lines: lines, values: make([]int, 4)}, nil
}

// SetPower switches the LED supply rail.
func (l *RealLEDs) SetPower(on bool) error {
	l.values[0] = 0
	if on {
		l.values[0] = 1
	}
	return l.apply()
}

// SetRGB lights each non-zero channel.
func (l *RealLEDs) SetRGB(r, g, b uint8) error {
	l.values[1] = channelOn(r)
	l.values[2] = channelOn(g)
	l.values[3] = channelOn(b)
	return l.apply()
}

func (l *RealLEDs) apply() error {
	if err := l.lines.SetValues(l.values); err != nil {
		return fmt.Errorf("set led values: %w", err)
	}
	return nil
}

// Close turns everything off before releasing the lines.
func (l *RealLEDs) Close() error {
	for i := range l.values {
		l.values[i] = 0
	}
	var errs []error
	if err := l.apply(); err != nil {
		errs = append(errs, err)
	}
	if err := l.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close led lines: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
