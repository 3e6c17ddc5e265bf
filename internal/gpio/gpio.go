// Package gpio provides keyboard hardware signals with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "time"

// Signals is one sample of the power-related input lines, in logical form.
type Signals struct {
	USBSuspended bool // host has suspended the bus
	Wireless     bool // mode switch is on the wireless position
	Charging     bool // charger IC reports charging
}

// Reader reads the power-related input lines.
type Reader interface {
	// Read returns the current logical signal levels.
	Read() (Signals, error)

	// Close releases GPIO resources.
	Close() error
}

// KeyEvent is an edge on a key line. Pressed is true on the active edge.
type KeyEvent struct {
	Line    int
	Pressed bool
	Time    time.Time
}

// LEDs drives the RGB status indicator.
type LEDs interface {
	// SetPower enables or disables the LED supply rail.
	SetPower(on bool) error

	// SetRGB lights each channel whose value is non-zero.
	SetRGB(r, g, b uint8) error

	// Close turns the indicator off and releases the lines.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinUSBSuspend = 17
	DefaultPinModeSwitch = 27
	DefaultPinCharge     = 22

	DefaultPinLEDPower = 5
	DefaultPinLEDRed   = 6
	DefaultPinLEDGreen = 13
	DefaultPinLEDBlue  = 19
)

// DefaultKeyPins are the key matrix lines watched for wake.
var DefaultKeyPins = []int{23, 24, 25}

// keyDebounce filters contact bounce on key lines.
const keyDebounce = 5 * time.Millisecond

func channelOn(v uint8) int {
	if v > 0 {
		return 1
	}
	return 0
}
