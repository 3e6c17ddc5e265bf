//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(pinUSBSuspend, pinModeSwitch, pinCharge int) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (Signals, error) {
	return Signals{}, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// KeyWatcher is not available on non-Linux platforms.
type KeyWatcher struct{}

// NewKeyWatcher returns an error on non-Linux platforms.
func NewKeyWatcher(pins []int, buffer int) (*KeyWatcher, error) {
	return nil, errUnsupported
}

// Events returns a nil channel, which never delivers.
func (w *KeyWatcher) Events() <-chan KeyEvent {
	return nil
}

// Close is a no-op on non-Linux platforms.
func (w *KeyWatcher) Close() error {
	return nil
}

// RealLEDs is not available on non-Linux platforms.
type RealLEDs struct{}

// NewRealLEDs returns an error on non-Linux platforms.
func NewRealLEDs(pinPower, pinRed, pinGreen, pinBlue int) (*RealLEDs, error) {
	return nil, errUnsupported
}

// SetPower is not implemented on non-Linux platforms.
func (l *RealLEDs) SetPower(on bool) error {
	return errUnsupported
}

// SetRGB is not implemented on non-Linux platforms.
func (l *RealLEDs) SetRGB(r, g, b uint8) error {
	return errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (l *RealLEDs) Close() error {
	return nil
}
