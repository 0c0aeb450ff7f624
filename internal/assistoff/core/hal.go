package core

// Keyboard is the outbound port to the host's synthetic input facility.
// Implementations live in the hal package, one per platform.
type Keyboard interface {
	// KeyDown presses the key identified by a hardware scan code.
	KeyDown(scanCode uint16) error

	// KeyUp releases the key.
	KeyUp(scanCode uint16) error

	// Close releases the device, if any.
	Close() error
}
