// Package status reads the Status.json file written by the game.
package status

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Flags is the bitmask found in the "Flags" field of a status record.
type Flags uint32

// Bits consulted by assistoff. The game defines many more.
const (
	Docked          Flags = 1 << 0
	LandingGearDown Flags = 1 << 2
	// FlightAssistOff is set while Flight Assist is off and clear while it is on.
	FlightAssistOff Flags = 1 << 5
	FsdCooldown     Flags = 1 << 18
	// InSRV is set while the player drives the surface recon vehicle.
	InSRV Flags = 1 << 26
)

// EventStatus is the event name carried by every status record.
const EventStatus = "Status"

var flagNames = []struct {
	bit  Flags
	name string
}{
	{Docked, "Docked"},
	{LandingGearDown, "LandingGearDown"},
	{FlightAssistOff, "FlightAssistOff"},
	{FsdCooldown, "FsdCooldown"},
	{InSRV, "InSRV"},
}

// Has reports whether every bit of mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// String lists the named bits that are set followed by the remaining bits in hex,
// e.g. "LandingGearDown|0x1000108".
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}

	var parts []string
	rest := f
	for _, n := range flagNames {
		if f.Has(n.bit) {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// MarshalLogObject logs the raw value next to its decoded form.
func (f Flags) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("value", uint32(f))
	enc.AddString("set", f.String())
	return nil
}

// StatusRecord is one snapshot of the status file. Fields other than these
// three are ignored.
type StatusRecord struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Flags     Flags  `json:"flags"`
}
