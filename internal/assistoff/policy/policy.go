// Package policy decides when Flight Assist has to be switched back off.
package policy

import (
	"go.uber.org/zap/zapcore"

	"assistoff.io/assistoff/internal/assistoff/status"
)

// blocking lists the bits that suppress the corrective action. Docked and
// FsdCooldown are deliberately absent.
const blocking = status.FlightAssistOff | status.LandingGearDown | status.InSRV

// ShouldDisableFlightAssist reports whether Flight Assist is on while the ship
// is neither landing with gear down nor replaced by the SRV.
func ShouldDisableFlightAssist(flags uint32) bool {
	return status.Flags(flags)&blocking == 0
}

// Diagnostics is the decoded view of the bits reported on every status line.
type Diagnostics struct {
	Docked          bool
	LandingGearDown bool
	InSRV           bool
	FlightAssistOff bool
}

// Describe decodes flags for logging. It has no influence on the decision.
func Describe(flags uint32) Diagnostics {
	f := status.Flags(flags)
	return Diagnostics{
		Docked:          f.Has(status.Docked),
		LandingGearDown: f.Has(status.LandingGearDown),
		InSRV:           f.Has(status.InSRV),
		FlightAssistOff: f.Has(status.FlightAssistOff),
	}
}

// MarshalLogObject writes the four booleans reported on every status line.
func (d Diagnostics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("docked", d.Docked)
	enc.AddBool("landing", d.LandingGearDown)
	enc.AddBool("inSRV", d.InSRV)
	enc.AddBool("faOff", d.FlightAssistOff)
	return nil
}
