package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*KeyboardOptions)(nil)

// DefaultScanCode is the set 1 scan code of the H key, the default binding of
// the Flight Assist toggle.
const DefaultScanCode uint16 = 0x23

// KeyboardOptions configures the corrective key press.
type KeyboardOptions struct {
	// ScanCode is the hardware scan code sent to the foreground application.
	ScanCode uint16 `json:"scan-code" mapstructure:"scan-code"`

	// Hold is the time between key down and key up.
	Hold time.Duration `json:"hold" mapstructure:"hold"`

	// DryRun logs the key press instead of injecting it.
	DryRun bool `json:"dry-run" mapstructure:"dry-run"`

	// DeviceName names the virtual keyboard on platforms that create one.
	DeviceName string `json:"device-name" mapstructure:"device-name"`
}

// NewKeyboardOptions creates a KeyboardOptions object with default parameters.
func NewKeyboardOptions() *KeyboardOptions {
	return &KeyboardOptions{
		ScanCode:   DefaultScanCode,
		Hold:       100 * time.Millisecond,
		DeviceName: "assistoff virtual keyboard",
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *KeyboardOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.ScanCode == 0 || o.ScanCode > 0xff {
		errs = append(errs, fmt.Errorf("--keyboard.scan-code 0x%x out of range (1-0xff)", o.ScanCode))
	}
	if o.Hold <= 0 {
		errs = append(errs, fmt.Errorf("--keyboard.hold must be positive"))
	}
	if o.Hold > 2*time.Second {
		errs = append(errs, fmt.Errorf("--keyboard.hold %s is longer than 2s", o.Hold))
	}

	return errs
}

// AddFlags adds flags for KeyboardOptions to the specified FlagSet.
func (o *KeyboardOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Uint16Var(&o.ScanCode, "keyboard.scan-code", o.ScanCode, "Scan code of the key bound to the Flight Assist toggle (0x23 is H).")
	fs.DurationVar(&o.Hold, "keyboard.hold", o.Hold, "How long the key is held down.")
	fs.BoolVar(&o.DryRun, "keyboard.dry-run", o.DryRun, "Log the corrective key press instead of sending it.")
	fs.StringVar(&o.DeviceName, "keyboard.device-name", o.DeviceName, "Name of the virtual input device (Linux only).")
}
