// Package hal adapts the host's synthetic keyboard input to core.Keyboard.
package hal

import (
	"fmt"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

// NewKeyboard returns the keyboard for the current platform, or a logging
// keyboard when dry-run is requested.
func NewKeyboard(opts *options.KeyboardOptions) (core.Keyboard, error) {
	if opts.DryRun {
		log.Info("Dry run: corrective key presses are only logged")
		return NewDryRunKeyboard(), nil
	}

	kb, err := newPlatformKeyboard(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return kb, nil
}
