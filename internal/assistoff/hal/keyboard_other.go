//go:build !linux && !windows

package hal

import (
	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

// No input injection on this platform; the press is logged so the rest of the
// pipeline can still be exercised.
func newPlatformKeyboard(_ *options.KeyboardOptions) (core.Keyboard, error) {
	log.Warn("[HAL] Synthetic input is not supported on this platform, falling back to dry run")
	return NewDryRunKeyboard(), nil
}
