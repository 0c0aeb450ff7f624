package hal

import (
	"sync/atomic"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/pkg/log"
)

// DryRunKeyboard logs key events instead of sending them.
type DryRunKeyboard struct {
	presses  atomic.Int64
	releases atomic.Int64
}

var _ core.Keyboard = (*DryRunKeyboard)(nil)

func NewDryRunKeyboard() *DryRunKeyboard {
	return &DryRunKeyboard{}
}

func (k *DryRunKeyboard) KeyDown(scanCode uint16) error {
	k.presses.Add(1)
	log.Info("[HAL-DryRun] Key down", "scanCode", scanCode)
	return nil
}

func (k *DryRunKeyboard) KeyUp(scanCode uint16) error {
	k.releases.Add(1)
	log.Info("[HAL-DryRun] Key up", "scanCode", scanCode)
	return nil
}

func (k *DryRunKeyboard) Close() error { return nil }

// Presses returns how many key downs were logged.
func (k *DryRunKeyboard) Presses() int64 { return k.presses.Load() }

// Releases returns how many key ups were logged.
func (k *DryRunKeyboard) Releases() int64 { return k.releases.Load() }
