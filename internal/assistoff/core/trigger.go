package core

import (
	"context"
	"fmt"
	"time"
)

// DefaultHold is how long the corrective key stays pressed.
const DefaultHold = 100 * time.Millisecond

// Trigger sends the corrective key press.
type Trigger struct {
	keyboard Keyboard
	scanCode uint16
	hold     time.Duration
}

// NewTrigger returns a Trigger pressing scanCode on keyboard for hold.
// A non-positive hold falls back to DefaultHold.
func NewTrigger(keyboard Keyboard, scanCode uint16, hold time.Duration) *Trigger {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Trigger{
		keyboard: keyboard,
		scanCode: scanCode,
		hold:     hold,
	}
}

func (t *Trigger) ScanCode() uint16     { return t.scanCode }
func (t *Trigger) Hold() time.Duration { return t.hold }

// Fire presses the key, holds it and releases it, blocking for the hold
// duration. Once the key is down it is always released, even when ctx is
// cancelled during the hold. Nothing is pressed if ctx is already done.
// There is no retry: the next status update shows whether the toggle took
// effect.
func (t *Trigger) Fire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("key press 0x%02x skipped: %w", t.scanCode, err)
	}

	if err := t.keyboard.KeyDown(t.scanCode); err != nil {
		return fmt.Errorf("key down 0x%02x: %w", t.scanCode, err)
	}

	timer := time.NewTimer(t.hold)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
	}

	if err := t.keyboard.KeyUp(t.scanCode); err != nil {
		return fmt.Errorf("key up 0x%02x: %w", t.scanCode, err)
	}
	return nil
}
