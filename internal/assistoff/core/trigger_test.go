package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyEvent struct {
	down     bool
	scanCode uint16
	at       time.Time
}

type recordingKeyboard struct {
	mu      sync.Mutex
	events  []keyEvent
	downErr error
	upErr   error
}

func (k *recordingKeyboard) record(down bool, code uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.events = append(k.events, keyEvent{down: down, scanCode: code, at: time.Now()})
}

func (k *recordingKeyboard) KeyDown(code uint16) error {
	if k.downErr != nil {
		return k.downErr
	}
	k.record(true, code)
	return nil
}

func (k *recordingKeyboard) KeyUp(code uint16) error {
	if k.upErr != nil {
		return k.upErr
	}
	k.record(false, code)
	return nil
}

func (k *recordingKeyboard) Close() error { return nil }

func (k *recordingKeyboard) snapshot() []keyEvent {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]keyEvent(nil), k.events...)
}

func TestTriggerPressAndRelease(t *testing.T) {
	kb := &recordingKeyboard{}
	trigger := NewTrigger(kb, 0x23, 100*time.Millisecond)

	require.NoError(t, trigger.Fire(context.Background()))

	events := kb.snapshot()
	require.Len(t, events, 2)
	assert.True(t, events[0].down)
	assert.False(t, events[1].down)
	assert.Equal(t, uint16(0x23), events[0].scanCode)
	assert.Equal(t, uint16(0x23), events[1].scanCode)

	held := events[1].at.Sub(events[0].at)
	assert.GreaterOrEqual(t, held, 100*time.Millisecond)
	assert.Less(t, held, 300*time.Millisecond)
}

func TestTriggerDefaultHold(t *testing.T) {
	trigger := NewTrigger(&recordingKeyboard{}, 0x23, 0)
	assert.Equal(t, DefaultHold, trigger.Hold())
	assert.Equal(t, uint16(0x23), trigger.ScanCode())
}

func TestTriggerReleasesOnCancel(t *testing.T) {
	kb := &recordingKeyboard{}
	trigger := NewTrigger(kb, 0x23, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	require.NoError(t, trigger.Fire(ctx))
	assert.Less(t, time.Since(start), 5*time.Second)

	events := kb.snapshot()
	require.Len(t, events, 2)
	assert.False(t, events[1].down)
}

func TestTriggerKeyDownFailure(t *testing.T) {
	kb := &recordingKeyboard{downErr: errors.New("no device")}
	err := NewTrigger(kb, 0x23, time.Millisecond).Fire(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "key down 0x23")
	assert.Empty(t, kb.snapshot())
}

func TestTriggerKeyUpFailure(t *testing.T) {
	kb := &recordingKeyboard{upErr: errors.New("device gone")}
	err := NewTrigger(kb, 0x23, time.Millisecond).Fire(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "key up 0x23")
}

func TestTriggerSkipsCancelledContext(t *testing.T) {
	kb := &recordingKeyboard{}
	trigger := NewTrigger(kb, 0x23, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := trigger.Fire(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, kb.snapshot())
}
