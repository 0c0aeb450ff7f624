package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistoff.io/assistoff/internal/assistoff/core"
)

func TestDebouncerKeepsLatestPerPath(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()
	require.True(t, d.enabled())
	assert.Nil(t, d.ready())

	d.schedule(core.Notification{Path: "/j/Status.json", Op: core.OpCreated})
	d.schedule(core.Notification{Path: "/j/Status.json", Op: core.OpChanged})
	d.schedule(core.Notification{Path: "/j/Cargo.json", Op: core.OpChanged})

	select {
	case <-d.ready():
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}

	got := d.due(time.Now().Add(time.Second))
	require.Len(t, got, 2)
	for _, n := range got {
		if n.Path == "/j/Status.json" {
			assert.Equal(t, core.OpChanged, n.Op)
		}
	}
	assert.Nil(t, d.ready())
}

func TestDebouncerDisabled(t *testing.T) {
	assert.False(t, newDebouncer(0).enabled())
}
