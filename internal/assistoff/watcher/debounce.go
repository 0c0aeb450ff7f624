package watcher

import (
	"time"

	"assistoff.io/assistoff/internal/assistoff/core"
)

type debounceEntry struct {
	notification core.Notification
	deadline     time.Time
}

// debouncer keeps the latest notification per path until the path has been
// quiet for the configured duration. It is owned by the run goroutine.
type debouncer struct {
	duration time.Duration
	entries  map[string]debounceEntry
	timer    *time.Timer
}

func newDebouncer(duration time.Duration) *debouncer {
	return &debouncer{
		duration: duration,
		entries:  make(map[string]debounceEntry),
	}
}

func (d *debouncer) enabled() bool {
	return d.duration > 0
}

func (d *debouncer) schedule(n core.Notification) {
	d.entries[n.Path] = debounceEntry{notification: n, deadline: time.Now().Add(d.duration)}
	d.arm()
}

// ready fires when the earliest deadline passes. A nil channel blocks forever.
func (d *debouncer) ready() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

// due pops every entry whose deadline is before now.
func (d *debouncer) due(now time.Time) []core.Notification {
	d.timer = nil

	var out []core.Notification
	for path, entry := range d.entries {
		if !entry.deadline.After(now) {
			out = append(out, entry.notification)
			delete(d.entries, path)
		}
	}
	d.arm()
	return out
}

func (d *debouncer) arm() {
	if len(d.entries) == 0 {
		return
	}

	var earliest time.Time
	for _, entry := range d.entries {
		if earliest.IsZero() || entry.deadline.Before(earliest) {
			earliest = entry.deadline
		}
	}

	wait := time.Until(earliest)
	if wait < 0 {
		wait = 0
	}
	if d.timer == nil {
		d.timer = time.NewTimer(wait)
		return
	}
	if !d.timer.Stop() {
		select {
		case <-d.timer.C:
		default:
		}
	}
	d.timer.Reset(wait)
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.entries = nil
}
