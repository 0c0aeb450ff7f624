package core

import (
	"context"
	"time"
)

// Op is the kind of file-system change that produced a notification.
type Op string

const (
	OpCreated Op = "created"
	OpChanged Op = "changed"
)

// Notification is one change of a file inside the watched directory.
type Notification struct {
	// Name is the base name of the file, compared against the status file name.
	Name string
	// Path is the full path used to read the file.
	Path      string
	Op        Op
	Timestamp time.Time
}

// Source produces notifications until its context is cancelled.
type Source interface {
	// Start begins watching. It returns once the watch is registered.
	Start(ctx context.Context) error

	// Events is closed after the source stops.
	Events() <-chan Notification

	Stop() error
}
