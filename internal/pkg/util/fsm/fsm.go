// Package fsm holds helpers around github.com/looplab/fsm.
package fsm

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// WrapEvent adapts a callback returning an error to fsm.Callback; the error
// is stored on the event and returned from FSM.Event.
func WrapEvent(fn func(ctx context.Context, event *fsm.Event) error) fsm.Callback {
	return func(ctx context.Context, event *fsm.Event) {
		if err := fn(ctx, event); err != nil {
			event.Err = err
		}
	}
}

// IgnoreNoTransition drops fsm.NoTransitionError, which only signals that the
// machine was already in the destination state.
func IgnoreNoTransition(err error) error {
	var nte fsm.NoTransitionError
	if errors.As(err, &nte) {
		return nil
	}
	return err
}
