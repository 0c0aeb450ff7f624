package assistoff

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "assistoff.io/assistoff/internal/pkg/util/fsm"
)

const (
	StateIdle     = "idle"
	StateHandling = "handling"

	// EventHandle starts processing one notification.
	EventHandle = "handle"
	// EventDone returns to idle once the notification is processed.
	EventDone = "done"
)

// stateMachine tracks whether the agent is handling a notification.
type stateMachine struct {
	*fsm.FSM
	metrics *Metrics
}

func newStateMachine(metrics *Metrics) *stateMachine {
	sm := &stateMachine{metrics: metrics}

	events := fsm.Events{
		{Name: EventHandle, Src: []string{StateIdle}, Dst: StateHandling},
		{Name: EventDone, Src: []string{StateHandling}, Dst: StateIdle},
	}

	callbacks := fsm.Callbacks{
		"enter_" + StateHandling: fsmutil.WrapEvent(sm.actionEnterHandling),
		"enter_" + StateIdle:     fsmutil.WrapEvent(sm.actionEnterIdle),
	}

	sm.FSM = fsm.NewFSM(StateIdle, events, callbacks)
	return sm
}

func (sm *stateMachine) actionEnterHandling(_ context.Context, _ *fsm.Event) error {
	sm.metrics.State.Set(1)
	return nil
}

func (sm *stateMachine) actionEnterIdle(_ context.Context, _ *fsm.Event) error {
	sm.metrics.State.Set(0)
	return nil
}

func (sm *stateMachine) begin(ctx context.Context) error {
	return fsmutil.IgnoreNoTransition(sm.Event(ctx, EventHandle))
}

func (sm *stateMachine) finish(ctx context.Context) error {
	return fsmutil.IgnoreNoTransition(sm.Event(ctx, EventDone))
}
