package reflection

import (
	"context"

	"github.com/qmuntal/stateless"
)

// State is a position in the generate/reflect cycle.
type State string

const (
	StateGenerate   State = "GENERATE"
	StateReflect    State = "REFLECT"
	StateTerminated State = "TERMINATED" // Terminal: last message is a fresh draft
)

// Trigger is fired after a stage appended its message.
type Trigger string

const (
	TriggerGenerated Trigger = "Generated"
	TriggerReflected Trigger = "Reflected"
)

// newMachine declares the transition table. TriggerGenerated carries the
// transcript length as its only argument; the guards route it to
// TERMINATED once the length exceeds threshold and to REFLECT otherwise.
// REFLECT has a single unconditional way back to GENERATE and TERMINATED
// accepts nothing.
func newMachine(threshold int) *stateless.StateMachine {
	overThreshold := func(_ context.Context, args ...any) bool {
		return transcriptLen(args) > threshold
	}
	withinThreshold := func(ctx context.Context, args ...any) bool {
		return !overThreshold(ctx, args...)
	}

	fsm := stateless.NewStateMachine(StateGenerate)

	fsm.Configure(StateGenerate).
		Permit(TriggerGenerated, StateTerminated, overThreshold).
		Permit(TriggerGenerated, StateReflect, withinThreshold)

	fsm.Configure(StateReflect).
		Permit(TriggerReflected, StateGenerate)

	fsm.Configure(StateTerminated)

	return fsm
}

func transcriptLen(args []any) int {
	if len(args) == 0 {
		return 0
	}
	n, _ := args[0].(int)
	return n
}

func currentState(fsm *stateless.StateMachine) State {
	s, _ := fsm.MustState().(State)
	return s
}
