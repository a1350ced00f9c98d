package reflection

import "fmt"

// CompletionFailure reports that the completion service failed during a
// stage. The session is over; nothing is retried.
type CompletionFailure struct {
	Stage Stage
	Round int
	Err   error
}

func (e *CompletionFailure) Error() string {
	return fmt.Sprintf("round %d %s: completion failed: %v", e.Round, e.Stage, e.Err)
}

func (e *CompletionFailure) Unwrap() error { return e.Err }

// InvariantViolation means the loop reached a state it must never reach,
// such as a stage that did not grow the transcript by exactly one message.
type InvariantViolation struct {
	Stage  Stage
	Round  int
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("round %d %s: invariant violated: %s", e.Round, e.Stage, e.Detail)
}
