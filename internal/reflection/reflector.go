// Package reflection runs the generate → critique → regenerate loop.
//
// A session starts from a single seed message. The generator appends a
// draft; if the transcript is then longer than the threshold the session
// ends, otherwise the critic appends a critique and the generator runs
// again. Sessions therefore always end on a draft, never on a critique.
package reflection

import (
	"context"
	"fmt"
	"time"

	"github.com/comigor/reflector/internal/llm"
	"github.com/comigor/reflector/internal/logger"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/transcript"
)

// DefaultThreshold is the transcript length (seed included) past which the
// loop stops after a generation: four drafts and three critiques.
const DefaultThreshold = 6

// Step describes a stage that just completed.
type Step struct {
	Stage      Stage
	Round      int
	Transcript transcript.Transcript
}

// Option customises a Reflector.
type Option func(*Reflector)

// WithThreshold overrides DefaultThreshold. Values below 1 end the session
// right after the first draft.
func WithThreshold(n int) Option {
	return func(r *Reflector) { r.threshold = n }
}

// WithRequestTimeout bounds every completion call. Zero means no bound
// beyond the caller's context.
func WithRequestTimeout(d time.Duration) Option {
	return func(r *Reflector) { r.timeout = d }
}

// WithObserver registers fn to be called after every successful stage.
func WithObserver(fn func(Step)) Option {
	return func(r *Reflector) { r.observe = fn }
}

// Reflector drives one mode of the refinement loop. It holds no per-session
// state, so a single value may serve several sessions one after another.
type Reflector struct {
	completer llm.Completer
	mode      prompt.Mode
	generate  stage
	reflect   stage
	threshold int
	timeout   time.Duration
	observe   func(Step)
}

// New creates a Reflector for mode backed by completer.
func New(completer llm.Completer, mode prompt.Mode, opts ...Option) *Reflector {
	r := &Reflector{
		completer: completer,
		mode:      mode,
		generate:  generator(mode),
		reflect:   critic(mode),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the mode the Reflector was built for.
func (r *Reflector) Mode() prompt.Mode { return r.mode }

// Run refines input until the loop terminates and returns the full
// transcript. On error the transcript is returned as it stood before the
// failing stage; it is diagnostic only and must not be presented as a
// finished result.
func (r *Reflector) Run(ctx context.Context, input string) (transcript.Transcript, error) {
	tr := transcript.New(r.mode.Seed(input))
	fsm := newMachine(r.threshold)
	round := 0

	for currentState(fsm) != StateTerminated {
		state := currentState(fsm)

		var (
			s       stage
			trigger Trigger
		)
		switch state {
		case StateGenerate:
			round++
			s, trigger = r.generate, TriggerGenerated
		case StateReflect:
			s, trigger = r.reflect, TriggerReflected
		default:
			return tr, &InvariantViolation{Round: round, Detail: fmt.Sprintf("unknown state %q", state)}
		}

		logger.L.Debug("stage started", "mode", r.mode, "stage", s.name, "round", round, "messages", tr.Len())
		next, err := s.run(ctx, r.completer, r.timeout, round, tr)
		if err != nil {
			return tr, err
		}
		if err := checkAppend(tr, next); err != nil {
			return tr, &InvariantViolation{Stage: s.name, Round: round, Detail: err.Error()}
		}
		tr = next

		if r.observe != nil {
			r.observe(Step{Stage: s.name, Round: round, Transcript: tr})
		}

		if err := fsm.FireCtx(ctx, trigger, tr.Len()); err != nil {
			return tr, &InvariantViolation{Stage: s.name, Round: round, Detail: fmt.Sprintf("transition %s from %s rejected: %v", trigger, state, err)}
		}
	}

	logger.L.Info("refinement finished", "mode", r.mode, "rounds", round, "messages", tr.Len())
	return tr, nil
}
