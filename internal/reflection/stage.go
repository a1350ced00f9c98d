package reflection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comigor/reflector/internal/llm"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/transcript"
)

// Stage names one of the two roles that extend the transcript.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageReflect  Stage = "reflect"
)

// stage asks the completion service for one message under a fixed system
// instruction and tags the reply with role.
type stage struct {
	name        Stage
	instruction string
	role        transcript.Role
}

func generator(mode prompt.Mode) stage {
	return stage{name: StageGenerate, instruction: mode.GenerateInstruction(), role: transcript.RoleGenerated}
}

func critic(mode prompt.Mode) stage {
	return stage{name: StageReflect, instruction: mode.ReflectInstruction(), role: transcript.RoleCritique}
}

// run returns tr extended by the stage's reply. tr itself is left untouched.
func (s stage) run(ctx context.Context, c llm.Completer, timeout time.Duration, round int, tr transcript.Transcript) (transcript.Transcript, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	content, err := c.Complete(ctx, s.instruction, tr.Messages())
	if err != nil {
		return transcript.Transcript{}, &CompletionFailure{Stage: s.name, Round: round, Err: err}
	}
	return tr.Append(transcript.Message{Role: s.role, Content: content}), nil
}

// checkAppend verifies that next is prev plus exactly one message.
func checkAppend(prev, next transcript.Transcript) error {
	if next.Len() != prev.Len()+1 {
		return fmt.Errorf("transcript went from %d to %d messages", prev.Len(), next.Len())
	}
	if !next.HasPrefix(prev) {
		return errors.New("earlier messages changed")
	}
	return nil
}
