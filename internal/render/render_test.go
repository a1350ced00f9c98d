package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/reflector/internal/config"
	"github.com/comigor/reflector/internal/llm"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/reflection"
	"github.com/comigor/reflector/internal/transcript"
)

func TestHeading(t *testing.T) {
	in := transcript.Message{Role: transcript.RoleInput}
	draft := transcript.Message{Role: transcript.RoleGenerated}
	crit := transcript.Message{Role: transcript.RoleCritique}

	require.Equal(t, "Input", Heading(0, in))
	require.Equal(t, "Round 1 · Draft", Heading(1, draft))
	require.Equal(t, "Round 1 · Critique", Heading(2, crit))
	require.Equal(t, "Round 2 · Draft", Heading(3, draft))
	require.Equal(t, "Round 3 · Critique", Heading(6, crit))
	require.Equal(t, "Round 4 · Draft", Heading(7, draft))
}

func TestTranscript(t *testing.T) {
	tr := transcript.New(prompt.ModeTweet.Seed("ship it")).
		Append(transcript.Message{Role: transcript.RoleGenerated, Content: "We shipped it!"}).
		Append(transcript.Message{Role: transcript.RoleCritique, Content: "Add a hook."}).
		Append(transcript.Message{Role: transcript.RoleGenerated, Content: "Big news: we shipped it!"})

	var buf bytes.Buffer
	require.NoError(t, Transcript(&buf, prompt.ModeTweet, tr))

	out := buf.String()
	for _, want := range []string{"tweet", "Input", "ship it", "Round 1 · Draft", "We shipped it!", "Round 1 · Critique", "Add a hook.", "Round 2 · Draft", "Big news"} {
		require.Contains(t, out, want)
	}
}

func TestFailure(t *testing.T) {
	var buf bytes.Buffer
	err := &reflection.CompletionFailure{Stage: reflection.StageGenerate, Round: 2, Err: &llm.Error{Provider: "openai", Kind: llm.ErrAuth}}
	require.NoError(t, Failure(&buf, err))
	require.Contains(t, buf.String(), "Round 2 generate failed")
	require.Contains(t, buf.String(), "authentication failed")

	buf.Reset()
	require.NoError(t, Failure(&buf, &config.ConfigurationError{Missing: []string{"llm.model (MODEL_NAME)"}}))
	require.Contains(t, buf.String(), "Configuration error")

	buf.Reset()
	require.NoError(t, Failure(&buf, errors.New("stdin closed")))
	require.Contains(t, buf.String(), "Refinement failed")
}
