package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/comigor/reflector/internal/transcript"
)

type mockLLM struct {
	resp openai.ChatCompletionResponse
	err  error
	reqs []openai.ChatCompletionRequest
}

func (m *mockLLM) CreateChatCompletion(ctx context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.reqs = append(m.reqs, r)
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return m.resp, nil
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}}}
}

func TestOpenAIComplete_RequestShape(t *testing.T) {
	mock := &mockLLM{resp: reply("better tweet")}
	c := NewOpenAI(mock, "gpt-4o")

	msgs := []transcript.Message{
		{Role: transcript.RoleInput, Content: "seed"},
		{Role: transcript.RoleGenerated, Content: "draft"},
		{Role: transcript.RoleCritique, Content: "too long"},
	}
	out, err := c.Complete(context.Background(), "be concise", msgs)
	require.NoError(t, err)
	require.Equal(t, "better tweet", out)

	require.Len(t, mock.reqs, 1)
	req := mock.reqs[0]
	require.Equal(t, "gpt-4o", req.Model)
	require.Equal(t, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "be concise"},
		{Role: openai.ChatMessageRoleUser, Content: "seed"},
		{Role: openai.ChatMessageRoleAssistant, Content: "draft"},
		{Role: openai.ChatMessageRoleUser, Content: "too long"},
	}, req.Messages)
}

func TestOpenAIComplete_Malformed(t *testing.T) {
	c := NewOpenAI(&mockLLM{resp: openai.ChatCompletionResponse{ID: "r1"}}, "m")
	_, err := c.Complete(context.Background(), "sys", nil)
	require.ErrorIs(t, err, ErrMalformedResponse)

	c = NewOpenAI(&mockLLM{resp: reply("   ")}, "m")
	_, err = c.Complete(context.Background(), "sys", nil)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestOpenAIComplete_ClassifiesErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, ErrAuth},
		{"forbidden request", &openai.RequestError{HTTPStatusCode: http.StatusForbidden, Err: errors.New("nope")}, ErrAuth},
		{"rate limit", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, ErrRateLimited},
		{"gateway timeout", &openai.APIError{HTTPStatusCode: http.StatusGatewayTimeout}, ErrTimeout},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrTimeout},
		{"canceled", context.Canceled, ErrCanceled},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, ErrUnavailable},
		{"unknown", errors.New("connection reset"), ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewOpenAI(&mockLLM{err: tc.err}, "m")
			_, err := c.Complete(context.Background(), "sys", nil)
			require.ErrorIs(t, err, tc.kind)
			require.ErrorIs(t, err, tc.err, "underlying error must stay reachable")

			var llmErr *Error
			require.ErrorAs(t, err, &llmErr)
			require.Equal(t, "openai", llmErr.Provider)
		})
	}
}
