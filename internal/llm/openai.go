package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/comigor/reflector/internal/config"
	"github.com/comigor/reflector/internal/transcript"
)

const providerOpenAI = "openai"

// NewClient creates a new OpenAI client pointed at the configured endpoint
// (OpenRouter and other compatible gateways work the same way).
func NewClient(cfg config.LLMConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	return openai.NewClientWithConfig(config)
}

// OpenAI completes transcripts through the chat completions API.
type OpenAI struct {
	client Client
	model  string
}

var _ Completer = (*OpenAI)(nil)

// NewOpenAI returns a completer using client and model.
func NewOpenAI(client Client, model string) *OpenAI {
	return &OpenAI{client: client, model: model}
}

// Complete sends instruction as the system message followed by msgs.
func (c *OpenAI) Complete(ctx context.Context, instruction string, msgs []transcript.Message) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages(instruction, msgs),
	})
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", malformed(providerOpenAI, "no choices in response %q", resp.ID)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", malformed(providerOpenAI, "empty content (finish reason %q)", resp.Choices[0].FinishReason)
	}
	return content, nil
}

// chatMessages maps transcript roles onto chat roles: drafts are the
// assistant's own turns, the seed and critiques are user turns.
func chatMessages(instruction string, msgs []transcript.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if instruction != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: instruction})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == transcript.RoleGenerated {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func classifyOpenAI(err error) *Error {
	if kind, ok := kindForTransport(err); ok {
		return &Error{Provider: providerOpenAI, Kind: kind, Err: err}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: providerOpenAI, Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Provider: providerOpenAI, Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}
	return &Error{Provider: providerOpenAI, Kind: ErrUnavailable, Err: err}
}
