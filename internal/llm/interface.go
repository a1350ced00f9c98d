package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/comigor/reflector/internal/transcript"
)

// Completer produces one reply for a system instruction followed by a
// transcript. Implementations return *Error on failure.
type Completer interface {
	Complete(ctx context.Context, instruction string, msgs []transcript.Message) (string, error)
}

// Client is minimal subset of openai.Client used by the completer; it is easy to mock in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ContentGenerator is the subset of genai.Models used by the Gemini completer.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
