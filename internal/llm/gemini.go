package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/comigor/reflector/internal/config"
	"github.com/comigor/reflector/internal/transcript"
)

const providerGemini = "gemini"

// Gemini completes transcripts through the Google Gen AI SDK.
type Gemini struct {
	models ContentGenerator
	model  string
}

var _ Completer = (*Gemini)(nil)

// NewGemini creates a Gemini completer from configuration.
func NewGemini(ctx context.Context, cfg config.LLMConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewGeminiWithModels(client.Models, cfg.Model), nil
}

// NewGeminiWithModels wraps an existing content generator.
func NewGeminiWithModels(models ContentGenerator, model string) *Gemini {
	return &Gemini{models: models, model: model}
}

// Complete sends instruction as the system instruction and msgs as contents.
func (g *Gemini) Complete(ctx context.Context, instruction string, msgs []transcript.Message) (string, error) {
	var cfg *genai.GenerateContentConfig
	if instruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		}
	}

	resp, err := g.models.GenerateContent(ctx, g.model, geminiContents(msgs), cfg)
	if err != nil {
		return "", classifyGemini(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", malformed(providerGemini, "no candidates in response")
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", malformed(providerGemini, "empty text (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return text, nil
}

func geminiContents(msgs []transcript.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == transcript.RoleGenerated {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}

func classifyGemini(err error) *Error {
	if kind, ok := kindForTransport(err); ok {
		return &Error{Provider: providerGemini, Kind: kind, Err: err}
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: providerGemini, Kind: kindForStatus(apiErr.Code), Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &Error{Provider: providerGemini, Kind: kindForStatus(apiErrPtr.Code), Err: err}
	}
	return &Error{Provider: providerGemini, Kind: ErrUnavailable, Err: err}
}
