// Package llm wraps the text-completion services the refinement loop
// delegates to.
package llm

import (
	"context"
	"fmt"

	"github.com/comigor/reflector/internal/config"
)

// New builds the completer for the configured provider.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAI(NewClient(cfg), cfg.Model), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
