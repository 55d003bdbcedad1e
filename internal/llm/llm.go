package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"newschat/internal/common"
	"newschat/internal/config"
)

// Provider turns a fully assembled prompt into completion text.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// CompletionError reports a failed completion together with the
// provider that produced it. It is surfaced to the caller as-is; the
// other provider is never tried as a fallback.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion failed (%s): %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// NewProvider selects the completion backend by configuration
// presence: Gemini when GOOGLE_API_KEY is set, OpenAI otherwise. The
// choice is made once at startup and injected; there is no runtime
// fallback between providers.
func NewProvider(cfg config.LLMConfig) Provider {
	logger := common.Logger()
	if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
		logger.Info("llm: gemini provider selected", "model", cfg.GeminiModel)
		return NewGeminiProvider(key, cfg.GeminiModel)
	}
	logger.Info("llm: openai provider selected", "model", cfg.OpenAIChatModel)
	return NewOpenAIProvider(os.Getenv("OPENAI_API_KEY"), cfg.OpenAIChatModel)
}
