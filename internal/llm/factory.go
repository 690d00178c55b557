package llm

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/timegrid/internal/apperr"
)

// Supported providers.
const (
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
)

// NewClient returns the client for the [llm] provider setting. An empty
// provider means Ollama.
func NewClient(provider, model, baseURL string) (Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: llm model is required", apperr.ErrValidation)
	}
	switch normalizeProvider(provider) {
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	default:
		return nil, fmt.Errorf("%w: unsupported llm provider %q (want %s or %s)",
			apperr.ErrValidation, provider, ProviderOllama, ProviderLMStudio)
	}
}

func normalizeProvider(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "", ProviderOllama:
		return ProviderOllama
	case ProviderLMStudio, "lm-studio", "lm_studio":
		return ProviderLMStudio
	}
	return p
}
