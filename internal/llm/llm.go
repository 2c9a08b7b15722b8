// Package llm constructs the extraction client for the configured
// provider. Provider choice is dispatched once here; the response
// parsing in parse stays provider-agnostic.
package llm

import (
	"fmt"
	"os"

	"signal-extractor/internal/interfaces"
	"signal-extractor/internal/llm/claude"
	"signal-extractor/internal/llm/noop"
	"signal-extractor/internal/llm/openai"
	"signal-extractor/internal/store"
)

// NewExtractor builds the extractor for cfg.LLM.Provider. It fails fast
// when the provider is outside the supported set or no API credential
// is resolvable from config or environment.
func NewExtractor(cfg *store.Config) (interfaces.Extractor, error) {
	switch cfg.LLM.Provider {
	case "OPENAI":
		key := resolveKey(cfg.LLM.APIKey, "OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("api key not found for provider OPENAI: set llm.api_key or OPENAI_API_KEY")
		}
		return openai.New(cfg, key), nil
	case "CLAUDE":
		key := resolveKey(cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("api key not found for provider CLAUDE: set llm.api_key or ANTHROPIC_API_KEY")
		}
		return claude.New(cfg, key), nil
	case "NOOP":
		return noop.New(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

func resolveKey(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}
