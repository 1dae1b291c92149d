package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/config"
)

// NewFromConfig constructs the LLM client selected by the provider setting.
// Returns (nil, nil) when the LLM is disabled; callers treat a nil client
// as "use the deterministic fallback".
func NewFromConfig(cfg config.LLMConfig, logger *zap.Logger) (LLMClient, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		return NewClient(cfg, logger), nil
	case "anthropic":
		return NewAnthropicClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
