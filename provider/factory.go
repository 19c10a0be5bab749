package provider

import (
	"fmt"

	"draftpane/model"
)

// New creates an assistant based on configuration.
//
// This is the centralized factory for creating any provider type. It
// dispatches to the appropriate constructor based on the Config.Type field
// and returns an error for unknown types or failing constructors (missing
// API key).
func New(cfg Config) (model.Assistant, error) {
	switch cfg.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicAssistant(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIAssistant(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a factory
// ProviderType. Unknown IDs pass through as-is so the factory reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "anthropic":
		return ProviderTypeAnthropic
	case "openai":
		return ProviderTypeOpenAI
	default:
		return ProviderType(id)
	}
}
