// Package provider implements the hosted model clients.
//
// Draftpane talks to cloud LLM APIs (Anthropic, OpenAI) through the
// model.Assistant interface. The interface lives in the model package to
// avoid an import cycle; this package holds the implementations, the shared
// prompt and the factory that picks one from configuration.
//
// Each assistant makes a single non-streaming call per user request: system
// prompt, one user message carrying the document snapshot, and the two tool
// declarations. Failures come back wrapped around the model package's error
// classes so callers can branch with errors.Is.
package provider

import (
	"fmt"
	"net/http"

	"draftpane/model"
)

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string
}

// maxResponseTokens caps every model response.
const maxResponseTokens = 2000

// classifyStatus maps an API status code to the model error classes:
// rate limits are quota errors, everything else means the model is
// unavailable right now.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", model.ErrModelQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
}
