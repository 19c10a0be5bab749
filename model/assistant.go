package model

import (
	"context"
	"errors"

	"draftpane/tools"
)

// Apology is appended to the chat whenever the assistant call fails,
// regardless of the underlying error class.
const Apology = "Sorry, I encountered an error. Please try again."

// Error classes for failed assistant calls. Provider implementations wrap
// these so callers can branch with errors.Is without importing provider
// packages.
var (
	// ErrModelUnavailable covers transport failures, authentication
	// rejections and server-side errors.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrModelQuotaExceeded is returned on rate-limit responses.
	ErrModelQuotaExceeded = errors.New("model quota exceeded")

	// ErrMalformedResponse is returned when the provider reply cannot be
	// decoded into text and operations.
	ErrMalformedResponse = errors.New("malformed model response")
)

// AssistantResponse is the decoded result of one model call: optional prose
// plus zero or more tool operations, in the order the model emitted them.
type AssistantResponse struct {
	Reply      string
	Operations []tools.Operation
}

// Assistant is the hosted-model contract. It is defined here rather than in
// the provider package so provider implementations can depend on model types
// without an import cycle.
//
// Respond makes a single model call: no streaming, no tool-result feedback
// loop. The document snapshot travels inside the request so the model sees
// current content without a view round trip.
type Assistant interface {
	Respond(ctx context.Context, userText, documentText string) (*AssistantResponse, error)
	GetModel() string
	GetDisplayName() string
}
