package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"draftpane/config"
	"draftpane/model"
	"draftpane/tools"
)

// AnthropicAssistant implements model.Assistant using the official Anthropic
// Go SDK for direct Claude API access.
type AnthropicAssistant struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
}

// NewAnthropicAssistant creates a new Anthropic assistant instance.
//
// Returns an error if the API key is missing. An empty model defaults to
// Claude Sonnet 4.5.
func NewAnthropicAssistant(baseURL, apiKey, modelName string) (*AnthropicAssistant, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if modelName != "" {
		anthropicModel = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicAssistant{
		client:  &client, // Convert value to pointer
		model:   anthropicModel,
		baseURL: baseURL,
	}, nil
}

// Respond implements model.Assistant with a single non-streaming call.
func (a *AnthropicAssistant) Respond(ctx context.Context, userText, documentText string) (*model.AssistantResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxResponseTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserMessage(userText, documentText))),
		},
		Tools: tools.ConvertToAnthropicFormat(tools.Declarations()),
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyAnthropicError(err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("%w: response carries no content blocks", model.ErrMalformedResponse)
	}

	response := &model.AssistantResponse{}
	var reply strings.Builder

	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			reply.WriteString(variant.Text)

		case anthropic.ToolUseBlock:
			op, err := tools.Decode(variant.Name, variant.Input)
			if err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Anthropic] undecodable tool block %s: %v", variant.Name, err)
			}
			// Bare operations flow through so the dispatcher reports them
			// as unsupported instead of dropping them silently.
			response.Operations = append(response.Operations, op)
		}
	}

	response.Reply = reply.String()
	return response, nil
}

// GetModel implements model.Assistant.
func (a *AnthropicAssistant) GetModel() string {
	return string(a.model)
}

// GetDisplayName implements model.Assistant.
func (a *AnthropicAssistant) GetDisplayName() string {
	return string(a.model)
}

// classifyAnthropicError maps SDK errors to the model error classes. API
// errors classify by status code; anything else is a transport failure.
func classifyAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return classifyStatus(apierr.StatusCode, err)
	}
	return fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
}
