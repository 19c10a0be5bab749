package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"draftpane/config"
	"draftpane/model"
	"draftpane/tools"
)

// OpenAIAssistant implements model.Assistant using the official OpenAI Go
// SDK.
type OpenAIAssistant struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAIAssistant creates a new OpenAI assistant instance.
//
// Returns an error if the API key is missing. An empty model defaults to
// gpt-4o-mini.
func NewOpenAIAssistant(baseURL, apiKey, modelName string) (*OpenAIAssistant, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIAssistant{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
	}, nil
}

// Respond implements model.Assistant with a single non-streaming call.
func (a *OpenAIAssistant) Respond(ctx context.Context, userText, documentText string) (*model.AssistantResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserMessage(userText, documentText)),
		},
		Model:               openai.ChatModel(a.model),
		MaxCompletionTokens: openai.Int(maxResponseTokens),
		Tools:               tools.ConvertToOpenAIFormat(tools.Declarations()),
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: response carries no choices", model.ErrMalformedResponse)
	}

	message := completion.Choices[0].Message
	response := &model.AssistantResponse{Reply: message.Content}

	for _, call := range message.ToolCalls {
		// Tool arguments arrive as a JSON string, not an object
		op, err := tools.Decode(call.Function.Name, json.RawMessage(call.Function.Arguments))
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[OpenAI] undecodable tool call %s: %v", call.Function.Name, err)
		}
		response.Operations = append(response.Operations, op)
	}

	return response, nil
}

// GetModel implements model.Assistant.
func (a *OpenAIAssistant) GetModel() string {
	return a.model
}

// GetDisplayName implements model.Assistant.
func (a *OpenAIAssistant) GetDisplayName() string {
	return a.model
}

// classifyOpenAIError maps SDK errors to the model error classes. API errors
// classify by status code; anything else is a transport failure.
func classifyOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return classifyStatus(apierr.StatusCode, err)
	}
	return fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
}
