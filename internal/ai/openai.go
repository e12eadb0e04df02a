// Package ai implements the completion collaborator using the OpenAI SDK.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"whatcanicook-backend-go/internal/core"
)

// OpenAIClient implements core.CompletionClient. Model and sampling
// temperature are fixed at construction; call sites only choose prompts and
// whether they want structured output.
type OpenAIClient struct {
	client      openai.Client
	model       shared.ChatModel
	temperature float64
}

// NewOpenAIClient creates a client for the given API key and model.
func NewOpenAIClient(apiKey, model string, temperature float64) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(option.WithAPIKey(apiKey)),
		model:       shared.ChatModel(model),
		temperature: temperature,
	}
}

// Complete runs one chat completion and returns the generated text.
func (c *OpenAIClient) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(c.temperature),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
