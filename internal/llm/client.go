// Package llm wraps the external text-completion service. The retrieval core
// treats it as an opaque function from messages to text; streaming, artifact
// parsing and retries live with the caller.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Message roles mirror the chat-completion convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4oMini

// ErrNoCompletion is returned when the API responds without any choices.
var ErrNoCompletion = errors.New("no completion returned")

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string
}

// CompletionClient is the opaque text-completion dependency of the
// generation flow.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// chatAPI is the subset of the OpenAI client the adapter depends on
type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient implements CompletionClient against the OpenAI chat API.
type OpenAIClient struct {
	api   chatAPI
	model string
}

// NewOpenAIClient creates an OpenAIClient for the given API key and model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// Complete sends the conversation and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
