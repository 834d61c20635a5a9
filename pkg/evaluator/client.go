package evaluator

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Client asks the model under evaluation a single question and returns its
// answer.
type Client interface {
	Ask(ctx context.Context, question string) (string, error)
}

// ChatClient talks to the trainer's OpenAI-compatible inference endpoint.
type ChatClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// ChatConfig holds the inference endpoint settings.
type ChatConfig struct {
	Endpoint    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

func NewChatClient(cfg ChatConfig) *ChatClient {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// The local api server accepts any key.
		apiKey = "none"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.Endpoint

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 128
	}

	return &ChatClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

func (c *ChatClient) Ask(ctx context.Context, question string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
