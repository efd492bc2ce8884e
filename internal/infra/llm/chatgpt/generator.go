package chatgpt

import (
	"context"
	"errors"

	"github.com/yanqian/anime-curator/internal/domain/curator"
)

const quotaCode = "insufficient_quota"

// Generator adapts the chat-completion API to the curator generation
// capability.
type Generator struct {
	client      *Client
	model       string
	temperature float32
}

// NewGenerator builds the OpenAI-backed generator.
func NewGenerator(client *Client, model string, temperature float32) *Generator {
	return &Generator{client: client, model: model, temperature: temperature}
}

// Name identifies this provider in timings and error records.
func (g *Generator) Name() string {
	return "openai"
}

// Generate narrates recommendations through role-tagged chat messages.
func (g *Generator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model: g.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 429 || apiErr.Code == quotaCode) {
			return "", &curator.QuotaError{Status: apiErr.StatusCode, Err: err}
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chatgpt returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
