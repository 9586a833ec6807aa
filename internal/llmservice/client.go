package llmservice

import (
	"context"
	"fmt"
	"strings"

	"smartdocs/internal/config"
	"smartdocs/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator produces free text for a prompt. Callers that expect structured
// output must validate it themselves.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is a long-lived LLM handle, constructed once at startup.
type Client struct {
	llm llms.Model
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case "", "ollama":
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	case "openai":
		llm, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	default:
		err = fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing llm client: %w", err)
	}
	return &Client{llm: llm}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", &models.UpstreamError{Component: "llm", Err: err}
	}
	if len(res.Choices) == 0 {
		return "", &models.UpstreamError{Component: "llm", Err: fmt.Errorf("empty response")}
	}
	return res.Choices[0].Content, nil
}
