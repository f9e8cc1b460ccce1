// Package openrouter implements the suggestion agent against the OpenRouter
// chat completions API.
package openrouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recipesuggest"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

type UsageInfo struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Usage   UsageInfo `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type Client struct {
	rc           *resty.Client
	model        string
	systemPrompt string
	maxTokens    int
	temperature  float64
	topP         float64
}

type ClientOpts struct {
	BaseEndpoint string
	APIKey       string
	ModelID      string
	Profile      recipesuggest.AgentProfile
	MaxTokens    int32
	Temperature  float32
	TopP         float32
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}
	if opts.ModelID == "" {
		return nil, fmt.Errorf("model id is required")
	}

	rc := resty.New().
		SetBaseURL(opts.BaseEndpoint).
		SetAuthToken(opts.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)

	return &Client{
		rc:           rc,
		model:        opts.ModelID,
		systemPrompt: opts.Profile.SystemPrompt(),
		maxTokens:    int(opts.MaxTokens),
		temperature:  float64(opts.Temperature),
		topP:         float64(opts.TopP),
	}, nil
}

// Suggest submits the task as a single chat completion and returns the first
// choice's content. A response with no choices is an error; everything else,
// including non-JSON content, is passed through for recovery downstream.
func (c *Client) Suggest(ctx context.Context, task string) (any, error) {
	ctx, span := otel.Tracer(recipesuggest.TracerNameOpenRouter).Start(ctx, "Client.Suggest")
	span.SetAttributes(attribute.String("model.id", c.model))
	defer span.End()

	slog.Info("LLM_CLIENT: Invoked", "model", c.model, "task_len", len(task))

	var (
		out    Response
		apiErr apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(Request{
			Messages: []Message{
				{Role: "system", Content: c.systemPrompt},
				{Role: "user", Content: task},
			},
			Model:       c.model,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
			TopP:        c.topP,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("LLM_CLIENT: request failed: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status(), apiErr.Error.Message)
	}

	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("LLM_CLIENT: response contained no choices")
	}

	slog.Info("LLM_CLIENT: Response received",
		"content_len", len(out.Choices[0].Message.Content),
		"prompt_tokens", out.Usage.PromptTokens,
		"completion_tokens", out.Usage.CompletionTokens,
	)

	return out.Choices[0].Message.Content, nil
}
