// Package ollama implements the suggestion agent against Ollama's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"recipesuggest"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	NumCtx        int     `json:"num_ctx,omitempty"`
}

type Client struct {
	endpoint     string
	model        string
	systemPrompt string
	httpClient   recipesuggest.HTTPClient
	options      options
}

type ClientOpts struct {
	BaseEndpoint string
	ModelID      string
	Profile      recipesuggest.AgentProfile
	Temperature  float32
	TopP         float32
	HTTPClient   recipesuggest.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.Profile.Role) == "" {
		return nil, fmt.Errorf("agent profile requires a role")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	o := options{
		Temperature:   float64(opts.Temperature),
		TopP:          float64(opts.TopP),
		RepeatPenalty: 1.05,
		NumCtx:        16384,
	}
	if o.Temperature == 0 {
		o.Temperature = 0.2
	}
	if o.TopP == 0 {
		o.TopP = 0.9
	}

	return &Client{
		model:        opts.ModelID,
		systemPrompt: opts.Profile.SystemPrompt(),
		httpClient:   opts.HTTPClient,
		endpoint:     opts.BaseEndpoint + "/api/chat",
		options:      o,
	}, nil
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  options       `json:"options,omitempty"`
}

type wireResponse struct {
	Message wireMessage `json:"message"`
	// other metadata omitted but available
}

// Suggest sends the task to the Ollama chat API and returns the model's raw
// answer. If the response body doesn't decode as the expected chat envelope,
// the body is returned verbatim; recovery downstream deals with it.
func (c *Client) Suggest(ctx context.Context, task string) (any, error) {
	ctx, span := otel.Tracer(recipesuggest.TracerNameOllama).Start(ctx, "Client.Suggest")
	span.SetAttributes(attribute.String("model.id", c.model))
	defer span.End()

	slog.Info("LLM_CLIENT: Invoked", "model", c.model, "task_len", len(task))

	reqBody := wireRequest{
		Model: c.model,
		Messages: []wireMessage{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: task},
		},
		Stream:  false,
		Options: c.options,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM_CLIENT: %s: %s", resp.Status, string(body))
	}

	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		slog.Warn("LLM_CLIENT: decode failed, returning raw", "err", err, "body_len", len(body))
		return string(body), nil
	}

	slog.Info("LLM_CLIENT: Response received", "content_len", len(wr.Message.Content))
	return wr.Message.Content, nil
}
