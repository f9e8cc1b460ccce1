// Package bedrock implements the suggestion agent against the Bedrock
// Converse API.
package bedrock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"recipesuggest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// defaultModelID is the default model ID for Bedrock Claude.
	// It's an inference profile ID or ARN, not the foundation model's ID.
	// See https://docs.aws.amazon.com/bedrock/latest/userguide/inference-profiles.html.
	defaultModelID = "us.anthropic.claude-3-7-sonnet-20250219-v1:0"

	defaultMaxTokens   = 2048
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

type ClientOpts struct {
	ModelID     string
	Profile     recipesuggest.AgentProfile
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type Client struct {
	brc          bedrockRuntimeClient
	systemPrompt string
	opts         ClientOpts
}

func NewClient(brc bedrockRuntimeClient, opts ClientOpts) *Client {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &Client{
		brc:          brc,
		systemPrompt: opts.Profile.SystemPrompt(),
		opts:         opts,
	}
}

// Suggest runs a single Converse exchange and returns the assistant text.
func (c *Client) Suggest(ctx context.Context, task string) (any, error) {
	ctx, span := otel.Tracer(recipesuggest.TracerNameBedrock).Start(ctx, "Client.Suggest")
	span.SetAttributes(attribute.String("model.id", c.opts.ModelID))
	defer span.End()

	slog.Info("LLM_CLIENT: Invoked", "model", c.opts.ModelID, "task_len", len(task))

	in := &bedrockruntime.ConverseInput{
		ModelId: &c.opts.ModelID,
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: c.systemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: task},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(c.opts.MaxTokens),
			Temperature: aws.Float32(c.opts.Temperature),
			TopP:        aws.Float32(c.opts.TopP),
		},
	}

	out, err := c.brc.Converse(ctx, in)
	if err != nil {
		slog.Error("LLM_CLIENT: Bedrock invoke failed", "error", err)
		return nil, err
	}

	slog.Info("LLM_CLIENT: Bedrock invoke succeeded",
		"stop_reason", out.StopReason,
		"latency_ms", aws.ToInt64(out.Metrics.LatencyMs),
		"input_tokens", aws.ToInt32(out.Usage.InputTokens),
		"output_tokens", aws.ToInt32(out.Usage.OutputTokens),
	)

	switch out.StopReason {
	case types.StopReasonEndTurn, types.StopReasonStopSequence:
		return textFromOutput(out), nil

	case types.StopReasonMaxTokens:
		slog.Warn("LLM_CLIENT: Model hit MaxTokens limit; consider increasing MaxTokens")
		return nil, fmt.Errorf("model hit MaxTokens limit; consider increasing MaxTokens")

	case types.StopReasonContentFiltered, types.StopReasonGuardrailIntervened:
		slog.Warn("LLM_CLIENT: Model response blocked by Bedrock safety filters")
		return nil, fmt.Errorf("model response blocked by Bedrock safety filters")

	default:
		// Fallback if the model didn't specify a stop reason
		return textFromOutput(out), nil
	}
}

// textFromOutput returns assistant text optimized for this agent's use:
// 1) If any text block looks like a JSON document, return the last such block.
// 2) Else, join all text blocks with '\n'.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	// Prefer a single JSON document if present (typical for final agent output)
	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) > 1 && (s[0] == '[' && s[len(s)-1] == ']' || s[0] == '{' && s[len(s)-1] == '}') {
			return s
		}
	}

	return strings.Join(texts, "\n")
}
