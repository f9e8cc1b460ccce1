// Package mock provides a deterministic suggestion agent for offline runs and
// tests. Each mode emits a different raw output shape so the recovery chain's
// strategies can be exercised without a live model.
package mock

import (
	"context"
	"fmt"
	"log/slog"

	"recipesuggest"

	"go.opentelemetry.io/otel"
)

const (
	// ModeJSON returns a clean JSON array string.
	ModeJSON = "json"
	// ModeProse returns JSON wrapped in conversational prose.
	ModeProse = "prose"
	// ModeStructured returns an already-structured value, no parsing needed.
	ModeStructured = "structured"
	// ModeWrapped returns an opaque wrapper exposing the payload via an accessor.
	ModeWrapped = "wrapped"
	// ModeGarbage returns text with no recoverable JSON.
	ModeGarbage = "garbage"
)

type Client struct {
	mode string
}

func NewClient(mode string) (*Client, error) {
	switch mode {
	case "", ModeJSON:
		return &Client{mode: ModeJSON}, nil
	case ModeProse, ModeStructured, ModeWrapped, ModeGarbage:
		return &Client{mode: mode}, nil
	default:
		return nil, fmt.Errorf("unknown mock mode %q", mode)
	}
}

// wrappedOutput mimics an SDK result object that hides its payload behind an
// accessor instead of being a plain string.
type wrappedOutput struct {
	payload string
}

func (w wrappedOutput) Text() string { return w.payload }

const cannedRecipes = `[
  {
    "title": "Tomato Omelet",
    "used_ingredients": ["egg", "tomato"],
    "missing_ingredients": [],
    "pantry_staples": [{"name": "salt", "required": "mandatory"}, {"name": "oil", "required": "mandatory"}],
    "servings": 2,
    "prep_time_minutes": 5,
    "cook_time_minutes": 10,
    "difficulty": "easy",
    "steps": ["Whisk the eggs with a pinch of salt.", "Dice the tomato.", "Cook the omelet in an oiled pan, adding tomato halfway."],
    "notes": "Contains egg."
  }
]`

// Suggest returns a canned response shaped according to the client's mode. It
// is, of course, deterministic and only serves as a learning aid to see how
// the recovery chain handles different output shapes. Real LLMs may not be so
// kind :)
func (c *Client) Suggest(ctx context.Context, task string) (any, error) {
	_, span := otel.Tracer(recipesuggest.TracerNameMock).Start(ctx, "Client.Suggest")
	defer span.End()

	slog.Info("LLM_CLIENT: Invoked", "mode", c.mode, "task_len", len(task))

	switch c.mode {
	case ModeProse:
		return "Here are your recipes!\n" + cannedRecipes + "\nEnjoy your meal!", nil
	case ModeStructured:
		return []map[string]any{
			{
				"title":               "Tomato Omelet",
				"used_ingredients":    []string{"egg", "tomato"},
				"missing_ingredients": []string{},
				"servings":            2,
				"steps":               []string{"Whisk.", "Cook."},
			},
		}, nil
	case ModeWrapped:
		return wrappedOutput{payload: cannedRecipes}, nil
	case ModeGarbage:
		return "I'm sorry, I can't produce recipes right now.", nil
	default:
		return cannedRecipes, nil
	}
}
