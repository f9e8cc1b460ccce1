package recipesuggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// ErrNoIngredients is returned when a task is built from an empty ingredient
// list. It aborts the run before any provider call is made.
var ErrNoIngredients = errors.New("no ingredients provided")

// NewChefProfile returns the default persona used for recipe suggestion.
func NewChefProfile() AgentProfile {
	return AgentProfile{
		Role: "Recipe Suggester",
		Goal: "Given a list of available ingredients, propose and describe recipe options " +
			"that maximize use of those ingredients. Provide structured JSON output. " +
			"If a recipe requires a small number of common pantry staples (salt, oil, " +
			"pepper, water), list them separately and mark whether they are mandatory or optional.",
		Backstory: "A professional chef who prioritizes ingredient-led, practical recipes.",
	}
}

// SystemPrompt renders the profile into the system message sent to providers.
func (p AgentProfile) SystemPrompt() string {
	return fmt.Sprintf(`You are %s.

GOAL
%s

BACKSTORY
%s

OUTPUT CONTRACT
- Your final response must be ONE valid JSON array only (no extra text, no markdown, no code fences). Start with '[' and end with ']'.
- UTF-8, no trailing commas.
- Each element is a recipe object following the schema given in the task.`,
		p.Role, p.Goal, p.Backstory)
}

// TaskSpec describes one suggestion request. Ingredients must already be
// normalized (lowercase, trimmed, deduplicated where applicable).
type TaskSpec struct {
	Ingredients []string
	NumRecipes  int
	Servings    int
}

// BuildTask renders the constrained task prompt. Fails with ErrNoIngredients
// on an empty list; nothing downstream accepts an empty ingredient set.
func (t TaskSpec) BuildTask() (string, error) {
	if len(t.Ingredients) == 0 {
		return "", ErrNoIngredients
	}

	numRecipes := t.NumRecipes
	if numRecipes <= 0 {
		numRecipes = 3
	}
	servings := t.Servings
	if servings <= 0 {
		servings = 2
	}

	schemaJSON, err := json.MarshalIndent(RecipeSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe schema: %w", err)
	}

	ingredientText := strings.Join(t.Ingredients, ", ")

	return fmt.Sprintf(taskTemplate, ingredientText, numRecipes, servings, string(schemaJSON), ingredientText), nil
}

// RecipeSchema describes the recipe object requested from the model. It is a
// prompt contract only; the model's output is never validated against it.
func RecipeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"title":            {Type: "string"},
				"used_ingredients": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"missing_ingredients": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "required items not in the provided list",
				},
				"pantry_staples": {
					Type: "array",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"name":     {Type: "string"},
							"required": {Type: "string", Enum: []any{"mandatory", "optional"}},
						},
						Required: []string{"name", "required"},
					},
				},
				"servings":          {Type: "integer"},
				"prep_time_minutes": {Type: "integer"},
				"cook_time_minutes": {Type: "integer"},
				"difficulty":        {Type: "string", Enum: []any{"easy", "medium", "hard"}},
				"steps":             {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"notes": {
					Type:        "string",
					Description: "dietary/allergen warnings or substitutions",
				},
			},
			Required: []string{"title", "used_ingredients", "missing_ingredients", "servings", "steps"},
		},
	}
}

const taskTemplate = `You are given the following list of available ingredients (exact terms; do not invent synonyms unless extremely obvious):
%s

Requirements:
1) Propose exactly %d recipe options, ordered by how well they use the provided ingredients.
2) Each recipe serves %d people unless the dish dictates otherwise.
3) Do NOT include external links or invent brand names.
4) If a recipe requires more than 4 missing ingredients, do not propose it.
5) Use only common cooking techniques. Prefer recipes that use most of the provided ingredients.
6) Respond with a single JSON array containing the recipe objects and no additional prose.

The response must conform to this JSON schema:
%s

TEXT: Ingredients: %s`
