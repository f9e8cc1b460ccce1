package recipesuggest

import (
	"context"
	"encoding/json"
	"net/http"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Agent is the boundary to a text-generation provider. Suggest submits a task
// description and returns whatever the provider produced: a JSON string, prose
// wrapping JSON, or an already-structured value. Callers run the result
// through recovery.Recover before touching it.
type Agent interface {
	Suggest(ctx context.Context, task string) (any, error)
}

// AgentProfile configures the persona sent to the provider as the system
// prompt. Constructed once at process start and passed in explicitly; there is
// no package-level default instance.
type AgentProfile struct {
	Role      string
	Goal      string
	Backstory string
}

// Recipe is the structured record requested from the model. The schema is a
// prompt contract; nothing here enforces it on the model's output.
type Recipe struct {
	Title              string         `json:"title"`
	UsedIngredients    []string       `json:"used_ingredients"`
	MissingIngredients []string       `json:"missing_ingredients"`
	PantryStaples      []PantryStaple `json:"pantry_staples"`
	Servings           int            `json:"servings"`
	PrepTimeMinutes    int            `json:"prep_time_minutes"`
	CookTimeMinutes    int            `json:"cook_time_minutes"`
	Difficulty         string         `json:"difficulty"`
	Steps              []string       `json:"steps"`
	Notes              string         `json:"notes"`
}

// PantryStaple is a common seasoning or condiment the model may require
// without it appearing in the user's ingredient list.
type PantryStaple struct {
	Name     string `json:"name"`
	Required string `json:"required"`
}

// IsValid checks if the Recipe meets basic validation requirements
func (r *Recipe) IsValid() bool {
	if r.Title == "" {
		return false
	}

	// A recipe that uses nothing the user has is not a suggestion
	if len(r.UsedIngredients) == 0 {
		return false
	}

	if len(r.Steps) == 0 {
		return false
	}

	if r.Servings <= 0 {
		return false
	}

	return true
}

// CountValidRecipes decodes a recovered value into recipes and counts the ones
// passing basic validation. Returns 0, false when the value is not a recipe
// array at all (e.g. a diagnostic mapping).
func CountValidRecipes(v any) (int, bool) {
	recipes, ok := decodeRecipes(v)
	if !ok {
		return 0, false
	}

	n := 0
	for i := range recipes {
		if recipes[i].IsValid() {
			n++
		}
	}
	return n, true
}

func decodeRecipes(v any) ([]Recipe, bool) {
	// Round-trip through JSON so map[string]any elements land in Recipe fields.
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}

	var recipes []Recipe
	if err := json.Unmarshal(b, &recipes); err != nil {
		return nil, false
	}
	return recipes, true
}
