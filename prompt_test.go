package recipesuggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTask(t *testing.T) {
	task, err := TaskSpec{
		Ingredients: []string{"egg", "milk", "flour"},
		NumRecipes:  4,
		Servings:    6,
	}.BuildTask()
	require.NoError(t, err)

	assert.Contains(t, task, "egg, milk, flour")
	assert.Contains(t, task, "Propose exactly 4 recipe options")
	assert.Contains(t, task, "Each recipe serves 6 people")
	assert.Contains(t, task, `"pantry_staples"`)
	assert.Contains(t, task, `"prep_time_minutes"`)
}

func TestBuildTask_Defaults(t *testing.T) {
	task, err := TaskSpec{Ingredients: []string{"rice"}}.BuildTask()
	require.NoError(t, err)

	assert.Contains(t, task, "Propose exactly 3 recipe options")
	assert.Contains(t, task, "Each recipe serves 2 people")
}

func TestBuildTask_NoIngredients(t *testing.T) {
	_, err := TaskSpec{}.BuildTask()
	assert.ErrorIs(t, err, ErrNoIngredients)
}

func TestSystemPrompt(t *testing.T) {
	sp := NewChefProfile().SystemPrompt()

	assert.True(t, strings.HasPrefix(sp, "You are Recipe Suggester."))
	assert.Contains(t, sp, "professional chef")
	assert.Contains(t, sp, "ONE valid JSON array only")
}

func TestRecipeIsValid(t *testing.T) {
	valid := Recipe{
		Title:           "Omelet",
		UsedIngredients: []string{"egg"},
		Servings:        2,
		Steps:           []string{"Whisk.", "Cook."},
	}
	assert.True(t, valid.IsValid())

	noTitle := valid
	noTitle.Title = ""
	assert.False(t, noTitle.IsValid())

	noUsed := valid
	noUsed.UsedIngredients = nil
	assert.False(t, noUsed.IsValid())

	noSteps := valid
	noSteps.Steps = nil
	assert.False(t, noSteps.IsValid())

	zeroServings := valid
	zeroServings.Servings = 0
	assert.False(t, zeroServings.IsValid())
}

func TestCountValidRecipes(t *testing.T) {
	recovered := []any{
		map[string]any{
			"title":            "Omelet",
			"used_ingredients": []any{"egg"},
			"servings":         2,
			"steps":            []any{"Whisk.", "Cook."},
		},
		map[string]any{"title": "Broken"},
	}

	count, ok := CountValidRecipes(recovered)
	require.True(t, ok)
	assert.Equal(t, 1, count)

	_, ok = CountValidRecipes(map[string]any{"raw_text": "nope"})
	assert.False(t, ok)
}
