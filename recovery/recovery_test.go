package recovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toMapOutput struct {
	m map[string]any
}

func (o toMapOutput) ToMap() map[string]any { return o.m }

type serializableOutput struct {
	v   any
	err error
}

func (o serializableOutput) SerializeJSON() (any, error) { return o.v, o.err }

type toJSONOutput struct {
	s string
}

func (o toJSONOutput) ToJSON() (string, error) { return o.s, nil }

type textOutput struct {
	s string
}

func (o textOutput) Text() string { return o.s }

type serializableWithTextFallback struct {
	textOutput
}

func (serializableWithTextFallback) SerializeJSON() (any, error) {
	return nil, errors.New("upstream serialization failed")
}

type opaque struct {
	ID int
}

func TestRecover_Strings(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name:  "direct json array",
			input: `[{"title":"Soup"}]`,
			want:  []any{map[string]any{"title": "Soup"}},
		},
		{
			name:  "direct json object",
			input: `{"title":"Soup"}`,
			want:  map[string]any{"title": "Soup"},
		},
		{
			name:  "json embedded in prose",
			input: `Here is your answer: [{"title":"Soup"}] Enjoy!`,
			want:  []any{map[string]any{"title": "Soup"}},
		},
		{
			name:  "json in a markdown fence",
			input: "```json\n[{\"title\":\"Soup\"}]\n```",
			want:  []any{map[string]any{"title": "Soup"}},
		},
		{
			name:  "object embedded after unmatched bracket text",
			input: `Answer: {"title":"Soup"} done`,
			want:  map[string]any{"title": "Soup"},
		},
		{
			name:  "multiline json with surrounding prose",
			input: "Sure!\n[\n {\"title\": \"Stew\"},\n {\"title\": \"Salad\"}\n]\nBon appetit.",
			want:  []any{map[string]any{"title": "Stew"}, map[string]any{"title": "Salad"}},
		},
		{
			name:  "not json at all",
			input: "not json at all",
			want:  map[string]any{"raw_text": "not json at all"},
		},
		{
			name:  "empty string",
			input: "",
			want:  map[string]any{"raw_text": ""},
		},
		{
			name:  "byte slice input",
			input: []byte(`["egg","milk"]`),
			want:  []any{"egg", "milk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recover(tt.input))
		})
	}
}

func TestRecover_StructuredPassthrough(t *testing.T) {
	m := map[string]any{"title": "Soup", "servings": 2}
	assert.Equal(t, m, Recover(m))

	list := []any{map[string]any{"title": "Soup"}}
	assert.Equal(t, list, Recover(list))

	typed := []map[string]string{{"title": "Soup"}}
	assert.Equal(t, typed, Recover(typed))
}

func TestRecover_Accessors(t *testing.T) {
	t.Run("to-map accessor skips string parsing", func(t *testing.T) {
		m := map[string]any{"title": "Soup"}
		got := Recover(toMapOutput{m: m})
		assert.Equal(t, m, got)
	})

	t.Run("serializable capability with structured value", func(t *testing.T) {
		want := []any{map[string]any{"title": "Chili"}}
		got := Recover(serializableOutput{v: want})
		assert.Equal(t, want, got)
	})

	t.Run("serializable capability with string value", func(t *testing.T) {
		got := Recover(serializableOutput{v: `{"title":"Chili"}`})
		assert.Equal(t, map[string]any{"title": "Chili"}, got)
	})

	t.Run("to-json accessor re-enters string strategies", func(t *testing.T) {
		got := Recover(toJSONOutput{s: `Result: [{"title":"Frittata"}]`})
		assert.Equal(t, []any{map[string]any{"title": "Frittata"}}, got)
	})

	t.Run("text accessor with unparsable content wraps as raw text", func(t *testing.T) {
		got := Recover(textOutput{s: "the model refused"})
		assert.Equal(t, map[string]any{"raw_text": "the model refused"}, got)
	})

	t.Run("failed capability falls through to later probes", func(t *testing.T) {
		v := serializableWithTextFallback{textOutput{s: `["egg"]`}}
		got := Recover(v)
		assert.Equal(t, []any{"egg"}, got)
	})
}

func TestRecover_Diagnostic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		wantType string
	}{
		{name: "plain struct", input: opaque{ID: 7}, wantType: "recovery.opaque"},
		{name: "nil", input: nil, wantType: "<nil>"},
		{name: "number", input: 42, wantType: "int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Recover(tt.input).(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantType, got["type"])
			assert.NotEmpty(t, got["raw_repr"])
		})
	}
}

func TestRecover_Idempotent(t *testing.T) {
	inputs := []any{
		`[{"title":"Soup"}]`,
		"not json at all",
		opaque{ID: 1},
	}

	for _, in := range inputs {
		first := Recover(in)
		second := Recover(first)
		assert.Equal(t, first, second)
	}
}
