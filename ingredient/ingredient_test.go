package ingredient

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "comma separated",
			text: "tomato, onion, garlic",
			want: []string{"tomato", "onion", "garlic"},
		},
		{
			name: "mixed separators and case",
			text: "Tomato\nOnion, onion ; Garlic|garlic",
			want: []string{"tomato", "onion", "garlic"},
		},
		{
			name: "dedupes preserving first-seen order",
			text: "egg, milk, Egg, MILK, flour",
			want: []string{"egg", "milk", "flour"},
		},
		{
			name: "whitespace and empty pieces dropped",
			text: "  rice ,, , \n ,beans  ",
			want: []string{"rice", "beans"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "only separators",
			text: ",;|\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.text))
		})
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		want    []string
		wantErr error
	}{
		{
			name: "object with ingredients key",
			file: "pantry.json",
			data: `{"ingredients": ["Egg", "Milk"]}`,
			want: []string{"egg", "milk"},
		},
		{
			name: "bare list does not dedupe",
			file: "list.json",
			data: `["Flour", "Flour"]`,
			want: []string{"flour", "flour"},
		},
		{
			name: "items key wins when ingredients absent",
			file: "items.json",
			data: `{"items": [" Butter "], "list": ["ignored"]}`,
			want: []string{"butter"},
		},
		{
			name: "empty ingredients value falls through to items",
			file: "fallthrough.json",
			data: `{"ingredients": [], "items": ["Salt"]}`,
			want: []string{"salt"},
		},
		{
			name: "unknown keys use first value in document order",
			file: "firstvalue.json",
			data: `{"pantry": ["Rice", "Beans"], "other": ["nope"]}`,
			want: []string{"rice", "beans"},
		},
		{
			name: "falsy elements dropped, numbers coerced",
			file: "falsy.json",
			data: `["Egg", "", null, 0, false, 42]`,
			want: []string{"egg", "42"},
		},
		{
			name:    "scalar top level",
			file:    "scalar.json",
			data:    `"just a string"`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty object",
			file:    "empty.json",
			data:    `{}`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "unparsable json",
			file:    "broken.json",
			data:    `{"ingredients": [`,
			wantErr: ErrInvalidFormat,
		},
	}

	tmpDir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			got, err := LoadFromFile(path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromFile_Text(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "groceries.txt")
	require.NoError(t, os.WriteFile(path, []byte("Tomato\nOnion; onion | Garlic"), 0644))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "onion", "garlic"}, got)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nonexistent.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadFromFile_ExtensionCase(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "UPPER.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`["Egg"]`), 0644))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"egg"}, got)
}
