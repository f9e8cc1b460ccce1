package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")
	sink := NewFileSink(path)

	require.NoError(t, sink.Write(context.Background(), []byte(`[]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)
}

func TestFileSink_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")
	sink := NewFileSink(path)

	require.NoError(t, sink.Write(context.Background(), []byte(`["first run"]`)))
	require.NoError(t, sink.Write(context.Background(), []byte(`["second run"]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["second run"]`), data)
}

func TestWriteRecovered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")
	sink := NewFileSink(path)

	recovered := []any{map[string]any{"title": "Soup"}}
	require.NoError(t, WriteRecovered(context.Background(), sink, recovered))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Indented document that round-trips to the same value
	assert.Contains(t, string(data), "\n  {")
	var got any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, recovered, got)
}

func TestWriteRecovered_DiagnosticMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")
	sink := NewFileSink(path)

	recovered := map[string]any{"raw_text": "not json at all"}
	require.NoError(t, WriteRecovered(context.Background(), sink, recovered))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw_text": "not json at all"}`, string(data))
}
