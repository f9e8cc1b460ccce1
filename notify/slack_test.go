package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMessage(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, http.DefaultClient)
	err := client.PostMessage(context.Background(), "#cooking", "Recipe run finished")
	require.NoError(t, err)

	assert.Equal(t, "#cooking", got["channel"])
	assert.Equal(t, "Recipe run finished", got["text"])
}

func TestPostMessage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, http.DefaultClient)
	err := client.PostMessage(context.Background(), "#cooking", "hello")
	assert.Error(t, err)
}

func TestRunSummary(t *testing.T) {
	assert.Equal(t,
		"Recipe run finished: 3 valid suggestion(s) written to outputs.json.",
		RunSummary(3, "outputs.json", true))

	assert.Contains(t, RunSummary(0, "outputs.json", false), "could not be parsed")
}
