// Package notify posts a completion summary to a Slack webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
}

func NewClient(webhookURL string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

// RunSummary formats the confirmation message for a finished suggestion run.
// recovered=false means the output file holds a diagnostic mapping instead of
// recipes.
func RunSummary(validRecipes int, outputPath string, recovered bool) string {
	if !recovered {
		return fmt.Sprintf("Recipe run finished, but the model's answer could not be parsed as recipes. Raw output written to %s for inspection.", outputPath)
	}
	return fmt.Sprintf("Recipe run finished: %d valid suggestion(s) written to %s.", validRecipes, outputPath)
}

func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(map[string]any{
		"channel": channel,
		"text":    message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}
