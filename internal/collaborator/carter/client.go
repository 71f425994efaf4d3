package carter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/propace/pace/internal/config"
)

// Client talks to the Carter conversational API: chat completions with
// optional intent triggers, plus one-shot opener sentences.
type Client struct {
	cfg    config.CarterConfig
	client *http.Client
}

// NewClient builds a client with the configured request timeout.
func NewClient(cfg config.CarterConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Completion is the distilled chat response: the reply text and, when the
// API tagged the utterance, the first trigger's intent type.
type Completion struct {
	Text   string
	Intent string
}

type chatRequest struct {
	APIKey string `json:"api_key"`
	Query  string `json:"query"`
	UUID   string `json:"uuid"`
}

type chatResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Triggers []struct {
		Type string `json:"type"`
	} `json:"triggers"`
}

// Complete sends the user text and returns the reply plus detected intent.
func (c *Client) Complete(ctx context.Context, text string) (Completion, error) {
	payload := chatRequest{APIKey: c.cfg.APIKey, Query: text, UUID: c.cfg.UserID}

	var resp chatResponse
	if err := c.post(ctx, "/chat", payload, &resp); err != nil {
		return Completion{}, err
	}

	if resp.Output.Text == "" {
		return Completion{}, fmt.Errorf("chat response missing output text")
	}

	completion := Completion{Text: resp.Output.Text}
	if len(resp.Triggers) > 0 {
		completion.Intent = resp.Triggers[0].Type
	}
	return completion, nil
}

type openerRequest struct {
	APIKey string `json:"api_key"`
	UUID   string `json:"uuid"`
}

type openerResponse struct {
	Sentence string `json:"sentence"`
}

// Opener fetches a single greeting sentence for a newly connected client.
func (c *Client) Opener(ctx context.Context) (string, error) {
	payload := openerRequest{APIKey: c.cfg.APIKey, UUID: c.cfg.UserID}

	var resp openerResponse
	if err := c.post(ctx, "/opener", payload, &resp); err != nil {
		return "", err
	}

	if resp.Sentence == "" {
		return "", fmt.Errorf("opener response missing sentence")
	}
	return resp.Sentence, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("carter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("carter returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode carter response: %w", err)
	}
	return nil
}
