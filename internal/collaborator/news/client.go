package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/mmcdole/gofeed"

	"github.com/propace/pace/internal/config"
)

// Client fetches headline titles from the configured syndication feed and can
// persist a snapshot for external display clients to poll.
type Client struct {
	cfg    config.NewsConfig
	parser *gofeed.Parser
}

// NewClient builds a feed client with the configured request timeout.
func NewClient(cfg config.NewsConfig) *Client {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: cfg.Timeout}
	return &Client{cfg: cfg, parser: parser}
}

// Headlines returns the current feed entry titles in feed order.
func (c *Client) Headlines(ctx context.Context) ([]string, error) {
	feed, err := c.parser.ParseURLWithContext(c.cfg.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	titles := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	return titles, nil
}

type snapshotEntry struct {
	Title string `json:"title"`
}

// WriteSnapshot fetches the current headlines and writes them as a JSON array
// of {title} objects to the configured path. A side artifact; the dispatch
// loop does not depend on it.
func (c *Client) WriteSnapshot(ctx context.Context) error {
	if c.cfg.SnapshotPath == "" {
		return nil
	}

	titles, err := c.Headlines(ctx)
	if err != nil {
		return err
	}

	entries := make([]snapshotEntry, len(titles))
	for i, title := range titles {
		entries[i] = snapshotEntry{Title: title}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(c.cfg.SnapshotPath, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
