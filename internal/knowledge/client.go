// Package knowledge provides a thin client for the shared knowledge
// base service: agents store findings and query prior work across
// dispatches. The service is optional; callers should treat a nil
// client as "no knowledge base configured".
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to a knowledge base service over HTTP. It scopes all
// operations to a project namespace.
type Client struct {
	baseURL string
	project string
	http    *http.Client
}

// NewClient creates a knowledge client for the given service URL and
// project namespace. An empty project means the default namespace.
func NewClient(baseURL, project string) *Client {
	if project == "" {
		project = "default"
	}
	return &Client{
		baseURL: baseURL,
		project: project,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Entry is one stored knowledge item.
type Entry struct {
	ID        string    `json:"id,omitempty"`
	Project   string    `json:"project"`
	Agent     string    `json:"agent"`
	Topic     string    `json:"topic"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Store saves a knowledge entry and returns its id.
func (c *Client) Store(ctx context.Context, agent, topic, content string) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("topic cannot be empty")
	}
	entry := Entry{
		Project: c.project,
		Agent:   agent,
		Topic:   topic,
		Content: content,
	}

	var stored Entry
	if err := c.post(ctx, "/entries", entry, &stored); err != nil {
		return "", fmt.Errorf("store knowledge entry: %w", err)
	}
	return stored.ID, nil
}

// Query returns up to limit entries matching the query text within the
// client's project namespace. limit <= 0 means the service default.
func (c *Client) Query(ctx context.Context, query string, limit int) ([]Entry, error) {
	params := url.Values{}
	params.Set("project", c.project)
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var entries []Entry
	if err := c.get(ctx, "/entries?"+params.Encode(), &entries); err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}
	return entries, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
