package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akorchak/privascope/internal/model"
)

// ClientConfig holds parameters for a remote extractor service.
type ClientConfig struct {
	APIURL  string
	Timeout time.Duration
}

// Client talks to a remote sentence-evidence extractor over JSON
// HTTP: POST {base}/extract and POST {base}/scores.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a remote extractor client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Extract fetches ranked snippets per category. The response is
// untrusted: unknown categories are dropped, scores clamped, and the
// per-category list capped at topK.
func (c *Client) Extract(ctx context.Context, text string, topK int) (map[model.Category][]model.Snippet, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var raw map[string][]model.Snippet
	if err := c.post(ctx, "/extract", map[string]any{"text": text, "top_k": topK}, &raw); err != nil {
		return nil, err
	}

	out := make(map[model.Category][]model.Snippet, len(raw))
	for name, snippets := range raw {
		cat := model.Category(name)
		if !model.Known(cat) {
			continue
		}
		if len(snippets) > topK {
			snippets = snippets[:topK]
		}
		for i := range snippets {
			snippets[i].Score = clamp01(snippets[i].Score)
		}
		out[cat] = snippets
	}
	return out, nil
}

// Scores fetches per-category confidence values. Unknown categories
// are dropped and values clamped to [0,1].
func (c *Client) Scores(ctx context.Context, text string) (map[model.Category]float64, error) {
	var raw map[string]float64
	if err := c.post(ctx, "/scores", map[string]any{"text": text}, &raw); err != nil {
		return nil, err
	}

	out := make(map[model.Category]float64, len(raw))
	for name, score := range raw {
		cat := model.Category(name)
		if !model.Known(cat) {
			continue
		}
		out[cat] = clamp01(score)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.APIURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("extractor request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("extractor HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("decode extractor response: %w", err)
	}
	return nil
}
