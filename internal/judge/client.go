// Package judge calls the external semantic judgment service: an
// OpenAI-compatible chat completion endpoint instructed to return
// strict JSON. The service is an untrusted, potentially slow or
// failing collaborator; callers must tolerate a nil client and treat
// any error as "no judgments available".
package judge

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

// Config holds parameters for the judgment endpoint.
type Config struct {
	APIURL    string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client is a judgment-service client. The zero value is not usable;
// construct with New.
type Client struct {
	cfg  Config
	http *http.Client
}

// maxRetries is how many times a failed completion is retried before
// giving up. Retrying beyond the client belongs to no one: the core
// degrades to neutral scores instead.
const maxRetries = 2

// maxReasonLen caps per-category reason strings from the service.
const maxReasonLen = 200

// New creates a client with defaults filled in.
func New(cfg Config) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 900
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

const judgeSystemPrompt = `You are a precise privacy-policy scorer. Score each category independently in [0,1]. Use 0 for very poor or absent disclosures; 1 for exemplary clarity, limits, and user rights. Keep reasons short (<= 25 words).`

const overviewSystemPrompt = `You are a precise privacy-policy analyst. Be neutral, concise, and evidence-oriented. If information is not stated, say so.`

// Judge scores the text per category. The returned map always
// contains every category: missing or unparsable entries default to a
// neutral 0.5 with an empty reason, and scores are clamped to [0,1].
func (c *Client) Judge(ctx context.Context, text string) (map[model.Category]model.Judgment, error) {
	names := make([]string, 0, len(model.Categories()))
	for _, cat := range model.Categories() {
		names = append(names, string(cat))
	}

	prompt := fmt.Sprintf(`Given the privacy policy text, output ONLY a JSON object mapping category -> {"score": float, "reason": string}.
- Categories (exact keys): %s
- Clamp scores to [0,1].
- Penalize vagueness (e.g., "legitimate interests", "may share", "as long as necessary") without concrete limits.
- Bonus for explicit user rights, retention timelines, encryption, opt-out links, COPPA stance, SCCs/DPF, etc.
- Do NOT include any text outside the JSON.

TEXT:
"""%s"""`, strings.Join(names, ", "), text)

	raw, err := c.complete(ctx, judgeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	return parseJudgments(raw), nil
}

// Overview produces the human-facing general evaluation. Missing
// fields are filled with conservative defaults.
func (c *Client) Overview(ctx context.Context, text string) (*model.Overview, error) {
	prompt := fmt.Sprintf(`Read the policy text below and produce ONLY a JSON object with this schema:
{
  "overall_rating": <integer 0-100>,
  "risk_level": "<High|Medium|Low>",
  "summary": "<2-4 sentences, neutral and concrete>",
  "strengths": ["<short bullet>", "..."],
  "risks": [{"issue":"<short>", "severity":"<low|medium|high>"}],
  "missing_disclosures": ["<short item>", "..."],
  "action_items": ["<short, actionable advice>", "..."]
}
Rules:
- Base "risk_level" on rating: 0-39 = High, 40-69 = Medium, 70-100 = Low.
- If unsure, keep conservative (lower the rating).
- Do NOT include any text outside the JSON.

TEXT:
"""%s"""`, text)

	raw, err := c.complete(ctx, overviewSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	return parseOverview(raw), nil
}

// complete sends one chat completion and returns the message content.
// Transport and server errors are retried with a short backoff.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": 0,
	})

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		content, err := c.post(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("judge request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("judge HTTP %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 200))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return "", fmt.Errorf("empty judge response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
