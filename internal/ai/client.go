package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"companion/pkg/retrylimit"
)

const (
	maxAttempts  = 3
	dedupeWindow = 2 * time.Minute
)

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	limiter *retrylimit.AdaptiveLimiter

	// lastReq remembers the last request body per role so a byte-identical
	// consecutive call is suppressed instead of burning an API call.
	lastReq *gocache.Cache
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient creates a Client. Timeout defaults to 60s.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		limiter: retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
		lastReq: gocache.New(dedupeWindow, 5*time.Minute),
	}
}

// httpError carries the status code so retrylimit can classify 429/5xx.
type httpError struct {
	code int
	body string
}

func (e *httpError) Error() string   { return fmt.Sprintf("completion http %d: %s", e.code, e.body) }
func (e *httpError) StatusCode() int { return e.code }

// Invoke sends the role's system prompt plus the JSON-encoded payload and
// returns the completion text. A consecutive byte-identical request for the
// same role returns "" without calling the endpoint.
func (c *Client) Invoke(ctx context.Context, role string, payload any, temperature float64) (string, error) {
	userContent, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	system := PromptForRole(role)
	reqKey := system + "\n" + string(userContent)
	if prev, ok := c.lastReq.Get(role); ok && prev == reqKey {
		log.Debug().Str("role", role).Msg("duplicate request suppressed")
		return "", nil
	}
	c.lastReq.Set(role, reqKey, gocache.DefaultExpiration)

	messages := []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: string(userContent)},
	}

	var reply string
	err = retrylimit.WithRetryMax(ctx, func() error {
		out, err := c.complete(ctx, messages, temperature)
		if err != nil {
			return err
		}
		reply = out
		return nil
	}, c.limiter, maxAttempts)
	if err != nil {
		log.Warn().Str("role", role).Err(err).Msg("completion failed")
		return "", err
	}

	return cleanReply(reply), nil
}

func (c *Client) complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &httpError{code: resp.StatusCode, body: truncate(raw)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// CurrentRate reports the adaptive limiter's requests-per-second, for logs.
func (c *Client) CurrentRate() float64 {
	return c.limiter.CurrentLimit()
}
