// Package api is the HTTP boundary to the generation backend. It owns the
// wire shapes, request caching and rate limiting; everything it returns is
// normalized into internal/types so the rest of the engine never sees raw
// JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"contra/internal/config"
	"contra/internal/types"
)

const maxRetries = 2

// Client talks to the CONTRA backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
	logger     *zap.Logger
}

// NewClient builds a client from backend config. logger may be nil.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// One request per second with a small burst keeps retries from
		// stacking up against a struggling backend.
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		logger:  logger,
	}
	if cfg.CacheTTL > 0 {
		c.cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Generate runs one topic generation. Validation failures are caught locally
// and never reach the network. Identical requests within the cache TTL are
// served from cache.
func (c *Client) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	req = req.Normalize()
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	key := generateCacheKey(req)
	if c.cache != nil {
		if hit, ok := c.cache.Get(key); ok {
			c.logger.Debug("generation cache hit", zap.String("topic", req.Topic))
			return hit.(*types.GenerationResult), nil
		}
	}

	body := generateRequestWire{
		Topic:          req.Topic,
		Tone:           string(req.Tone),
		ExpertiseLevel: string(req.ExpertiseLevel),
		Variants:       req.Variants,
		MaxLength:      req.MaxLength,
		Temperature:    req.Temperature,
	}

	var wire generateResponseWire
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &wire); err != nil {
		return nil, err
	}
	if !wire.Success {
		return nil, &types.RequestError{Message: orUnknown(wire.Error)}
	}

	result := normalizeGenerate(&wire)
	if result.Topic == "" {
		result.Topic = req.Topic
	}
	if c.cache != nil {
		c.cache.Set(key, result, gocache.DefaultExpiration)
	}
	return result, nil
}

// Converse sends one follow-up turn with the full transcript history.
func (c *Client) Converse(ctx context.Context, topic, question string, history []types.ConversationTurn, tn types.Tone, temperature float64) (*types.ConversationReply, error) {
	body := conversationRequestWire{
		Topic:       topic,
		Question:    question,
		Tone:        string(tn),
		Temperature: temperature,
	}
	for _, turn := range history {
		body.ConversationHistory = append(body.ConversationHistory, conversationTurn(turn))
	}

	var wire conversationResponseWire
	if err := c.do(ctx, http.MethodPost, "/api/conversation", body, &wire); err != nil {
		return nil, err
	}
	if !wire.Success {
		return nil, &types.RequestError{Message: orUnknown(wire.Error)}
	}
	return &types.ConversationReply{
		Response:   wire.Response,
		References: wire.References,
	}, nil
}

// Status probes backend health. The endpoint signals degradation through the
// status code (207, 424, 503) while still returning a well-formed body, so
// non-2xx responses are parsed rather than rejected.
func (c *Client) Status(ctx context.Context) (types.StatusReport, error) {
	raw, status, err := c.get(ctx, "/api/status", nil)
	if err != nil {
		return types.StatusReport{}, err
	}
	var wire statusResponseWire
	if jerr := json.Unmarshal(raw, &wire); jerr != nil {
		return types.StatusReport{}, &types.RequestError{Status: status, Message: "malformed status response"}
	}
	return normalizeStatus(&wire), nil
}

// RelatedTopics fetches follow-up suggestions for a topic. Best-effort: any
// failure is returned for logging but callers treat it as empty.
func (c *Client) RelatedTopics(ctx context.Context, topic string) ([]string, error) {
	raw, status, err := c.get(ctx, "/api/related", url.Values{"topic": {topic}})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &types.RequestError{Status: status, Message: "related topics unavailable"}
	}
	var wire relatedResponseWire
	if jerr := json.Unmarshal(raw, &wire); jerr != nil {
		return nil, &types.RequestError{Status: status, Message: "malformed related response"}
	}
	if !wire.Success {
		return nil, &types.RequestError{Message: orUnknown(wire.Error)}
	}
	return wire.RelatedTopics, nil
}

// CheckImage verifies that an image URL is reachable. Relative URLs resolve
// against the backend base URL. Best-effort: the caller only flips a per-card
// load indicator on the outcome, so probes skip the rate limiter and never
// retry.
func (c *Client) CheckImage(ctx context.Context, rawURL string) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	u := rawURL
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		if !strings.HasPrefix(u, "/") {
			u = "/" + u
		}
		u = c.baseURL + u
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.asRequestError(err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return &types.RequestError{Status: resp.StatusCode, Message: "image unavailable"}
	}
	return nil
}

// do POSTs body and decodes the response into out, with the shared deadline,
// rate limit and retry behavior.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	// Auto-apply timeout if context has no deadline (centralized timeout handling)
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return c.asRequestError(ctx.Err())
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return c.asRequestError(err)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = c.asRequestError(err)
			continue
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &types.RequestError{Message: "read response: " + err.Error()}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &types.RequestError{Status: resp.StatusCode, Message: "rate limit exceeded"}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return &types.RequestError{
				Status:  resp.StatusCode,
				Message: extractErrorMessage(raw),
			}
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return &types.RequestError{Status: resp.StatusCode, Message: "malformed response"}
		}
		c.logger.Debug("request completed",
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("attempt", attempt))
		return nil
	}
	return lastErr
}

// get issues a GET and returns the raw body plus status code.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, c.asRequestError(err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.asRequestError(err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &types.RequestError{Message: "read response: " + err.Error()}
	}
	return raw, resp.StatusCode, nil
}

// asRequestError converts transport failures, surfacing timeouts with an
// explicit message so the UI can suggest a retry.
func (c *Client) asRequestError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.RequestError{Message: fmt.Sprintf("request timed out after %s", c.httpClient.Timeout)}
	}
	return &types.RequestError{Message: err.Error()}
}

// extractErrorMessage pulls the error field out of a JSON error body,
// falling back to the raw text.
func extractErrorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "unknown error"
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func orUnknown(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "unknown error"
	}
	return msg
}

func generateCacheKey(req types.GenerationRequest) string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%.2f",
		strings.ToLower(req.Topic), req.Tone, req.ExpertiseLevel,
		req.Variants, req.MaxLength, req.Temperature)
}
