// Package exa is the HTTP adapter for the Exa search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/infrastructure/keys"
	"github.com/doeshing/exa-go/internal/ports"
)

const defaultBaseURL = "https://api.exa.ai"

// Client calls the Exa API with a caller-supplied key per request. It
// translates HTTP 429 into *domain.RateLimitError and returns successful
// bodies raw so the dispatcher can cache them verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
	reqLog     ports.RequestLogger
}

// NewClient builds a client for baseURL (empty selects the public API).
func NewClient(baseURL string, timeout time.Duration, reqLog ports.RequestLogger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = domain.DefaultHTTPTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		reqLog:     reqLog,
	}
}

// Search runs POST /search.
func (c *Client) Search(ctx context.Context, key string, req domain.SearchRequest) ([]byte, error) {
	return c.post(ctx, key, "/search", "search", req)
}

// FindSimilar runs POST /findSimilar.
func (c *Client) FindSimilar(ctx context.Context, key string, req domain.FindSimilarRequest) ([]byte, error) {
	return c.post(ctx, key, "/findSimilar", "findSimilar", req)
}

// Contents runs POST /contents.
func (c *Client) Contents(ctx context.Context, key string, req domain.ContentsRequest) ([]byte, error) {
	return c.post(ctx, key, "/contents", "contents", req)
}

// ResearchCreate runs POST /research.
func (c *Client) ResearchCreate(ctx context.Context, key string, req domain.ResearchRequest) ([]byte, error) {
	return c.post(ctx, key, "/research", "research", req)
}

// ResearchStatus runs GET /research/{id}.
func (c *Client) ResearchStatus(ctx context.Context, key string, id string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/research/"+id, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", key)
	return c.do(httpReq, key, "research_status")
}

// Probe issues a minimal search so key validity can be judged from the
// status code alone. The body is discarded.
func (c *Client) Probe(ctx context.Context, key string) (int, error) {
	body, err := json.Marshal(domain.SearchRequest{Query: "test", NumResults: 1})
	if err != nil {
		return 0, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	c.logRequest(key, "validate", resp.StatusCode)
	return resp.StatusCode, nil
}

func (c *Client) post(ctx context.Context, key, path, op string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, key, op)
}

func (c *Client) do(httpReq *http.Request, key, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.logRequest(key, op, resp.StatusCode)

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, &domain.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s failed (%s): %s", op, resp.Status, strings.TrimSpace(string(detail)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	return data, nil
}

func (c *Client) logRequest(key, op string, status int) {
	if c.reqLog != nil {
		c.reqLog.Log(keys.Mask(key), op, status)
	}
}

// parseRetryAfter reads a Retry-After header given in whole seconds.
// Unparseable values yield nil so the caller falls back to its default.
func parseRetryAfter(value string) *time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs <= 0 {
		return nil
	}
	d := time.Duration(secs) * time.Second
	return &d
}

var _ ports.UpstreamClient = (*Client)(nil)
