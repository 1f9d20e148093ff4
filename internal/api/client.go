// Package api is the HTTP client for the news backend.
//
// Every call collapses its failure mode to a flat error message at this
// boundary: transport failures carry the transport's message, non-2xx
// statuses become "HTTP error! status: <code>", and an empty body on success
// is an empty payload, not an error. Callers never see structured error
// codes, only strings.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tranhoangkhuongvn/news-ai/internal/logging"
)

// Config holds configuration for the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the news backend. Construct one at startup and pass it to
// whatever owns the request cells; it is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with default config.
func New() *Client {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a client with custom config.
func NewWithConfig(config Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request and decodes the response into out (may be nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()[:8]
	rl := logging.WithRequestID(logging.CategoryAPI, requestID).WithField("endpoint", path)
	rl.Debug("%s %s", method, target)
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		rl.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		rl.Error("reading response failed: %v", err)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rl.Error("HTTP error! status: %d (%d bytes)", resp.StatusCode, len(data))
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	timer.Stop()
	rl.Debug("status %d, %d bytes", resp.StatusCode, len(data))

	// An empty body on success is an empty payload, not an error.
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		rl.Error("decoding response failed: %v", err)
		return err
	}
	return nil
}

// getJSON performs a GET and decodes the response body.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

// postJSON performs a POST with a JSON body and decodes the response.
func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, http.MethodPost, path, nil, body, &out)
	return out, err
}

// Health checks backend connectivity.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	return getJSON[HealthStatus](ctx, c, "/health", nil)
}

// Dashboard fetches the aggregated landing page data.
func (c *Client) Dashboard(ctx context.Context) (Dashboard, error) {
	return getJSON[Dashboard](ctx, c, "/dashboard", nil)
}

// Articles fetches stored articles with optional filtering.
func (c *Client) Articles(ctx context.Context, q ArticlesQuery) ([]Article, error) {
	query := url.Values{}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Source != "" {
		query.Set("source", q.Source)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	return getJSON[[]Article](ctx, c, "/articles", query)
}

// LatestArticles extracts and returns fresh articles.
func (c *Client) LatestArticles(ctx context.Context, q LatestQuery) ([]Article, error) {
	query := url.Values{}
	for _, s := range q.Sources {
		query.Add("sources", s)
	}
	for _, cat := range q.Categories {
		query.Add("categories", cat)
	}
	if q.MaxArticles > 0 {
		query.Set("max_articles", strconv.Itoa(q.MaxArticles))
	}
	return getJSON[[]Article](ctx, c, "/articles/latest", query)
}

// Extract triggers a scrape-and-store extraction job.
func (c *Client) Extract(ctx context.Context, req ExtractionRequest) (ExtractionResult, error) {
	return postJSON[ExtractionResult](ctx, c, "/extract", req)
}

// EnhancedLatest runs the full extraction, clustering, and prioritization
// pipeline. The backend answers once, after the whole pipeline finishes;
// expect this call to take minutes.
func (c *Client) EnhancedLatest(ctx context.Context, q EnhancedQuery) (EnhancedResult, error) {
	query := url.Values{}
	for _, s := range q.Sources {
		query.Add("sources", s)
	}
	for _, cat := range q.Categories {
		query.Add("categories", cat)
	}
	if q.ArticlesPerCategory > 0 {
		query.Set("articles_per_category", strconv.Itoa(q.ArticlesPerCategory))
	}
	return getJSON[EnhancedResult](ctx, c, "/articles/enhanced-latest", query)
}

// EnhancedStatus fetches the pipeline readiness snapshot.
func (c *Client) EnhancedStatus(ctx context.Context) (PipelineStatus, error) {
	return getJSON[PipelineStatus](ctx, c, "/articles/enhanced-status", nil)
}

// Sources fetches the source catalog.
func (c *Client) Sources(ctx context.Context) ([]SourceInfo, error) {
	env, err := getJSON[sourcesEnvelope](ctx, c, "/sources", nil)
	return env.Sources, err
}

// Categories fetches the category catalog.
func (c *Client) Categories(ctx context.Context) ([]CategoryInfo, error) {
	env, err := getJSON[categoriesEnvelope](ctx, c, "/categories", nil)
	return env.Categories, err
}

// SimilarArticles fetches articles similar to the given article.
func (c *Client) SimilarArticles(ctx context.Context, articleID, limit int) (SimilarResult, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return getJSON[SimilarResult](ctx, c, "/articles/"+strconv.Itoa(articleID)+"/similar", query)
}

// Ask sends one question to the news assistant.
func (c *Client) Ask(ctx context.Context, req ChatRequest) (ChatReply, error) {
	return postJSON[ChatReply](ctx, c, "/chat/ask", req)
}

// ChatHealth checks the chat subsystem.
func (c *Client) ChatHealth(ctx context.Context) (ChatHealth, error) {
	return getJSON[ChatHealth](ctx, c, "/chat/health", nil)
}

// SearchArticles retrieves relevant articles without starting a chat turn.
func (c *Client) SearchArticles(ctx context.Context, search string, limit int, category string) (SearchResult, error) {
	query := url.Values{}
	query.Set("query", search)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if category != "" {
		query.Set("category", category)
	}
	return getJSON[SearchResult](ctx, c, "/chat/search", query)
}
