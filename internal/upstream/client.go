// Package upstream is the typed HTTP client for the external rental API.
// Responses are transformed into display models at this boundary; callers
// never see raw upstream shapes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"rentdash/internal/metrics"
	"rentdash/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNotFound reports a missing record on a detail lookup.
var ErrNotFound = errors.New("record not found")

// APIError carries the upstream's human-readable failure message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api: %d %s", e.StatusCode, e.Message)
}

// TokenSource provides the bearer token for outgoing requests. An empty
// token means the Authorization header is omitted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client calls the rental API. Optional Redis caching applies to collection
// GETs only.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and request timeout.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// UseRedisCache configures optional Redis read-through caching for GET
// collection endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// envelope is the common list response wrapper.
type envelope[Raw any] struct {
	Data        []Raw `json:"data"`
	CurrentPage int   `json:"current_page"`
	TotalItems  int   `json:"total_items"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func (e envelope[Raw]) pagination(p ListParams) models.Pagination {
	pg := models.Pagination{
		Page:       e.CurrentPage,
		PerPage:    e.PerPage,
		TotalItems: e.TotalItems,
		TotalPages: e.LastPage,
	}
	p = p.Normalize()
	if pg.Page == 0 {
		pg.Page = p.Page
	}
	if pg.PerPage == 0 {
		pg.PerPage = p.PerPage
	}
	if pg.TotalItems == 0 {
		pg.TotalItems = len(e.Data)
	}
	if pg.TotalPages == 0 && pg.PerPage > 0 {
		pg.TotalPages = (pg.TotalItems + pg.PerPage - 1) / pg.PerPage
	}
	return pg
}

// listResource fetches one page of a collection and maps it through the
// transform layer.
func listResource[Raw, Out any](
	ctx context.Context,
	c *Client,
	resource, path string,
	p ListParams,
	mapFn func([]Raw) []Out,
) ([]Out, models.Pagination, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, p.Values().Encode())
	cacheKey := "upstream:" + resource + ":" + p.Values().Encode()

	var env envelope[Raw]
	if c.readCache(ctx, cacheKey, &env) {
		metrics.IncUpstream(resource, "cache")
		return mapFn(env.Data), env.pagination(p), nil
	}

	if err := c.doGet(ctx, endpoint, &env); err != nil {
		metrics.IncUpstream(resource, "error")
		return nil, models.Pagination{}, err
	}
	metrics.IncUpstream(resource, "ok")
	c.writeCache(ctx, cacheKey, env)

	return mapFn(env.Data), env.pagination(p), nil
}

// getResource fetches one record by id.
func getResource[Raw, Out any](
	ctx context.Context,
	c *Client,
	resource, path string,
	id int64,
	mapFn func(Raw) Out,
) (Out, error) {
	var zero Out
	endpoint := fmt.Sprintf("%s%s/%d", c.baseURL, path, id)

	var wrap struct {
		Data Raw `json:"data"`
	}
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		metrics.IncUpstream(resource, "error")
		return zero, err
	}
	metrics.IncUpstream(resource, "ok")
	return mapFn(wrap.Data), nil
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.addAuth(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) addAuth(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		return fmt.Errorf("read auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// decodeError extracts the upstream's message field; the body shape varies
// between {"message": ...} and {"error": ...}.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis cache write failed")
	}
}

// mutate runs a write request and decodes the returned record when the
// caller asks for one.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	return c.doJSON(ctx, method, c.baseURL+path, body, out)
}
