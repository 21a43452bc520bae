package hockeyapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/riskibarqy/hockey-ingest/internal/platform/resilience"
	"github.com/riskibarqy/hockey-ingest/internal/usecase"
)

const (
	defaultBaseURL  = "https://gamesheetstats.com/api"
	defaultTimeout  = 30 * time.Second
	defaultGameType = "overall"
	maxBodyBytes    = 6 << 20
)

// ErrTransient marks failures worth retrying: network errors, 429 and 5xx.
var ErrTransient = crerr.New("hockey api transient failure")

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.StatusCode, e.Body)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Retry          resilience.RetryPolicy
	TimeZoneOffset int
	GameType       string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	retry          resilience.RetryPolicy
	timeZoneOffset int
	gameType       string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

var _ usecase.RawFetcher = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	gameType := strings.TrimSpace(cfg.GameType)
	if gameType == "" {
		gameType = defaultGameType
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		retry:          resilience.NormalizeRetryPolicy(cfg.Retry),
		timeZoneOffset: cfg.TimeZoneOffset,
		gameType:       gameType,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// FetchRaw requests one endpoint and returns the undecoded body.
func (c *Client) FetchRaw(ctx context.Context, req usecase.FetchRequest) (usecase.RawResponse, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return usecase.RawResponse{}, err
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "hockey api circuit breaker rejected request", "endpoint", req.Endpoint, "state", c.breaker.State())
			return usecase.RawResponse{}, fmt.Errorf("%w: stats provider is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		c.breaker.Record(isCircuitFailure(err))
	}
	if err != nil {
		return usecase.RawResponse{URL: fullURL}, fmt.Errorf("fetch %s: %w", req.Endpoint, err)
	}
	return usecase.RawResponse{URL: fullURL, Body: raw}, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.retry, func(attempt int) (bool, error) {
		raw, err := c.do(ctx, fullURL)
		if err != nil {
			transient := stderrors.Is(err, ErrTransient)
			if transient && attempt < c.retry.MaxRetries {
				c.logger.DebugContext(ctx, "retrying hockey api request", "url", fullURL, "attempt", attempt+1, "error", err)
			}
			return transient, err
		}
		body = raw
		return false, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "hockey api request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: send request: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: abbreviateBody(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %w", ErrTransient, statusErr)
	}
	return nil, statusErr
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, ErrTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
