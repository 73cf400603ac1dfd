package vnres

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
	"github.com/cloud206/api-footballStreaming/internal/platform/resilience"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

const (
	defaultBaseURL      = "https://json.vnres.co"
	defaultTimeout      = 8 * time.Second
	defaultMaxBodyBytes = 6 << 20
	successCode         = 200
)

// errTransient marks failures that count against the circuit breaker.
var errTransient = crerr.New("vnres transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Origin         string
	Referer        string
	UserAgent      string
	Timeout        time.Duration
	MaxBodyBytes   int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the vnres JSONP endpoints.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	origin         string
	referer        string
	userAgent      string
	timeout        time.Duration
	logger         *logging.Logger
	matchBreaker   *resilience.CircuitBreaker
	roomBreaker    *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     "api-footballStreaming",
			NoDefaultUserAgentHeader: true,
			MaxResponseBodySize:      maxBody,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxIdleConnDuration:      30 * time.Second,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	origin := strings.TrimSpace(cfg.Origin)
	if origin == "" {
		origin = baseURL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		origin:         origin,
		referer:        strings.TrimSpace(cfg.Referer),
		userAgent:      strings.TrimSpace(cfg.UserAgent),
		timeout:        timeout,
		logger:         logger,
		matchBreaker:   newEndpointBreaker(breakerCfg, "match_list", logger),
		roomBreaker:    newEndpointBreaker(breakerCfg, "room_detail", logger),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Each endpoint trips on its own failures only, so broken rooms never
// short-circuit schedule fetches.
func newEndpointBreaker(cfg resilience.CircuitBreakerConfig, endpoint string, logger *logging.Logger) *resilience.CircuitBreaker {
	breaker := resilience.NewCircuitBreaker(cfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("vnres circuit breaker state changed", "endpoint", endpoint, "from", string(from), "to", string(to))
	})
	return breaker
}

var _ usecase.MatchProvider = (*Client)(nil)

// get fetches path with the given headers. Identical concurrent requests
// share one upstream call, which runs detached from every caller's context
// and is bounded by the client timeout alone.
func (c *Client) get(ctx context.Context, breaker *resilience.CircuitBreaker, path string, headers map[string]string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, crerr.Wrapf(err, "GET %s", path)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("vnres.path", path),
			attribute.String("vnres.base_url", c.baseURL),
		)
	}

	key := path + "|" + headers["user-agent"]
	body, err, shared := c.flight.DoContext(ctx, key, func() ([]byte, error) {
		callCtx := context.WithoutCancel(ctx)
		if !c.circuitEnabled {
			return c.execute(callCtx, path, headers)
		}

		var raw []byte
		err := breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.execute(callCtx, path, headers)
			return reqErr
		}, isCircuitFailure)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(callCtx, "vnres circuit breaker rejected request", "path", path, "state", string(breaker.State()))
			return nil, crerr.Mark(crerr.Wrap(err, "provider is temporarily unavailable"), usecase.ErrDependencyUnavailable)
		}
		return raw, err
	})
	if err != nil {
		if ctx.Err() != nil {
			err = crerr.Wrapf(err, "GET %s", path)
		}
		if span.IsRecording() {
			span.RecordError(err)
			span.SetStatus(codes.Error, "vnres request failed")
		}
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "vnres request coalesced", "path", path)
	}
	return body, nil
}

func (c *Client) execute(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	started := time.Now()
	if err := c.httpClient.DoDeadline(req, resp, c.deadline(ctx, started)); err != nil {
		if ctx.Err() != nil {
			return nil, crerr.Wrapf(ctx.Err(), "GET %s", path)
		}
		return nil, crerr.Mark(crerr.Wrapf(err, "GET %s", path), errTransient)
	}

	status := resp.StatusCode()
	c.logger.DebugContext(ctx, "vnres response",
		"path", path,
		"status", status,
		"bytes", len(resp.Body()),
		"latency_ms", time.Since(started).Milliseconds(),
	)

	if status < 200 || status >= 300 {
		err := crerr.Newf("GET %s: provider status=%d body=%s", path, status, abbreviateBody(resp.Body()))
		if status >= 500 || status == fasthttp.StatusTooManyRequests {
			err = crerr.Mark(err, errTransient)
		}
		return nil, crerr.Mark(err, usecase.ErrUpstreamStatus)
	}

	// resp is returned to the pool on exit.
	return append([]byte(nil), resp.Body()...), nil
}

// deadline is the earlier of the request context deadline and the per-call timeout.
func (c *Client) deadline(ctx context.Context, now time.Time) time.Time {
	deadline := now.Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func abbreviateBody(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
