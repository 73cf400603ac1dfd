package observability

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zapcore"

	"github.com/cloud206/api-footballStreaming/internal/config"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

const betterStackQueueSize = 1024

// InitBetterStackLogger returns a logger writing to stdout and, when enabled,
// to a Better Stack HTTP ingest endpoint at or above BetterStackMinLevel.
func InitBetterStackLogger(cfg config.Config, base *logging.Logger) (*logging.Logger, func(context.Context) error, error) {
	if base == nil {
		base = logging.NewJSON(cfg.LogLevel)
	}

	noop := func(context.Context) error { return nil }
	if !cfg.BetterStackEnabled {
		base.Info("betterstack disabled", "reason", "BETTERSTACK_ENABLED=false")
		return base, noop, nil
	}

	endpoint := normalizeBetterStackEndpoint(cfg.BetterStackEndpoint)
	if endpoint == "" {
		return nil, nil, crerr.New("betterstack endpoint cannot be empty")
	}

	shipper := newBetterStackShipper(endpoint, cfg.BetterStackToken, cfg.BetterStackTimeout)
	logger := logging.FromCores(
		logging.NewCore(cfg.LogLevel, zapcore.Lock(os.Stdout)),
		logging.NewCore(cfg.BetterStackMinLevel, zapcore.AddSync(shipper)),
	)
	logger.Info("betterstack enabled",
		"endpoint", endpoint,
		"min_level", cfg.BetterStackMinLevel.String(),
		"service_name", cfg.ServiceName,
		"environment", cfg.AppEnv,
	)

	return logger, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
		}
		if err := shipper.Close(ctx); err != nil {
			return crerr.Wrap(err, "drain betterstack queue")
		}
		return nil
	}, nil
}

func normalizeBetterStackEndpoint(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

// betterStackShipper posts each log line from a single background worker.
// Writes never block; lines are dropped when the queue is full.
type betterStackShipper struct {
	endpoint string
	token    string
	timeout  time.Duration
	client   *fasthttp.Client

	mu      sync.RWMutex
	closed  bool
	queue   chan []byte
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func newBetterStackShipper(endpoint, token string, timeout time.Duration) *betterStackShipper {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &betterStackShipper{
		endpoint: endpoint,
		token:    strings.TrimSpace(token),
		timeout:  timeout,
		client: &fasthttp.Client{
			Name:         "api-footballStreaming-logs",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		queue: make(chan []byte, betterStackQueueSize),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *betterStackShipper) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if len(line) == 0 {
		return len(p), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return len(p), nil
	}

	// zap reuses its buffer once Write returns.
	select {
	case s.queue <- append([]byte(nil), line...):
	default:
		if n := s.dropped.Add(1); n == 1 || n%100 == 0 {
			fmt.Fprintf(os.Stderr, "betterstack queue full; dropped logs=%d\n", n)
		}
	}
	return len(p), nil
}

func (s *betterStackShipper) Sync() error { return nil }

func (s *betterStackShipper) run() {
	defer close(s.done)
	for line := range s.queue {
		if err := s.send(line); err != nil {
			fmt.Fprintf(os.Stderr, "betterstack send log failed: %v\n", err)
		}
	}
}

func (s *betterStackShipper) send(line []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.SetBodyRaw(line)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		return err
	}
	if status := resp.StatusCode(); status >= fasthttp.StatusMultipleChoices {
		return crerr.Newf("non-2xx status=%d", status)
	}
	return nil
}

// Close stops accepting lines and waits for the queue to drain or ctx to end.
func (s *betterStackShipper) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
