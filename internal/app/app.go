package app

import (
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/cloud206/api-footballStreaming/external/vnres"
	"github.com/cloud206/api-footballStreaming/internal/config"
	"github.com/cloud206/api-footballStreaming/internal/interfaces/httpapi"
	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
	"github.com/cloud206/api-footballStreaming/internal/platform/resilience"
	"github.com/cloud206/api-footballStreaming/internal/usecase"
)

// NewHTTPServer wires the provider client, use cases and router. The cleanup
// releases the shared date worker pool and must run after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, crerr.New("http server addr cannot be empty")
	}

	provider := vnres.NewClient(vnres.ClientConfig{
		BaseURL:      cfg.ProviderBaseURL,
		Origin:       cfg.ProviderOrigin,
		Referer:      cfg.ProviderReferer,
		UserAgent:    cfg.ProviderUserAgent,
		Timeout:      cfg.ProviderTimeout,
		MaxBodyBytes: cfg.ProviderMaxBodyBytes,
		Logger:       logger.Named("vnres"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ProviderCircuitEnabled,
			FailureThreshold: cfg.ProviderCircuitFailureCount,
			OpenTimeout:      cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpenMaxReq,
		},
	})

	workers, err := ants.NewPool(cfg.DateFetchWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, nil, crerr.Wrap(err, "create date worker pool")
	}

	resolver := usecase.NewStreamResolver(provider, cfg.ProviderReferer, cfg.StreamResolveMaxConcurrency, logger)
	feed := usecase.NewMatchFeedService(provider, resolver, workers, usecase.MatchFeedConfig{
		UserAgent:            cfg.ProviderUserAgent,
		PassthroughUserAgent: cfg.PassthroughUserAgent(),
	}, logger)

	handler := httpapi.NewHandler(feed, logger, cfg.ExposeStackTraces)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigin)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, workers.Release, nil
}
