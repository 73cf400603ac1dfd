package config

import (
	"testing"
	"time"

	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Fatalf("unexpected CORSAllowedOrigin: %q", cfg.CORSAllowedOrigin)
	}
	if cfg.ProviderBaseURL != "https://json.vnres.co" {
		t.Fatalf("unexpected ProviderBaseURL: %q", cfg.ProviderBaseURL)
	}
	if cfg.ProviderReferer != "https://socolivev.co/" {
		t.Fatalf("unexpected ProviderReferer: %q", cfg.ProviderReferer)
	}
	if cfg.ProviderTimeout != 8*time.Second {
		t.Fatalf("unexpected ProviderTimeout: %s", cfg.ProviderTimeout)
	}
	if cfg.PassthroughUserAgent() {
		t.Fatalf("expected fixed user agent mode by default")
	}
	if cfg.ProviderCircuitEnabled {
		t.Fatalf("expected provider circuit breaker to be opt-in")
	}
	if !cfg.ExposeStackTraces {
		t.Fatalf("expected stack traces exposed in dev by default")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_ProdHidesStackTracesByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("APP_EXPOSE_STACK_TRACES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ExposeStackTraces {
		t.Fatalf("expected ExposeStackTraces=false in prod by default")
	}
}

func TestLoad_ProviderOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("PROVIDER_BASE_URL", "http://127.0.0.1:9999/")
	t.Setenv("PROVIDER_USER_AGENT_MODE", "Passthrough")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("STREAM_RESOLVE_MAX_CONCURRENCY", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderBaseURL != "http://127.0.0.1:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.ProviderBaseURL)
	}
	if !cfg.PassthroughUserAgent() {
		t.Fatalf("expected passthrough user agent mode")
	}
	if cfg.ProviderTimeout != 3*time.Second {
		t.Fatalf("unexpected ProviderTimeout: %s", cfg.ProviderTimeout)
	}
	if cfg.StreamResolveMaxConcurrency != 4 {
		t.Fatalf("unexpected StreamResolveMaxConcurrency: %d", cfg.StreamResolveMaxConcurrency)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown user agent mode", key: "PROVIDER_USER_AGENT_MODE", value: "random"},
		{name: "zero provider timeout", key: "PROVIDER_TIMEOUT", value: "0s"},
		{name: "unparsable provider timeout", key: "PROVIDER_TIMEOUT", value: "soon"},
		{name: "non-url base", key: "PROVIDER_BASE_URL", value: "json.vnres.co"},
		{name: "zero date workers", key: "DATE_FETCH_WORKERS", value: "0"},
		{name: "non-numeric concurrency", key: "STREAM_RESOLVE_MAX_CONCURRENCY", value: "many"},
		{name: "bad bool", key: "PROVIDER_CIRCUIT_ENABLED", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_BetterStack(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}

	t.Setenv("BETTERSTACK_ENDPOINT", "in.logs.betterstack.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BetterStackMinLevel != logging.LevelWarn {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel)
	}
	if cfg.BetterStackTimeout != 3*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
}
