package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cloud206/api-footballStreaming/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	UserAgentModeFixed       = "fixed"
	UserAgentModePassthrough = "passthrough"
)

// Config stores runtime configuration for the service. It is loaded once at
// startup and passed by value afterwards.
type Config struct {
	AppEnv            string        `validate:"oneof=dev stage prod"`
	ServiceName       string        `validate:"required"`
	ServiceVersion    string        `validate:"required"`
	HTTPAddr          string        `validate:"required"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	LogLevel          logging.Level
	ExposeStackTraces bool
	CORSAllowedOrigin string `validate:"required"`

	ProviderBaseURL               string        `validate:"required,url"`
	ProviderOrigin                string        `validate:"required,url"`
	ProviderReferer               string        `validate:"required,url"`
	ProviderUserAgent             string        `validate:"required"`
	ProviderUserAgentMode         string        `validate:"oneof=fixed passthrough"`
	ProviderTimeout               time.Duration `validate:"gt=0"`
	ProviderMaxBodyBytes          int           `validate:"gt=0"`
	ProviderCircuitEnabled        bool
	ProviderCircuitFailureCount   int           `validate:"gte=1"`
	ProviderCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	ProviderCircuitHalfOpenMaxReq int           `validate:"gte=1"`

	DateFetchWorkers            int `validate:"gte=1"`
	StreamResolveMaxConcurrency int `validate:"gte=1"`

	UptraceEnabled         bool
	UptraceDSN             string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled     bool
	BetterStackEnabled     bool
	BetterStackEndpoint    string `validate:"required_if=BetterStackEnabled true"`
	BetterStackToken       string
	BetterStackMinLevel    logging.Level
	BetterStackTimeout     time.Duration `validate:"gt=0"`
	PprofEnabled           bool
	PprofAddr              string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName       string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            strings.TrimSpace(getEnv("APP_SERVICE_NAME", "football-streaming-api")),
		ServiceVersion:         strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:               strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		LogLevel:               logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigin:      strings.TrimSpace(getEnv("CORS_ALLOWED_ORIGIN", "*")),
		ProviderBaseURL:        strings.TrimRight(strings.TrimSpace(getEnv("PROVIDER_BASE_URL", "https://json.vnres.co")), "/"),
		ProviderOrigin:         strings.TrimSpace(getEnv("PROVIDER_ORIGIN", "https://json.vnres.co")),
		ProviderReferer:        strings.TrimSpace(getEnv("PROVIDER_REFERER", "https://socolivev.co/")),
		ProviderUserAgent:      strings.TrimSpace(getEnv("PROVIDER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")),
		ProviderUserAgentMode:  strings.ToLower(strings.TrimSpace(getEnv("PROVIDER_USER_AGENT_MODE", UserAgentModeFixed))),
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		BetterStackEndpoint:    strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", "")),
		BetterStackToken:       strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackMinLevel:    logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "warn")),
		PprofAddr:              strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	exposeDefault := "true"
	if appEnv == EnvProd {
		exposeDefault = "false"
	}

	boolVars := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{"APP_EXPOSE_STACK_TRACES", exposeDefault, &cfg.ExposeStackTraces},
		{"PROVIDER_CIRCUIT_ENABLED", "false", &cfg.ProviderCircuitEnabled},
		{"UPTRACE_ENABLED", "false", &cfg.UptraceEnabled},
		{"UPTRACE_LOGS_ENABLED", "false", &cfg.UptraceLogsEnabled},
		{"BETTERSTACK_ENABLED", "false", &cfg.BetterStackEnabled},
		{"PPROF_ENABLED", "false", &cfg.PprofEnabled},
		{"PYROSCOPE_ENABLED", "false", &cfg.PyroscopeEnabled},
	}
	for _, v := range boolVars {
		parsed, err := strconv.ParseBool(getEnv(v.key, v.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = parsed
	}

	durationVars := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"APP_READ_TIMEOUT", "10s", &cfg.ReadTimeout},
		{"APP_WRITE_TIMEOUT", "60s", &cfg.WriteTimeout},
		{"PROVIDER_TIMEOUT", "8s", &cfg.ProviderTimeout},
		{"PROVIDER_CIRCUIT_OPEN_TIMEOUT", "15s", &cfg.ProviderCircuitOpenTimeout},
		{"PYROSCOPE_UPLOAD_RATE", "15s", &cfg.PyroscopeUploadRate},
		{"BETTERSTACK_TIMEOUT", "3s", &cfg.BetterStackTimeout},
	}
	for _, v := range durationVars {
		parsed, err := time.ParseDuration(getEnv(v.key, v.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = parsed
	}

	intVars := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"PROVIDER_MAX_BODY_BYTES", 6 << 20, &cfg.ProviderMaxBodyBytes},
		{"PROVIDER_CIRCUIT_FAILURE_COUNT", 10, &cfg.ProviderCircuitFailureCount},
		{"PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 2, &cfg.ProviderCircuitHalfOpenMaxReq},
		{"DATE_FETCH_WORKERS", 32, &cfg.DateFetchWorkers},
		{"STREAM_RESOLVE_MAX_CONCURRENCY", 16, &cfg.StreamResolveMaxConcurrency},
	}
	for _, v := range intVars {
		parsed, err := getEnvAsInt(v.key, v.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", v.key, err)
		}
		*v.dst = parsed
	}

	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		cfg.PprofAddr = ":6060"
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// PassthroughUserAgent reports whether the caller's user agent is forwarded upstream.
func (c Config) PassthroughUserAgent() bool {
	return c.ProviderUserAgentMode == UserAgentModePassthrough
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
