package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/d2webapi/internal/platform/logging"
	"github.com/riskibarqy/d2webapi/internal/platform/resilience"
)

const (
	DefaultAPIBaseURL      = "https://api.steampowered.com"
	DefaultRefdataRemote   = "https://raw.githubusercontent.com/whoophee/d2api/master/d2api/ref"
	DefaultRefdataDir      = "data/ref"
	DefaultRequestTimeout  = 60 * time.Second
	DefaultRefreshTimeout  = 30 * time.Second
	defaultCircuitTimeout  = "30s"
	defaultCircuitFailures = 5
)

// Config stores runtime configuration for the client and the CLI.
type Config struct {
	AppEnv         string                   `validate:"oneof=dev stage prod"`
	APIKey         string                   `validate:"omitempty,alphanum"`
	APIBaseURL     string                   `validate:"required,url"`
	APITimeout     time.Duration            `validate:"gt=0"`
	RefdataDir     string                   `validate:"required"`
	RefdataRemote  string                   `validate:"required,url"`
	RefdataTimeout time.Duration            `validate:"gt=0"`
	CacheTTL       time.Duration            `validate:"gte=0"`
	Circuit        resilience.BreakerConfig `validate:"-"`
	LogLevel       logging.Level            `validate:"-"`
	ServiceName    string                   `validate:"required"`
	ServiceVersion string                   `validate:"required"`
	UptraceEnabled bool                     `validate:"-"`
	UptraceDSN     string                   `validate:"required_if=UptraceEnabled true"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	apiTimeout, err := getEnvAsDuration("D2_API_TIMEOUT", DefaultRequestTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_API_TIMEOUT: %w", err)
	}
	refdataTimeout, err := getEnvAsDuration("D2_REFDATA_TIMEOUT", DefaultRefreshTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_REFDATA_TIMEOUT: %w", err)
	}

	// Catalog endpoints change with game patches, so the cache is off outside prod unless asked for.
	cacheDefault := time.Duration(0)
	if appEnv == EnvProd {
		cacheDefault = 10 * time.Minute
	}
	cacheTTL, err := getEnvAsDuration("D2_CACHE_TTL", cacheDefault)
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_CACHE_TTL: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("D2_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailures, err := getEnvAsInt("D2_CIRCUIT_FAILURE_COUNT", defaultCircuitFailures)
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("D2_CIRCUIT_OPEN_TIMEOUT", defaultCircuitTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpen, err := getEnvAsInt("D2_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse D2_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitEnabled && (circuitFailures < 1 || circuitOpenTimeout <= 0 || circuitHalfOpen < 1) {
		return Config{}, fmt.Errorf("D2_CIRCUIT_* limits must be > 0 when D2_CIRCUIT_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		APIKey:         strings.TrimSpace(os.Getenv("D2_API_KEY")),
		APIBaseURL:     strings.TrimRight(strings.TrimSpace(getEnv("D2_API_BASE_URL", DefaultAPIBaseURL)), "/"),
		APITimeout:     apiTimeout,
		RefdataDir:     strings.TrimSpace(getEnv("D2_REFDATA_DIR", DefaultRefdataDir)),
		RefdataRemote:  strings.TrimRight(strings.TrimSpace(getEnv("D2_REFDATA_REMOTE_URL", DefaultRefdataRemote)), "/"),
		RefdataTimeout: refdataTimeout,
		CacheTTL:       cacheTTL,
		Circuit: resilience.BreakerConfig{
			Enabled:          circuitEnabled,
			FailureThreshold: circuitFailures,
			OpenTimeout:      circuitOpenTimeout,
			HalfOpenMaxReq:   circuitHalfOpen,
		},
		LogLevel:       logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		ServiceName:    strings.TrimSpace(getEnv("SERVICE_NAME", "d2webapi")),
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

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

	return strconv.Atoi(value)
}

// getEnvAsDuration accepts Go durations ("90s") and bare numbers of seconds ("60").
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// parseUptraceDSNFromOTLPHeaders reads uptrace-dsn out of "k1=v1,k2=v2".
func parseUptraceDSNFromOTLPHeaders(headers string) string {
	for _, part := range strings.Split(headers, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}
	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
