package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName         = "PaymentGateway"
	defaultAppEnv          = "development"
	defaultPort            = "3000"
	defaultIssuerPort      = "3001"
	defaultLogLevel        = "info"
	defaultShutdownDelay   = 10 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultBankCallTimeout = 5 * time.Second
	defaultOTPWindow       = 2 * time.Minute
	defaultGatewayBaseURL  = "http://localhost:3000"
	defaultIssuerBaseURL   = "http://localhost:3001"
)

// DefaultPanRateLimit caps payment attempts per card per minute when
// PAN_RATE_LIMIT is not set. The rate-limit middleware falls back to the same
// value.
const DefaultPanRateLimit = 10

// Config captures runtime configuration for both the gateway and the issuing
// bank simulator, loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	IssuerPort      string
	LogLevel        string
	DatabaseURL     string
	RedisURL        string
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	BankCallTimeout time.Duration
	OTPWindow       time.Duration
	PanRateLimit    int
	GatewayBaseURL  string
	IssuerBaseURL   string
	InitDB          bool
}

// Load reads configuration values from the environment. DATABASE_URL and
// REDIS_URL are optional in development; without them the service runs on
// in-memory backends.
func Load() (Config, error) {
	cfg := Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		AppEnv:          getEnv("APP_ENV", defaultAppEnv),
		Port:            getEnv("PORT", defaultPort),
		IssuerPort:      getEnv("ISSUER_PORT", defaultIssuerPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		ShutdownPeriod:  defaultShutdownDelay,
		IdempotencyTTL:  defaultIdempotencyTTL,
		BankCallTimeout: defaultBankCallTimeout,
		OTPWindow:       defaultOTPWindow,
		PanRateLimit:    DefaultPanRateLimit,
		GatewayBaseURL:  getEnv("GATEWAY_BASE_URL", defaultGatewayBaseURL),
		IssuerBaseURL:   getEnv("ISSUER_BASE_URL", defaultIssuerBaseURL),
		InitDB:          getEnv("INIT_DB", "true") == "true",
	}

	var err error
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.BankCallTimeout, err = durationEnv("BANK_CALL_TIMEOUT", cfg.BankCallTimeout); err != nil {
		return Config{}, err
	}
	if cfg.OTPWindow, err = durationEnv("OTP_WINDOW", cfg.OTPWindow); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("PAN_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PAN_RATE_LIMIT: %w", err)
		}
		cfg.PanRateLimit = limit
	}

	if !isDev(cfg.AppEnv) {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// ChallengeResultURL is the gateway endpoint the issuing bank posts step-up
// outcomes to.
func (c Config) ChallengeResultURL() string {
	return c.GatewayBaseURL + "/result"
}

// SuccessRedirectURL is the gateway endpoint the issuing bank redirects the
// payer to after a successful challenge.
func (c Config) SuccessRedirectURL() string {
	return c.GatewayBaseURL + "/redirect"
}

// OTPValidateURL is the issuing bank's passcode entry endpoint.
func (c Config) OTPValidateURL() string {
	return c.IssuerBaseURL + "/validate-otp"
}

// Address returns the gateway listen address in the format Fiber expects.
func (c Config) Address() string {
	return listenAddress(c.Port)
}

// IssuerAddress returns the simulator listen address.
func (c Config) IssuerAddress() string {
	return listenAddress(c.IssuerPort)
}

// IsDev reports whether the configured environment is a development one.
func (c Config) IsDev() bool {
	return isDev(c.AppEnv)
}

func listenAddress(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
