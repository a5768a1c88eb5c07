package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"county-revenue/internal/adapters/http/middleware"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// PayloadVersion is the API Gateway event format the Lambda entrypoint
	// expects.
	PayloadVersion string `env:"API_GATEWAY_PAYLOAD_VERSION, default=2.0"`

	Auth     AuthConfig
	Session  SessionConfig
	Store    StoreConfig
	Redis    RedisConfig
	Payments PaymentConfig
}

type AuthConfig struct {
	Mode              string `env:"AUTH_MODE, default=session"`
	JWTSecret         string `env:"JWT_SECRET"`
	CognitoUserPoolID string `env:"COGNITO_USER_POOL_ID"`
}

type SessionConfig struct {
	TTL     time.Duration `env:"SESSION_TTL,     default=12h"`
	Backend string        `env:"SESSION_BACKEND, default=memory"`
}

type StoreConfig struct {
	Backend   string `env:"STORE_BACKEND, default=memory"`
	TableName string `env:"TABLE_NAME,    default=county-revenue"`
	Region    string `env:"AWS_REGION,    default=us-east-1"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type PaymentConfig struct {
	GatewayLatency  time.Duration `env:"PAYMENT_GATEWAY_LATENCY, default=300ms"`
	ConfirmationTTL time.Duration `env:"CONFIRMATION_TTL,        default=5m"`
}

// Load reads the configuration from the environment and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	mode, err := middleware.ParseAuthMode(c.Auth.Mode)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("AUTH_MODE: %w", err))
	case mode == middleware.ModeSession && c.Auth.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=session"))
	case mode == middleware.ModeCognito && c.Auth.CognitoUserPoolID == "":
		errs = append(errs, errors.New("COGNITO_USER_POOL_ID is required when AUTH_MODE=cognito"))
	}
	if c.Session.Backend != BackendMemory && c.Session.Backend != BackendRedis {
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend))
	}
	if c.Store.Backend != BackendMemory && c.Store.Backend != BackendDynamoDB {
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Payments.GatewayLatency < 0 {
		errs = append(errs, errors.New("PAYMENT_GATEWAY_LATENCY must not be negative"))
	}
	if c.Payments.ConfirmationTTL <= 0 {
		errs = append(errs, errors.New("CONFIRMATION_TTL must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == BackendRedis
}
