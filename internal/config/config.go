package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raxitsanghani/Nexura-Sports/internal/pricing"
	pkgconfig "github.com/raxitsanghani/Nexura-Sports/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"nexura"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"nexura_secret"`
	PostgresDB   string `env:"STOREFRONT_DB_NAME" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (cart storage)
	RedisHost string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CartTTL   time.Duration `env:"CART_TTL" envDefault:"720h"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Pricing: overrides the flat express shipping surcharge. Empty keeps
	// the built-in default.
	ExpressSurcharge string `env:"SHIPPING_EXPRESS_SURCHARGE" envDefault:""`

	// Auth: either a shared JWT secret for local verification or the
	// identity provider's introspection endpoint.
	JWTSecret         string `env:"JWT_SECRET" envDefault:""`
	JWTIssuer         string `env:"JWT_ISSUER" envDefault:""`
	JWTAudience       string `env:"JWT_AUDIENCE" envDefault:""`
	AuthIntrospectURL string `env:"AUTH_INTROSPECT_URL" envDefault:""`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.JWTSecret == "" && c.AuthIntrospectURL == "" {
		return fmt.Errorf("either JWT_SECRET or AUTH_INTROSPECT_URL must be set")
	}
	if c.CartTTL <= 0 {
		return fmt.Errorf("invalid cart TTL: %s", c.CartTTL)
	}
	if c.ExpressSurcharge != "" {
		surcharge, err := decimal.NewFromString(c.ExpressSurcharge)
		if err != nil {
			return fmt.Errorf("invalid express surcharge %q: %w", c.ExpressSurcharge, err)
		}
		if surcharge.IsNegative() {
			return fmt.Errorf("express surcharge must not be negative: %s", c.ExpressSurcharge)
		}
	}
	return nil
}

// PricingConfig returns the engine configuration with any environment
// overrides applied.
func (c *Config) PricingConfig() pricing.Config {
	cfg := pricing.DefaultConfig()
	if c.ExpressSurcharge != "" {
		// validate() already guaranteed the value parses.
		cfg.ExpressSurcharge = decimal.RequireFromString(c.ExpressSurcharge)
	}
	return cfg
}
