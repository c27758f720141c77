package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	DatabaseURL         string   `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer          string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL         string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience        string   `mapstructure:"AUTH_AUDIENCE"`
	DefaultTenant       string   `mapstructure:"DEFAULT_TENANT"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS        float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst      int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeoutSec   int      `mapstructure:"REQUEST_TIMEOUT_SEC"`
	BodyLimit           string   `mapstructure:"BODY_LIMIT"`
	SlotGranularityMin  int      `mapstructure:"SLOT_GRANULARITY_MIN"`
	AppointmentLookupMS int      `mapstructure:"APPOINTMENT_LOOKUP_TIMEOUT_MS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_SEC", 30)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("SLOT_GRANULARITY_MIN", 30)
	v.SetDefault("APPOINTMENT_LOOKUP_TIMEOUT_MS", 3000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("DEFAULT_TENANT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT_SEC")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("SLOT_GRANULARITY_MIN")
	v.BindEnv("APPOINTMENT_LOOKUP_TIMEOUT_MS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active, all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RequestTimeout returns the per-request processing deadline.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// AppointmentLookupTimeout returns the deadline for fetching booked
// appointments while computing open slots.
func (c *Config) AppointmentLookupTimeout() time.Duration {
	if c.AppointmentLookupMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.AppointmentLookupMS) * time.Millisecond
}

// Validate checks that the configuration is safe to run. Outside development
// mode AUTH_ISSUER must be set so that real JWT authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" {
		return fmt.Errorf(
			"AUTH_ISSUER must be set when ENV is not \"development\" (current ENV=%q). "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.SlotGranularityMin <= 0 {
		return fmt.Errorf("SLOT_GRANULARITY_MIN must be positive, got %d", c.SlotGranularityMin)
	}
	if c.AppointmentLookupMS <= 0 {
		return fmt.Errorf("APPOINTMENT_LOOKUP_TIMEOUT_MS must be positive, got %d", c.AppointmentLookupMS)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
