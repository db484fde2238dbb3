// Package config loads application settings from defaults, an optional config file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config aggregates application settings
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Export    ExportConfig    `mapstructure:"export"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Env         string   `mapstructure:"env"`
	LogLevel    string   `mapstructure:"log_level"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig contains the PostgreSQL connection settings
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// RedisConfig contains the draft store connection. An empty URL keeps drafts in memory.
type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	DraftTTL time.Duration `mapstructure:"draft_ttl"`
}

// LLMConfig contains the assist model settings
type LLMConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	ModelLite     string        `mapstructure:"model_lite"`
	ModelStandard string        `mapstructure:"model_standard"`
	ModelAdvanced string        `mapstructure:"model_advanced"`
	Temperature   float32       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig tunes the circuit breaker around the model client
type BreakerConfig struct {
	FailureThreshold float64       `mapstructure:"failure_threshold"`
	MinRequests      uint32        `mapstructure:"min_requests"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
}

// BillingConfig contains the payment provider settings
type BillingConfig struct {
	SecretKey     string   `mapstructure:"secret_key"`
	WebhookSecret string   `mapstructure:"webhook_secret"`
	SuccessURL    string   `mapstructure:"success_url"`
	CancelURL     string   `mapstructure:"cancel_url"`
	ReturnURL     string   `mapstructure:"return_url"`
	Prices        []string `mapstructure:"prices"`
}

// AuthConfig contains token and password hashing settings
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

// ExportConfig contains PDF export settings
type ExportConfig struct {
	ChromePath string        `mapstructure:"chrome_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MinIO      MinIOConfig   `mapstructure:"minio"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
// An empty endpoint disables uploads and PDFs are streamed back directly.
type MinIOConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Bucket          string        `mapstructure:"bucket"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
}

// RateLimitConfig contains the request limiter settings
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultLimit  int           `mapstructure:"default_limit"`
	DefaultWindow time.Duration `mapstructure:"default_window"`
	Whitelist     []string      `mapstructure:"whitelist"`
	Blacklist     []string      `mapstructure:"blacklist"`
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, EnvProduction)
}

// Load reads configuration from defaults, the optional file at path and the environment.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", EnvDevelopment)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("redis.draft_ttl", 30*24*time.Hour)
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("llm.breaker.failure_threshold", 0.8)
	v.SetDefault("llm.breaker.min_requests", 5)
	v.SetDefault("llm.breaker.open_timeout", time.Minute)
	v.SetDefault("billing.success_url", "http://localhost:3000/billing/success")
	v.SetDefault("billing.cancel_url", "http://localhost:3000/billing/cancel")
	v.SetDefault("billing.return_url", "http://localhost:3000/account")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("export.timeout", 30*time.Second)
	v.SetDefault("export.minio.bucket", "resume-exports")
	v.SetDefault("export.minio.url_expiry", 15*time.Minute)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.port":                   "PORT",
		"server.env":                    "APP_ENV",
		"server.log_level":              "LOG_LEVEL",
		"server.cors_origins":           "CORS_ORIGINS",
		"database.url":                  "DATABASE_URL",
		"database.max_conns":            "DB_MAX_CONNS",
		"redis.url":                     "REDIS_URL",
		"redis.draft_ttl":               "DRAFT_TTL",
		"llm.api_key":                   "GEMINI_API_KEY",
		"llm.model_lite":                "LLM_MODEL_LITE",
		"llm.model_standard":            "LLM_MODEL_STANDARD",
		"llm.model_advanced":            "LLM_MODEL_ADVANCED",
		"llm.temperature":               "LLM_TEMPERATURE",
		"llm.timeout":                   "LLM_TIMEOUT",
		"llm.breaker.failure_threshold": "LLM_BREAKER_FAILURE_THRESHOLD",
		"llm.breaker.min_requests":      "LLM_BREAKER_MIN_REQUESTS",
		"llm.breaker.open_timeout":      "LLM_BREAKER_OPEN_TIMEOUT",
		"billing.secret_key":            "STRIPE_SECRET_KEY",
		"billing.webhook_secret":        "STRIPE_WEBHOOK_SECRET",
		"billing.success_url":           "BILLING_SUCCESS_URL",
		"billing.cancel_url":            "BILLING_CANCEL_URL",
		"billing.return_url":            "BILLING_RETURN_URL",
		"billing.prices":                "STRIPE_PRICES",
		"auth.jwt_secret":               "JWT_SECRET",
		"auth.jwt_expiration_hours":     "JWT_EXPIRATION_HOURS",
		"auth.bcrypt_cost":              "BCRYPT_COST",
		"auth.password_pepper":          "PASSWORD_PEPPER",
		"export.chrome_path":            "CHROME_PATH",
		"export.timeout":                "EXPORT_TIMEOUT",
		"export.minio.endpoint":         "MINIO_ENDPOINT",
		"export.minio.access_key_id":    "MINIO_ACCESS_KEY_ID",
		"export.minio.secret_access_key": "MINIO_SECRET_ACCESS_KEY",
		"export.minio.use_ssl":          "MINIO_USE_SSL",
		"export.minio.bucket":           "MINIO_BUCKET",
		"export.minio.url_expiry":       "MINIO_URL_EXPIRY",
		"rate_limit.enabled":            "RATE_LIMIT_ENABLED",
		"rate_limit.default_limit":      "RATE_LIMIT_DEFAULT_LIMIT",
		"rate_limit.default_window":     "RATE_LIMIT_DEFAULT_WINDOW",
		"rate_limit.whitelist":          "RATE_LIMIT_WHITELIST",
		"rate_limit.blacklist":          "RATE_LIMIT_BLACKLIST",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// Validate checks the settings the API server cannot run without
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, errors.New("server port must be positive"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database url is required (DATABASE_URL)"))
	}
	if _, err := c.JWT(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Password(); err != nil {
		errs = append(errs, err)
	}
	if c.LLM.Breaker.FailureThreshold <= 0 || c.LLM.Breaker.FailureThreshold > 1 {
		errs = append(errs, fmt.Errorf("llm breaker failure threshold must be in (0, 1], got %v", c.LLM.Breaker.FailureThreshold))
	}
	if (c.Billing.SecretKey == "") != (c.Billing.WebhookSecret == "") {
		errs = append(errs, errors.New("billing needs both STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET"))
	}
	m := c.Export.MinIO
	if m.Endpoint != "" && (m.AccessKeyID == "" || m.SecretAccessKey == "" || m.Bucket == "") {
		errs = append(errs, errors.New("minio needs access key, secret key and bucket when an endpoint is set"))
	}
	return errors.Join(errs...)
}

// JWT returns the token settings
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.Auth.JWTSecret, c.Auth.JWTExpirationHours)
}

// Password returns the password hashing settings
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.Auth.BcryptCost, c.Auth.PasswordPepper)
}
