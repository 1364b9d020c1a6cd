package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Checkout CheckoutConfig
	Session  SessionConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// UpstreamConfig describes the B2P backend API the portal fronts.
type UpstreamConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// CheckoutConfig describes the Razorpay checkout integration.
type CheckoutConfig struct {
	ScriptURL          string
	MerchantName       string
	PaymentDescription string
	ThemeColor         string
	Currency           string
	KeyCacheTTLSeconds int
}

type SessionConfig struct {
	CookieName string
	LoginRoute string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8082")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "http://localhost:8082")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 15)
	v.SetDefault("CHECKOUT_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("CHECKOUT_MERCHANT_NAME", "B2P TEACHERS")
	v.SetDefault("CHECKOUT_PAYMENT_DESCRIPTION", "100 Days Payment Plan")
	v.SetDefault("CHECKOUT_THEME_COLOR", "#3b82f6")
	v.SetDefault("CHECKOUT_CURRENCY", "INR")
	v.SetDefault("RAZORPAY_KEY_CACHE_TTL", 600) // 10 minutes in seconds
	v.SetDefault("SESSION_COOKIE_NAME", "B2P-STUDENT-ACCESS-TOKEN")
	v.SetDefault("SESSION_LOGIN_ROUTE", "/")

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Upstream: UpstreamConfig{
			BaseURL:        v.GetString("MEETINGS_API_BASE_URL"),
			TimeoutSeconds: v.GetInt("UPSTREAM_TIMEOUT_SECONDS"),
		},
		Checkout: CheckoutConfig{
			ScriptURL:          v.GetString("CHECKOUT_SCRIPT_URL"),
			MerchantName:       v.GetString("CHECKOUT_MERCHANT_NAME"),
			PaymentDescription: v.GetString("CHECKOUT_PAYMENT_DESCRIPTION"),
			ThemeColor:         v.GetString("CHECKOUT_THEME_COLOR"),
			Currency:           v.GetString("CHECKOUT_CURRENCY"),
			KeyCacheTTLSeconds: v.GetInt("RAZORPAY_KEY_CACHE_TTL"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			LoginRoute: v.GetString("SESSION_LOGIN_ROUTE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("MEETINGS_API_BASE_URL is required")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	if c.Checkout.ScriptURL == "" {
		return fmt.Errorf("CHECKOUT_SCRIPT_URL is required")
	}
	if c.Checkout.Currency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY is required")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}

	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	return nil
}

// UpstreamTimeout returns the bounded per-call timeout for backend requests.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// KeyCacheTTL returns how long a fetched Razorpay key stays cached.
func (c *Config) KeyCacheTTL() time.Duration {
	return time.Duration(c.Checkout.KeyCacheTTLSeconds) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
