package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const devCartSecret = "dev-cart-secret-change-me"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	Backend  BackendConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Firebase FirebaseConfig
	Worker   WorkerConfig
}

type BackendConfig struct {
	BaseURL      string
	AssetBaseURL string
	Timeout      time.Duration
	MaxRetries   int
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	CartCookieSecret string
	TTL              time.Duration
	GuestCartTTL     time.Duration
}

type CatalogConfig struct {
	CacheTTL            time.Duration
	HeaderMaxCategories int
}

// FirebaseConfig holds the Admin SDK credentials used to verify ID tokens
// and the public web config the login page needs for the sign-in popup.
type FirebaseConfig struct {
	CredentialsPath string
	APIKey          string
	AuthDomain      string
	ProjectID       string
}

func (f FirebaseConfig) WebEnabled() bool {
	return f.APIKey != "" && f.AuthDomain != ""
}

type WorkerConfig struct {
	Interval time.Duration
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment. Call godotenv.Load first
// when a .env file should be honoured.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     stringWithDefault("PORT", "8080"),
		Env:      stringWithDefault("ENV", "development"),
		LogLevel: stringWithDefault("LOG_LEVEL", "info"),
	}

	baseURL, err := requiredString("BACKEND_URL")
	if err != nil {
		return nil, err
	}
	cfg.Backend.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.Backend.AssetBaseURL = strings.TrimRight(stringWithDefault("ASSET_BASE_URL", cfg.Backend.BaseURL), "/")

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg.Backend.Timeout, err = durationWithDefault("BACKEND_TIMEOUT", 10*time.Second)
	collect(err)
	cfg.Backend.MaxRetries, err = intWithDefault("BACKEND_MAX_RETRIES", 2)
	collect(err)

	cfg.Database.URL = stringWithDefault("DATABASE_URL", "")
	cfg.Redis.URL = stringWithDefault("REDIS_URL", "")

	cfg.Session.CartCookieSecret = stringWithDefault("CART_COOKIE_SECRET", "")
	cfg.Session.TTL, err = durationWithDefault("SESSION_TTL", 72*time.Hour)
	collect(err)
	cfg.Session.GuestCartTTL, err = durationWithDefault("GUEST_CART_TTL", 30*24*time.Hour)
	collect(err)

	cfg.Catalog.CacheTTL, err = durationWithDefault("CATALOG_CACHE_TTL", 5*time.Minute)
	collect(err)
	cfg.Catalog.HeaderMaxCategories, err = intWithDefault("HEADER_MAX_CATEGORIES", 6)
	collect(err)

	cfg.Firebase.CredentialsPath = stringWithDefault("FIREBASE_CREDENTIALS_PATH", "")
	cfg.Firebase.APIKey = stringWithDefault("FIREBASE_API_KEY", "")
	cfg.Firebase.AuthDomain = stringWithDefault("FIREBASE_AUTH_DOMAIN", "")
	cfg.Firebase.ProjectID = stringWithDefault("FIREBASE_PROJECT_ID", "")

	cfg.Worker.Interval, err = durationWithDefault("WORKER_INTERVAL", 5*time.Minute)
	collect(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.Session.CartCookieSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("missing required env var: %s", "CART_COOKIE_SECRET")
		}
		cfg.Session.CartCookieSecret = devCartSecret
	}

	return cfg, nil
}
