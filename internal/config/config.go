// Package config loads runtime settings from the environment (and an
// optional .env file) through viper.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string
	Port        int
	LogLevel    string

	FirebaseConfig     string // path to the service account JSON
	FirebaseAPIKey     string // web API key handed to the sign-in page
	FirebaseAuthDomain string
	FirebaseProjectID  string
	StorageBucket      string

	HistoryDB string

	RateLimit         int
	RateWindowSeconds int

	SessionCookie    string
	SessionTTL       time.Duration
	SessionCacheTTL  time.Duration
	CatalogCacheTTL  time.Duration
	StatsCacheTTL    time.Duration
	ShutdownDeadline time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("history_db", "data/history.db")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window_seconds", 60)
	v.SetDefault("session_cookie", "madspace_session")
	v.SetDefault("session_ttl", 5*24*time.Hour)
	v.SetDefault("session_cache_ttl", 5*time.Minute)
	v.SetDefault("catalog_cache_ttl", 2*time.Minute)
	v.SetDefault("stats_cache_ttl", 5*time.Minute)
	v.SetDefault("shutdown_deadline", 5*time.Second)
}

// LoadDotEnv loads .env unless running inside a container, where the
// environment is expected to be provided directly.
func LoadDotEnv(prefix string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		log.Printf("[%s] running in Docker container, skipping .env file loading", prefix)
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("[%s] note: could not load .env file (%v); continuing with system environment", prefix, err)
	}
}

// Load reads the configuration from environment variables such as PORT,
// FIREBASE_CONFIG and HISTORY_DB.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Environment:        strings.ToLower(v.GetString("environment")),
		Port:               v.GetInt("port"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		FirebaseConfig:     v.GetString("firebase_config"),
		FirebaseAPIKey:     v.GetString("firebase_api_key"),
		FirebaseAuthDomain: v.GetString("firebase_auth_domain"),
		FirebaseProjectID:  v.GetString("firebase_project_id"),
		StorageBucket:      v.GetString("storage_bucket"),
		HistoryDB:          v.GetString("history_db"),
		RateLimit:          v.GetInt("rate_limit"),
		RateWindowSeconds:  v.GetInt("rate_window_seconds"),
		SessionCookie:      v.GetString("session_cookie"),
		SessionTTL:         v.GetDuration("session_ttl"),
		SessionCacheTTL:    v.GetDuration("session_cache_ttl"),
		CatalogCacheTTL:    v.GetDuration("catalog_cache_ttl"),
		StatsCacheTTL:      v.GetDuration("stats_cache_ttl"),
		ShutdownDeadline:   v.GetDuration("shutdown_deadline"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be greater than 0")
	}
	if c.RateWindowSeconds <= 0 {
		return fmt.Errorf("RATE_WINDOW_SECONDS must be greater than 0")
	}
	if c.SessionTTL < 5*time.Minute || c.SessionTTL > 14*24*time.Hour {
		// Firebase only mints session cookies within this range
		return fmt.Errorf("SESSION_TTL must be between 5m and 336h, got %s", c.SessionTTL)
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return fmt.Errorf("SESSION_COOKIE cannot be empty")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is "production" or "prod".
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
