package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Local    LocalStoreConfig
	Firebase FirebaseConfig
	Google   GoogleConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// DatabaseConfig describes the remote relational store. An empty DSN means the device
// store is authoritative and no migration runs.
type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
	Migrate  bool
}

func (d DatabaseConfig) Enabled() bool { return d.DSN != "" }

// LocalStoreConfig selects the on-device key/value store.
type LocalStoreConfig struct {
	Kind       string // redis | sqlite
	RedisURL   string
	SQLitePath string
}

type FirebaseConfig struct {
	CredentialsPath string
}

type GoogleConfig struct {
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	CalendarPollEvery time.Duration
}

func (g GoogleConfig) Enabled() bool { return g.ClientID != "" && g.ClientSecret != "" }

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	LocalStoreRedis  = "redis"
	LocalStoreSQLite = "sqlite"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
			Migrate:  getEnvAsBool("DB_MIGRATE", true),
		},
		Local: LocalStoreConfig{
			Kind:       strings.ToLower(getEnv("LOCAL_STORE", LocalStoreSQLite)),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
			SQLitePath: getEnv("SQLITE_PATH", "filmdesk.db"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Google: GoogleConfig{
			ClientID:          getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:      getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:       getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/oauth2/callback"),
			CalendarPollEvery: getEnvAsDuration("CALENDAR_POLL_INTERVAL", 5*time.Minute),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Local.Kind {
	case LocalStoreRedis:
		if c.Local.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when LOCAL_STORE=redis")
		}
	case LocalStoreSQLite:
		if c.Local.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when LOCAL_STORE=sqlite")
		}
	default:
		return fmt.Errorf("LOCAL_STORE must be %q or %q, got %q", LocalStoreRedis, LocalStoreSQLite, c.Local.Kind)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Google.CalendarPollEvery < time.Second {
		return fmt.Errorf("CALENDAR_POLL_INTERVAL must be at least 1s")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid bool for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
