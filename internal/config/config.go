// Package config loads server configuration from flags, environment
// variables, a .env file, and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage drivers.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Config holds the server configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Session SessionConfig
	Auth    AuthConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects where persistent key-value data lives.
type StorageConfig struct {
	DataPath string // base directory for the store, search index and token key
	Driver   string // badger or sqlite
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Name           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// SessionConfig controls the device and session cookies.
type SessionConfig struct {
	CookieName       string
	DeviceCookieName string
	TTL              time.Duration // idle lifetime of session-scoped storage
	DeviceTTL        time.Duration // lifetime of the device cookie
	SecureCookies    bool
}

// AuthConfig holds account settings.
type AuthConfig struct {
	// HashPasswords stores Argon2id hashes instead of the entered password.
	HashPasswords bool
	// RateLimit is the number of sign-in/sign-up attempts allowed per minute per client.
	RateLimit int
}

// Load parses args (normally os.Args[1:]) and the environment into a Config.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bookclub", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for stored data")
	driver := fs.String("storage-driver", "", "Persistent store driver (badger, sqlite)")
	serverName := fs.String("server-name", "", "Name for the server")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("allowed-origins", "", "Comma separated CORS origins")
	sessionTTL := fs.String("session-ttl", "", "Idle lifetime of a browsing session (default: 24h)")
	deviceTTL := fs.String("device-ttl", "", "Lifetime of the device cookie (default: 8760h)")
	secureCookies := fs.String("secure-cookies", "", "Mark cookies Secure (default: false)")
	hashPasswords := fs.String("hash-passwords", "", "Store Argon2id password hashes (default: false)")
	rateLimit := fs.String("auth-rate-limit", "", "Auth attempts per minute per client (default: 20)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is fine.
	if err := loadEnvFile(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath: getConfigValue(*dataPath, "DATA_PATH", ""),
			Driver:   strings.ToLower(getConfigValue(*driver, "STORAGE_DRIVER", DriverBadger)),
		},
		Server: ServerConfig{
			Name:           getConfigValue(*serverName, "SERVER_NAME", "Book Club"),
			Port:           getConfigValue(*port, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "ALLOWED_ORIGINS", "http://localhost:8080")),
		},
		Session: SessionConfig{
			CookieName:       "bookclub_session",
			DeviceCookieName: "bookclub_device",
			SecureCookies:    getBoolConfigValue(*secureCookies, "SECURE_COOKIES", false),
		},
		Auth: AuthConfig{
			HashPasswords: getBoolConfigValue(*hashPasswords, "AUTH_HASH_PASSWORDS", false),
			RateLimit:     getIntConfigValue(*rateLimit, "AUTH_RATE_LIMIT", 20),
		},
	}

	durations := []struct {
		flag, key, def string
		dst            *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*sessionTTL, "SESSION_TTL", "24h", &cfg.Session.TTL},
		{*deviceTTL, "DEVICE_COOKIE_TTL", "8760h", &cfg.Session.DeviceTTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.key, d.def)
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.key, raw, err)
		}
		*d.dst = v
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, production or test)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.Driver != DriverBadger && c.Storage.Driver != DriverSQLite {
		return fmt.Errorf("invalid storage driver: %s (must be badger or sqlite)", c.Storage.Driver)
	}
	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty")
	}

	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Session.DeviceTTL < c.Session.TTL {
		return errors.New("device ttl must not be shorter than session ttl")
	}

	if c.Auth.RateLimit <= 0 {
		return errors.New("auth rate limit must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) expandDataPath() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(home, ".bookclub"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandPath expands a leading ~ and makes path absolute. An empty path
// yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = abs
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the flag value, then the env var, then the default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// getBoolConfigValue accepts true, 1 and yes (any case) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile sets KEY=value pairs from path without overriding variables
// already present in the environment.
func loadEnvFile(path string) error {
	f, err := os.Open(path) //#nosec G304 -- path comes from the operator
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", line, text)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return sc.Err()
}
