// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	LogLevel string // logrus level name

	DBUser            string
	DBPass            string // empty allowed
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBAutoMigrate     bool // apply the embedded schema at startup

	JWTSecret  string        // secret used to sign access tokens
	AccessTTL  time.Duration // access token lifetime
	BcryptCost int           // bcrypt cost for password hashing

	AdminUsername string // bootstrap admin, created when missing
	AdminPassword string

	RequestTimeout time.Duration // per-request budget for storage calls
}

// Load reads configuration values from environment variables. Required
// variables that are unset or empty are reported together in the returned
// error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:      envStr("APP_ENV", "dev"),
		Port:     envStr("APP_PORT", "3001"),
		LogLevel: envStr("LOG_LEVEL", ""),

		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            envStr("DB_PORT", "3306"),
		DBName:            must("DB_NAME"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DBAutoMigrate:     envBool("DB_AUTO_MIGRATE", false),

		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  envDur("ACCESS_TOKEN_TTL", 240*time.Hour),
		BcryptCost: envInt("BCRYPT_COST", 12),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RequestTimeout: envDur("REQUEST_TIMEOUT", 5*time.Second),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.AccessTTL <= 0 {
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %s", cfg.AccessTTL)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %d", cfg.BcryptCost)
	}
	return cfg, nil
}

// Debug reports whether verbose logging should be enabled by default.
func (c Config) Debug() bool {
	return c.Env == "dev" || c.Env == "development"
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
