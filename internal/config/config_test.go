package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "films")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "filmdb")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AccessTTL != 240*time.Hour {
		t.Errorf("AccessTTL = %s, want 240h", cfg.AccessTTL)
	}
	if cfg.DBPort != "3306" {
		t.Errorf("DBPort = %q, want 3306", cfg.DBPort)
	}
	if cfg.Port != "3001" {
		t.Errorf("Port = %q, want 3001", cfg.Port)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.DBAutoMigrate {
		t.Error("DBAutoMigrate should default to false")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_USER", "films")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing variables")
	}
	for _, key := range []string{"DB_HOST", "DB_NAME", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL", "2h")
	t.Setenv("DB_AUTO_MIGRATE", "yes")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AccessTTL != 2*time.Hour {
		t.Errorf("AccessTTL = %s, want 2h", cfg.AccessTTL)
	}
	if !cfg.DBAutoMigrate {
		t.Error("DBAutoMigrate should be true")
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.BcryptCost)
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	setRequired(t)
	t.Setenv("BCRYPT_COST", "40")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range bcrypt cost")
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_LOGIN_ATTEMPTS", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "10ms")

	cfg := LoadRateLimitConfig()
	if cfg.Limit != 1 {
		t.Errorf("Limit = %d, want 1", cfg.Limit)
	}
	if cfg.Window != time.Second {
		t.Errorf("Window = %s, want 1s", cfg.Window)
	}
}

func TestStorageConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		cfg  StorageConfig
		want bool
	}{
		{"empty", StorageConfig{}, false},
		{"no secret", StorageConfig{Endpoint: "minio:9000", AccessKeyID: "k"}, false},
		{"complete", StorageConfig{Endpoint: "minio:9000", AccessKeyID: "k", SecretAccessKey: "s"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
