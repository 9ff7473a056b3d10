package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Namespace != "pesona" {
		t.Errorf("expected default namespace pesona, got %s", cfg.Database.Namespace)
	}
	if cfg.JWT.ExpirationMins != 15 {
		t.Errorf("expected default expiration 15, got %d", cfg.JWT.ExpirationMins)
	}
	if cfg.Upload.MaxSizeBytes != 5<<20 {
		t.Errorf("expected default max upload size %d, got %d", int64(5<<20), cfg.Upload.MaxSizeBytes)
	}
	if cfg.Upload.MaxPerReview != 5 {
		t.Errorf("expected default max photos per review 5, got %d", cfg.Upload.MaxPerReview)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("UPLOAD_DIR", "/var/pesona/uploads")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pesona.travel,https://admin.pesona.travel")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected db host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Upload.Dir != "/var/pesona/uploads" {
		t.Errorf("expected upload dir /var/pesona/uploads, got %s", cfg.Upload.Dir)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.Server.AllowedOrigins))
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	cfg.Server.Port = ""
	cfg.Server.Env = "staging"
	cfg.Database.Host = ""
	cfg.JWT.ExpirationMins = 0
	cfg.Upload.Dir = ""

	verr := cfg.Validate()
	if verr == nil {
		t.Fatal("expected validation error")
	}

	msg := verr.Error()
	for _, want := range []string{"SERVER_PORT", "SERVER_ENV", "DB_HOST", "JWT_EXPIRATION_MINS", "UPLOAD_DIR"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected validation message to mention %s, got: %s", want, msg)
		}
	}
}

func TestValidate_ProductionRequiresKeys(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	cfg.Server.Env = "production"
	cfg.JWT.PrivateKeyPath = ""
	cfg.JWT.PublicKeyPath = ""

	verr := cfg.Validate()
	if verr == nil {
		t.Fatal("expected validation error in production without keys")
	}
	if !strings.Contains(verr.Error(), "JWT_PRIVATE_KEY_PATH") {
		t.Errorf("expected mention of JWT_PRIVATE_KEY_PATH, got: %v", verr)
	}
}
