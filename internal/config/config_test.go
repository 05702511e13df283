package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_DSN", "postgres://localhost/forms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Errorf("expected port 8000, got %q", cfg.Server.Port)
	}
	if cfg.Storage.Prefix != "work-hours-forms/" || cfg.Storage.PresignExpiration != 600 {
		t.Errorf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Storage.S3.Bucket != "bosk-pdf" {
		t.Errorf("unexpected bucket %q", cfg.Storage.S3.Bucket)
	}
	if cfg.RabbitMQ.Queue != "form_events" || cfg.RabbitMQ.DSN != "" {
		t.Errorf("unexpected rabbitmq defaults: %+v", cfg.RabbitMQ)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Database.MigrateOnStart {
		t.Errorf("migrations should run on start by default")
	}
	if cfg.Template.Path != "assets/Form.pdf" || cfg.Template.CheckTimeout != 10 {
		t.Errorf("unexpected template defaults: %+v", cfg.Template)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_DSN", "postgres://localhost/forms")
	t.Setenv("STORAGE_DRIVER", "supabase")
	t.Setenv("STORAGE_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("STORAGE_S3_USE_PATH_STYLE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://forms.example.com,https://admin.example.com")
	t.Setenv("EMAIL_RECIPIENTS", "a@example.com,b@example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Driver != "supabase" || cfg.Storage.Supabase.URL != "https://project.supabase.co" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if !cfg.Storage.S3.UsePathStyle {
		t.Errorf("expected path style addressing")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || len(cfg.Email.Recipients) != 2 {
		t.Errorf("lists were not split: %v %v", cfg.CORS.AllowedOrigins, cfg.Email.Recipients)
	}
}

func TestLoadConfigRequiresDSN(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_DSN", "")
	os.Unsetenv("DATABASE_DSN")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected an error without DATABASE_DSN")
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "DATABASE_DSN=postgres://dotenv/forms\nSERVER_PORT=9000\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("SERVER_PORT", "7000")
	// Restored by the Setenv cleanup once godotenv has set it.
	t.Setenv("DATABASE_DSN", "")
	os.Unsetenv("DATABASE_DSN")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.DSN != "postgres://dotenv/forms" {
		t.Errorf("expected DSN from .env, got %q", cfg.Database.DSN)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("the environment must win over .env, got %q", cfg.Server.Port)
	}
}
