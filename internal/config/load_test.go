package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.OG.Mode != "direct" {
		t.Fatalf("expected og mode 'direct', got %q", cfg.OG.Mode)
	}
	if cfg.OG.Timeout != 3*time.Second {
		t.Fatalf("expected og timeout 3s, got %v", cfg.OG.Timeout)
	}
	if cfg.Auth.SessionDuration != 720*time.Hour {
		t.Fatalf("expected session duration 720h, got %v", cfg.Auth.SessionDuration)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9000
database:
  path: /var/lib/linkden/app.db
og:
  mode: crawler
  endpoint: https://crawler.internal.example/fetch
  timeout: 5s
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/var/lib/linkden/app.db" {
		t.Fatalf("unexpected database path %q", cfg.Database.Path)
	}
	if cfg.OG.Mode != "crawler" {
		t.Fatalf("expected og mode 'crawler', got %q", cfg.OG.Mode)
	}
	if cfg.OG.Endpoint != "https://crawler.internal.example/fetch" {
		t.Fatalf("unexpected og endpoint %q", cfg.OG.Endpoint)
	}
	if cfg.OG.Timeout != 5*time.Second {
		t.Fatalf("expected og timeout 5s, got %v", cfg.OG.Timeout)
	}
}

func TestLoad_TLSFromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  tls:
    mode: auto
    auto:
      domain: links.example.com
      email: admin@example.com
      cache_dir: /var/lib/linkden/certs
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.TLS.Mode != "auto" {
		t.Fatalf("expected mode 'auto', got %q", cfg.Server.TLS.Mode)
	}
	if cfg.Server.TLS.Auto.Domain != "links.example.com" {
		t.Fatalf("expected domain 'links.example.com', got %q", cfg.Server.TLS.Auto.Domain)
	}
	if cfg.Server.TLS.Auto.CacheDir != "/var/lib/linkden/certs" {
		t.Fatalf("expected cache_dir '/var/lib/linkden/certs', got %q", cfg.Server.TLS.Auto.CacheDir)
	}
}

func TestLoad_EnvSimpleKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("LINKDEN_SERVER_PORT", "9090")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvUnderscoreInLeafKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("LINKDEN_AUTH_SESSION_DURATION", "48h")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.SessionDuration != 48*time.Hour {
		t.Fatalf("expected session duration 48h, got %v", cfg.Auth.SessionDuration)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("LINKDEN_SERVER_PORT", "9090")

	flags := SetupFlags()
	if err := flags.Parse([]string{"--server.port", "7070"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Fatalf("expected flag port 7070 to win, got %d", cfg.Server.Port)
	}
}
