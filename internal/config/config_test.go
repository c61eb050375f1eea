package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("timeout = %s", cfg.API.Timeout)
	}
	if cfg.Server.BasePath != "/api" || cfg.Server.SignedURLTTL != time.Hour {
		t.Fatalf("server = %+v", cfg.Server)
	}
}

func TestFromYAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := FromYAML([]byte("api:\n  base_url: https://api.example.com/api/\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com/api/" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second || cfg.Log.Level != "warn" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"scheme":    "api:\n  base_url: ftp://x\n",
		"level":     "log:\n  level: loud\n",
		"base_path": "server:\n  base_path: api\n",
		"ttl":       "server:\n  token_ttl: -1s\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromYAML([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestLoadOptionalAndLoad(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil || cfg == nil {
		t.Fatalf("load optional: %v", err)
	}
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("load missing = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
}
