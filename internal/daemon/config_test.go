package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("NURSEQUEST_HOME", t.TempDir())
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8787 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8787)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Economy.ToolLimits["compat"] != 10 {
		t.Errorf("compat limit = %d, want 10", cfg.Economy.ToolLimits["compat"])
	}
}

func TestLoadConfig_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("NURSEQUEST_HOME", home)
	t.Setenv("NURSEQUEST_PREMIUM", "")
	t.Setenv("NURSEQUEST_STORE", "")
	t.Setenv("NURSEQUEST_PROFILE", "")

	data := `
[profile]
id = "abc"

[api]
port = 9000

[economy]
level_cap = 50

[economy.tool_limits]
news2 = 2
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Profile.ID != "abc" {
		t.Errorf("Profile.ID = %q", cfg.Profile.ID)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("unset keys must keep defaults, Host = %q", cfg.API.Host)
	}
	if cfg.Economy.LevelCap != 50 || cfg.Economy.ToolLimits["news2"] != 2 {
		t.Errorf("Economy = %+v", cfg.Economy)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NURSEQUEST_HOME", t.TempDir())
	t.Setenv("NURSEQUEST_PREMIUM", "true")
	t.Setenv("NURSEQUEST_STORE", "Memory")
	t.Setenv("NURSEQUEST_PROFILE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Profile.Premium {
		t.Error("premium override not applied")
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
}

func TestLoadConfig_BadPremium(t *testing.T) {
	t.Setenv("NURSEQUEST_HOME", t.TempDir())
	t.Setenv("NURSEQUEST_PREMIUM", "maybe")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for bad NURSEQUEST_PREMIUM")
	}
}

func TestEnsureProfileID_Persists(t *testing.T) {
	t.Setenv("NURSEQUEST_HOME", t.TempDir())
	t.Setenv("NURSEQUEST_PREMIUM", "")
	t.Setenv("NURSEQUEST_STORE", "")
	t.Setenv("NURSEQUEST_PROFILE", "")

	cfg := DefaultConfig()
	created, err := EnsureProfileID(&cfg)
	if err != nil {
		t.Fatalf("EnsureProfileID: %v", err)
	}
	if !created || cfg.Profile.ID == "" {
		t.Fatalf("expected a new id, got %q", cfg.Profile.ID)
	}

	reloaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if reloaded.Profile.ID != cfg.Profile.ID {
		t.Errorf("reloaded id %q, want %q", reloaded.Profile.ID, cfg.Profile.ID)
	}

	created, _ = EnsureProfileID(&reloaded)
	if created {
		t.Error("existing id must be kept")
	}
}

func TestEnsureProfileID_KeepsEnvOverridesOutOfFile(t *testing.T) {
	t.Setenv("NURSEQUEST_HOME", t.TempDir())
	t.Setenv("NURSEQUEST_PROFILE", "")
	t.Setenv("NURSEQUEST_PREMIUM", "true")
	t.Setenv("NURSEQUEST_STORE", "memory")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := EnsureProfileID(&cfg); err != nil {
		t.Fatalf("EnsureProfileID: %v", err)
	}
	if !cfg.Profile.Premium || cfg.Store.Backend != "memory" {
		t.Fatalf("in-memory config lost env overrides: %+v", cfg)
	}

	t.Setenv("NURSEQUEST_PREMIUM", "")
	t.Setenv("NURSEQUEST_STORE", "")
	reloaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if reloaded.Profile.ID != cfg.Profile.ID {
		t.Errorf("reloaded id %q, want %q", reloaded.Profile.ID, cfg.Profile.ID)
	}
	if reloaded.Profile.Premium {
		t.Error("one-off NURSEQUEST_PREMIUM was persisted")
	}
	if reloaded.Store.Backend != DefaultConfig().Store.Backend {
		t.Errorf("backend = %q, one-off NURSEQUEST_STORE was persisted", reloaded.Store.Backend)
	}
}
