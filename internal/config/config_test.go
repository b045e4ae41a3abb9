package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Current != "live" {
		t.Errorf("expected current endpoint 'live', got %q", cfg.Current)
	}

	if cfg.BaseURL() != LiveURL {
		t.Errorf("expected base URL %q, got %q", LiveURL, cfg.BaseURL())
	}

	if len(cfg.Endpoints) != 2 {
		t.Fatalf("expected 2 preset endpoints, got %d", len(cfg.Endpoints))
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.LogLevel)
	}

	if cfg.Notifications.Enabled {
		t.Error("expected notifications disabled by default")
	}
	if !cfg.Notifications.OnSessionExpired {
		t.Error("expected session-expired notifications on by default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	// Load from non-existent file should return defaults
	tmpDir := t.TempDir()
	oldEnv := os.Getenv("EWAN_CONFIG_DIR")
	os.Setenv("EWAN_CONFIG_DIR", tmpDir)
	defer os.Setenv("EWAN_CONFIG_DIR", oldEnv)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL() != LiveURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL())
	}
}

func TestLoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	oldEnv := os.Getenv("EWAN_CONFIG_DIR")
	os.Setenv("EWAN_CONFIG_DIR", tmpDir)
	defer os.Setenv("EWAN_CONFIG_DIR", oldEnv)

	configFile := filepath.Join(tmpDir, ConfigFileName)

	cfg := Default()
	cfg.filePath = configFile
	cfg.Current = "tunnel"
	cfg.LogLevel = "debug"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := LoadFrom(configFile)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	if loaded.Current != "tunnel" {
		t.Errorf("expected current 'tunnel', got %q", loaded.Current)
	}
	if loaded.BaseURL() != TunnelURL {
		t.Errorf("expected base URL %q, got %q", TunnelURL, loaded.BaseURL())
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %q", loaded.LogLevel)
	}
}

func TestLoadEnsuresPresets(t *testing.T) {
	// A saved file that predates the presets still gets both after loading.
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configFile, []byte("log_level: warn\n"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := LoadFrom(configFile)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}

	for _, name := range []string{"live", "tunnel"} {
		if _, err := cfg.GetEndpoint(name); err != nil {
			t.Errorf("expected preset %q, got error: %v", name, err)
		}
	}
	if cfg.Current != DefaultEndpoint {
		t.Errorf("expected current %q, got %q", DefaultEndpoint, cfg.Current)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configFile, []byte("{invalid: [yaml"), 0600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := LoadFrom(configFile); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	oldDir := os.Getenv("EWAN_CONFIG_DIR")
	oldEp := os.Getenv("EWAN_ENDPOINT")
	oldLvl := os.Getenv("EWAN_LOG_LEVEL")
	os.Setenv("EWAN_CONFIG_DIR", tmpDir)
	os.Setenv("EWAN_ENDPOINT", "http://localhost:8000/api")
	os.Setenv("EWAN_LOG_LEVEL", "trace")
	defer func() {
		os.Setenv("EWAN_CONFIG_DIR", oldDir)
		os.Setenv("EWAN_ENDPOINT", oldEp)
		os.Setenv("EWAN_LOG_LEVEL", oldLvl)
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL() != "http://localhost:8000/api" {
		t.Errorf("expected env override address, got %q", cfg.BaseURL())
	}
	if cfg.LogLevel != "trace" {
		t.Errorf("expected log level 'trace', got %q", cfg.LogLevel)
	}
}

func TestBaseURLPrecedence(t *testing.T) {
	cfg := Default()

	// Preset only
	if cfg.BaseURL() != LiveURL {
		t.Errorf("expected live preset, got %q", cfg.BaseURL())
	}

	// Override wins over preset
	if err := cfg.SetOverride("http://localhost:9999/api"); err != nil {
		t.Fatalf("SetOverride() failed: %v", err)
	}
	if cfg.BaseURL() != "http://localhost:9999/api" {
		t.Errorf("expected override address, got %q", cfg.BaseURL())
	}

	// Selecting a preset clears the override
	if err := cfg.SetCurrent("tunnel"); err != nil {
		t.Fatalf("SetCurrent() failed: %v", err)
	}
	if cfg.Override != "" {
		t.Errorf("expected override cleared, got %q", cfg.Override)
	}
	if cfg.BaseURL() != TunnelURL {
		t.Errorf("expected tunnel preset, got %q", cfg.BaseURL())
	}

	// Reset returns to the default preset
	cfg.ResetEndpoint()
	if cfg.Current != DefaultEndpoint || cfg.BaseURL() != LiveURL {
		t.Errorf("expected defaults after reset, got current=%q url=%q", cfg.Current, cfg.BaseURL())
	}
}

func TestSetCurrentUnknown(t *testing.T) {
	cfg := Default()
	err := cfg.SetCurrent("nonexistent")
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("expected ErrEndpointNotFound, got %v", err)
	}
}

func TestSetOverrideInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.SetOverride("not a url")
	if !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	if cfg.Override != "" {
		t.Errorf("expected override left unset, got %q", cfg.Override)
	}
}

func TestValidateAddress(t *testing.T) {
	valid := []string{
		"https://portal.ewan-geniuses.com/api",
		"http://localhost:8000/api",
		"https://myewanlaravelapp.loca.lt/api",
	}
	for _, addr := range valid {
		if err := ValidateAddress(addr); err != nil {
			t.Errorf("ValidateAddress(%q) failed: %v", addr, err)
		}
	}

	invalid := []string{
		"",
		"ftp://example.com",
		"portal.ewan-geniuses.com/api",
		"https://",
	}
	for _, addr := range invalid {
		if err := ValidateAddress(addr); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ValidateAddress(%q): expected ErrInvalidAddress, got %v", addr, err)
		}
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	oldEnv := os.Getenv("EWAN_CONFIG_DIR")
	os.Setenv("EWAN_CONFIG_DIR", tmpDir)
	defer os.Setenv("EWAN_CONFIG_DIR", oldEnv)

	cfg := Default()
	cfg.filePath = filepath.Join(tmpDir, ConfigFileName)
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(cfg.filePath)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected permissions 0600, got %o", perm)
	}
}

func TestGetPathsWithOverride(t *testing.T) {
	tmpDir := t.TempDir()
	oldEnv := os.Getenv("EWAN_CONFIG_DIR")
	os.Setenv("EWAN_CONFIG_DIR", tmpDir)
	defer os.Setenv("EWAN_CONFIG_DIR", oldEnv)

	paths := GetPaths()
	if paths.ConfigDir != tmpDir {
		t.Errorf("expected config dir %q, got %q", tmpDir, paths.ConfigDir)
	}
	if !strings.HasSuffix(paths.ConfigFile, ConfigFileName) {
		t.Errorf("unexpected config file path %q", paths.ConfigFile)
	}
}
