// Copyright (c) 2025 The Weavedrop developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"ListenAddr", cfg.ListenAddr, ":8080"},
		{"Gateway", cfg.Gateway, "https://node.weavedrop.net"},
		{"ServerOrigin", cfg.ServerOrigin, "http://localhost:8080"},
		{"AppName", cfg.AppName, "Weavedrop"},
		{"DriveName", cfg.DriveName, "weavedrop-uploads"},
		{"LogLevel", cfg.LogLevel, "info"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	// DataDir should end with .weavedrop (we don't assert the full path
	// since it depends on the home directory).
	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

func TestDefaultDataDir_EndsWith_DotWeavedrop(t *testing.T) {
	dir := DefaultDataDir()
	if !strings.HasSuffix(dir, ".weavedrop") {
		t.Errorf("DefaultDataDir() = %q, want suffix %q", dir, ".weavedrop")
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:      "/tmp/test-weavedrop",
		ListenAddr:   ":9000",
		Gateway:      "https://gw.example.com",
		ServerOrigin: "https://drop.example.com",
		AppName:      "Weavedrop",
		DriveName:    "team-drive",
		DriveSecret:  "s3cret",
		AuthToken:    "tok",
		LogLevel:     "debug",
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

func TestSaveConfig_OutputContainsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "# Weavedrop Configuration") {
		t.Error("saved config should contain header '# Weavedrop Configuration'")
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error and parser tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	if err := os.WriteFile(path, []byte("this-is-not-key-value\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig bad line: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := `# This is a comment
gateway = https://gw.example.com

# Another comment
loglevel = debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Gateway != "https://gw.example.com" {
		t.Errorf("Gateway = %q, want %q", cfg.Gateway, "https://gw.example.com")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	// Unset fields should retain defaults.
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want default %q", cfg.ListenAddr, ":8080")
	}
}

func TestLoadConfigUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "futurekey = futurevalue\nlisten = :9999\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig with unknown key: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":9999")
	}
}

func TestLoadConfig_MultipleEquals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	// The value contains an extra '='; parseKeyValue splits on the first.
	content := "drivesecret=a=b=c\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DriveSecret != "a=b=c" {
		t.Errorf("DriveSecret = %q, want %q", cfg.DriveSecret, "a=b=c")
	}
}

func TestLoadConfig_WhitespaceAroundEquals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	content := "  listen = :7070  \n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, ":7070")
	}
}

// ---------------------------------------------------------------------------
// ApplyEnv tests
// ---------------------------------------------------------------------------

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("WEAVEDROP_GATEWAY", "https://env.example.com")
	t.Setenv("WEAVEDROP_AUTH_TOKEN", "env-token")

	cfg := ApplyEnv(DefaultConfig())

	if cfg.Gateway != "https://env.example.com" {
		t.Errorf("Gateway = %q, want env override", cfg.Gateway)
	}
	if cfg.AuthToken != "env-token" {
		t.Errorf("AuthToken = %q, want env override", cfg.AuthToken)
	}
	// Untouched fields keep their values.
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
}

func TestApplyEnvEmptyValueIgnored(t *testing.T) {
	t.Setenv("WEAVEDROP_LISTEN", "")

	cfg := ApplyEnv(DefaultConfig())
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, empty env var should not override", cfg.ListenAddr)
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "empty_datadir",
			modify:  func(c *Config) { c.DataDir = "" },
			wantErr: ErrEmptyDataDir,
		},
		{
			name:    "empty_appname",
			modify:  func(c *Config) { c.AppName = "" },
			wantErr: ErrEmptyAppName,
		},
		{
			name:    "bad_gateway_scheme",
			modify:  func(c *Config) { c.Gateway = "ftp://node.example.com" },
			wantErr: ErrInvalidGateway,
		},
		{
			name:    "gateway_trailing_slash",
			modify:  func(c *Config) { c.Gateway = "https://node.example.com/" },
			wantErr: ErrInvalidGateway,
		},
		{
			name:    "empty_origin",
			modify:  func(c *Config) { c.ServerOrigin = "" },
			wantErr: ErrInvalidOrigin,
		},
		{
			name:    "bad_listen_addr",
			modify:  func(c *Config) { c.ListenAddr = "not-a-valid-addr" },
			wantErr: ErrInvalidListenAddr,
		},
		{
			name:    "bad_loglevel",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	levels := []string{"INFO", "Debug", "WARN", "Error", "dEbUg"}
	for _, level := range levels {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig with LogLevel %q: %v", level, err)
			}
		})
	}
}

func TestValidateConfig_ValidListenAddrVariants(t *testing.T) {
	addrs := []string{
		"127.0.0.1:80",
		"0.0.0.0:443",
		":8080",
		"localhost:3000",
		"[::1]:8080",
	}
	for _, addr := range addrs {
		t.Run(addr, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ListenAddr = addr
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig with ListenAddr %q: %v", addr, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ConfigPath tests
// ---------------------------------------------------------------------------

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.weavedrop")
	want := filepath.Join("/home/user/.weavedrop", "config")
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}
