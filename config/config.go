// Copyright (c) 2025 The Weavedrop developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package config defines deployment configuration for Weavedrop: where
// local state lives, which storage gateway receives submissions, and the
// public origin used when constructing share links.
//
// Configuration is resolved in three layers: explicit values (config file
// or flags) override environment variables (WEAVEDROP_*), which override
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config holds all deployment-level settings.
type Config struct {
	// DataDir is the directory for the wallet file, drive state,
	// content cache, and upload history.
	DataDir string

	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string

	// Gateway is the base URL of the storage network node that accepts
	// record submissions and serves content by id.
	Gateway string

	// ServerOrigin is the public origin placed in share links
	// (scheme://host[:port], no trailing slash).
	ServerOrigin string

	// AppName is the App-Name tag value attached to every record.
	AppName string

	// DriveName is the display name used when bootstrapping the drive.
	DriveName string

	// DriveSecret is the deployment secret the drive encryption key is
	// derived from. Empty disables the "drive" encryption mode.
	DriveSecret string

	// AuthToken, when set, gates the upload API behind a bearer token.
	AuthToken string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:      DefaultDataDir(),
		ListenAddr:   ":8080",
		Gateway:      "https://node.weavedrop.net",
		ServerOrigin: "http://localhost:8080",
		AppName:      "Weavedrop",
		DriveName:    "weavedrop-uploads",
		LogLevel:     "info",
	}
}

// DefaultDataDir returns the default data directory, ~/.weavedrop, falling
// back to a relative .weavedrop when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".weavedrop"
	}
	return filepath.Join(home, ".weavedrop")
}

// ConfigPath returns the path of the config file inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// envVars maps config file keys to their environment overrides.
var envVars = map[string]string{
	"datadir":     "WEAVEDROP_DATADIR",
	"listen":      "WEAVEDROP_LISTEN",
	"gateway":     "WEAVEDROP_GATEWAY",
	"origin":      "WEAVEDROP_ORIGIN",
	"appname":     "WEAVEDROP_APPNAME",
	"drivename":   "WEAVEDROP_DRIVENAME",
	"drivesecret": "WEAVEDROP_DRIVE_SECRET",
	"authtoken":   "WEAVEDROP_AUTH_TOKEN",
	"loglevel":    "WEAVEDROP_LOGLEVEL",
}

// ApplyEnv overlays WEAVEDROP_* environment variables onto cfg and returns
// the result. Only variables that are set and non-empty take effect.
func ApplyEnv(cfg Config) Config {
	for key, envVar := range envVars {
		v := os.Getenv(envVar)
		if v == "" {
			continue
		}
		setField(&cfg, key, v)
	}
	return cfg
}

// LoadConfig reads a config file in "key = value" format. Blank lines and
// lines starting with '#' are ignored; unknown keys are ignored for forward
// compatibility. Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		setField(&cfg, key, value)
	}

	return cfg, nil
}

// SaveConfig writes cfg to path in "key = value" format, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Weavedrop Configuration\n\n")
	fields := map[string]string{
		"datadir":     cfg.DataDir,
		"listen":      cfg.ListenAddr,
		"gateway":     cfg.Gateway,
		"origin":      cfg.ServerOrigin,
		"appname":     cfg.AppName,
		"drivename":   cfg.DriveName,
		"drivesecret": cfg.DriveSecret,
		"authtoken":   cfg.AuthToken,
		"loglevel":    cfg.LogLevel,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, fields[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits "key = value" on the first '=', trimming whitespace.
func parseKeyValue(line string) (key, value string, err error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	value = strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, value, nil
}

// setField assigns value to the cfg field named by key. Unknown keys are
// ignored so old binaries tolerate newer config files.
func setField(cfg *Config, key, value string) {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "listen":
		cfg.ListenAddr = value
	case "gateway":
		cfg.Gateway = value
	case "origin":
		cfg.ServerOrigin = value
	case "appname":
		cfg.AppName = value
	case "drivename":
		cfg.DriveName = value
	case "drivesecret":
		cfg.DriveSecret = value
	case "authtoken":
		cfg.AuthToken = value
	case "loglevel":
		cfg.LogLevel = value
	}
}
