// Copyright (c) 2025 The Weavedrop developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.AppName == "" {
		return ErrEmptyAppName
	}

	if err := validateBaseURL(cfg.Gateway); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGateway, err)
	}

	if err := validateBaseURL(cfg.ServerOrigin); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOrigin, err)
	}

	if err := validateAddr(cfg.ListenAddr); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidListenAddr, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}

// validateBaseURL checks that raw is an absolute http(s) URL with a host
// and no trailing slash, suitable for "<base>/<id>" concatenation.
func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	if strings.HasSuffix(raw, "/") {
		return fmt.Errorf("trailing slash in %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
