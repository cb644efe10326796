// Copyright (c) 2025 The Weavedrop developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidGateway indicates the gateway base URL is malformed.
	ErrInvalidGateway = errors.New("config: invalid gateway URL")

	// ErrInvalidOrigin indicates the server origin URL is malformed.
	ErrInvalidOrigin = errors.New("config: invalid server origin")

	// ErrInvalidListenAddr indicates the listen address is malformed.
	ErrInvalidListenAddr = errors.New("config: invalid listen address")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrEmptyAppName indicates the application tag name is empty.
	ErrEmptyAppName = errors.New("config: app name must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
