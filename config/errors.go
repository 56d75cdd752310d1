// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidFeeBps indicates a fee rate above 10000 basis points.
	ErrInvalidFeeBps = errors.New("config: fee must not exceed 10000 bps")

	// ErrInvalidPercentage indicates a percentage above 100.
	ErrInvalidPercentage = errors.New("config: percentage must not exceed 100")

	// ErrInvalidRent indicates non-positive rent parameters.
	ErrInvalidRent = errors.New("config: rent parameters must be positive")

	// ErrInvalidTreeDepth indicates an unsupported merkle tree depth.
	ErrInvalidTreeDepth = errors.New("config: invalid tree depth")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidConfigValue indicates a value that does not parse for its key.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")
)
