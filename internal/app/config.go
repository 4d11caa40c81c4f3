// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/dag"
)

// DefaultConfigPath is the configuration file looked up when none is given.
const DefaultConfigPath = "assetgrid.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the HCL file to load. A missing file means defaults.
	ConfigPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// Host and Port override the server block when set.
	Host string
	Port int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, errors.New("invalid log-format: must be 'text' or 'json'"))
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'"))
	}

	switch {
	case cfg.WorkerCount == 0:
		cfg.WorkerCount = dag.DefaultWorkers
	case cfg.WorkerCount < 0:
		errs = append(errs, fmt.Errorf("invalid workers: %d, must be positive", cfg.WorkerCount))
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", cfg.Port))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
