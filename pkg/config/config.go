// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package config holds the run configuration consumed by cmd/bwsched and
// any embedder of pkg/engine, with an environment-variable overlay in the
// style of the teacher's client configuration.
package config

import (
	"os"
	"strconv"

	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/logging"
)

// Config holds the knobs of a single scheduler run (spec.md §5, §9 open
// question 3; SPEC_FULL.md §2.3).
type Config struct {
	// Capacity is the scalar bandwidth ceiling shared by concurrently
	// running jobs.
	Capacity int

	// Algorithm selects one of SG, GC, PP.
	Algorithm engine.Algorithm

	// Horizon, if > 0, drops jobs whose projected end would exceed it.
	Horizon int

	// MaxTicks, if > 0, bounds the simulation loop.
	MaxTicks int

	// LogLevel selects the run logger's output format (text or JSON); it
	// does not set verbosity.
	LogLevel logging.Format

	// Debug enables debug-level tick tracing.
	Debug bool
}

// NewDefault returns the configuration cmd/bwsched starts from before
// flags and environment variables are applied.
func NewDefault() *Config {
	return &Config{
		Capacity:  10,
		Algorithm: engine.SimpleGreedy,
		Horizon:   0,
		MaxTicks:  0,
		LogLevel:  logging.FormatText,
		Debug:     getEnvBoolOrDefault("BWSCHED_DEBUG", false),
	}
}

// Load overlays environment variables onto c, mirroring the teacher's
// client Load() pattern (SPEC_FULL.md §2.3: BWSCHED_* env vars).
func (c *Config) Load() {
	if capacity := os.Getenv("BWSCHED_CAPACITY"); capacity != "" {
		if v, err := strconv.Atoi(capacity); err == nil {
			c.Capacity = v
		}
	}
	if algo := os.Getenv("BWSCHED_ALGORITHM"); algo != "" {
		c.Algorithm = engine.Algorithm(algo)
	}
	if horizon := os.Getenv("BWSCHED_HORIZON"); horizon != "" {
		if v, err := strconv.Atoi(horizon); err == nil {
			c.Horizon = v
		}
	}
	if maxTicks := os.Getenv("BWSCHED_MAX_TICKS"); maxTicks != "" {
		if v, err := strconv.Atoi(maxTicks); err == nil {
			c.MaxTicks = v
		}
	}
	if format := os.Getenv("BWSCHED_LOG_FORMAT"); format == string(logging.FormatJSON) {
		c.LogLevel = logging.FormatJSON
	}
	c.Debug = getEnvBoolOrDefault("BWSCHED_DEBUG", c.Debug)
}

// Validate enforces the constraints of spec.md §4.1 preconditions and §5.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	switch c.Algorithm {
	case engine.SimpleGreedy, engine.GreedyCompression, engine.PreemptivePriority:
	default:
		return ErrInvalidAlgorithm
	}
	if c.Horizon < 0 {
		return ErrInvalidHorizon
	}
	if c.MaxTicks < 0 {
		return ErrInvalidMaxTicks
	}
	return nil
}

// EngineOptions translates the config into engine.Options for a Run call.
func (c *Config) EngineOptions(logger logging.Logger) engine.Options {
	return engine.Options{
		Horizon:  c.Horizon,
		MaxTicks: c.MaxTicks,
		Logger:   logger,
	}
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
