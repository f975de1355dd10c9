// Package config holds the defaults shared by the MCP server and the CLI, and the
// TERRAIN_MCP_* environment overrides applied on top of them.
//
// # Environment Variables
//
//	TERRAIN_MCP_LOG_LEVEL         trace|debug|info|warn|error (default info)
//	TERRAIN_MCP_FILL_THRESHOLD    0.0-1.0 (default 0.55)
//	TERRAIN_MCP_HOLE_THRESHOLD    0.0-1.0 (default 0.3)
//	TERRAIN_MCP_THRESHOLD_POLICY  clamp|reject (default clamp)
//	TERRAIN_MCP_HOLE_MODE         outline|points (default outline)
//	TERRAIN_MCP_STRIDE            >= 1 (default 8)
//	TERRAIN_MCP_SAMPLE_SOURCE     hole|fill (default hole)
//
// Tool arguments and CLI flags override these values per request.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/terrain-contour-mcp/internal/classify"
	"github.com/ironsheep/terrain-contour-mcp/internal/vectorize"
)

// Defaults used when neither the environment nor a request sets a value.
const (
	DefaultFillThreshold = 0.55
	DefaultHoleThreshold = 0.3
	DefaultStride        = 8
	DefaultLogLevel      = "info"
	DefaultHoleMode      = "outline"
	DefaultSampleSource  = "hole"
)

// Environment variable names.
const (
	EnvLogLevel        = "TERRAIN_MCP_LOG_LEVEL"
	EnvFillThreshold   = "TERRAIN_MCP_FILL_THRESHOLD"
	EnvHoleThreshold   = "TERRAIN_MCP_HOLE_THRESHOLD"
	EnvThresholdPolicy = "TERRAIN_MCP_THRESHOLD_POLICY"
	EnvHoleMode        = "TERRAIN_MCP_HOLE_MODE"
	EnvStride          = "TERRAIN_MCP_STRIDE"
	EnvSampleSource    = "TERRAIN_MCP_SAMPLE_SOURCE"
)

// Config is the resolved process-wide configuration.
type Config struct {
	LogLevel      string
	FillThreshold float64
	HoleThreshold float64
	Policy        classify.Policy
	HoleMode      string
	Stride        int
	SampleSource  string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		FillThreshold: DefaultFillThreshold,
		HoleThreshold: DefaultHoleThreshold,
		Policy:        classify.ClampToRange,
		HoleMode:      DefaultHoleMode,
		Stride:        DefaultStride,
		SampleSource:  DefaultSampleSource,
	}
}

// Load returns the defaults with any TERRAIN_MCP_* variables from the process
// environment applied.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup applies overrides read through lookup, which has the signature of
// os.LookupEnv. Unset and blank variables keep their defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvFillThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvFillThreshold, err)
		}
		cfg.FillThreshold = f
	}
	if v, ok := get(EnvHoleThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvHoleThreshold, err)
		}
		cfg.HoleThreshold = f
	}
	if v, ok := get(EnvThresholdPolicy); ok {
		p, err := classify.ParsePolicy(strings.ToLower(v))
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvThresholdPolicy, err)
		}
		cfg.Policy = p
	}
	if v, ok := get(EnvHoleMode); ok {
		cfg.HoleMode = strings.ToLower(v)
	}
	if v, ok := get(EnvStride); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", EnvStride, err)
		}
		if n < 1 {
			return cfg, fmt.Errorf("invalid %s: %w: %d", EnvStride, classify.ErrInvalidStride, n)
		}
		cfg.Stride = n
	}
	if v, ok := get(EnvSampleSource); ok {
		cfg.SampleSource = strings.ToLower(v)
	}

	if _, err := cfg.Mode(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Thresholds returns the classifier settings.
func (c Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		Fill:   c.FillThreshold,
		Hole:   c.HoleThreshold,
		Policy: c.Policy,
	}
}

// Mode returns the configured hole representation.
func (c Config) Mode() (vectorize.HoleMode, error) {
	return vectorize.ParseHoleMode(c.HoleMode, c.Stride, c.SampleSource)
}

// VectorizeConfig returns a pipeline configuration built from these defaults.
func (c Config) VectorizeConfig() (vectorize.Config, error) {
	mode, err := c.Mode()
	if err != nil {
		return vectorize.Config{}, err
	}
	return vectorize.Config{
		Thresholds: c.Thresholds(),
		HoleMode:   mode,
	}, nil
}
