// Package config handles facet configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Config holds all facet settings.
type Config struct {
	Shading  ShadingConfig  `yaml:"shading" toml:"shading"`
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Input    InputConfig    `yaml:"input" toml:"input"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// ShadingConfig selects the render mode.
type ShadingConfig struct {
	Mode string `yaml:"mode" toml:"mode"` // per_vertex, normal_mapping, flat, wireframe or auto
}

// PipelineConfig holds triangle list build settings.
type PipelineConfig struct {
	Workers int `yaml:"workers" toml:"workers"` // goroutines for the face stage; 1 is serial
}

// InputConfig holds mesh loading settings.
type InputConfig struct {
	Triangulate    bool    `yaml:"triangulate" toml:"triangulate"`         // fan-split polygons in OBJ and OFF
	MergeTolerance float64 `yaml:"merge_tolerance" toml:"merge_tolerance"` // STL vertex welding distance
	NoDedupe       bool    `yaml:"no_dedupe" toml:"no_dedupe"`             // keep STL triangles unwelded
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // glb, raw or none
	Path   string `yaml:"path" toml:"path"`     // empty derives the path from the input name
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Output formats.
const (
	FormatGLB  = "glb"
	FormatRaw  = "raw"
	FormatNone = "none"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shading: ShadingConfig{
			Mode: ModeAuto,
		},
		Pipeline: PipelineConfig{
			Workers: runtime.NumCPU(),
		},
		Input: InputConfig{
			Triangulate:    true,
			MergeTolerance: 0,
			NoDedupe:       false,
		},
		Output: OutputConfig{
			Format: FormatGLB,
			Path:   "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(RenderModes(), c.Shading.Mode) {
		errs = append(errs, fmt.Errorf("shading.mode %q: use one of %s", c.Shading.Mode, strings.Join(RenderModes(), ", ")))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers %d: must be at least 1", c.Pipeline.Workers))
	}
	if c.Input.MergeTolerance < 0 {
		errs = append(errs, fmt.Errorf("input.merge_tolerance %v: must not be negative", c.Input.MergeTolerance))
	}
	switch c.Output.Format {
	case FormatGLB, FormatRaw, FormatNone:
	default:
		errs = append(errs, fmt.Errorf("output.format %q: use glb, raw or none", c.Output.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q: use debug, info, warn or error", c.Logging.Level))
	}
	return errors.Join(errs...)
}
