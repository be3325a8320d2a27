// Package config handles xformsync configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/scene"
)

// Config holds all xformsync settings.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Stage   StageConfig   `yaml:"stage"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds reconciliation engine defaults.
type EngineConfig struct {
	PushToPrim         bool   `yaml:"push_to_prim"`
	ReadAnimatedValues bool   `yaml:"read_animated_values"`
	InsertPrecision    string `yaml:"insert_precision"` // double, float or half
}

// StageConfig holds stage evaluation settings.
type StageConfig struct {
	Time   string `yaml:"time"`   // frame number or "default"
	Output string `yaml:"output"` // path edited stages are saved to; empty overwrites the input
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PushToPrim:         false,
			ReadAnimatedValues: true,
			InsertPrecision:    "float",
		},
		Stage: StageConfig{
			Time: "default",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that are parsed later.
func (c *Config) Validate() error {
	if _, ok := scene.ParsePrecision(c.Engine.InsertPrecision); !ok {
		return fmt.Errorf("engine.insert_precision: unknown precision %q", c.Engine.InsertPrecision)
	}
	if _, err := c.Stage.TimeCode(); err != nil {
		return fmt.Errorf("stage.time: %w", err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// Options converts the engine settings into engine options.
func (e EngineConfig) Options() ([]transform.Option, error) {
	p, ok := scene.ParsePrecision(e.InsertPrecision)
	if !ok {
		return nil, fmt.Errorf("unknown precision %q", e.InsertPrecision)
	}
	return []transform.Option{
		transform.WithPushToPrim(e.PushToPrim),
		transform.WithReadAnimatedValues(e.ReadAnimatedValues),
		transform.WithInsertPrecision(p),
	}, nil
}

// TimeCode returns the configured evaluation time.
func (s StageConfig) TimeCode() (scene.TimeCode, error) {
	return scene.ParseTimeCode(s.Time)
}
