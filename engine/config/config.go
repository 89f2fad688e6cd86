// Package config loads the TOML settings file and watches it for changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-xr/engine/core"
	"github.com/spaghettifunk/anima-xr/engine/math"
	"github.com/spaghettifunk/anima-xr/engine/physics"
	"github.com/spaghettifunk/anima-xr/engine/systems"
)

const DefaultPath = "anima.toml"

type Application struct {
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`

	// Frames per second of the main loop.
	TargetFrameRate int `toml:"target_frame_rate"`
}

type Physics struct {
	Enabled      bool       `toml:"enabled"`
	Gravity      [3]float32 `toml:"gravity"`
	MaxBodyCount int        `toml:"max_body_count"`

	// Delay before the collider world is attached, in milliseconds. Meshes
	// synced before that are registered on attach.
	AttachAfterMs float64 `toml:"attach_after_ms"`
}

// WorldConfig converts the section into what physics.NewWorld takes.
func (p Physics) WorldConfig() physics.WorldConfig {
	return physics.WorldConfig{
		Gravity:      math.NewVec3(p.Gravity[0], p.Gravity[1], p.Gravity[2]),
		MaxBodyCount: p.MaxBodyCount,
	}
}

type Config struct {
	Application   Application                  `toml:"application"`
	MeshDetection systems.MeshDetectionConfig  `toml:"mesh_detection"`
	Materials     systems.MaterialSystemConfig `toml:"materials"`
	Physics       Physics                      `toml:"physics"`
}

func Default() *Config {
	return &Config{
		Application: Application{
			Name:            "Anima XR",
			LogLevel:        core.InfoLevel.String(),
			TargetFrameRate: 60,
		},
		MeshDetection: systems.DefaultMeshDetectionConfig(),
		Materials:     systems.DefaultMaterialSystemConfig(),
		Physics: Physics{
			Enabled: true,
			Gravity: [3]float32{0, -9.81, 0},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		core.LogWarn("config file '%s' not found, using defaults", path)
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a TOML document over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config %d:%d: %s: %w", row, col, derr.Error(), core.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("config: %s: %w", err.Error(), core.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section and normalizes values that have a safe range.
func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		return err
	}
	if c.Application.TargetFrameRate <= 0 {
		return fmt.Errorf("application - target_frame_rate must be > 0, got %d: %w", c.Application.TargetFrameRate, core.ErrInvalidConfig)
	}
	c.Application.TargetFrameRate = math.Clamp(c.Application.TargetFrameRate, 1, 240)

	if err := c.MeshDetection.Validate(); err != nil {
		return err
	}
	c.MeshDetection.ForwardConeCosine = math.Clamp(c.MeshDetection.ForwardConeCosine, -1, 1)

	if c.Physics.MaxBodyCount < 0 {
		return fmt.Errorf("physics - max_body_count must be >= 0, got %d: %w", c.Physics.MaxBodyCount, core.ErrInvalidConfig)
	}
	if c.Physics.AttachAfterMs < 0 {
		return fmt.Errorf("physics - attach_after_ms must be >= 0, got %v: %w", c.Physics.AttachAfterMs, core.ErrInvalidConfig)
	}
	return nil
}

// LogLevel is the parsed application log level.
func (c *Config) LogLevel() core.LogLevel {
	l, err := core.ParseLogLevel(c.Application.LogLevel)
	if err != nil {
		return core.InfoLevel
	}
	return l
}

// Save writes c to path as TOML.
func Save(c *Config, path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
