package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/scene"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultFPS    = 60
	DefaultTitle  = "backdrop"
	DefaultSeed   = 1
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Seed   int64        `yaml:"seed"`
	Scene  scene.Params `yaml:"scene"`
	Window WindowConfig `yaml:"window"`
	Logger LoggerConfig `yaml:"logger"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Title  string `yaml:"title"`
	HUD    bool   `yaml:"hud"`
}

// LoggerConfig configures the zap logger. File enables a rotated JSON sink
// alongside the console output.
type LoggerConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Name       string `yaml:"name"`
	Color      bool   `yaml:"color"`
	AddSource  bool   `yaml:"add_source"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:  DefaultSeed,
		Scene: scene.DefaultParams(),
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Title:  DefaultTitle,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "console",
			Name:       "backdrop",
			Color:      true,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the engine cannot run. Errors wrap
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Scene.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.Window.FPS)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logger format %q", ErrInvalidConfig, c.Logger.Format)
	}
	return nil
}

// Surface is the initial drawing surface for the configured window.
func (c *Config) Surface() scene.Surface {
	return scene.Surface{Width: float64(c.Window.Width), Height: float64(c.Window.Height), DPR: 1}
}
