package sapling

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig configures Run. Zero fields take the defaults listed per field.
type RunConfig struct {
	// Title defaults to "sapling".
	Title string `yaml:"title"`
	// Width and Height are the window size; defaults 640x480.
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Resizable bool `yaml:"resizable"`
	ShowFPS   bool `yaml:"show_fps"`
	// TPS is the update rate; default 60.
	TPS int `yaml:"tps"`
	// FixedStep, when positive, replaces 1/TPS as the step dt.
	FixedStep float64 `yaml:"fixed_step"`
	Debug     bool    `yaml:"debug"`
	// Physics, when set, enables physics on the scene before it runs
	// (unless the scene already has a physics world).
	Physics *PhysicsSpec `yaml:"physics"`
}

// PhysicsSpec is the YAML form of PhysicsConfig.
type PhysicsSpec struct {
	Gravity    Vec2 `yaml:"gravity"`
	Iterations int  `yaml:"iterations"`
}

// Config returns the equivalent PhysicsConfig.
func (p PhysicsSpec) Config() PhysicsConfig {
	return PhysicsConfig{Gravity: p.Gravity, Iterations: p.Iterations}
}

const (
	defaultTitle  = "sapling"
	defaultWidth  = 640
	defaultHeight = 480
	defaultTPS    = 60
)

// withDefaults returns c with zero fields filled in.
func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.TPS <= 0 {
		c.TPS = defaultTPS
	}
	return c
}

// ParseRunConfig decodes a YAML run configuration and applies defaults.
func ParseRunConfig(data []byte) (RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("sapling: unmarshal run config: %w", err)
	}
	if cfg.FixedStep < 0 {
		return RunConfig{}, fmt.Errorf("sapling: run config: negative fixed_step %v", cfg.FixedStep)
	}
	return cfg.withDefaults(), nil
}

// LoadRunConfig reads and decodes a YAML run configuration file.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("sapling: load %s: %w", path, err)
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return RunConfig{}, fmt.Errorf("sapling: %s: %w", path, err)
	}
	return cfg, nil
}
