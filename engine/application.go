package engine

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/systems"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string        `toml:"name"`
	LogLevel core.LogLevel `toml:"log_level"`
	VSync    bool          `toml:"vsync"`
	// Renders against a recording backend without opening a window.
	Headless bool `toml:"headless"`
	// Number of frames to run before stopping, 0 for no limit.
	MaxFrames uint64 `toml:"max_frames"`
	// Background color of every frame.
	ClearColor [4]float32 `toml:"clear_color"`

	Renderer systems.RendererConfig `toml:"renderer"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Anima Engine",
		LogLevel:    core.InfoLevel,
		VSync:       true,
		ClearColor:  [4]float32{0.1, 0.1, 0.12, 1},
		Renderer:    systems.DefaultRendererConfig(),
	}
}

/**
 * @brief Reads a TOML application config. Keys missing from the file
 * keep their default values and unknown keys are rejected.
 */
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError("failed to read application config %s: %s", path, err.Error())
		return nil, err
	}
	return ParseApplicationConfig(data)
}

func ParseApplicationConfig(data []byte) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		err = fmt.Errorf("invalid application config: %w", err)
		core.LogError("%s", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if !c.Headless && (c.StartWidth == 0 || c.StartHeight == 0) {
		err := fmt.Errorf("application config: window size must be non-zero, got %dx%d", c.StartWidth, c.StartHeight)
		core.LogError("%s", err)
		return err
	}
	return c.Renderer.Validate()
}

// AspectRatio returns the starting width divided by the starting height.
func (c *ApplicationConfig) AspectRatio() float32 {
	if c.StartHeight == 0 {
		return 1
	}
	return float32(c.StartWidth) / float32(c.StartHeight)
}
