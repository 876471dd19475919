// Package app provides configuration management and the application shell
// that wires the emulator core to a graphics backend.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gogb/internal/graphics"
)

// Config holds all application configuration.
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	// Internal state
	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // LCD resolution multiplier
}

// VideoConfig contains video rendering configuration.
type VideoConfig struct {
	VSync      bool    `json:"vsync"`
	Filter     string  `json:"filter"`  // "nearest", "linear"
	Backend    string  `json:"backend"` // "ebitengine", "headless", "terminal"
	Palette    string  `json:"palette"` // "dmg", "gray", "pocket"
	Brightness float64 `json:"brightness"`
}

// EmulationConfig contains emulation-specific settings.
type EmulationConfig struct {
	SaveBatteryRAM bool `json:"save_battery_ram"`
	PauseOnStart   bool `json:"pause_on_start"`
}

// DebugConfig contains debugging and development options.
type DebugConfig struct {
	EnableLogging bool `json:"enable_logging"`
	CPUTracing    bool `json:"cpu_tracing"`
	TraceDepth    int  `json:"trace_depth"`
	DumpFrames    int  `json:"dump_frames"` // headless mode: save every n-th frame
}

// PathsConfig contains file and directory paths.
type PathsConfig struct {
	ROMs     string `json:"roms"`
	SaveData string `json:"save_data"`
	Logs     string `json:"logs"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      graphics.Width * 4,
			Height:     graphics.Height * 4,
			Fullscreen: false,
			Scale:      4,
		},
		Video: VideoConfig{
			VSync:      true,
			Filter:     "nearest",
			Backend:    "ebitengine",
			Palette:    "dmg",
			Brightness: 1.0,
		},
		Emulation: EmulationConfig{
			SaveBatteryRAM: true,
			PauseOnStart:   false,
		},
		Debug: DebugConfig{
			EnableLogging: false,
			CPUTracing:    false,
			TraceDepth:    32,
			DumpFrames:    0,
		},
		Paths: PathsConfig{
			ROMs:     "./roms",
			SaveData: "./saves",
			Logs:     "./logs",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. A missing file is not
// an error: the defaults are written there instead.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	if err := c.createDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %v", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate normalizes out-of-range values instead of failing on them.
func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window dimensions: %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}

	if c.Video.Brightness < 0.1 || c.Video.Brightness > 2.0 {
		c.Video.Brightness = 1.0
	}

	switch c.Video.Backend {
	case "ebitengine", "headless", "terminal":
	default:
		c.Video.Backend = "ebitengine"
	}

	if c.Debug.TraceDepth <= 0 {
		c.Debug.TraceDepth = 32
	}

	if c.Debug.DumpFrames < 0 {
		c.Debug.DumpFrames = 0
	}

	return nil
}

// createDirectories creates required directories.
func (c *Config) createDirectories() error {
	dirs := []string{
		c.Paths.ROMs,
		c.Paths.SaveData,
		c.Paths.Logs,
	}

	for _, dir := range dirs {
		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %v", dir, err)
			}
		}
	}

	return nil
}

// GetWindowResolution returns the window resolution based on scale.
func (c *Config) GetWindowResolution() (int, int) {
	return graphics.Width * c.Window.Scale, graphics.Height * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from a file.
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return "./config/gogb.json"
}
