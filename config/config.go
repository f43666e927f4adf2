// Package config loads viewer settings from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
)

// WindowConfig holds the initial window settings.
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// HUDConfig holds the camera mode HUD settings.
type HUDConfig struct {
	FadeInSeconds float64 `yaml:"fade_in_seconds" toml:"fade_in_seconds"`
}

// PlaybackConfig holds the animation playback settings.
type PlaybackConfig struct {
	TickIntervalMs        int     `yaml:"tick_interval_ms" toml:"tick_interval_ms"`
	DefaultTicksPerSecond float64 `yaml:"default_ticks_per_second" toml:"default_ticks_per_second"`
	Loop                  bool    `yaml:"loop" toml:"loop"`
	SpeedFactor           float64 `yaml:"speed_factor" toml:"speed_factor"`
	MaxSpeedLevels        int     `yaml:"max_speed_levels" toml:"max_speed_levels"`
	AutoPlay              bool    `yaml:"autoplay" toml:"autoplay"`
}

// RenderConfig holds the graphics settings.
type RenderConfig struct {
	// Multisampling is 0 (off) to 3 (16x).
	Multisampling int     `yaml:"multisampling" toml:"multisampling"`
	VSync         bool    `yaml:"vsync" toml:"vsync"`
	ForceSoftware bool    `yaml:"force_software" toml:"force_software"`
	FrameLimit    float64 `yaml:"frame_limit" toml:"frame_limit"`
	CameraWorkers int     `yaml:"camera_workers" toml:"camera_workers"`
}

// Config is the full viewer configuration.
type Config struct {
	Window    WindowConfig   `yaml:"window" toml:"window"`
	Layout    string         `yaml:"layout" toml:"layout"`
	ShowFPS   bool           `yaml:"show_fps" toml:"show_fps"`
	HUD       HUDConfig      `yaml:"hud" toml:"hud"`
	Playback  PlaybackConfig `yaml:"playback" toml:"playback"`
	Render    RenderConfig   `yaml:"render" toml:"render"`
	Profiling bool           `yaml:"profiling" toml:"profiling"`
	AssetsDir string         `yaml:"assets_dir" toml:"assets_dir"`
	Scene     string         `yaml:"scene" toml:"scene"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Oxy Viewer",
			Width:  1280,
			Height: 720,
		},
		Layout: viewport.ViewModeSingle.String(),
		HUD:    HUDConfig{FadeInSeconds: 0.2},
		Playback: PlaybackConfig{
			TickIntervalMs:        int(animation.DefaultTickInterval / time.Millisecond),
			DefaultTicksPerSecond: animation.DefaultTicksPerSecond,
			Loop:                  true,
			SpeedFactor:           animation.DefaultSpeedFactor,
			MaxSpeedLevels:        animation.DefaultMaxSpeedLevels,
			AutoPlay:              true,
		},
		Render: RenderConfig{
			Multisampling: 1,
			VSync:         true,
			CameraWorkers: viewport.MaxViewports,
		},
		Scene: "demo",
	}
}

// Load reads a configuration file on top of Default. The decoder is chosen by extension:
// .yaml and .yml use YAML, .toml uses TOML. Fields missing from the file keep their defaults.
//
// Parameters:
//   - path: the configuration file
//
// Returns:
//   - Config: the configuration
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Decode(data, formatOf(path), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	log.Printf("[Config] loaded %s", path)
	return cfg, nil
}

// Decode unmarshals data in the given format ("yaml" or "toml") into cfg.
//
// Parameters:
//   - data: the encoded configuration
//   - format: "yaml" or "toml"
//   - cfg: the configuration to fill
//
// Returns:
//   - error: error if the format is unknown or the data is malformed
func Decode(data []byte, format string, cfg *Config) error {
	switch format {
	case "yaml":
		return yaml.Unmarshal(data, cfg)
	case "toml":
		return toml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("unsupported config format %q", format)
}

// Save writes cfg to path in the format given by its extension.
//
// Parameters:
//   - cfg: the configuration
//   - path: the destination file
//
// Returns:
//   - error: error if the extension is unknown or the write fails
func Save(cfg Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch format := formatOf(path); format {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}

// Validate reports every invalid field.
//
// Returns:
//   - error: the joined problems, nil if the configuration is usable
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := viewport.ParseViewMode(c.Layout); err != nil {
		errs = append(errs, err)
	}
	if c.HUD.FadeInSeconds < 0 {
		errs = append(errs, fmt.Errorf("hud.fade_in_seconds %v is negative", c.HUD.FadeInSeconds))
	}
	if c.Playback.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("playback.tick_interval_ms %d must be positive", c.Playback.TickIntervalMs))
	}
	if c.Playback.DefaultTicksPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("playback.default_ticks_per_second %v must be positive", c.Playback.DefaultTicksPerSecond))
	}
	if c.Playback.SpeedFactor <= 0 || c.Playback.SpeedFactor >= 1 {
		errs = append(errs, fmt.Errorf("playback.speed_factor %v must be in (0, 1)", c.Playback.SpeedFactor))
	}
	if c.Playback.MaxSpeedLevels < 0 {
		errs = append(errs, fmt.Errorf("playback.max_speed_levels %d is negative", c.Playback.MaxSpeedLevels))
	}
	if _, err := gfx.SampleCountForLevel(c.Render.Multisampling); err != nil {
		errs = append(errs, fmt.Errorf("render.multisampling: %w", err))
	}
	if c.Render.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("render.frame_limit %v is negative", c.Render.FrameLimit))
	}
	if c.Render.CameraWorkers < 0 {
		errs = append(errs, fmt.Errorf("render.camera_workers %d is negative", c.Render.CameraWorkers))
	}
	return errors.Join(errs...)
}

// ViewMode returns the parsed layout, ViewModeSingle if it does not parse.
func (c Config) ViewMode() viewport.ViewMode {
	m, _ := viewport.ParseViewMode(c.Layout)
	return m
}

// SampleCount returns the MSAA sample count for the multisampling level.
func (c Config) SampleCount() gfx.MSAASampleCount {
	n, _ := gfx.SampleCountForLevel(c.Render.Multisampling)
	return n
}

// PresentMode returns the present mode selected by render.vsync.
func (c Config) PresentMode() gfx.PresentMode {
	if c.Render.VSync {
		return gfx.PresentModeVSync
	}
	return gfx.PresentModeUncapped
}

// PlaybackOptions returns the playback options described by the configuration.
func (c Config) PlaybackOptions() []animation.PlaybackBuilderOption {
	clock := animation.NewClock(
		animation.WithDefaultTicksPerSecond(c.Playback.DefaultTicksPerSecond),
		animation.WithLoop(c.Playback.Loop),
	)
	return []animation.PlaybackBuilderOption{
		animation.WithClock(clock),
		animation.WithTickInterval(time.Duration(c.Playback.TickIntervalMs) * time.Millisecond),
		animation.WithSpeedSteps(c.Playback.SpeedFactor, c.Playback.MaxSpeedLevels),
	}
}
