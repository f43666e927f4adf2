// oxyview - multi-viewport 3D animation viewer.
//
// Controls:
//
//	Left drag     - Rotate (orbit / first-person), click selects a viewport
//	Middle drag   - Pan
//	Scroll        - Zoom the viewport under the cursor
//	1-5           - Camera mode: X, Y, Z axis lock, orbit, first-person
//	W/A/S/D, Q/E  - Move the first-person camera
//	R             - Reset the active viewport camera
//	V             - Cycle single / two / four viewports
//	Space         - Play / pause
//	[ / ]         - Previous / next animation
//	+/-           - Faster / slower
//	Home / End    - Jump to start / end
//	L             - Toggle looping
//	F             - Toggle the FPS counter
//	Esc           - Quit
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

type options struct {
	configPath string
	layout     string
	showFPS    bool
	profiling  bool
	msaa       int
	software   bool
	assetsDir  string
	width      int
	height     int
	noAutoPlay bool
	frames     int
	writeTo    string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "oxyview [demo|model.gltf|model.glb]",
		Short: "Multi-viewport 3D animation viewer",
		Long: `oxyview - multi-viewport 3D animation viewer

Shows a model in up to four viewports, each with its own camera mode, and plays
its animation clips. Drop a .gltf or .glb file onto the window to open it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.writeTo != "" {
				if err := config.Save(cfg, opts.writeTo); err != nil {
					return err
				}
				log.Printf("[Config] wrote %s", opts.writeTo)
				return nil
			}
			name := cfg.Scene
			if len(args) == 1 {
				name = args[0]
			}
			if opts.frames > 0 {
				return runHeadless(cfg, name, opts.frames)
			}
			return runWindowed(cfg, name)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML configuration file")
	f.StringVar(&opts.layout, "layout", "", "Viewport layout: single, two or four")
	f.BoolVar(&opts.showFPS, "show-fps", false, "Show the FPS counter")
	f.BoolVar(&opts.profiling, "profile", false, "Log frame and memory statistics")
	f.IntVar(&opts.msaa, "msaa", 0, "Multisampling level 0-3 (off, 4x, 8x, 16x)")
	f.BoolVar(&opts.software, "software", false, "Force the software graphics adapter")
	f.StringVar(&opts.assetsDir, "assets", "", "Directory of PNG files overriding the HUD icons")
	f.IntVar(&opts.width, "width", 0, "Window width")
	f.IntVar(&opts.height, "height", 0, "Window height")
	f.BoolVar(&opts.noAutoPlay, "no-autoplay", false, "Do not start the first animation on load")
	f.IntVar(&opts.frames, "frames", 0, "Render this many frames without a window and print a summary")
	f.StringVar(&opts.writeTo, "write-config", "", "Write the effective configuration to this file and exit")

	cmd.AddCommand(newInfoCommand())
	return cmd
}

// loadConfig reads the config file, if any, then applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("layout") {
		cfg.Layout = opts.layout
	}
	if f.Changed("show-fps") {
		cfg.ShowFPS = opts.showFPS
	}
	if f.Changed("profile") {
		cfg.Profiling = opts.profiling
	}
	if f.Changed("msaa") {
		cfg.Render.Multisampling = opts.msaa
	}
	if f.Changed("software") {
		cfg.Render.ForceSoftware = opts.software
	}
	if f.Changed("assets") {
		cfg.AssetsDir = opts.assetsDir
	}
	if f.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if f.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if f.Changed("no-autoplay") {
		cfg.Playback.AutoPlay = !opts.noAutoPlay
	}
	if cfg.Scene == "" {
		cfg.Scene = scene.DemoName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}
