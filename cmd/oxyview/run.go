package main

import (
	"fmt"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// headlessLoadTimeout bounds how long a headless run waits for the scene.
const headlessLoadTimeout = 30 * time.Second

var windowButtons = map[window.MouseButton]viewer.MouseButton{
	window.MouseButtonLeft:   viewer.ButtonLeft,
	window.MouseButtonRight:  viewer.ButtonRight,
	window.MouseButtonMiddle: viewer.ButtonMiddle,
}

func viewerOptions(cfg config.Config, quit func()) []viewer.ViewerBuilderOption {
	return []viewer.ViewerBuilderOption{
		viewer.WithViewMode(cfg.ViewMode()),
		viewer.WithAssetsDir(cfg.AssetsDir),
		viewer.WithHUDFade(cfg.HUD.FadeInSeconds),
		viewer.WithAutoPlay(cfg.Playback.AutoPlay),
		viewer.WithPlaybackOptions(cfg.PlaybackOptions()...),
		viewer.WithCompositorOptions(
			compositor.WithShowFPS(cfg.ShowFPS),
			compositor.WithCameraWorkers(cfg.Render.CameraWorkers),
		),
		viewer.WithQuitCallback(quit),
	}
}

func runWindowed(cfg config.Config, name string) error {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := win.Close(); err != nil {
			log.Printf("[Engine] close window: %v", err)
		}
	}()

	dev, err := gfx.NewWGPUDevice(win.SurfaceDescriptor(), win.Width(), win.Height(),
		gfx.WithSampleCount(cfg.SampleCount()),
		gfx.WithPresentMode(cfg.PresentMode()),
		gfx.WithForceFallbackAdapter(cfg.Render.ForceSoftware),
	)
	if err != nil {
		return fmt.Errorf("failed to create graphics device: %w", err)
	}
	defer dev.Release()

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithDevice(dev),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.Render.FrameLimit),
	)
	v, err := viewer.NewViewer(dev, eng, viewerOptions(cfg, eng.Quit)...)
	if err != nil {
		return err
	}
	defer v.Close()

	win.SetMouseMoveCallback(func(x, y int32) { v.OnMouseMove(int(x), int(y)) })
	win.SetMouseButtonCallback(func(b window.MouseButton, pressed bool, x, y int32) {
		button, ok := windowButtons[b]
		if !ok {
			return
		}
		if pressed {
			v.OnMouseDown(button, int(x), int(y))
		} else {
			v.OnMouseUp(button, int(x), int(y))
		}
	})
	win.SetScrollCallback(v.OnScroll)
	win.SetKeyDownCallback(v.OnKeyDown)
	win.SetKeyUpCallback(v.OnKeyUp)
	win.SetDropCallback(v.OnDrop)

	title := ""
	eng.SetUpdateCallback(func(dt float64) {
		v.Update(dt)
		if t := windowTitle(cfg.Window.Title, v.Tab()); t != title {
			title = t
			win.SetTitle(t)
		}
	})
	eng.SetRenderCallback(func(float64) error { return v.Render() })

	v.Open(name)
	return eng.Run()
}

func windowTitle(base string, tab compositor.TabState) string {
	switch tab.Status {
	case compositor.TabLoading:
		return base + " - loading"
	case compositor.TabLoaded:
		if s, ok := tab.Scene.(interface{ Name() string }); ok {
			return base + " - " + s.Name()
		}
	}
	return base
}

// runHeadless renders frames into a command recorder at a fixed 60 Hz step once the scene has loaded.
func runHeadless(cfg config.Config, name string, frames int) error {
	rec := gfx.NewRecorder(cfg.Window.Width, cfg.Window.Height)
	eng := engine.NewEngine(engine.WithDevice(rec), engine.WithProfiling(cfg.Profiling))
	v, err := viewer.NewViewer(rec, eng, viewerOptions(cfg, eng.Quit)...)
	if err != nil {
		return err
	}
	defer v.Close()

	const dt = 1.0 / 60
	v.Open(name)
	deadline := time.Now().Add(headlessLoadTimeout)
	for v.Tab().Status == compositor.TabLoading {
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out loading %s", name)
		}
		eng.Step(0)
		time.Sleep(time.Millisecond)
	}

	eng.SetUpdateCallback(v.Update)
	eng.SetRenderCallback(func(float64) error { return v.Render() })
	start := rec.Frames
	for range frames {
		if !eng.Step(dt) {
			break
		}
	}

	tab := v.Tab()
	fmt.Printf("Scene:    %s\n", name)
	fmt.Printf("Status:   %s\n", tab.Status)
	if tab.Status == compositor.TabFailed {
		fmt.Printf("Error:    %s\n", tab.ErrorMessage)
	}
	fmt.Printf("Frames:   %d\n", rec.Frames-start)
	fmt.Printf("Layout:   %s\n", v.Layout().ViewMode())
	fmt.Printf("Position: %.3fs\n", v.Playback().DisplayPosition())
	fmt.Printf("Lines:    %d batches in the last frame\n", rec.Count(gfx.CmdDrawLines))
	fmt.Printf("Images:   %d draws in the last frame\n", rec.Count(gfx.CmdDrawImage))
	eng.Quit()
	return nil
}
