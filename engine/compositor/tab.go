package compositor

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
)

// TabStatus is the load state of the scene shown in a tab.
type TabStatus int

const (
	TabEmpty TabStatus = iota
	TabLoading
	TabFailed
	TabLoaded
)

func (s TabStatus) String() string {
	switch s {
	case TabEmpty:
		return "empty"
	case TabLoading:
		return "loading"
	case TabFailed:
		return "failed"
	case TabLoaded:
		return "loaded"
	}
	return fmt.Sprintf("TabStatus(%d)", int(s))
}

// TabState is what RenderFrame draws. Scene is nil unless Status is TabLoaded.
type TabState struct {
	Status       TabStatus
	ErrorMessage string
	Scene        Scene
}

// View describes the viewport a scene is rendered into.
type View struct {
	Index  int
	Active bool
	// Rect is the viewport in surface pixels, bottom-left origin.
	Rect   common.PixelRect
	Camera camera.Camera
}

// Scene is the per-frame 3D content. Render is called once per visible viewport with the
// context viewport and transform already set for that viewport.
type Scene interface {
	Render(ctx gfx.Context, view View, ctrl camera.Controller)
}

// ExtraDrawJob is a one-shot callback run at the end of the next frame.
type ExtraDrawJob func(ctx gfx.Context)
