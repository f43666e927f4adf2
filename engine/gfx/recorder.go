package gfx

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// CommandKind identifies a recorded drawing command.
type CommandKind int

const (
	CmdSetViewport CommandKind = iota
	CmdClear
	CmdSetTransform
	CmdSetDepthTest
	CmdDrawLines
	CmdFillRect
	CmdStrokeRect
	CmdUploadImage
	CmdDrawImage
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetViewport:
		return "SetViewport"
	case CmdClear:
		return "Clear"
	case CmdSetTransform:
		return "SetTransform"
	case CmdSetDepthTest:
		return "SetDepthTest"
	case CmdDrawLines:
		return "DrawLines"
	case CmdFillRect:
		return "FillRect"
	case CmdStrokeRect:
		return "StrokeRect"
	case CmdUploadImage:
		return "UploadImage"
	case CmdDrawImage:
		return "DrawImage"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is one recorded call. Only the fields relevant to Kind are set.
type Command struct {
	Kind      CommandKind
	Viewport  common.PixelRect
	Rect      image.Rectangle
	Color     common.Color
	Flags     ClearFlags
	DepthTest bool
	LineWidth float32
	Points    int
	Key       string
	Alpha     float32
}

// Recorder is a Device that records commands instead of drawing.
// It backs headless runs and tests.
type Recorder struct {
	width, height int

	viewport  common.PixelRect
	transform [16]float32
	depthTest bool

	// Commands holds the commands of the current frame.
	Commands []Command
	// Images holds the last uploaded image per key.
	Images map[string]*image.RGBA
	// Uploads counts uploads per key over the recorder's lifetime.
	Uploads map[string]int
	// Frames counts completed frames.
	Frames int
}

var _ Device = &Recorder{}

// NewRecorder creates a recorder for a surface of the given size.
//
// Parameters:
//   - width, height: surface size in pixels
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder(width, height int) *Recorder {
	r := &Recorder{
		width:   width,
		height:  height,
		Images:  make(map[string]*image.RGBA),
		Uploads: make(map[string]int),
	}
	r.viewport = common.PixelRect{W: width, H: height}
	common.Identity(r.transform[:])
	return r
}

// Count returns how many commands of kind k were recorded this frame.
func (r *Recorder) Count(k CommandKind) int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the commands of kind k recorded this frame.
func (r *Recorder) Filter(k CommandKind) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Resolution() (int, int) {
	return r.width, r.height
}

func (r *Recorder) SetViewport(v common.PixelRect) {
	r.viewport = v
	r.Commands = append(r.Commands, Command{Kind: CmdSetViewport, Viewport: v})
}

func (r *Recorder) Viewport() common.PixelRect {
	return r.viewport
}

func (r *Recorder) Clear(c common.Color, flags ClearFlags) {
	r.Commands = append(r.Commands, Command{Kind: CmdClear, Viewport: r.viewport, Color: c, Flags: flags})
}

func (r *Recorder) SetTransform(m [16]float32) {
	r.transform = m
	r.Commands = append(r.Commands, Command{Kind: CmdSetTransform, Viewport: r.viewport})
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.depthTest = enabled
	r.Commands = append(r.Commands, Command{Kind: CmdSetDepthTest, DepthTest: enabled})
}

func (r *Recorder) DrawLines(points [][3]float32, c common.Color) {
	r.Commands = append(r.Commands, Command{
		Kind:      CmdDrawLines,
		Viewport:  r.viewport,
		Color:     c,
		Points:    len(points),
		DepthTest: r.depthTest,
	})
}

func (r *Recorder) FillRect(rect image.Rectangle, c common.Color) {
	r.Commands = append(r.Commands, Command{Kind: CmdFillRect, Viewport: r.viewport, Rect: rect, Color: c})
}

func (r *Recorder) StrokeRect(rect image.Rectangle, lineWidth float32, c common.Color) {
	r.Commands = append(r.Commands, Command{
		Kind:      CmdStrokeRect,
		Viewport:  r.viewport,
		Rect:      rect,
		Color:     c,
		LineWidth: lineWidth,
		DepthTest: r.depthTest,
	})
}

func (r *Recorder) UploadImage(key string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("upload %q: nil image", key)
	}
	r.Images[key] = img
	r.Uploads[key]++
	r.Commands = append(r.Commands, Command{Kind: CmdUploadImage, Key: key, Rect: img.Bounds()})
	return nil
}

func (r *Recorder) DrawImage(key string, rect image.Rectangle, alpha float32) {
	r.Commands = append(r.Commands, Command{Kind: CmdDrawImage, Viewport: r.viewport, Key: key, Rect: rect, Alpha: alpha})
}

func (r *Recorder) BeginFrame() error {
	r.Commands = r.Commands[:0]
	r.viewport = common.PixelRect{W: r.width, H: r.height}
	return nil
}

func (r *Recorder) EndFrame() error {
	r.Frames++
	return nil
}

func (r *Recorder) Resize(width, height int) {
	r.width = width
	r.height = height
}

func (r *Recorder) Release() {
	r.Images = make(map[string]*image.RGBA)
}
