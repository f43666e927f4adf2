// Package scene provides the 3D content drawn into each viewport: a reference grid, the world axes
// and an animated model drawn as a skeleton of node-to-parent segments with its mesh boxes.
package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/compositor"
	"github.com/Carmen-Shannon/oxy-viewer/engine/gfx"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

var (
	GridColor   = common.RGB(140, 140, 140)
	BoneColor   = common.RGB(30, 30, 120)
	BoundsColor = common.RGB(200, 120, 40)
	AxisColors  = [3]common.Color{common.RGB(200, 30, 30), common.RGB(30, 160, 30), common.RGB(30, 60, 200)}
)

const (
	// fitSize is the edge length of the cube a model is scaled into.
	fitSize = 2

	defaultGridExtent = 5
	gridSpacing       = 0.5
	axisLength        = 1.5
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	model model.Model
	fit   mgl32.Mat4

	clip    int
	seconds float64
	dirty   bool

	showGrid   bool
	showBounds bool
	gridExtent int

	gridLines [][3]float32
	axisLines [3][][3]float32
	boneLines [][3]float32
	boxLines  [][3]float32
}

// Scene is a model placed on a reference grid. It is drawn by the compositor and drives playback
// through its animation list.
type Scene interface {
	compositor.Scene
	animation.Source

	// Name returns the model name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Model returns the model being shown.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// SetPose selects the clip and time shown by every viewport.
	//
	// Parameters:
	//   - clip: the clip index, -1 for the rest pose
	//   - seconds: the time within the clip
	SetPose(clip int, seconds float64)

	// Pose returns the clip and time last set.
	//
	// Returns:
	//   - int: the clip index
	//   - float64: the time in seconds
	Pose() (int, float64)
}

var _ Scene = &scene{}

// NewScene creates a scene showing m, scaled to fit a 2 unit cube standing on the grid.
//
// Parameters:
//   - m: the model
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the scene, showing the rest pose
func NewScene(m model.Model, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.Mutex{},
		model:      m,
		fit:        fitMatrix(m),
		clip:       -1,
		dirty:      true,
		showGrid:   true,
		showBounds: true,
		gridExtent: defaultGridExtent,
	}
	for _, option := range options {
		option(s)
	}
	s.gridLines = gridLines(s.gridExtent)
	for i := range s.axisLines {
		var end [3]float32
		end[i] = axisLength
		s.axisLines[i] = [][3]float32{{0, 0, 0}, end}
	}
	return s
}

func (s *scene) Name() string {
	return s.model.Name()
}

func (s *scene) Model() model.Model {
	return s.model
}

func (s *scene) Animations() []animation.Animation {
	return s.model.Animations()
}

func (s *scene) SetPose(clip int, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clip == s.clip && seconds == s.seconds && !s.dirty {
		return
	}
	s.clip = clip
	s.seconds = seconds
	s.dirty = true
}

func (s *scene) Pose() (int, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clip, s.seconds
}

func (s *scene) Render(ctx gfx.Context, view compositor.View, _ camera.Controller) {
	s.mu.Lock()
	s.rebuild()
	bones, boxes := s.boneLines, s.boxLines
	s.mu.Unlock()

	if s.showGrid {
		ctx.DrawLines(s.gridLines, GridColor)
	}
	for i, axis := range s.axisLines {
		ctx.DrawLines(axis, AxisColors[i])
	}
	if len(bones) > 0 {
		ctx.DrawLines(bones, BoneColor)
	}
	if s.showBounds && len(boxes) > 0 {
		ctx.DrawLines(boxes, BoundsColor)
	}
}

// rebuild resamples the pose and regenerates the model line lists. Callers hold mu.
func (s *scene) rebuild() {
	if !s.dirty {
		return
	}
	s.dirty = false

	pose := s.model.Pose(s.clip, s.seconds)
	for i := range pose {
		pose[i] = s.fit.Mul4(pose[i])
	}

	nodes := s.model.Nodes()
	s.boneLines = s.boneLines[:0]
	s.boxLines = s.boxLines[:0]
	for i, n := range nodes {
		if n.Parent >= 0 {
			s.boneLines = append(s.boneLines, point(pose[n.Parent].Col(3).Vec3()), point(pose[i].Col(3).Vec3()))
		}
		if n.Bounds != nil {
			s.boxLines = appendBox(s.boxLines, *n.Bounds, pose[i])
		}
	}
}

// fitMatrix centers the model's rest bounds on the vertical axis, puts its lowest point on the
// ground plane and scales its largest extent to fitSize.
func fitMatrix(m model.Model) mgl32.Mat4 {
	b, ok := m.Bounds()
	if !ok {
		return mgl32.Ident4()
	}
	extent := max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1], b.Max[2]-b.Min[2])
	scale := float32(1)
	if extent > 0 {
		scale = fitSize / extent
	}
	cx := (b.Min[0] + b.Max[0]) / 2
	cz := (b.Min[2] + b.Max[2]) / 2
	return mgl32.Scale3D(scale, scale, scale).Mul4(mgl32.Translate3D(-cx, -b.Min[1], -cz))
}

func gridLines(extent int) [][3]float32 {
	half := float32(extent) * gridSpacing
	lines := make([][3]float32, 0, (4*extent+2)*2)
	for i := -extent; i <= extent; i++ {
		v := float32(i) * gridSpacing
		lines = append(lines,
			[3]float32{v, 0, -half}, [3]float32{v, 0, half},
			[3]float32{-half, 0, v}, [3]float32{half, 0, v},
		)
	}
	return lines
}

// boxEdges lists the corner index pairs of the twelve edges of a box, using AABB.Corners numbering.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func appendBox(lines [][3]float32, b model.AABB, world mgl32.Mat4) [][3]float32 {
	corners := b.Corners()
	for _, e := range boxEdges {
		lines = append(lines,
			point(mgl32.TransformCoordinate(corners[e[0]], world)),
			point(mgl32.TransformCoordinate(corners[e[1]], world)),
		)
	}
	return lines
}

func point(v mgl32.Vec3) [3]float32 {
	return [3]float32(v)
}
