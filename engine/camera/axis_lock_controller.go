package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// axisLockController looks down one world axis at a target. Dragging pans in the
// view plane and scrolling changes the distance; the viewing direction never rotates.
type axisLockController struct {
	mu *sync.Mutex

	mode    Mode
	initial controllerSettings

	axis mgl32.Vec3
	up   mgl32.Vec3

	target   mgl32.Vec3
	distance float32

	minDistance float32
	maxDistance float32
	zoomSpeed   float32
	panSpeed    float32
}

var _ Controller = &axisLockController{}

func newAxisLockController(mode Mode, s controllerSettings) *axisLockController {
	ac := &axisLockController{
		mu:      &sync.Mutex{},
		mode:    mode,
		initial: s,
		up:      mgl32.Vec3{0, 1, 0},
	}
	switch mode {
	case ModeAxisLockX:
		ac.axis = mgl32.Vec3{1, 0, 0}
	case ModeAxisLockY:
		// Looking straight down Y needs an up vector off the Y axis.
		ac.axis = mgl32.Vec3{0, 1, 0}
		ac.up = mgl32.Vec3{0, 0, -1}
	default:
		ac.axis = mgl32.Vec3{0, 0, 1}
	}
	ac.apply(s)
	return ac
}

func (ac *axisLockController) apply(s controllerSettings) {
	ac.target = mgl32.Vec3(s.target)
	ac.minDistance = s.minRadius
	ac.maxDistance = s.maxRadius
	ac.distance = common.Clamp(s.radius, s.minRadius, s.maxRadius)
	ac.zoomSpeed = s.zoomSpeed
	ac.panSpeed = s.panSpeed
}

func (ac *axisLockController) eye() mgl32.Vec3 {
	return ac.target.Add(ac.axis.Mul(ac.distance))
}

func (ac *axisLockController) Mode() Mode {
	return ac.mode
}

func (ac *axisLockController) Update(in Input) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.distance = common.Clamp(ac.distance-in.Scroll*ac.zoomSpeed, ac.minDistance, ac.maxDistance)

	dx := in.DragX + in.PanX
	dy := in.DragY + in.PanY
	if dx == 0 && dy == 0 {
		return
	}
	forward := ac.axis.Mul(-1)
	right := forward.Cross(ac.up).Normalize()
	scale := ac.panSpeed * ac.distance
	ac.target = ac.target.Sub(right.Mul(dx * scale)).Add(ac.up.Mul(dy * scale))
}

func (ac *axisLockController) ViewMatrix() [16]float32 {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return [16]float32(mgl32.LookAtV(ac.eye(), ac.target, ac.up))
}

func (ac *axisLockController) Reset() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.apply(ac.initial)
}
