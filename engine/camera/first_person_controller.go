package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// maxPitchDegrees keeps the view direction off the world up axis.
const maxPitchDegrees = 88.0

// firstPersonController moves freely with WASD/arrows and looks around by dragging.
// Horizontal movement ignores pitch so strafing stays level.
type firstPersonController struct {
	mu *sync.Mutex

	initial controllerSettings

	position mgl32.Vec3
	yaw      float32 // degrees, 0 = +X
	pitch    float32 // degrees

	lookSpeed float32 // degrees per dragged pixel
	moveSpeed float32
	zoomSpeed float32
}

var _ Controller = &firstPersonController{}

func newFirstPersonController(s controllerSettings) *firstPersonController {
	fc := &firstPersonController{
		mu:      &sync.Mutex{},
		initial: s,
	}
	fc.apply(s)
	return fc
}

// apply places the camera on the orbit sphere described by s, facing the target.
func (fc *firstPersonController) apply(s controllerSettings) {
	cosElev := math32.Cos(s.elevation)
	offset := mgl32.Vec3{
		s.radius * cosElev * math32.Sin(s.azimuth),
		s.radius * math32.Sin(s.elevation),
		s.radius * cosElev * math32.Cos(s.azimuth),
	}
	target := mgl32.Vec3(s.target)
	fc.position = target.Add(offset)

	dir := offset.Mul(-1)
	if l := dir.Len(); l > 1e-6 {
		dir = dir.Mul(1 / l)
		fc.pitch = mgl32.RadToDeg(math32.Asin(common.Clamp(dir.Y(), -1, 1)))
		fc.yaw = mgl32.RadToDeg(math32.Atan2(dir.Z(), dir.X()))
	} else {
		fc.pitch, fc.yaw = 0, -90
	}
	fc.pitch = common.Clamp(fc.pitch, -maxPitchDegrees, maxPitchDegrees)

	fc.lookSpeed = mgl32.RadToDeg(s.mouseSensitivity)
	fc.moveSpeed = s.moveSpeed
	fc.zoomSpeed = s.zoomSpeed
}

// forward returns the unit view direction. Caller must hold the mutex.
func (fc *firstPersonController) forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(fc.yaw)
	pitch := mgl32.DegToRad(fc.pitch)
	return mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
}

func (fc *firstPersonController) Mode() Mode {
	return ModeFirstPerson
}

func (fc *firstPersonController) Update(in Input) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.yaw += in.DragX * fc.lookSpeed
	fc.pitch = common.Clamp(fc.pitch-in.DragY*fc.lookSpeed, -maxPitchDegrees, maxPitchDegrees)

	yaw := mgl32.DegToRad(fc.yaw)
	level := mgl32.Vec3{math32.Cos(yaw), 0, math32.Sin(yaw)}
	right := mgl32.Vec3{-math32.Sin(yaw), 0, math32.Cos(yaw)}
	worldUp := mgl32.Vec3{0, 1, 0}

	var move mgl32.Vec3
	if in.Move.Has(MoveForward) {
		move = move.Add(level)
	}
	if in.Move.Has(MoveBack) {
		move = move.Sub(level)
	}
	if in.Move.Has(MoveRight) {
		move = move.Add(right)
	}
	if in.Move.Has(MoveLeft) {
		move = move.Sub(right)
	}
	if in.Move.Has(MoveUp) {
		move = move.Add(worldUp)
	}
	if in.Move.Has(MoveDown) {
		move = move.Sub(worldUp)
	}
	if l := move.Len(); l > 0 {
		fc.position = fc.position.Add(move.Mul(fc.moveSpeed * in.DeltaTime / l))
	}

	if in.Scroll != 0 {
		fc.position = fc.position.Add(fc.forward().Mul(in.Scroll * fc.zoomSpeed))
	}
	if in.PanX != 0 || in.PanY != 0 {
		fc.position = fc.position.Sub(right.Mul(in.PanX * fc.moveSpeed * 0.01)).Add(worldUp.Mul(in.PanY * fc.moveSpeed * 0.01))
	}
}

func (fc *firstPersonController) ViewMatrix() [16]float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	center := fc.position.Add(fc.forward())
	return [16]float32(mgl32.LookAtV(fc.position, center, mgl32.Vec3{0, 1, 0}))
}

func (fc *firstPersonController) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.apply(fc.initial)
}
