package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// orbitController rotates around a target on spherical coordinates (radius, azimuth, elevation).
// Panning translates both position and target along the camera's local axes,
// preserving the orbit relationship.
type orbitController struct {
	mu *sync.Mutex

	initial controllerSettings

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // around Y
	elevation float32 // from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
}

var _ Controller = &orbitController{}

func newOrbitController(s controllerSettings) *orbitController {
	oc := &orbitController{
		mu:           &sync.Mutex{},
		initial:      s,
		minElevation: -math32.Pi/2 + 0.05,
		maxElevation: math32.Pi/2 - 0.05,
	}
	oc.apply(s)
	return oc
}

// apply loads settings into the live state. Caller must hold the mutex or own oc exclusively.
func (oc *orbitController) apply(s controllerSettings) {
	oc.target = s.target
	oc.radius = s.radius
	oc.azimuth = s.azimuth
	oc.elevation = s.elevation
	oc.minRadius = s.minRadius
	oc.maxRadius = s.maxRadius
	oc.orbitSpeed = s.orbitSpeed
	oc.mouseSensitivity = s.mouseSensitivity
	oc.zoomSpeed = s.zoomSpeed
	oc.panSpeed = s.panSpeed
	oc.radius = common.Clamp(oc.radius, oc.minRadius, oc.maxRadius)
	oc.elevation = common.Clamp(oc.elevation, oc.minElevation, oc.maxElevation)
	oc.updatePosition()
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (oc *orbitController) updatePosition() {
	cosElev := math32.Cos(oc.elevation)
	sinElev := math32.Sin(oc.elevation)
	cosAzim := math32.Cos(oc.azimuth)
	sinAzim := math32.Sin(oc.azimuth)

	oc.position[0] = oc.target[0] + oc.radius*cosElev*sinAzim
	oc.position[1] = oc.target[1] + oc.radius*sinElev
	oc.position[2] = oc.target[2] + oc.radius*cosElev*cosAzim
}

// localAxes computes the right and up axes consistent with the LookAt matrix.
// If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (oc *orbitController) localAxes() (right, up [3]float32) {
	bx := oc.position[0] - oc.target[0]
	by := oc.position[1] - oc.target[1]
	bz := oc.position[2] - oc.target[2]
	bLen := math32.Sqrt(bx*bx + by*by + bz*bz)
	if bLen < 1e-8 {
		return
	}
	bx /= bLen
	by /= bLen
	bz /= bLen

	// right = normalize(cross((0,1,0), backward)) = (bz, 0, -bx)
	rx, rz := bz, -bx
	rLen := math32.Sqrt(rx*rx + rz*rz)
	if rLen < 1e-8 {
		return
	}
	rx /= rLen
	rz /= rLen

	right = [3]float32{rx, 0, rz}
	// up = cross(backward, right)
	up = [3]float32{by * rz, bz*rx - bx*rz, -by * rx}
	return
}

func (oc *orbitController) Mode() Mode {
	return ModeOrbit
}

func (oc *orbitController) Update(in Input) {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	oc.azimuth -= in.DragX * oc.mouseSensitivity
	oc.elevation += in.DragY * oc.mouseSensitivity

	if in.Move.Has(MoveLeft) {
		oc.azimuth -= oc.orbitSpeed
	}
	if in.Move.Has(MoveRight) {
		oc.azimuth += oc.orbitSpeed
	}
	if in.Move.Has(MoveUp) {
		oc.elevation += oc.orbitSpeed
	}
	if in.Move.Has(MoveDown) {
		oc.elevation -= oc.orbitSpeed
	}
	oc.elevation = common.Clamp(oc.elevation, oc.minElevation, oc.maxElevation)

	zoom := in.Scroll
	if in.Move.Has(MoveForward) {
		zoom++
	}
	if in.Move.Has(MoveBack) {
		zoom--
	}
	oc.radius = common.Clamp(oc.radius-zoom*oc.zoomSpeed, oc.minRadius, oc.maxRadius)
	oc.updatePosition()

	if in.PanX != 0 || in.PanY != 0 {
		right, up := oc.localAxes()
		scale := oc.panSpeed * oc.radius
		for i := range 3 {
			d := -right[i]*in.PanX*scale + up[i]*in.PanY*scale
			oc.target[i] += d
			oc.position[i] += d
		}
	}
}

func (oc *orbitController) ViewMatrix() [16]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()

	var m [16]float32
	common.LookAt(m[:],
		oc.position[0], oc.position[1], oc.position[2],
		oc.target[0], oc.target[1], oc.target[2],
		0, 1, 0,
	)
	return m
}

func (oc *orbitController) Reset() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.apply(oc.initial)
}
