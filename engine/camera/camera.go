package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

const (
	// DefaultFov is the vertical field of view used for every viewport (45 degrees).
	DefaultFov = float32(45.0 * math.Pi / 180.0)

	DefaultNear = 0.001
	DefaultFar  = 100.0
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller Controller
}

// Camera holds the perspective settings of one viewport and computes view/projection
// matrices from an attached Controller each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - [16]float32: the view matrix (column-major)
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the projection matrix computed by the last Update.
	//
	// Returns:
	//   - [16]float32: the projection matrix (column-major)
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - [16]float32: the combined matrix (column-major)
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached Controller, or nil.
	//
	// Returns:
	//   - Controller: the attached controller or nil
	Controller() Controller

	// SetController attaches a Controller.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl Controller)

	// SetAspect sets the aspect ratio of the viewport the camera renders into.
	//
	// Parameters:
	//   - aspect: width / height (ignored if not positive)
	SetAspect(aspect float32)

	// Update recomputes all matrices from the controller. No-op without a controller.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the viewport defaults (45 degree fov, near 0.001, far 100).
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    DefaultFov,
		aspect: 1.0,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if !(aspect > 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex (or own c exclusively).
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}
	c.viewMatrix = c.controller.ViewMatrix()
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
