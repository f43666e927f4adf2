package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform & Node Types ---

// Transform is a decomposed local transform.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
}

// Matrix composes the transform as T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2])
	rot := quat(t.Rotation).Normalize().Mat4()
	sc := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(rot).Mul4(sc)
}

// AABB is an axis-aligned box in a node's local space.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// Node is one element of the model hierarchy.
type Node struct {
	// Name is the node identifier.
	Name string

	// Parent is the index of the parent node, -1 for roots.
	Parent int

	// Rest is the transform relative to the parent when no clip is applied.
	Rest Transform

	// Bounds is the local-space extent of the node's mesh, nil for nodes without geometry.
	Bounds *AABB
}

// --- Animation Types ---

// Clip is one named animation over node transforms.
type Clip struct {
	// Name is the clip identifier.
	Name string

	// Duration is the clip length in seconds.
	Duration float32

	// Channels holds keyframes per animated node.
	Channels []Channel
}

// Channel holds the keyframes of one node. Empty key lists keep the rest value.
type Channel struct {
	Node         int
	PositionKeys []VectorKeyframe
	RotationKeys []QuaternionKeyframe
	ScaleKeys    []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a timestamp in seconds.
type VectorKeyframe struct {
	Time  float32
	Value [3]float32
}

// QuaternionKeyframe stores a rotation (x, y, z, w) at a timestamp in seconds.
type QuaternionKeyframe struct {
	Time  float32
	Value [4]float32
}

func quat(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
}

func quatArray(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}
