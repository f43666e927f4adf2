// Package model holds an imported node hierarchy with its animation clips and samples poses from it.
package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
)

// model is the implementation of the Model interface.
type model struct {
	name  string
	nodes []Node
	clips []Clip

	// order lists node indices with every parent ahead of its children.
	order []int
}

// Model is a node hierarchy with animation clips, as produced by the loader or built in code.
// A Model is immutable once built and safe for concurrent reads.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Nodes retrieves the node hierarchy.
	//
	// Returns:
	//   - []Node: the nodes, indexed as referenced by Node.Parent and Channel.Node
	Nodes() []Node

	// Clips retrieves the animation clips.
	//
	// Returns:
	//   - []Clip: the clips
	Clips() []Clip

	// Animations describes the clips for playback. Clip times are seconds, so each animation
	// reports one tick per second.
	//
	// Returns:
	//   - []animation.Animation: one entry per clip, in clip order
	Animations() []animation.Animation

	// Pose samples world matrices for every node.
	//
	// Parameters:
	//   - clip: the clip index, or -1 for the rest pose
	//   - seconds: the time within the clip, clamped to [0, duration]
	//
	// Returns:
	//   - []mgl32.Mat4: world matrices indexed like Nodes
	Pose(clip int, seconds float64) []mgl32.Mat4

	// Bounds returns the world-space box around the rest pose: node origins and mesh boxes.
	//
	// Returns:
	//   - AABB: the box
	//   - bool: false if the model has no nodes
	Bounds() (AABB, bool)
}

var _ Model = &model{}

// NewModel creates a model from the options and validates its hierarchy.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the model
//   - error: error if a parent or channel index is out of range or the hierarchy has a cycle
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{}
	for _, option := range options {
		option(m)
	}

	for i, n := range m.nodes {
		if n.Parent < -1 || n.Parent >= len(m.nodes) || n.Parent == i {
			return nil, fmt.Errorf("node %d (%s): parent index %d out of range", i, n.Name, n.Parent)
		}
	}
	for ci, c := range m.clips {
		for _, ch := range c.Channels {
			if ch.Node < 0 || ch.Node >= len(m.nodes) {
				return nil, fmt.Errorf("clip %d (%s): channel targets node %d of %d", ci, c.Name, ch.Node, len(m.nodes))
			}
		}
	}

	order, err := hierarchyOrder(m.nodes)
	if err != nil {
		return nil, err
	}
	m.order = order
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Nodes() []Node {
	return m.nodes
}

func (m *model) Clips() []Clip {
	return m.clips
}

func (m *model) Animations() []animation.Animation {
	anims := make([]animation.Animation, len(m.clips))
	for i, c := range m.clips {
		anims[i] = animation.NewClip(c.Name, float64(c.Duration), 1)
	}
	return anims
}

func (m *model) Pose(clip int, seconds float64) []mgl32.Mat4 {
	local := make([]Transform, len(m.nodes))
	for i, n := range m.nodes {
		local[i] = n.Rest
	}

	if clip >= 0 && clip < len(m.clips) {
		c := &m.clips[clip]
		t := float32(math.Max(0, math.Min(seconds, float64(c.Duration))))
		for _, ch := range c.Channels {
			tr := &local[ch.Node]
			tr.Translation = sampleVector(ch.PositionKeys, t, tr.Translation)
			tr.Rotation = sampleRotation(ch.RotationKeys, t, tr.Rotation)
			tr.Scale = sampleVector(ch.ScaleKeys, t, tr.Scale)
		}
	}

	world := make([]mgl32.Mat4, len(m.nodes))
	for _, i := range m.order {
		mat := local[i].Matrix()
		if p := m.nodes[i].Parent; p >= 0 {
			mat = world[p].Mul4(mat)
		}
		world[i] = mat
	}
	return world
}

func (m *model) Bounds() (AABB, bool) {
	if len(m.nodes) == 0 {
		return AABB{}, false
	}
	inf := float32(math.Inf(1))
	box := AABB{Min: [3]float32{inf, inf, inf}, Max: [3]float32{-inf, -inf, -inf}}
	grow := func(p mgl32.Vec3) {
		for k := 0; k < 3; k++ {
			box.Min[k] = min(box.Min[k], p[k])
			box.Max[k] = max(box.Max[k], p[k])
		}
	}

	for i, w := range m.Pose(-1, 0) {
		grow(w.Col(3).Vec3())
		if b := m.nodes[i].Bounds; b != nil {
			for _, c := range b.Corners() {
				grow(mgl32.TransformCoordinate(c, w))
			}
		}
	}
	return box, true
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				out[i][k] = b.Max[k]
			} else {
				out[i][k] = b.Min[k]
			}
		}
	}
	return out
}

// hierarchyOrder sorts nodes so that parents precede children.
func hierarchyOrder(nodes []Node) ([]int, error) {
	children := make([][]int, len(nodes))
	var queue []int
	for i, n := range nodes {
		if n.Parent < 0 {
			queue = append(queue, i)
		} else {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}

	order := make([]int, 0, len(nodes))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		queue = append(queue, children[i]...)
	}
	if len(order) != len(nodes) {
		return nil, fmt.Errorf("node hierarchy has a cycle: %d of %d nodes reachable from a root", len(order), len(nodes))
	}
	return order, nil
}

// keyIndex returns i such that times(i-1) <= t < times(i), for keys where t lies strictly inside the range.
func keyIndex(n int, t float32, at func(int) float32) int {
	return sort.Search(n, func(i int) bool { return at(i) > t })
}

func sampleVector(keys []VectorKeyframe, t float32, rest [3]float32) [3]float32 {
	switch {
	case len(keys) == 0:
		return rest
	case t <= keys[0].Time:
		return keys[0].Value
	case t >= keys[len(keys)-1].Time:
		return keys[len(keys)-1].Value
	}
	i := keyIndex(len(keys), t, func(i int) float32 { return keys[i].Time })
	a, b := keys[i-1], keys[i]
	f := (t - a.Time) / (b.Time - a.Time)
	return mgl32.Vec3(a.Value).Add(mgl32.Vec3(b.Value).Sub(mgl32.Vec3(a.Value)).Mul(f))
}

func sampleRotation(keys []QuaternionKeyframe, t float32, rest [4]float32) [4]float32 {
	switch {
	case len(keys) == 0:
		return rest
	case t <= keys[0].Time:
		return keys[0].Value
	case t >= keys[len(keys)-1].Time:
		return keys[len(keys)-1].Value
	}
	i := keyIndex(len(keys), t, func(i int) float32 { return keys[i].Time })
	a, b := keys[i-1], keys[i]
	f := (t - a.Time) / (b.Time - a.Time)
	qa, qb := quat(a.Value).Normalize(), quat(b.Value).Normalize()
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	return quatArray(mgl32.QuatSlerp(qa, qb, f))
}
