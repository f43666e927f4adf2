package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// DemoName is the name that opens the built-in walker.
const DemoName = "demo"

const (
	demoHips = iota
	demoSpine
	demoHead
	demoLeftArm
	demoLeftForearm
	demoRightArm
	demoRightForearm
	demoLeftThigh
	demoLeftShin
	demoRightThigh
	demoRightShin
)

// keyCount is the number of keyframes sampled per clip.
const keyCount = 16

// NewDemoModel builds a stick figure with a "Walk" and a "Wave" clip.
//
// Returns:
//   - model.Model: the demo model
//   - error: error if the hierarchy is invalid
func NewDemoModel() (model.Model, error) {
	at := func(x, y, z float32) model.Transform {
		t := model.IdentityTransform()
		t.Translation = [3]float32{x, y, z}
		return t
	}
	head := &model.AABB{Min: [3]float32{-0.1, 0, -0.1}, Max: [3]float32{0.1, 0.22, 0.1}}

	nodes := []model.Node{
		demoHips:         {Name: "hips", Parent: -1, Rest: at(0, 0.95, 0)},
		demoSpine:        {Name: "spine", Parent: demoHips, Rest: at(0, 0.5, 0)},
		demoHead:         {Name: "head", Parent: demoSpine, Rest: at(0, 0.1, 0), Bounds: head},
		demoLeftArm:      {Name: "arm.L", Parent: demoSpine, Rest: at(0.22, 0, 0)},
		demoLeftForearm:  {Name: "forearm.L", Parent: demoLeftArm, Rest: at(0, -0.3, 0)},
		demoRightArm:     {Name: "arm.R", Parent: demoSpine, Rest: at(-0.22, 0, 0)},
		demoRightForearm: {Name: "forearm.R", Parent: demoRightArm, Rest: at(0, -0.3, 0)},
		demoLeftThigh:    {Name: "thigh.L", Parent: demoHips, Rest: at(0.12, 0, 0)},
		demoLeftShin:     {Name: "shin.L", Parent: demoLeftThigh, Rest: at(0, -0.45, 0)},
		demoRightThigh:   {Name: "thigh.R", Parent: demoHips, Rest: at(-0.12, 0, 0)},
		demoRightShin:    {Name: "shin.R", Parent: demoRightThigh, Rest: at(0, -0.45, 0)},
	}
	// Limb ends, so the lowest joints draw a segment too.
	for _, end := range []struct {
		name   string
		parent int
		length float32
	}{
		{"hand.L", demoLeftForearm, 0.28},
		{"hand.R", demoRightForearm, 0.28},
		{"foot.L", demoLeftShin, 0.45},
		{"foot.R", demoRightShin, 0.45},
	} {
		nodes = append(nodes, model.Node{Name: end.name, Parent: end.parent, Rest: at(0, -end.length, 0)})
	}

	return model.NewModel(
		model.WithName(DemoName),
		model.WithNodes(nodes...),
		model.WithClips(walkClip(), waveClip()),
	)
}

// swing returns rotation keys about axis following offset + amplitude*sin(2π*cycles*t/duration + phase).
func swing(duration float32, cycles float64, axis mgl32.Vec3, amplitude, phase, offset float64) []model.QuaternionKeyframe {
	keys := make([]model.QuaternionKeyframe, keyCount+1)
	for k := range keys {
		t := duration * float32(k) / keyCount
		angle := offset + amplitude*math.Sin(2*math.Pi*cycles*float64(t/duration)+phase)
		q := mgl32.QuatRotate(float32(angle), axis)
		keys[k] = model.QuaternionKeyframe{Time: t, Value: [4]float32{q.V[0], q.V[1], q.V[2], q.W}}
	}
	return keys
}

func walkClip() model.Clip {
	const d = 1.2
	x := mgl32.Vec3{1, 0, 0}
	bob := make([]model.VectorKeyframe, keyCount+1)
	for k := range bob {
		t := d * float32(k) / keyCount
		y := 0.95 + 0.03*math.Cos(4*math.Pi*float64(t/d))
		bob[k] = model.VectorKeyframe{Time: t, Value: [3]float32{0, float32(y), 0}}
	}
	return model.Clip{
		Name:     "Walk",
		Duration: d,
		Channels: []model.Channel{
			{Node: demoHips, PositionKeys: bob},
			{Node: demoLeftThigh, RotationKeys: swing(d, 1, x, 0.5, 0, 0)},
			{Node: demoRightThigh, RotationKeys: swing(d, 1, x, 0.5, math.Pi, 0)},
			{Node: demoLeftShin, RotationKeys: swing(d, 1, x, 0.35, -math.Pi/2, 0.35)},
			{Node: demoRightShin, RotationKeys: swing(d, 1, x, 0.35, math.Pi/2, 0.35)},
			{Node: demoLeftArm, RotationKeys: swing(d, 1, x, 0.4, math.Pi, 0)},
			{Node: demoRightArm, RotationKeys: swing(d, 1, x, 0.4, 0, 0)},
			{Node: demoLeftForearm, RotationKeys: swing(d, 1, x, 0.15, math.Pi, -0.3)},
			{Node: demoRightForearm, RotationKeys: swing(d, 1, x, 0.15, 0, -0.3)},
		},
	}
}

func waveClip() model.Clip {
	const d = 2
	return model.Clip{
		Name:     "Wave",
		Duration: d,
		Channels: []model.Channel{
			{Node: demoRightArm, RotationKeys: swing(d, 1, mgl32.Vec3{0, 0, 1}, 0.1, 0, -2.6)},
			{Node: demoRightForearm, RotationKeys: swing(d, 2, mgl32.Vec3{0, 0, 1}, 0.45, 0, 0)},
			{Node: demoHead, RotationKeys: swing(d, 1, mgl32.Vec3{0, 1, 0}, 0.25, 0, 0)},
		},
	}
}
