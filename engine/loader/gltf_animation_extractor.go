package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// extractClips converts every glTF animation into a model.Clip. Channels are merged per node;
// channels without a node target (morph weights) are skipped.
func extractClips(parser gltfParser) ([]model.Clip, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	clips := make([]model.Clip, 0, len(doc.Animations))
	for ai := range doc.Animations {
		clip, err := extractClip(parser, ai)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func extractClip(parser gltfParser, animIndex int) (model.Clip, error) {
	doc := parser.Document()
	anim := &doc.Animations[animIndex]

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}
	clip := model.Clip{Name: name}

	byNode := make(map[int]int)
	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil {
			continue
		}
		node := *ch.Target.Node
		if node < 0 || node >= len(doc.Nodes) {
			return clip, fmt.Errorf("animation %q channel %d: node index %d out of range", name, i, node)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return clip, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		var width int
		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			width = 3
		case gltfAnimPathRotation:
			width = 4
		default:
			continue
		}

		times, err := parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
		if err != nil {
			return clip, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", name, i, err)
		}
		elemType := gltfAccessorTypeVec3
		if width == 4 {
			elemType = gltfAccessorTypeVec4
		}
		values, err := parser.ReadFloats(sampler.Output, elemType)
		if err != nil {
			return clip, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", name, i, ch.Target.Path, err)
		}
		values = keyValues(values, width, len(times), sampler.Interpolation)
		times, values = stepKeys(times, values, width, sampler.Interpolation)

		if n := len(times); n > 0 && times[n-1] > clip.Duration {
			clip.Duration = times[n-1]
		}

		idx, ok := byNode[node]
		if !ok {
			idx = len(clip.Channels)
			byNode[node] = idx
			clip.Channels = append(clip.Channels, model.Channel{Node: node})
		}
		target := &clip.Channels[idx]

		count := min(len(times), len(values)/width)
		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			target.PositionKeys = vectorKeys(times, values, count)
		case gltfAnimPathScale:
			target.ScaleKeys = vectorKeys(times, values, count)
		case gltfAnimPathRotation:
			keys := make([]model.QuaternionKeyframe, count)
			for k := range keys {
				keys[k] = model.QuaternionKeyframe{
					Time:  times[k],
					Value: [4]float32{values[k*4], values[k*4+1], values[k*4+2], values[k*4+3]},
				}
			}
			target.RotationKeys = keys
		}
	}
	return clip, nil
}

// keyValues drops the in/out tangents of cubic spline samplers, keeping one value per key.
func keyValues(values []float32, width, keys int, interpolation string) []float32 {
	if interpolation != gltfAnimInterpolationCubicSpline || len(values) < keys*width*3 {
		return values
	}
	out := make([]float32, 0, keys*width)
	for k := 0; k < keys; k++ {
		start := (k*3 + 1) * width
		out = append(out, values[start:start+width]...)
	}
	return out
}

// stepKeys turns STEP sampling into linear sampling by holding each value until just before the next key.
func stepKeys(times, values []float32, width int, interpolation string) ([]float32, []float32) {
	if interpolation != gltfAnimInterpolationStep || len(times) < 2 {
		return times, values
	}
	const hold = 1e-4
	outT := make([]float32, 0, len(times)*2)
	outV := make([]float32, 0, len(values)*2)
	for k := range times {
		if len(values) < (k+1)*width {
			break
		}
		v := values[k*width : (k+1)*width]
		outT = append(outT, times[k])
		outV = append(outV, v...)
		if k+1 < len(times) && times[k+1]-hold > times[k] {
			outT = append(outT, times[k+1]-hold)
			outV = append(outV, v...)
		}
	}
	return outT, outV
}

func vectorKeys(times, values []float32, count int) []model.VectorKeyframe {
	keys := make([]model.VectorKeyframe, count)
	for k := range keys {
		keys[k] = model.VectorKeyframe{
			Time:  times[k],
			Value: [3]float32{values[k*3], values[k*3+1], values[k*3+2]},
		}
	}
	return keys
}
