package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// importModel builds a model.Model from a parsed glTF document.
func importModel(parser gltfParser, name string) (model.Model, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	nodes, err := extractNodes(doc)
	if err != nil {
		return nil, err
	}
	clips, err := extractClips(parser)
	if err != nil {
		return nil, err
	}

	return model.NewModel(
		model.WithName(name),
		model.WithNodes(nodes...),
		model.WithClips(clips...),
	)
}

// extractNodes resolves parents from the children lists and reads rest transforms and mesh extents.
func extractNodes(doc *gltfDocument) ([]model.Node, error) {
	nodes := make([]model.Node, len(doc.Nodes))
	for i := range nodes {
		nodes[i].Parent = -1
	}

	for i, n := range doc.Nodes {
		nodes[i].Name = n.Name
		if nodes[i].Name == "" {
			nodes[i].Name = fmt.Sprintf("node_%d", i)
		}
		nodes[i].Rest = restTransform(n)

		for _, c := range n.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			if nodes[c].Parent >= 0 {
				return nil, fmt.Errorf("node %d has two parents (%d and %d)", c, nodes[c].Parent, i)
			}
			nodes[c].Parent = i
		}

		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return nil, fmt.Errorf("node %d: mesh index %d out of range", i, *n.Mesh)
			}
			b, err := meshBounds(doc, *n.Mesh)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			nodes[i].Bounds = b
		}
	}
	return nodes, nil
}

func restTransform(n gltfNode) model.Transform {
	t := model.IdentityTransform()
	if n.Matrix != nil {
		return decompose(mgl32.Mat4(*n.Matrix))
	}
	if n.Translation != nil {
		t.Translation = *n.Translation
	}
	if n.Rotation != nil {
		t.Rotation = *n.Rotation
	}
	if n.Scale != nil {
		t.Scale = *n.Scale
	}
	return t
}

// decompose splits an affine matrix without shear into translation, rotation and scale.
func decompose(m mgl32.Mat4) model.Transform {
	t := model.IdentityTransform()
	t.Translation = m.Col(3).Vec3()

	var rot mgl32.Mat3
	for c := 0; c < 3; c++ {
		axis := m.Col(c).Vec3()
		s := axis.Len()
		t.Scale[c] = s
		if s > 0 {
			axis = axis.Mul(1 / s)
		}
		rot.SetCol(c, axis)
	}
	if rot.Det() < 0 {
		t.Scale[0] = -t.Scale[0]
		rot.SetCol(0, rot.Col(0).Mul(-1))
	}

	q := mgl32.Mat4ToQuat(rot.Mat4()).Normalize()
	t.Rotation = [4]float32{q.V[0], q.V[1], q.V[2], q.W}
	return t
}

// meshBounds unions the POSITION extents of every primitive of a mesh.
func meshBounds(doc *gltfDocument, mesh int) (*model.AABB, error) {
	var box *model.AABB
	for pi, prim := range doc.Meshes[mesh].Primitives {
		ai, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		if ai < 0 || ai >= len(doc.Accessors) {
			return nil, fmt.Errorf("mesh %d primitive %d: POSITION accessor %d out of range", mesh, pi, ai)
		}
		acc := &doc.Accessors[ai]
		if len(acc.Min) != 3 || len(acc.Max) != 3 {
			return nil, fmt.Errorf("mesh %d primitive %d: POSITION accessor has no min/max", mesh, pi)
		}
		if box == nil {
			box = &model.AABB{Min: [3]float32(acc.Min), Max: [3]float32(acc.Max)}
			continue
		}
		for k := 0; k < 3; k++ {
			box.Min[k] = min(box.Min[k], acc.Min[k])
			box.Max[k] = max(box.Max[k], acc.Max[k])
		}
	}
	return box, nil
}
