package model

import (
	"github.com/Faultbox/midgard-raster/internal/engine/texture"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Model is a node of the scene tree. It owns its triangles and children;
// transforms are baked into vertex data immediately and propagate to the
// whole subtree.
type Model struct {
	Name string

	triangles []Triangle
	children  []*Model
	parent    *Model
	position  math.Vec3
	scale     float64
	textures  Textures
}

// New creates an empty model at the origin with scale 1.
func New(name string) *Model {
	return &Model{Name: name, scale: 1}
}

// AddTriangles appends triangles to the model.
func (m *Model) AddTriangles(tris ...Triangle) {
	m.triangles = append(m.triangles, tris...)
}

// Add attaches child to the model. A child that already has a parent, or
// whose subtree contains m, is ignored: every node has at most one parent
// and the tree never has cycles.
func (m *Model) Add(child *Model) {
	if child == nil || child.parent != nil || child.contains(m) {
		return
	}
	child.parent = m
	m.children = append(m.children, child)
}

// Parent returns the node child was added to, or nil for a root.
func (m *Model) Parent() *Model { return m.parent }

func (m *Model) contains(target *Model) bool {
	if m == target {
		return true
	}
	for _, c := range m.children {
		if c.contains(target) {
			return true
		}
	}
	return false
}

// Triangles returns the model's own triangles.
func (m *Model) Triangles() []Triangle { return m.triangles }

// Children returns the direct children.
func (m *Model) Children() []*Model { return m.children }

// Position returns the net translation baked into the vertex data.
func (m *Model) Position() math.Vec3 { return m.position }

// Scale returns the accumulated uniform scale.
func (m *Model) Scale() float64 { return m.scale }

// SetPosition moves the model (and its subtree) so that its position is p.
func (m *Model) SetPosition(p math.Vec3) {
	m.apply(math.Translate(p.Sub(m.position)), 1)
}

// SetScale rescales the model about its position to the absolute scale s.
// Non-positive scales are ignored.
func (m *Model) SetScale(s float64) {
	if s <= 0 {
		return
	}
	f := s / m.scale
	mat := math.Translate(m.position).
		Mul4(math.UniformScale(f)).
		Mul4(math.Translate(m.position.Mul(-1)))
	m.apply(mat, f)
}

// Rotate rotates the model about its position. angle is in degrees and
// axis need not be normalized.
func (m *Model) Rotate(axis math.Vec3, angle float64) {
	m.apply(math.RotateAbout(m.position, axis, angle), 1)
}

// Transform applies an arbitrary affine matrix to the subtree.
// Positions use mat, normals its inverse transpose.
func (m *Model) Transform(mat math.Mat4) {
	m.apply(mat, 1)
}

func (m *Model) apply(mat math.Mat4, scaleFactor float64) {
	nm := math.NormalMatrix(mat)
	m.walkNodes(func(node *Model) {
		for i := range node.triangles {
			for k := range node.triangles[i].V {
				v := &node.triangles[i].V[k]
				v.Position = math.TransformPoint(mat, v.Position)
				v.Normal = math.TransformNormal(nm, v.Normal)
			}
		}
		node.position = math.TransformPoint(mat, node.position)
		node.scale *= scaleFactor
	})
}

func (m *Model) walkNodes(fn func(*Model)) {
	fn(m)
	for _, c := range m.children {
		c.walkNodes(fn)
	}
}

// SetTexture binds tex to slot. A nil texture clears the binding.
func (m *Model) SetTexture(slot Slot, tex *texture.Texture) {
	if slot < 0 || slot >= NumSlots {
		return
	}
	m.textures[slot] = tex
}

// Texture returns the texture bound to slot, or nil.
func (m *Model) Texture(slot Slot) *texture.Texture {
	if slot < 0 || slot >= NumSlots {
		return nil
	}
	return m.textures[slot]
}

// Textures returns the model's own bindings.
func (m *Model) Textures() Textures { return m.textures }

// Walk visits the subtree depth-first. Each node is passed together with
// its effective textures: its own bindings, with empty slots inherited
// from the nearest ancestor that has one.
func (m *Model) Walk(fn func(node *Model, textures Textures)) {
	m.walk(Textures{}, fn)
}

func (m *Model) walk(inherited Textures, fn func(*Model, Textures)) {
	eff := m.textures.Inherit(inherited)
	fn(m, eff)
	for _, c := range m.children {
		c.walk(eff, fn)
	}
}

// TriangleCount returns the number of triangles in the subtree.
func (m *Model) TriangleCount() int {
	n := 0
	m.walkNodes(func(node *Model) { n += len(node.triangles) })
	return n
}

// Bounds returns the bounding box of every vertex in the subtree.
func (m *Model) Bounds() Bounds {
	b := EmptyBounds()
	m.walkNodes(func(node *Model) {
		for _, t := range node.triangles {
			for _, v := range t.V {
				b = b.Extend(v.Position)
			}
		}
	})
	return b
}
