// Package model provides the scene geometry: vertices, triangles and the
// model tree with immediate rigid transforms and texture bindings.
package model

import (
	gomath "math"

	"github.com/Faultbox/midgard-raster/internal/engine/texture"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Vertex is a mesh vertex in world space.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Color    math.Vec3
	UV       math.Vec2
}

// Triangle is three vertices, counter-clockwise when seen from the front.
type Triangle struct {
	V [3]Vertex
}

// FaceNormal returns the unit geometric normal of the triangle.
func (t Triangle) FaceNormal() math.Vec3 {
	e1 := t.V[1].Position.Sub(t.V[0].Position)
	e2 := t.V[2].Position.Sub(t.V[0].Position)
	return math.Normalize(e1.Cross(e2))
}

// Slot identifies one of the texture bindings of a model.
type Slot int

// Texture slots.
const (
	SlotDiffuse Slot = iota
	SlotSpecular
	SlotNormal
	SlotGlow

	NumSlots
)

var slotNames = [NumSlots]string{"diffuse", "specular", "normal", "glow"}

// String returns the slot name.
func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return "unknown"
	}
	return slotNames[s]
}

// ParseSlot returns the slot with the given name.
func ParseSlot(name string) (Slot, bool) {
	for i, n := range slotNames {
		if n == name {
			return Slot(i), true
		}
	}
	return 0, false
}

// Textures holds one optional texture per slot.
type Textures [NumSlots]*texture.Texture

// Inherit returns t with empty slots filled from parent.
func (t Textures) Inherit(parent Textures) Textures {
	for i, tex := range t {
		if tex == nil {
			t[i] = parent[i]
		}
	}
	return t
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBounds returns bounds that any point will extend.
func EmptyBounds() Bounds {
	inf := gomath.Inf(1)
	return Bounds{
		Min: math.Vec3{inf, inf, inf},
		Max: math.Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows b to contain p.
func (b Bounds) Extend(p math.Vec3) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = gomath.Min(b.Min[i], p[i])
		b.Max[i] = gomath.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the center point of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b Bounds) Radius() float64 {
	return b.Max.Sub(b.Min).Len() / 2
}
