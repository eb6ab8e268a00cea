// Package geom holds the small vector types shared by the engine packages.
// World space is y-up: positive Y points towards the top of the window.
package geom

import "math"

// Vec2 is a 2D float vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D float vector. Z orders sprites: larger Z draws on top.
type Vec3 struct {
	X, Y, Z float32
}

// UVec2 is an unsigned grid coordinate.
type UVec2 struct {
	X, Y uint32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewUVec2(x, y uint32) UVec2 {
	return UVec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Extend lifts v into 3D with the given z.
func (v Vec2) Extend(z float32) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Truncate drops the z component.
func (v Vec3) Truncate() Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

// Adjacent reports whether a and b are orthogonal neighbours on a grid.
func (u UVec2) Adjacent(o UVec2) bool {
	dx := int64(u.X) - int64(o.X)
	dy := int64(u.Y) - int64(o.Y)
	return (dx == 0 && (dy == 1 || dy == -1)) || (dy == 0 && (dx == 1 || dx == -1))
}

// Pack encodes u as a single key, x in the upper 32 bits.
func (u UVec2) Pack() uint64 {
	return uint64(u.X)<<32 | uint64(u.Y)
}

// UnpackUVec2 reverses Pack.
func UnpackUVec2(key uint64) UVec2 {
	return UVec2{X: uint32(key >> 32), Y: uint32(key & 0xFFFFFFFF)}
}
