package game

import "github.com/firebitsbr/singularity/ecs"

// Arena bounds in world units. The origin is the bottom-left corner.
const (
	ArenaWidth  float32 = 1600
	ArenaHeight float32 = 900
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
}

// Transform places an entity in the world. Z is the draw layer and is fixed at
// creation.
type Transform struct {
	X, Y  float32
	Z     float32 `inspect:"readonly"`
	Scale float32
}

// RenderHandle identifies a sprite group loaded by a Renderer.
type RenderHandle uint32

// SpriteRef selects one sprite of a loaded sprite group.
type SpriteRef struct {
	Handle RenderHandle `inspect:"readonly"`
	Index  int
}

// Tint is a linear RGBA colour multiplier with straight alpha.
type Tint struct {
	R, G, B, A float32
}

// Premultiplied returns the tint with its colour channels scaled by alpha, the
// form renderers with premultiplied blending expect.
func (t Tint) Premultiplied() Tint {
	return Tint{R: t.R * t.A, G: t.G * t.A, B: t.B * t.A, A: t.A}
}

type PlatformAttributes struct {
	Variant PlatformKind
}

type ResourceAttributes struct {
	Variant ResourceKind
}

// UnitAttributes describes a mobile unit. Its initial Velocity is Heading*Speed.
type UnitAttributes struct {
	Variant UnitKind
	Speed   float32
	Heading Vec2
}

// Velocity in world units per second.
type Velocity struct {
	DX, DY float32
}

// Camera is an orthographic 2D camera covering Width x Height world units.
type Camera struct {
	Width, Height float32
}

// Arena is the singleton holding the playfield bounds.
type Arena struct {
	Width, Height float32
}

// DefaultArena returns the standard 1600x900 playfield.
func DefaultArena() Arena {
	return Arena{Width: ArenaWidth, Height: ArenaHeight}
}

// Contains reports whether (x, y) lies inside the arena, edges included.
func (a Arena) Contains(x, y float32) bool {
	return x >= 0 && y >= 0 && x <= a.Width && y <= a.Height
}

// RegisterComponents registers every component table of the game package.
func RegisterComponents(storage *ecs.Storage) {
	ecs.Register[Transform](storage)
	ecs.Register[SpriteRef](storage)
	ecs.Register[Tint](storage)
	ecs.Register[PlatformAttributes](storage)
	ecs.Register[ResourceAttributes](storage)
	ecs.Register[UnitAttributes](storage)
	ecs.Register[Velocity](storage)
	ecs.Register[Camera](storage)
	ecs.Register[ecs.Parent](storage)
}
