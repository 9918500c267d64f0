package game

import "github.com/firebitsbr/singularity/ecs"

// CreatePlatform spawns a platform at (x, y) tinted by its variant.
func CreatePlatform(attrs PlatformAttributes, storage *ecs.Storage, sprite SpriteRef, x, y float32) (ecs.EntityId, error) {
	tint, err := PlatformTint(attrs.Variant)
	if err != nil {
		return 0, err
	}
	RegisterComponents(storage)

	return storage.Spawn(
		Transform{X: x, Y: y, Z: LayerBasePlatform, Scale: PlatformScale},
		sprite,
		attrs,
		tint,
	), nil
}

// CreateResource spawns a resource deposit at (x, y).
func CreateResource(attrs ResourceAttributes, storage *ecs.Storage, sprite SpriteRef, x, y float32) (ecs.EntityId, error) {
	if err := attrs.Variant.valid(); err != nil {
		return 0, err
	}
	RegisterComponents(storage)

	return storage.Spawn(
		Transform{X: x, Y: y, Z: LayerResource, Scale: ResourceScale},
		sprite,
		attrs,
	), nil
}

// CreateUnit spawns a mobile unit at (x, y) moving along its heading.
func CreateUnit(attrs UnitAttributes, storage *ecs.Storage, sprite SpriteRef, x, y float32) (ecs.EntityId, error) {
	if err := attrs.Variant.valid(); err != nil {
		return 0, err
	}
	RegisterComponents(storage)

	return storage.Spawn(
		Transform{X: x, Y: y, Z: LayerUnit, Scale: UnitScale},
		sprite,
		attrs,
		Velocity{DX: attrs.Heading.X * attrs.Speed, DY: attrs.Heading.Y * attrs.Speed},
	), nil
}

// CreateCamera spawns a camera centred on the arena so that it covers all of it.
func CreateCamera(storage *ecs.Storage, arena Arena) ecs.EntityId {
	RegisterComponents(storage)

	return storage.Spawn(
		Transform{X: arena.Width * 0.5, Y: arena.Height * 0.5, Z: LayerCamera, Scale: 1},
		Camera{Width: arena.Width, Height: arena.Height},
	)
}
