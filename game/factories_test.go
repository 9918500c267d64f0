package game_test

import (
	"testing"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSprite = game.SpriteRef{Handle: 7, Index: 0}

func TestCreatePlatform(t *testing.T) {
	storage := ecs.NewStorage()

	id, err := game.CreatePlatform(game.PlatformAttributes{}, storage, testSprite, 200, 300)
	require.NoError(t, err)

	assert.Equal(t, game.Transform{X: 200, Y: 300, Z: game.LayerBasePlatform, Scale: 0.25}, *ecs.Get[game.Transform](storage, id))
	assert.Equal(t, testSprite, *ecs.Get[game.SpriteRef](storage, id))
	assert.Equal(t, game.PlatformAttributes{Variant: game.PlatformBlank}, *ecs.Get[game.PlatformAttributes](storage, id))
	assert.Equal(t, game.Tint{R: 1, G: 1, B: 1, A: 0.8}, *ecs.Get[game.Tint](storage, id))
	assert.False(t, ecs.Has[game.Velocity](storage, id))
}

func TestCreateResource(t *testing.T) {
	storage := ecs.NewStorage()

	id, err := game.CreateResource(game.ResourceAttributes{Variant: game.ResourcePerl}, storage, testSprite, 200, 300)
	require.NoError(t, err)

	assert.Equal(t, game.Transform{X: 200, Y: 300, Z: game.LayerResource, Scale: 0.2}, *ecs.Get[game.Transform](storage, id))
	assert.Equal(t, game.ResourcePerl, ecs.Get[game.ResourceAttributes](storage, id).Variant)
	assert.False(t, ecs.Has[game.Tint](storage, id))
}

func TestCreateUnit(t *testing.T) {
	storage := ecs.NewStorage()

	attrs := game.UnitAttributes{Variant: game.UnitGeneral, Speed: 10, Heading: game.Vec2{X: 1, Y: -0.5}}
	id, err := game.CreateUnit(attrs, storage, testSprite, 810, 605)
	require.NoError(t, err)

	assert.Equal(t, game.Transform{X: 810, Y: 605, Z: game.LayerUnit, Scale: 0.3}, *ecs.Get[game.Transform](storage, id))
	assert.Equal(t, attrs, *ecs.Get[game.UnitAttributes](storage, id))
	assert.Equal(t, game.Velocity{DX: 10, DY: -5}, *ecs.Get[game.Velocity](storage, id))
}

func TestCreateCamera(t *testing.T) {
	storage := ecs.NewStorage()

	id := game.CreateCamera(storage, game.DefaultArena())
	assert.Equal(t, game.Transform{X: 800, Y: 450, Z: 10, Scale: 1}, *ecs.Get[game.Transform](storage, id))
	assert.Equal(t, game.Camera{Width: 1600, Height: 900}, *ecs.Get[game.Camera](storage, id))
}

func TestFactoriesRejectUnmappedVariants(t *testing.T) {
	storage := ecs.NewStorage()

	tests := []struct {
		name   string
		create func() (ecs.EntityId, error)
	}{
		{"platform", func() (ecs.EntityId, error) {
			return game.CreatePlatform(game.PlatformAttributes{Variant: 200}, storage, testSprite, 0, 0)
		}},
		{"resource", func() (ecs.EntityId, error) {
			return game.CreateResource(game.ResourceAttributes{Variant: 9}, storage, testSprite, 0, 0)
		}},
		{"unit", func() (ecs.EntityId, error) {
			return game.CreateUnit(game.UnitAttributes{Variant: 3}, storage, testSprite, 0, 0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.create()
			assert.Zero(t, id)
			assert.ErrorIs(t, err, game.ErrUnmappedVariant)

			var variantErr *game.VariantError
			require.ErrorAs(t, err, &variantErr)
			assert.Equal(t, tt.name, variantErr.Kind)
		})
	}
	assert.Equal(t, 0, storage.EntityCount())
}

func TestFactoryCallsCreateDistinctEntities(t *testing.T) {
	storage := ecs.NewStorage()

	const n = 50
	seen := make(map[ecs.EntityId]bool, n)
	for i := range n {
		id, err := game.CreatePlatform(game.PlatformAttributes{}, storage, testSprite, float32(i), float32(2*i))
		require.NoError(t, err)
		seen[id] = true
	}
	require.Len(t, seen, n)

	for id := range seen {
		tr := ecs.Get[game.Transform](storage, id)
		assert.Equal(t, 2*tr.X, tr.Y)
		assert.Equal(t, game.Tint{R: 1, G: 1, B: 1, A: 0.8}, *ecs.Get[game.Tint](storage, id))
	}
}

func TestVariantNames(t *testing.T) {
	kind, err := game.ParsePlatformKind("blank")
	require.NoError(t, err)
	assert.Equal(t, game.PlatformBlank, kind)
	assert.Equal(t, "blank", kind.String())

	res, err := game.ParseResourceKind("perl")
	require.NoError(t, err)
	assert.Equal(t, "perl", res.String())

	unit, err := game.ParseUnitKind("general")
	require.NoError(t, err)
	assert.Equal(t, "general", unit.String())

	_, err = game.ParseUnitKind("tank")
	assert.ErrorIs(t, err, game.ErrUnmappedVariant)
	assert.EqualError(t, err, `game: unknown unit variant "tank"`)
	assert.Equal(t, "PlatformKind(4)", game.PlatformKind(4).String())
}

func TestTintPremultiplied(t *testing.T) {
	blank, err := game.PlatformTint(game.PlatformBlank)
	require.NoError(t, err)
	assert.Equal(t, game.Tint{R: 0.8, G: 0.8, B: 0.8, A: 0.8}, blank.Premultiplied())

	assert.Equal(t, game.Tint{R: 0.25, G: 0.5, B: 0.125, A: 0.5}, game.Tint{R: 0.5, G: 1, B: 0.25, A: 0.5}.Premultiplied())
}
