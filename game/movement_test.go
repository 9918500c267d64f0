package game_test

import (
	"testing"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMovementWorld(t *testing.T) (*ecs.Storage, *ecs.Dispatcher) {
	t.Helper()
	storage := ecs.NewStorage()
	d, err := game.RegisterSystems(ecs.NewDispatcherBuilder()).Build()
	require.NoError(t, err)
	require.NoError(t, d.Setup(storage))
	return storage, d
}

func TestUnitMovementIntegrates(t *testing.T) {
	storage, d := newMovementWorld(t)

	unit, err := game.CreateUnit(game.UnitAttributes{Speed: 20, Heading: game.Vec2{X: 1, Y: 0.5}}, storage, testSprite, 100, 100)
	require.NoError(t, err)
	platform, err := game.CreatePlatform(game.PlatformAttributes{}, storage, testSprite, 50, 50)
	require.NoError(t, err)

	d.Dispatch(0.5)

	tr := ecs.Get[game.Transform](storage, unit)
	assert.Equal(t, float32(110), tr.X)
	assert.Equal(t, float32(105), tr.Y)
	assert.Equal(t, game.Transform{X: 50, Y: 50, Z: game.LayerBasePlatform, Scale: game.PlatformScale}, *ecs.Get[game.Transform](storage, platform))
	assert.Equal(t, []string{game.UnitMovementSystemName}, d.Order())
}

func TestUnitMovementBouncesOffEdges(t *testing.T) {
	storage, d := newMovementWorld(t)

	right, err := game.CreateUnit(game.UnitAttributes{Speed: 100, Heading: game.Vec2{X: 1}}, storage, testSprite, 1590, 10)
	require.NoError(t, err)
	bottom, err := game.CreateUnit(game.UnitAttributes{Speed: 100, Heading: game.Vec2{Y: -1}}, storage, testSprite, 10, 5)
	require.NoError(t, err)

	d.Dispatch(1)

	assert.Equal(t, float32(1600), ecs.Get[game.Transform](storage, right).X)
	assert.Equal(t, game.Velocity{DX: -100}, *ecs.Get[game.Velocity](storage, right))
	assert.Equal(t, float32(0), ecs.Get[game.Transform](storage, bottom).Y)
	assert.Equal(t, game.Velocity{DY: 100}, *ecs.Get[game.Velocity](storage, bottom))

	d.Dispatch(1)
	assert.Equal(t, float32(1500), ecs.Get[game.Transform](storage, right).X)
}

func TestUnitMovementKeepsInwardVelocity(t *testing.T) {
	storage, d := newMovementWorld(t)

	// Starts left of the arena but already heading right.
	id, err := game.CreateUnit(game.UnitAttributes{Speed: 40, Heading: game.Vec2{X: 1}}, storage, testSprite, -10, 10)
	require.NoError(t, err)

	d.Dispatch(0.1)
	assert.Equal(t, float32(0), ecs.Get[game.Transform](storage, id).X)
	assert.Equal(t, game.Velocity{DX: 40}, *ecs.Get[game.Velocity](storage, id))

	d.Dispatch(0.1)
	assert.Equal(t, float32(4), ecs.Get[game.Transform](storage, id).X)
}

func TestUnitMovementUsesArenaSingleton(t *testing.T) {
	storage, d := newMovementWorld(t)
	storage.AddSingleton(game.Arena{Width: 100, Height: 100})

	id, err := game.CreateUnit(game.UnitAttributes{Speed: 100, Heading: game.Vec2{X: 1, Y: 1}}, storage, testSprite, 50, 50)
	require.NoError(t, err)

	d.Dispatch(1)
	tr := ecs.Get[game.Transform](storage, id)
	assert.True(t, game.Arena{Width: 100, Height: 100}.Contains(tr.X, tr.Y))
	assert.Equal(t, float32(100), tr.X)
}

func TestUnitMovementAccess(t *testing.T) {
	d, err := game.RegisterSystems(ecs.NewDispatcherBuilder()).
		With(&attributeReader{}, "attribute_reader").
		Build()
	require.NoError(t, err)

	// attributeReader only reads UnitAttributes, which the movement system also only reads.
	assert.Equal(t, [][]string{{game.UnitMovementSystemName, "attribute_reader"}}, d.Stages())
}

type attributeReader struct{}

func (attributeReader) Access() ecs.Access       { return ecs.ReadOf[game.UnitAttributes]() }
func (attributeReader) Execute(*ecs.UpdateFrame) {}
