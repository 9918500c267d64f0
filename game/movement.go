package game

import "github.com/firebitsbr/singularity/ecs"

const UnitMovementSystemName = "gunit_movement_system"

type movingUnit struct {
	Transform  *Transform
	Velocity   *Velocity
	Attributes *UnitAttributes `ecs:"read"`
}

// UnitMovementSystem integrates unit positions and bounces units off the arena edges.
type UnitMovementSystem struct {
	Units ecs.Query[movingUnit]
	Arena ecs.Singleton[Arena] `ecs:"read"`
}

// Setup registers the game tables and installs a default Arena if none exists.
func (s *UnitMovementSystem) Setup(storage *ecs.Storage) {
	RegisterComponents(storage)
	ecs.NewSingleton(storage, DefaultArena())
}

func (s *UnitMovementSystem) Execute(frame *ecs.UpdateFrame) {
	arena := s.Arena.Get()
	dt := float32(frame.DeltaTime)

	for unit := range s.Units.Values() {
		t, v := unit.Transform, unit.Velocity
		t.X += v.DX * dt
		t.Y += v.DY * dt

		t.X, v.DX = bounce(t.X, v.DX, arena.Width)
		t.Y, v.DY = bounce(t.Y, v.DY, arena.Height)
	}
}

// bounce clamps pos to [0, limit]. Outside the range vel is turned to point
// back inside; a unit already heading inside keeps its direction.
func bounce(pos, vel, limit float32) (float32, float32) {
	switch {
	case pos < 0:
		return 0, abs(vel)
	case pos > limit:
		return limit, -abs(vel)
	}
	return pos, vel
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// RegisterSystems adds the default simulation systems to builder.
func RegisterSystems(builder *ecs.DispatcherBuilder) *ecs.DispatcherBuilder {
	return builder.With(&UnitMovementSystem{}, UnitMovementSystemName)
}
