package ecs_test

import (
	"testing"

	"github.com/firebitsbr/singularity/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := newTestStorage()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}
}

func BenchmarkViewIter(b *testing.B) {
	storage := newTestStorage()
	for i := range 10000 {
		if i%2 == 0 {
			storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
		} else {
			storage.Spawn(Position{X: float32(i)})
		}
	}
	view := ecs.NewView[movable](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for item := range view.Values() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkDispatch(b *testing.B) {
	storage := newTestStorage()
	for i := range 10000 {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1, DY: 1})
	}

	d, err := ecs.NewDispatcherBuilder().With(&movementSystem{}, "movement").Build()
	if err != nil {
		b.Fatal(err)
	}
	if err := d.Setup(storage); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Dispatch(0.016)
	}
}

func BenchmarkGet(b *testing.B) {
	storage := newTestStorage()
	ids := make([]ecs.EntityId, 1024)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: float32(i)})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.Get[Position](storage, ids[i%len(ids)])
	}
}
