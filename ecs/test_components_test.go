package ecs_test

import "github.com/firebitsbr/singularity/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

func newTestStorage() *ecs.Storage {
	storage := ecs.NewStorage()
	ecs.Register[Position](storage)
	ecs.Register[Velocity](storage)
	ecs.Register[Name](storage)
	ecs.Register[Health](storage)
	ecs.Register[PlayerController](storage)
	ecs.Register[Score](storage)
	ecs.Register[Tag](storage)
	ecs.Register[Inventory](storage)
	return storage
}
