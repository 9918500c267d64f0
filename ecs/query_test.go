package ecs_test

import (
	"testing"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQueryCachesUntilExecute(t *testing.T) {
	storage := newTestStorage()
	first := storage.Spawn(Position{X: 1}, Velocity{})

	query := ecs.NewQuery[movable](storage)
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2}, Velocity{})
	assert.Equal(t, 1, query.Len(), "cached until the next Execute")

	var ids []ecs.EntityId
	for id := range query.Iter() {
		ids = append(ids, id)
	}
	assert.Equal(t, []ecs.EntityId{first}, ids)

	query.Execute()
	assert.Equal(t, 2, query.Len())
	assert.Equal(t, 2, query.View().Len())
}

func TestQueryValuesMutate(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})

	query := ecs.NewQuery[movable](storage)
	query.Execute()
	for item := range query.Values() {
		item.Position.X = 42
	}
	assert.Equal(t, float32(42), ecs.Get[Position](storage, id).X)
}

func TestQueryPanicsBeforeExecute(t *testing.T) {
	query := ecs.NewQuery[movable](newTestStorage())

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })

	var unbound ecs.Query[movable]
	assert.Panics(t, func() { unbound.Execute() })
}

func TestQueryAccessWithoutStorage(t *testing.T) {
	var query ecs.Query[namedMovable]
	access := query.Access()

	assert.ElementsMatch(t, ecs.WriteOf[Velocity]().Merge(ecs.WriteOf[Name]()).Writes, access.Writes)
	assert.Len(t, access.Reads, 2)
}
