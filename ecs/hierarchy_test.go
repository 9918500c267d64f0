package ecs_test

import (
	"testing"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHierarchyStorage() *ecs.Storage {
	storage := newTestStorage()
	ecs.Register[ecs.Parent](storage)
	return storage
}

func TestDeleteSubtree(t *testing.T) {
	storage := newHierarchyStorage()

	root := storage.Spawn(Name{Value: "root"})
	child := storage.Spawn(Name{Value: "child"}, ecs.Parent{Entity: root})
	grandchild := storage.Spawn(Name{Value: "grandchild"}, ecs.Parent{Entity: child})
	sibling := storage.Spawn(Name{Value: "sibling"}, ecs.Parent{Entity: root})
	unrelated := storage.Spawn(Name{Value: "unrelated"})

	assert.ElementsMatch(t, []ecs.EntityId{child, sibling}, ecs.Children(storage, root))

	require.NoError(t, ecs.DeleteSubtree(root, storage))

	for _, id := range []ecs.EntityId{root, child, grandchild, sibling} {
		assert.False(t, storage.Alive(id))
	}
	assert.True(t, storage.Alive(unrelated))
	assert.Equal(t, 1, storage.EntityCount())
}

func TestDeleteSubtreeDeadRoot(t *testing.T) {
	storage := newHierarchyStorage()
	root := storage.Spawn(Name{})
	child := storage.Spawn(Name{}, ecs.Parent{Entity: root})
	storage.Delete(root)

	err := ecs.DeleteSubtree(root, storage)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	assert.True(t, storage.Alive(child), "a failed delete leaves orphans alone")
}

func TestDeleteSubtreeWithoutParentTable(t *testing.T) {
	storage := newTestStorage()
	root := storage.Spawn(Name{})

	require.NoError(t, ecs.DeleteSubtree(root, storage))
	assert.False(t, storage.Alive(root))
	assert.Nil(t, ecs.Children(storage, root))
}

func TestDeleteSubtreeSurvivesParentCycles(t *testing.T) {
	storage := newHierarchyStorage()
	a := storage.Spawn(Name{})
	b := storage.Spawn(Name{}, ecs.Parent{Entity: a})
	ecs.Attach(storage, a, ecs.Parent{Entity: b})

	require.NoError(t, ecs.DeleteSubtree(a, storage))
	assert.Equal(t, 0, storage.EntityCount())
}
