package ecs

import "reflect"

type commandKind uint8

// Flush applies kinds in this order.
const (
	cmdDelete commandKind = iota
	cmdRemove
	cmdAdd
	cmdSpawn
	cmdDefer
	commandKindCount
)

type command struct {
	entity     EntityId
	component  any
	compType   reflect.Type
	components []any
	fn         func()
}

// Commands records structural changes made by a system during a tick. The
// dispatcher applies them after the last stage, so a tick never observes its
// own spawns, deletions or component changes.
// Every system owns its own buffer, so recording is safe while systems run concurrently.
type Commands struct {
	queued [commandKindCount][]command
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues a new entity with the given components.
func (c *Commands) Spawn(components ...any) {
	c.queued[cmdSpawn] = append(c.queued[cmdSpawn], command{components: components})
}

// Delete queues the deletion of entity. Component changes queued for it in the
// same tick are dropped.
func (c *Commands) Delete(entity EntityId) {
	c.queued[cmdDelete] = append(c.queued[cmdDelete], command{entity: entity})
}

// AddComponent queues attaching component to entity, overwriting a component of
// the same type.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.queued[cmdAdd] = append(c.queued[cmdAdd], command{entity: entity, component: component})
}

// RemoveComponent queues detaching the component of compType from entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.queued[cmdRemove] = append(c.queued[cmdRemove], command{entity: entity, compType: compType})
}

// Defer queues fn to run after every structural change of the buffer.
func (c *Commands) Defer(fn func()) {
	c.queued[cmdDefer] = append(c.queued[cmdDefer], command{fn: fn})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	n := 0
	for _, q := range c.queued {
		n += len(q)
	}
	return n
}

// Flush applies the queued operations to storage and empties the buffer.
// Operations on entities that are no longer alive are skipped.
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.queued[cmdDelete] {
		storage.Delete(cmd.entity)
	}
	for _, cmd := range c.queued[cmdRemove] {
		if storage.Alive(cmd.entity) {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}
	for _, cmd := range c.queued[cmdAdd] {
		storage.AddComponent(cmd.entity, cmd.component)
	}
	for _, cmd := range c.queued[cmdSpawn] {
		storage.Spawn(cmd.components...)
	}
	for _, cmd := range c.queued[cmdDefer] {
		cmd.fn()
	}

	for kind := range c.queued {
		clear(c.queued[kind])
		c.queued[kind] = c.queued[kind][:0]
	}
}

// QueueAdd is the typed form of Commands.AddComponent.
func QueueAdd[T any](c *Commands, entity EntityId, component T) {
	c.AddComponent(entity, component)
}

// QueueRemove is the typed form of Commands.RemoveComponent.
func QueueRemove[T any](c *Commands, entity EntityId) {
	c.RemoveComponent(entity, reflect.TypeFor[T]())
}
