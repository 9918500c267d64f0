package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

const (
	genericBlockSize = 64
)

// genericComponentStorage is the dense table for a single component type `T`.
// Rows live in fixed-size blocks that are never moved, so a pointer to a row stays
// valid until the row is detached or the table is compacted.
type genericComponentStorage[T any] struct {
	typ       reflect.Type
	blocks    []*[genericBlockSize]T
	owners    []EntityId
	index     *intmap.Map[EntityId, int]
	freeSlots []int
	count     int
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		typ:   reflect.TypeFor[T](),
		index: intmap.New[EntityId, int](256),
	}
}

func (cs *genericComponentStorage[T]) Type() reflect.Type { return cs.typ }

func (cs *genericComponentStorage[T]) Len() int { return cs.count }

// Set inserts or overwrites the row for id and returns a pointer to it.
func (cs *genericComponentStorage[T]) Set(id EntityId, value T) (*T, bool) {
	if slot, ok := cs.index.Get(id); ok {
		ptr := cs.at(slot)
		*ptr = value
		return ptr, false
	}

	var slot int
	if len(cs.freeSlots) > 0 {
		slot = cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
		cs.owners[slot] = id
	} else {
		slot = len(cs.owners)
		cs.owners = append(cs.owners, id)
		if slot/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		}
	}

	cs.index.Put(id, slot)
	cs.count++

	ptr := cs.at(slot)
	*ptr = value
	return ptr, true
}

// Attach adds a component given as T or *T.
func (cs *genericComponentStorage[T]) Attach(id EntityId, item any) bool {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		panic(fmt.Sprintf("component %T does not belong to table %s", item, cs.typ))
	}

	_, created := cs.Set(id, concreteItem)
	return created
}

// Lookup returns a pointer to the row of id, or nil.
func (cs *genericComponentStorage[T]) Lookup(id EntityId) *T {
	slot, ok := cs.index.Get(id)
	if !ok {
		return nil
	}
	return cs.at(slot)
}

func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	ptr := cs.Lookup(id)
	if ptr == nil {
		return nil
	}
	return ptr
}

func (cs *genericComponentStorage[T]) pointer(id EntityId) unsafe.Pointer {
	return unsafe.Pointer(cs.Lookup(id))
}

func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	_, ok := cs.index.Get(id)
	return ok
}

// Detach zeroes the row of id and frees its slot.
func (cs *genericComponentStorage[T]) Detach(id EntityId) bool {
	slot, ok := cs.index.Get(id)
	if !ok {
		return false
	}

	var zero T
	*cs.at(slot) = zero
	cs.owners[slot] = 0
	cs.index.Del(id)
	cs.freeSlots = append(cs.freeSlots, slot)
	cs.count--
	return true
}

// Entities yields the owners of all filled rows in slot order.
func (cs *genericComponentStorage[T]) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for i := 0; i < len(cs.owners); i++ {
			id := cs.owners[i]
			if id == 0 {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Compact moves all rows to the front of the table, preserving their relative
// order, and drops unused blocks. Row pointers taken before the call are invalid.
func (cs *genericComponentStorage[T]) Compact() {
	if len(cs.freeSlots) == 0 {
		return
	}

	numBlocks := (cs.count + genericBlockSize - 1) / genericBlockSize
	newBlocks := make([]*[genericBlockSize]T, numBlocks)
	for i := range newBlocks {
		newBlocks[i] = new([genericBlockSize]T)
	}
	newOwners := make([]EntityId, 0, cs.count)

	for readIdx, id := range cs.owners {
		if id == 0 {
			continue
		}
		writeIdx := len(newOwners)
		newBlocks[writeIdx/genericBlockSize][writeIdx%genericBlockSize] = *cs.at(readIdx)
		newOwners = append(newOwners, id)
		cs.index.Put(id, writeIdx)
	}

	cs.blocks = newBlocks
	cs.owners = newOwners
	cs.freeSlots = nil
}

func (cs *genericComponentStorage[T]) at(slot int) *T {
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}
