package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// iComponentStorage is an interface for a type-erased component table.
type iComponentStorage interface {
	Type() reflect.Type
	// Attach inserts or overwrites the component of id. It reports whether a new
	// row was created, and panics if item is not of the table's type.
	Attach(id EntityId, item any) bool
	Detach(id EntityId) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	Len() int
	Entities() iter.Seq[EntityId]
	Compact()

	pointer(id EntityId) unsafe.Pointer
}
