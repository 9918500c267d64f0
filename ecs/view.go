package ecs

import (
	"iter"
	"reflect"
	"strings"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
	readOnly bool
}

// viewLayout is the storage-independent description of a view struct.
type viewLayout struct {
	fields   []viewField
	idOffset uintptr
	hasId    bool
}

// parseViewLayout inspects a view struct type.
// Embedded fields are always required; named fields accept the `ecs` tag values
// "optional" and "read" (comma separated). EntityId fields receive the entity id.
func parseViewLayout(structType reflect.Type) *viewLayout {
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	layout := &viewLayout{fields: make([]viewField, 0, structType.NumField())}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIdType {
			if layout.hasId {
				panic("View struct may contain only one EntityId field")
			}
			layout.hasId = true
			layout.idOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		vf := viewField{typ: fieldType.Elem(), offset: field.Offset}
		if tag := field.Tag.Get("ecs"); tag != "" {
			for _, opt := range strings.Split(tag, ",") {
				switch opt {
				case "read":
					vf.readOnly = true
				case "optional":
					if field.Anonymous {
						panic("embedded View fields cannot be optional: " + field.Name)
					}
					vf.optional = true
				default:
					panic("invalid ecs tag value: \"" + opt + "\" (only \"optional\" and \"read\" are supported)")
				}
			}
		}
		layout.fields = append(layout.fields, vf)
	}

	required := 0
	for _, f := range layout.fields {
		if !f.optional {
			required++
		}
	}
	if required == 0 {
		panic("View struct must contain at least one required component")
	}

	return layout
}

func (l *viewLayout) access() Access {
	var a Access
	for _, f := range l.fields {
		if f.readOnly {
			a.Reads = append(a.Reads, f.typ)
		} else {
			a.Writes = append(a.Writes, f.typ)
		}
	}
	return a
}

// View represents a join over entities with a specific combination of components.
// The type T should be a struct with embedded or named pointer fields for each
// component type, plus an optional EntityId field.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag,
// and any field can be declared read-only with `ecs:"read"`.
type View[T any] struct {
	storage *Storage
	layout  *viewLayout
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	return &View[T]{
		storage: storage,
		layout:  parseViewLayout(reflect.TypeFor[T]()),
	}
}

// Access returns the component types the view reads and writes.
func (v *View[T]) Access() Access {
	return v.layout.access()
}

// tables resolves the table of every field; a nil entry means the type is not
// registered.
func (v *View[T]) tables() []iComponentStorage {
	tables := make([]iComponentStorage, len(v.layout.fields))
	for i, f := range v.layout.fields {
		tables[i] = v.storage.tables[f.typ]
	}
	return tables
}

// populate fills the struct at resultPtr. It returns false if a required
// component is missing.
func (v *View[T]) populate(resultPtr unsafe.Pointer, id EntityId, tables []iComponentStorage) bool {
	for i, f := range v.layout.fields {
		fieldPtr := unsafe.Add(resultPtr, f.offset)

		var componentPtr unsafe.Pointer
		if tables[i] != nil {
			componentPtr = tables[i].pointer(id)
		}
		if componentPtr == nil && !f.optional {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}
	if v.layout.hasId {
		*(*EntityId)(unsafe.Add(resultPtr, v.layout.idOffset)) = id
	}
	return true
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.storage.Alive(id) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), id, v.tables())
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// driver picks the smallest required table; the join iterates it and looks up the rest.
func (v *View[T]) driver(tables []iComponentStorage) iComponentStorage {
	var smallest iComponentStorage
	for i, f := range v.layout.fields {
		if f.optional {
			continue
		}
		if tables[i] == nil {
			return nil
		}
		if smallest == nil || tables[i].Len() < smallest.Len() {
			smallest = tables[i]
		}
	}
	return smallest
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (EntityId, T) pairs where T is the populated view struct.
// Every matching entity is yielded exactly once.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		tables := v.tables()
		driver := v.driver(tables)
		if driver == nil {
			return
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		for id := range driver.Entities() {
			if !v.populate(resultPtr, id, tables) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
// This is useful when you only care about the component data, not which entity it belongs to
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Len counts the entities currently matching the view.
func (v *View[T]) Len() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}

// Spawn creates a new entity with components extracted from the view struct
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.layout.fields))
	for _, f := range v.layout.fields {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, f.offset))
		if componentPtr == nil {
			if !f.optional {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		component := reflect.NewAt(f.typ, componentPtr).Elem().Interface()
		components = append(components, component)
	}

	return v.storage.Spawn(components...)
}
