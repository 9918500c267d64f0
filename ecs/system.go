package ecs

import (
	"reflect"
	"slices"
)

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query fields
// for accessing entities, Singleton fields for resources, as well as custom state
// fields that persist between frames.
//
// A system must not mutate storage structure directly from Execute; use
// frame.Commands so the change becomes visible on the next tick.
type System interface {
	Execute(frame *UpdateFrame)
}

// Setupper is implemented by systems that register component types or resources
// before their first tick.
type Setupper interface {
	Setup(storage *Storage)
}

// AccessDeclarer is implemented by systems that touch components or resources
// outside their Query and Singleton fields.
type AccessDeclarer interface {
	Access() Access
}

// Access lists the component and resource types a system reads and writes.
type Access struct {
	Reads          []reflect.Type
	Writes         []reflect.Type
	ResourceReads  []reflect.Type
	ResourceWrites []reflect.Type
}

// ReadOf returns an Access reading the component type T.
func ReadOf[T any]() Access {
	return Access{Reads: []reflect.Type{reflect.TypeFor[T]()}}
}

// WriteOf returns an Access writing the component type T.
func WriteOf[T any]() Access {
	return Access{Writes: []reflect.Type{reflect.TypeFor[T]()}}
}

// Merge returns the union of a and others. A type both read and written is
// kept only as a write.
func (a Access) Merge(others ...Access) Access {
	out := Access{}
	all := append([]Access{a}, others...)
	for _, o := range all {
		out.Writes = appendUnique(out.Writes, o.Writes...)
		out.ResourceWrites = appendUnique(out.ResourceWrites, o.ResourceWrites...)
	}
	for _, o := range all {
		for _, t := range o.Reads {
			if !slices.Contains(out.Writes, t) {
				out.Reads = appendUnique(out.Reads, t)
			}
		}
		for _, t := range o.ResourceReads {
			if !slices.Contains(out.ResourceWrites, t) {
				out.ResourceReads = appendUnique(out.ResourceReads, t)
			}
		}
	}
	return out
}

// Conflicts reports whether a and b may not run at the same time: one writes a
// type the other reads or writes.
func (a Access) Conflicts(b Access) bool {
	return overlaps(a.Writes, b.Writes) || overlaps(a.Writes, b.Reads) || overlaps(a.Reads, b.Writes) ||
		overlaps(a.ResourceWrites, b.ResourceWrites) || overlaps(a.ResourceWrites, b.ResourceReads) ||
		overlaps(a.ResourceReads, b.ResourceWrites)
}

// Components returns every component type in the access set.
func (a Access) Components() []reflect.Type {
	return appendUnique(append([]reflect.Type(nil), a.Writes...), a.Reads...)
}

func appendUnique(dst []reflect.Type, types ...reflect.Type) []reflect.Type {
	for _, t := range types {
		if !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}

func overlaps(a, b []reflect.Type) bool {
	for _, t := range a {
		if slices.Contains(b, t) {
			return true
		}
	}
	return false
}

// Fields of a system struct that the Dispatcher knows how to handle.
type (
	storageInitializer interface{ Init(storage *Storage) }
	queryExecutor      interface{ Execute() }
	queryAccess        interface{ Access() Access }
	singletonAccess    interface{ resourceType() reflect.Type }
)

// systemFields returns the struct fields of a system, or nil if it is not a struct.
func systemFields(system System) []reflect.StructField {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}
	return reflect.VisibleFields(systemValue.Type())
}

// collectAccess derives the access set of a system from its Query and Singleton
// fields and its optional Access method. A field tagged `ecs:"read"` only reads.
func collectAccess(system System) Access {
	var access Access

	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() == reflect.Struct && systemValue.CanAddr() {
		for _, field := range systemFields(system) {
			if !field.IsExported() || len(field.Index) != 1 {
				continue
			}
			fieldValue := systemValue.Field(field.Index[0])
			if fieldValue.Kind() != reflect.Struct {
				continue
			}
			readOnly := field.Tag.Get("ecs") == "read"
			addr := fieldValue.Addr().Interface()

			switch f := addr.(type) {
			case queryAccess:
				qa := f.Access()
				if readOnly {
					qa = Access{Reads: append(qa.Reads, qa.Writes...)}
				}
				access = access.Merge(qa)
			case singletonAccess:
				if readOnly {
					access = access.Merge(Access{ResourceReads: []reflect.Type{f.resourceType()}})
				} else {
					access = access.Merge(Access{ResourceWrites: []reflect.Type{f.resourceType()}})
				}
			}
		}
	}

	if declarer, ok := system.(AccessDeclarer); ok {
		access = access.Merge(declarer.Access())
	}
	return access.Merge()
}

// initializeFields binds every Query and Singleton field of the system to storage
// and returns the queries that need executing each tick.
func initializeFields(system System, storage *Storage) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct || !systemValue.CanAddr() {
		return nil
	}

	var queries []queryExecutor
	for _, field := range systemFields(system) {
		if !field.IsExported() || len(field.Index) != 1 {
			continue
		}
		fieldValue := systemValue.Field(field.Index[0])
		if fieldValue.Kind() != reflect.Struct || !fieldValue.CanSet() {
			continue
		}

		addr := fieldValue.Addr().Interface()
		init, ok := addr.(storageInitializer)
		if !ok {
			continue
		}
		init.Init(storage)
		if q, ok := addr.(queryExecutor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}
