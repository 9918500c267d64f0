package ecs

import (
	"iter"
	"reflect"
	"sort"
)

// Storage is the world store: one component table per registered type, keyed by entity.
// Structural changes (spawn, delete, attach, detach) must not run concurrently with
// each other or with iteration; systems defer them through Commands.
type Storage struct {
	pool       *entityPool
	tables     map[reflect.Type]iComponentStorage
	order      []reflect.Type
	singletons map[reflect.Type]*singletonEntry
	// singletonEpoch changes whenever a singleton is removed, so accessors
	// re-resolve their cached entry.
	singletonEpoch uint64
}

// NewStorage creates an empty storage with no registered component types
func NewStorage() *Storage {
	return &Storage{
		pool:       newEntityPool(),
		tables:     make(map[reflect.Type]iComponentStorage),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Register allocates the table for component type T if it does not exist yet.
// It reports whether a table was created; registering twice is a no-op.
func Register[T any](s *Storage) bool {
	t := reflect.TypeFor[T]()
	if _, ok := s.tables[t]; ok {
		return false
	}
	validateComponentType(t)
	s.tables[t] = newGenericComponentStorage[T]()
	s.order = append(s.order, t)
	return true
}

// IsRegistered reports whether a table exists for compType.
func (s *Storage) IsRegistered(compType reflect.Type) bool {
	_, ok := s.tables[compType]
	return ok
}

// RegisteredTypes returns the registered component types in registration order.
func (s *Storage) RegisteredTypes() []reflect.Type {
	return append([]reflect.Type(nil), s.order...)
}

func (s *Storage) table(compType reflect.Type) iComponentStorage {
	table, ok := s.tables[compType]
	if !ok {
		panic("component type " + compType.String() + " not registered")
	}
	return table
}

func typedTable[T any](s *Storage) *genericComponentStorage[T] {
	table, ok := s.tables[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return table.(*genericComponentStorage[T])
}

// Spawn creates a new entity with the provided components. Every component type must
// be registered; the check happens before the entity is created.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	for _, t := range types {
		s.table(t)
	}

	id := s.pool.create()
	for i, comp := range components {
		if s.tables[types[i]].Attach(id, comp) {
			s.pool.components[id.Index()]++
		}
	}
	return id
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	return s.pool.isAlive(id)
}

// Delete removes all components of the entity and frees its id.
// Deleting a dead or stale id is a no-op.
func (s *Storage) Delete(id EntityId) bool {
	if !s.pool.isAlive(id) {
		return false
	}
	for _, t := range s.order {
		s.tables[t].Detach(id)
	}
	return s.pool.destroy(id)
}

// AddComponent inserts or overwrites a component for a live entity.
// It returns false if the entity is not alive.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	compType := extractComponentTypes([]any{component})[0]
	table := s.table(compType)
	if !s.pool.isAlive(id) {
		return false
	}
	if table.Attach(id, component) {
		s.pool.components[id.Index()]++
	}
	return true
}

// RemoveComponent detaches a single component. An entity left without components
// is deleted.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	table, ok := s.tables[compType]
	if !ok || !s.pool.isAlive(id) {
		return false
	}
	if !table.Detach(id) {
		return false
	}
	idx := id.Index()
	s.pool.components[idx]--
	if s.pool.components[idx] == 0 {
		s.pool.destroy(id)
	}
	return true
}

// GetComponent returns a pointer to the component of the given type, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	table, ok := s.tables[compType]
	if !ok {
		return nil
	}
	return table.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	table, ok := s.tables[compType]
	if !ok {
		return false
	}
	return table.Has(id)
}

// ComponentTypes returns the types attached to id in registration order.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	var types []reflect.Type
	for _, t := range s.order {
		if s.tables[t].Has(id) {
			types = append(types, t)
		}
	}
	return types
}

// Entities yields every live entity.
func (s *Storage) Entities() iter.Seq[EntityId] {
	return s.pool.each
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.pool.live
}

// Compact packs every table. Pointers obtained from views or Get become invalid.
func (s *Storage) Compact() {
	for _, t := range s.order {
		s.tables[t].Compact()
	}
}

// Attach inserts or overwrites the T component of id. T must be registered.
func Attach[T any](s *Storage, id EntityId, value T) *T {
	table := typedTable[T](s)
	if table == nil {
		panic("component type " + reflect.TypeFor[T]().String() + " not registered")
	}
	if !s.pool.isAlive(id) {
		return nil
	}
	ptr, created := table.Set(id, value)
	if created {
		s.pool.components[id.Index()]++
	}
	return ptr
}

// Detach removes the T component of id.
func Detach[T any](s *Storage, id EntityId) bool {
	return s.RemoveComponent(id, reflect.TypeFor[T]())
}

// Get returns a pointer to the T component of id, or nil.
func Get[T any](s *Storage, id EntityId) *T {
	table := typedTable[T](s)
	if table == nil {
		return nil
	}
	return table.Lookup(id)
}

// Has reports whether id has a T component.
func Has[T any](s *Storage, id EntityId) bool {
	table := typedTable[T](s)
	return table != nil && table.Has(id)
}

// Count returns the number of T components in the storage.
func Count[T any](s *Storage) int {
	table := typedTable[T](s)
	if table == nil {
		return 0
	}
	return table.Len()
}

// extractComponentTypes extracts component types from a slice of components,
// keeping the order of the input
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType == nil {
			panic("components cannot be nil")
		}

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		validateComponentType(compType)
		types = append(types, compType)
	}
	return types
}

// Components can be structs or primitives (int, string, etc.)
// But not pointers, maps, channels, or functions (those aren't value types)
func validateComponentType(compType reflect.Type) {
	if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
		compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
		panic("components cannot be pointers, maps, channels, or functions")
	}
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

func sortTypes(types []reflect.Type) []reflect.Type {
	sort.Sort(byTypeName(types))
	return types
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of entityId through any ComponentReader, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
