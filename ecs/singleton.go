package ecs

import (
	"reflect"
)

// singletonEntry holds a pointer to the stored value; the pointer never changes
// while the entry exists.
type singletonEntry struct {
	value reflect.Value
}

// AddSingleton stores value as the singleton of its type, replacing any previous
// value in place so existing Singleton accessors keep pointing at it.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t == nil {
		panic("singleton cannot be nil")
	}
	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(reflect.ValueOf(value))
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = &singletonEntry{value: ptr}
}

// RemoveSingleton deletes the singleton of the given type.
func (s *Storage) RemoveSingleton(t reflect.Type) bool {
	if _, ok := s.singletons[t]; !ok {
		return false
	}
	delete(s.singletons, t)
	s.singletonEpoch++
	return true
}

// ReadSingleton sets *target to the stored singleton. target must be a pointer to a
// pointer, e.g. `var arena *game.Arena; storage.ReadSingleton(&arena)`.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}
	entry := s.singletons[rv.Type().Elem().Elem()]
	if entry == nil {
		return false
	}
	rv.Elem().Set(entry.value)
	return true
}

// Singleton is a typed accessor for a value stored once per Storage rather than
// per entity, e.g. the arena bounds or the debug overlay input state. As a
// system field it is bound by Dispatcher.Setup; tag it `ecs:"read"` when the
// system only reads it.
type Singleton[T any] struct {
	storage *Storage
	value   *T
	epoch   uint64
}

// NewSingleton returns an accessor for the T singleton of storage, adding it
// first if it is missing. The new value is initializer[0] if given, otherwise
// the zero value. An existing value is left untouched.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.singletons[reflect.TypeFor[T]()] == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. The singleton need not exist yet.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.resolve()
}

func (s *Singleton[T]) resourceType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *Singleton[T]) resolve() {
	s.value = nil
	if s.storage == nil {
		return
	}
	s.epoch = s.storage.singletonEpoch
	if entry := s.storage.singletons[reflect.TypeFor[T]()]; entry != nil {
		s.value = (*T)(entry.value.UnsafePointer())
	}
}

// Get returns the stored value, or nil if the singleton does not exist.
func (s *Singleton[T]) Get() *T {
	if s.value == nil || s.storage == nil || s.epoch != s.storage.singletonEpoch {
		s.resolve()
	}
	return s.value
}

// Exists reports whether the singleton is stored.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// Set overwrites the stored value, adding it if it does not exist.
func (s *Singleton[T]) Set(value T) {
	if p := s.Get(); p != nil {
		*p = value
		return
	}
	s.storage.AddSingleton(value)
	s.resolve()
}
