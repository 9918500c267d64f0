package ecs

import (
	"iter"
	"reflect"
)

type match[T any] struct {
	id   EntityId
	item T
}

// Query is a View whose matches are captured once per tick. As a system field
// it is bound by Dispatcher.Setup and executed when every tick starts, so all
// systems of a tick see the entity set as it was when the tick began.
// Component pointers in the matches still write through to storage.
type Query[T any] struct {
	view    *View[T]
	layout  *viewLayout
	matches []match[T]
	ready   bool
}

// NewQuery creates a new Query bound to storage. Call Execute before iterating.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any captured matches.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.layout = q.view.layout
	q.matches = q.matches[:0]
	q.ready = false
}

// Access returns the component access declared by the query type. It does not
// need a storage.
func (q *Query[T]) Access() Access {
	if q.layout == nil {
		q.layout = parseViewLayout(reflect.TypeFor[T]())
	}
	return q.layout.access()
}

// Execute captures the current matches.
func (q *Query[T]) Execute() {
	if q.view == nil {
		panic("Query.Execute() called before Query.Init()")
	}
	clear(q.matches)
	q.matches = q.matches[:0]
	for id, item := range q.view.Iter() {
		q.matches = append(q.matches, match[T]{id: id, item: item})
	}
	q.ready = true
}

func (q *Query[T]) mustBeReady(method string) {
	if !q.ready {
		panic("Query." + method + "() called before Query.Execute()")
	}
}

// Iter yields the captured entity ids and view structs.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeReady("Iter")
	return func(yield func(EntityId, T) bool) {
		for _, m := range q.matches {
			if !yield(m.id, m.item) {
				return
			}
		}
	}
}

// Values yields the captured view structs.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeReady("Values")
	return func(yield func(T) bool) {
		for _, m := range q.matches {
			if !yield(m.item) {
				return
			}
		}
	}
}

// Len returns the number of captured matches.
func (q *Query[T]) Len() int {
	return len(q.matches)
}

// View returns the underlying uncached view.
func (q *Query[T]) View() *View[T] {
	return q.view
}
