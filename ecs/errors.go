package ecs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEntityNotFound is returned when an operation targets an entity that is not alive.
	ErrEntityNotFound = errors.New("ecs: entity not found")
	// ErrUnregisteredComponent is returned when a system declares a component type
	// that has no table in the storage after setup.
	ErrUnregisteredComponent = errors.New("ecs: component type not registered")
	// ErrNotSetUp is the panic value of Dispatch on a dispatcher without Setup.
	ErrNotSetUp = errors.New("ecs: dispatcher used before Setup")
	// ErrAlreadySetUp is returned when Setup is called with a second storage.
	ErrAlreadySetUp = errors.New("ecs: dispatcher already set up with another storage")
)

// GraphErrorKind classifies a SystemGraphError.
type GraphErrorKind int

const (
	GraphCycle GraphErrorKind = iota
	GraphUnknownDependency
	GraphDuplicateName
	GraphEmptyName
)

func (k GraphErrorKind) String() string {
	switch k {
	case GraphCycle:
		return "cycle"
	case GraphUnknownDependency:
		return "unknown dependency"
	case GraphDuplicateName:
		return "duplicate name"
	case GraphEmptyName:
		return "empty name"
	default:
		return "unknown"
	}
}

// SystemGraphError reports an invalid system dependency graph. It is only ever
// produced by DispatcherBuilder.Build.
type SystemGraphError struct {
	Kind       GraphErrorKind
	System     string
	Dependency string
	// Cycle lists the systems of one dependency cycle, first element repeated last.
	Cycle []string
}

func (e *SystemGraphError) Error() string {
	switch e.Kind {
	case GraphCycle:
		return "ecs: system dependency cycle: " + strings.Join(e.Cycle, " -> ")
	case GraphUnknownDependency:
		return fmt.Sprintf("ecs: system %q runs after unknown system %q", e.System, e.Dependency)
	case GraphDuplicateName:
		return fmt.Sprintf("ecs: system name %q registered twice", e.System)
	case GraphEmptyName:
		return "ecs: system registered without a name"
	default:
		return "ecs: invalid system graph"
	}
}
