package game

import (
	"errors"
	"fmt"
)

// ErrUnmappedVariant is wrapped by every VariantError.
var ErrUnmappedVariant = errors.New("game: variant has no table entry")

// VariantError reports a variant value outside its lookup table.
type VariantError struct {
	Kind  string
	Value int
	Name  string
}

func (e *VariantError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("game: unknown %s variant %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("game: unmapped %s variant %d", e.Kind, e.Value)
}

func (e *VariantError) Unwrap() error { return ErrUnmappedVariant }

type PlatformKind uint8

const (
	PlatformBlank PlatformKind = iota
	platformKindCount
)

type ResourceKind uint8

const (
	ResourcePerl ResourceKind = iota
	resourceKindCount
)

type UnitKind uint8

const (
	UnitGeneral UnitKind = iota
	unitKindCount
)

// Lookup tables are indexed by kind. The length checks below stop compiling as
// soon as a kind is added without a matching entry.
var (
	platformTints = [...]Tint{
		PlatformBlank: {R: 1.0, G: 1.0, B: 1.0, A: 0.8},
	}
	platformNames = [...]string{
		PlatformBlank: "blank",
	}
	resourceNames = [...]string{
		ResourcePerl: "perl",
	}
	unitNames = [...]string{
		UnitGeneral: "general",
	}
)

var (
	_ [len(platformTints) - int(platformKindCount)]struct{}
	_ [int(platformKindCount) - len(platformTints)]struct{}
	_ [len(platformNames) - int(platformKindCount)]struct{}
	_ [int(platformKindCount) - len(platformNames)]struct{}
	_ [len(resourceNames) - int(resourceKindCount)]struct{}
	_ [int(resourceKindCount) - len(resourceNames)]struct{}
	_ [len(unitNames) - int(unitKindCount)]struct{}
	_ [int(unitKindCount) - len(unitNames)]struct{}
)

// PlatformTint returns the tint of a platform variant.
func PlatformTint(kind PlatformKind) (Tint, error) {
	if kind >= platformKindCount {
		return Tint{}, &VariantError{Kind: "platform", Value: int(kind)}
	}
	return platformTints[kind], nil
}

func (k PlatformKind) String() string {
	if k >= platformKindCount {
		return fmt.Sprintf("PlatformKind(%d)", k)
	}
	return platformNames[k]
}

func (k ResourceKind) String() string {
	if k >= resourceKindCount {
		return fmt.Sprintf("ResourceKind(%d)", k)
	}
	return resourceNames[k]
}

func (k UnitKind) String() string {
	if k >= unitKindCount {
		return fmt.Sprintf("UnitKind(%d)", k)
	}
	return unitNames[k]
}

func (k ResourceKind) valid() error {
	if k >= resourceKindCount {
		return &VariantError{Kind: "resource", Value: int(k)}
	}
	return nil
}

func (k UnitKind) valid() error {
	if k >= unitKindCount {
		return &VariantError{Kind: "unit", Value: int(k)}
	}
	return nil
}

// ParsePlatformKind resolves a scenario variant name.
func ParsePlatformKind(name string) (PlatformKind, error) {
	for i, n := range platformNames {
		if n == name {
			return PlatformKind(i), nil
		}
	}
	return 0, &VariantError{Kind: "platform", Name: name}
}

// ParseResourceKind resolves a scenario variant name.
func ParseResourceKind(name string) (ResourceKind, error) {
	for i, n := range resourceNames {
		if n == name {
			return ResourceKind(i), nil
		}
	}
	return 0, &VariantError{Kind: "resource", Name: name}
}

// ParseUnitKind resolves a scenario variant name.
func ParseUnitKind(name string) (UnitKind, error) {
	for i, n := range unitNames {
		if n == name {
			return UnitKind(i), nil
		}
	}
	return 0, &VariantError{Kind: "unit", Name: name}
}
