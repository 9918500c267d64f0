package game

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/firebitsbr/singularity/ecs"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingAsset is returned when an asset file does not exist.
	ErrMissingAsset = errors.New("game: asset not found")
	// ErrInvalidScenario is returned when a scenario file cannot be decoded or
	// refers to unknown variants.
	ErrInvalidScenario = errors.New("game: invalid scenario")
)

// Placement positions one platform or resource.
type Placement struct {
	Variant string  `yaml:"variant"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
}

// UnitPlacement positions one unit and sets its initial motion.
type UnitPlacement struct {
	Variant string  `yaml:"variant"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
	Speed   float32 `yaml:"speed"`
	Heading Vec2    `yaml:"heading"`
}

// Scenario is the initial world layout.
type Scenario struct {
	SpriteGroup string          `yaml:"sprite_group"`
	Sprite      int             `yaml:"sprite"`
	Platforms   []Placement     `yaml:"platforms"`
	Resources   []Placement     `yaml:"resources"`
	Units       []UnitPlacement `yaml:"units"`
}

// LoadScenario reads and validates the scenario at path in fsys.
func LoadScenario(fsys fs.FS, path string) (*Scenario, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read scenario %s: %w", path, ErrMissingAsset)
		}
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes a yaml scenario. Unknown keys are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the sprite group is set and every variant name resolves.
func (s *Scenario) Validate() error {
	if s.SpriteGroup == "" {
		return fmt.Errorf("%w: sprite_group is empty", ErrInvalidScenario)
	}
	if s.Sprite < 0 {
		return fmt.Errorf("%w: negative sprite index %d", ErrInvalidScenario, s.Sprite)
	}
	for i, p := range s.Platforms {
		if _, err := ParsePlatformKind(p.Variant); err != nil {
			return fmt.Errorf("%w: platforms[%d]: %w", ErrInvalidScenario, i, err)
		}
	}
	for i, r := range s.Resources {
		if _, err := ParseResourceKind(r.Variant); err != nil {
			return fmt.Errorf("%w: resources[%d]: %w", ErrInvalidScenario, i, err)
		}
	}
	for i, u := range s.Units {
		if _, err := ParseUnitKind(u.Variant); err != nil {
			return fmt.Errorf("%w: units[%d]: %w", ErrInvalidScenario, i, err)
		}
	}
	return nil
}

// Populate creates every platform, resource and unit of the scenario, in that
// order. On error the entities created so far are deleted again.
func (s *Scenario) Populate(storage *ecs.Storage, sprite SpriteRef) ([]ecs.EntityId, error) {
	created := make([]ecs.EntityId, 0, len(s.Platforms)+len(s.Resources)+len(s.Units))
	fail := func(err error) ([]ecs.EntityId, error) {
		for _, id := range created {
			storage.Delete(id)
		}
		return nil, err
	}

	for _, p := range s.Platforms {
		kind, err := ParsePlatformKind(p.Variant)
		if err != nil {
			return fail(err)
		}
		id, err := CreatePlatform(PlatformAttributes{Variant: kind}, storage, sprite, p.X, p.Y)
		if err != nil {
			return fail(err)
		}
		created = append(created, id)
	}

	for _, r := range s.Resources {
		kind, err := ParseResourceKind(r.Variant)
		if err != nil {
			return fail(err)
		}
		id, err := CreateResource(ResourceAttributes{Variant: kind}, storage, sprite, r.X, r.Y)
		if err != nil {
			return fail(err)
		}
		created = append(created, id)
	}

	for _, u := range s.Units {
		kind, err := ParseUnitKind(u.Variant)
		if err != nil {
			return fail(err)
		}
		attrs := UnitAttributes{Variant: kind, Speed: u.Speed, Heading: u.Heading}
		id, err := CreateUnit(attrs, storage, sprite, u.X, u.Y)
		if err != nil {
			return fail(err)
		}
		created = append(created, id)
	}

	return created, nil
}
