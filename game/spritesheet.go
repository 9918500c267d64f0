package game

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// SpriteRect is the pixel rectangle of one sprite inside its texture.
type SpriteRect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpriteSheet describes the sprites packed into one texture.
type SpriteSheet struct {
	TextureWidth  int          `yaml:"texture_width"`
	TextureHeight int          `yaml:"texture_height"`
	Sprites       []SpriteRect `yaml:"sprites"`
}

// SpriteSheetPaths returns the texture and layout paths of a sprite group, e.g.
// "sprites/ball.png" and "sprites/ball.yaml".
func SpriteSheetPaths(name string) (texture, layout string) {
	return "sprites/" + name + ".png", "sprites/" + name + ".yaml"
}

// LoadSpriteSheet reads and validates the layout of sprite group name from fsys.
func LoadSpriteSheet(fsys fs.FS, name string) (*SpriteSheet, error) {
	_, path := SpriteSheetPaths(name)
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("sprite sheet %q: %w", name, ErrMissingAsset)
		}
		return nil, fmt.Errorf("sprite sheet %q: %w", name, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sheet SpriteSheet
	if err := dec.Decode(&sheet); err != nil {
		return nil, fmt.Errorf("sprite sheet %q: parse: %w", name, err)
	}

	if len(sheet.Sprites) == 0 {
		return nil, fmt.Errorf("sprite sheet %q: no sprites", name)
	}
	for i, r := range sheet.Sprites {
		if r.Width <= 0 || r.Height <= 0 || r.X < 0 || r.Y < 0 ||
			r.X+r.Width > sheet.TextureWidth || r.Y+r.Height > sheet.TextureHeight {
			return nil, fmt.Errorf("sprite sheet %q: sprite %d out of texture bounds", name, i)
		}
	}
	return &sheet, nil
}
