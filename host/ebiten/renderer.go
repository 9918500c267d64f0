package ebiten

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"slices"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var _ game.Renderer = (*Renderer)(nil)

type spriteGroup struct {
	name    string
	texture *ebiten.Image
	sprites []*ebiten.Image
}

// Renderer loads sprite sheets from an asset filesystem and draws every entity
// with a Transform and a SpriteRef.
type Renderer struct {
	assets  fs.FS
	groups  []*spriteGroup
	byName  map[string]game.RenderHandle
	visible []drawable
}

type drawable struct {
	Transform *game.Transform `ecs:"read"`
	Sprite    *game.SpriteRef `ecs:"read"`
	Tint      *game.Tint      `ecs:"read,optional"`
}

func NewRenderer(assets fs.FS) *Renderer {
	return &Renderer{assets: assets, byName: make(map[string]game.RenderHandle)}
}

func (r *Renderer) LoadSpriteGroup(name string) (game.RenderHandle, error) {
	if h, ok := r.byName[name]; ok {
		return h, nil
	}

	sheet, err := game.LoadSpriteSheet(r.assets, name)
	if err != nil {
		return 0, err
	}
	path, _ := game.SpriteSheetPaths(name)
	texture, _, err := ebitenutil.NewImageFromFileSystem(r.assets, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("texture %s: %w", path, game.ErrMissingAsset)
		}
		return 0, fmt.Errorf("texture %s: %w", path, err)
	}

	group := &spriteGroup{name: name, texture: texture}
	for _, rect := range sheet.Sprites {
		sub := texture.SubImage(image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height))
		group.sprites = append(group.sprites, sub.(*ebiten.Image))
	}

	r.groups = append(r.groups, group)
	h := game.RenderHandle(len(r.groups))
	r.byName[name] = h
	return h, nil
}

func (r *Renderer) SpriteRef(handle game.RenderHandle, index int) game.SpriteRef {
	return game.SpriteRef{Handle: handle, Index: index}
}

func (r *Renderer) sprite(ref game.SpriteRef) *ebiten.Image {
	if ref.Handle == 0 || int(ref.Handle) > len(r.groups) {
		return nil
	}
	group := r.groups[ref.Handle-1]
	if ref.Index < 0 || ref.Index >= len(group.sprites) {
		return nil
	}
	return group.sprites[ref.Index]
}

// Draw renders the arena onto screen, lowest layer first. World coordinates
// have their origin bottom-left and are scaled to the screen size.
func (r *Renderer) Draw(screen *ebiten.Image, storage *ecs.Storage, arena game.Arena) {
	bounds := screen.Bounds()
	sx := float64(bounds.Dx()) / float64(arena.Width)
	sy := float64(bounds.Dy()) / float64(arena.Height)

	r.visible = r.visible[:0]
	for item := range ecs.NewView[drawable](storage).Values() {
		r.visible = append(r.visible, item)
	}
	slices.SortStableFunc(r.visible, func(a, b drawable) int {
		return cmp.Compare(a.Transform.Z, b.Transform.Z)
	})

	for _, item := range r.visible {
		img := r.sprite(*item.Sprite)
		if img == nil {
			continue
		}
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		scale := float64(item.Transform.Scale)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		op.GeoM.Scale(scale*sx, scale*sy)
		op.GeoM.Translate(float64(item.Transform.X)*sx, float64(bounds.Dy())-float64(item.Transform.Y)*sy)
		if item.Tint != nil {
			// ColorScale is premultiplied.
			tint := item.Tint.Premultiplied()
			op.ColorScale.Scale(tint.R, tint.G, tint.B, tint.A)
		}
		screen.DrawImage(img, op)
	}
}
