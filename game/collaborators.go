package game

// Renderer loads sprite groups and hands out references into them.
type Renderer interface {
	// LoadSpriteGroup loads the sprite sheet named name, e.g. "ball".
	LoadSpriteGroup(name string) (RenderHandle, error)
	SpriteRef(handle RenderHandle, index int) SpriteRef
}

// Audio initialises the audio output device. InitOutput must be idempotent.
type Audio interface {
	InitOutput() error
}
