package ebiten

import (
	"sync"

	"github.com/firebitsbr/singularity/game"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

var _ game.Audio = (*Audio)(nil)

// Audio owns the process-wide ebiten audio context. ebiten allows only one
// context per process, so InitOutput creates it at most once.
type Audio struct {
	sampleRate int
	once       sync.Once
	ctx        *audio.Context
}

func NewAudio(sampleRate int) *Audio {
	return &Audio{sampleRate: sampleRate}
}

func (a *Audio) InitOutput() error {
	a.once.Do(func() {
		a.ctx = audio.NewContext(a.sampleRate)
	})
	return nil
}

// Context returns the audio context, or nil before InitOutput.
func (a *Audio) Context() *audio.Context {
	return a.ctx
}
