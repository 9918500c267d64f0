// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/ecs/debugui"
	gameebiten "github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and its window. imgui.ini is disabled.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: b}
}

// Overlay runs ImguiSystem on its own dispatcher so the debug windows keep
// rendering while the simulation is paused.
type Overlay struct {
	backend    *ImguiBackend
	dispatcher *ecs.Dispatcher
}

func NewOverlay(backend *ImguiBackend, storage *ecs.Storage) (*Overlay, error) {
	d, err := ecs.NewDispatcherBuilder().With(&debugui.ImguiSystem{}, "imgui_system").Build()
	if err != nil {
		return nil, err
	}
	if err := d.Setup(storage); err != nil {
		return nil, err
	}
	return &Overlay{backend: backend, dispatcher: d}, nil
}

// Update builds one ImGui frame from every ImguiItem in storage.
func (o *Overlay) Update(dt float64) {
	o.backend.BeginFrame()
	o.dispatcher.Dispatch(dt)
	o.backend.EndFrame()
}

func (o *Overlay) Draw(screen *gameebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.Layout(outsideWidth, outsideHeight)
}

// InputState returns whether ImGui wants the mouse and keyboard.
func (o *Overlay) InputState() debugui.ImguiInputState {
	var state *debugui.ImguiInputState
	if o.dispatcher.Storage().ReadSingleton(&state) {
		return *state
	}
	return debugui.ImguiInputState{}
}
