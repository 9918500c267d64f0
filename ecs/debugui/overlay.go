package debugui

import "github.com/firebitsbr/singularity/ecs"

// OverlayName tags the root entity of the overlay.
type OverlayName string

// Overlay is the set of debug windows spawned by SpawnOverlay.
type Overlay struct {
	Browser     *EntityBrowser
	Inspector   *ComponentInspector
	Performance *PerformanceStats
}

// SpawnOverlay creates the debug windows as ImguiItem entities under one root
// linked through ecs.Parent, so deleting the root subtree removes the whole
// overlay. dispatcher may be nil; it is called every frame for system timings.
func SpawnOverlay(storage *ecs.Storage, dispatcher func() *ecs.Dispatcher) (ecs.EntityId, *Overlay) {
	ecs.Register[ImguiItem](storage)
	ecs.Register[OverlayName](storage)
	ecs.Register[ecs.Parent](storage)

	overlay := &Overlay{
		Browser:     NewEntityBrowser(100),
		Inspector:   NewComponentInspector(),
		Performance: NewPerformanceStats(120),
	}

	root := storage.Spawn(OverlayName("debug overlay"))
	storage.Spawn(
		ImguiItem{Render: func() { overlay.Browser.Render(storage) }},
		ecs.Parent{Entity: root},
	)
	storage.Spawn(
		ImguiItem{Render: func() { overlay.Inspector.Render(storage, overlay.Browser.SelectedEntity()) }},
		ecs.Parent{Entity: root},
	)
	storage.Spawn(
		ImguiItem{Render: func() { overlay.Performance.Render(storage, dispatcher) }},
		ecs.Parent{Entity: root},
	)
	return root, overlay
}

// OverlayUI spawns the overlay each time a screen builds its UI and keeps the
// windows of the latest spawn so the host can reach the selection.
type OverlayUI struct {
	Dispatcher func() *ecs.Dispatcher

	current *Overlay
}

func (u *OverlayUI) BuildUI(storage *ecs.Storage) (ecs.EntityId, error) {
	root, overlay := SpawnOverlay(storage, u.Dispatcher)
	u.current = overlay
	return root, nil
}

// Current returns the windows of the latest spawn, or nil before the first.
func (u *OverlayUI) Current() *Overlay { return u.current }
