package game

// Draw layers, used as Transform.Z. Higher layers are drawn on top.
const (
	LayerBasePlatform float32 = 1
	LayerResource     float32 = 2
	LayerUnit         float32 = 3
	LayerCamera       float32 = 10
)

// Per-kind sprite scale applied by the factories.
const (
	PlatformScale float32 = 0.25
	ResourceScale float32 = 0.2
	UnitScale     float32 = 0.3
)
