package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/firebitsbr/singularity/ecs"
)

type (
	C0 float64
	C1 float64
	C2 float64
	C3 float64
	C4 float64
	C5 float64
	C6 float64
	C7 float64
)

type value interface{ ~float64 }

func RegisterComponents(storage *ecs.Storage) {
	ecs.Register[C0](storage)
	ecs.Register[C1](storage)
	ecs.Register[C2](storage)
	ecs.Register[C3](storage)
	ecs.Register[C4](storage)
	ecs.Register[C5](storage)
	ecs.Register[C6](storage)
	ecs.Register[C7](storage)
}

func randomComponent(rng *rand.Rand, kind int) any {
	v := rng.Float64()
	switch kind {
	case 0:
		return C0(v)
	case 1:
		return C1(v)
	case 2:
		return C2(v)
	case 3:
		return C3(v)
	case 4:
		return C4(v)
	case 5:
		return C5(v)
	case 6:
		return C6(v)
	default:
		return C7(v)
	}
}

// SpawnRandomEntity spawns an entity with n distinct random components.
func SpawnRandomEntity(storage *ecs.Storage, rng *rand.Rand, n int) ecs.EntityId {
	kinds := rng.Perm(componentCount)[:min(n, componentCount)]
	components := make([]any, len(kinds))
	for i, kind := range kinds {
		components[i] = randomComponent(rng, kind)
	}
	return storage.Spawn(components...)
}

type pair[R, W value] struct {
	In  *R `ecs:"read"`
	Out *W
}

// pairSystem folds its input component into its output component.
type pairSystem[R, W value] struct {
	Items ecs.Query[pair[R, W]]
}

func (s *pairSystem[R, W]) Execute(*ecs.UpdateFrame) {
	for item := range s.Items.Values() {
		*item.Out = W(float64(*item.Out)*0.5 + float64(*item.In))
	}
}

type churnItem struct {
	Id    ecs.EntityId
	Value *C0 `ecs:"read"`
}

// churnSystem deletes a few entities and spawns replacements every tick.
type churnSystem struct {
	rng   *rand.Rand
	Items ecs.Query[churnItem]
}

func (s *churnSystem) Execute(frame *ecs.UpdateFrame) {
	n := 0
	for item := range s.Items.Values() {
		if n == 8 {
			break
		}
		if float64(*item.Value) < 0.01 {
			frame.Commands.Delete(item.Id)
			frame.Commands.Spawn(C0(s.rng.Float64()), C1(0))
			n++
		}
	}
}

var pairMakers = []func() ecs.System{
	func() ecs.System { return &pairSystem[C0, C1]{} },
	func() ecs.System { return &pairSystem[C1, C2]{} },
	func() ecs.System { return &pairSystem[C2, C3]{} },
	func() ecs.System { return &pairSystem[C3, C4]{} },
	func() ecs.System { return &pairSystem[C4, C5]{} },
	func() ecs.System { return &pairSystem[C5, C6]{} },
	func() ecs.System { return &pairSystem[C6, C7]{} },
	func() ecs.System { return &pairSystem[C7, C0]{} },
	func() ecs.System { return &pairSystem[C0, C4]{} },
	func() ecs.System { return &pairSystem[C2, C6]{} },
	func() ecs.System { return &pairSystem[C5, C1]{} },
	func() ecs.System { return &pairSystem[C7, C3]{} },
}

// AddRandomSystems registers count pair systems plus one churn system. Each
// system depends on up to two earlier ones, so the graph is always acyclic.
func AddRandomSystems(builder *ecs.DispatcherBuilder, rng *rand.Rand, count int) {
	names := make([]string, 0, count)
	for i := range count {
		name := fmt.Sprintf("system_%03d", i)

		var after []string
		if len(names) > 0 {
			for range rng.IntN(3) {
				after = append(after, names[rng.IntN(len(names))])
			}
		}
		after = dedupe(after)

		builder.With(pairMakers[rng.IntN(len(pairMakers))](), name, after...)
		names = append(names, name)
	}
	builder.With(&churnSystem{rng: rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))}, "churn")
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
