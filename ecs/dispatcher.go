package ecs

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DispatcherStats provides statistics about dispatcher execution.
type DispatcherStats struct {
	SystemCount     int
	StageCount      int
	Ticks           uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type systemEntry struct {
	name     string
	system   System
	after    []string
	index    int
	stage    int
	access   Access
	deps     []*systemEntry
	queries  []queryExecutor
	commands *Commands
	stats    systemStatsInternal
}

// DispatcherBuilder collects systems and their "runs after" dependencies.
type DispatcherBuilder struct {
	entries []*systemEntry
	workers int
}

// NewDispatcherBuilder creates an empty builder that runs systems inline.
func NewDispatcherBuilder() *DispatcherBuilder {
	return &DispatcherBuilder{workers: 1}
}

// With adds a system under name that must run after every system named in after.
func (b *DispatcherBuilder) With(system System, name string, after ...string) *DispatcherBuilder {
	b.entries = append(b.entries, &systemEntry{
		name:   name,
		system: system,
		after:  append([]string(nil), after...),
		index:  len(b.entries),
	})
	return b
}

// WithWorkers bounds how many systems of one stage may run at the same time.
// Values below 2 run every system on the calling goroutine.
func (b *DispatcherBuilder) WithWorkers(n int) *DispatcherBuilder {
	b.workers = max(n, 1)
	return b
}

// Build validates the dependency graph and computes the execution plan.
// It fails with a *SystemGraphError if a name is empty or duplicated, a dependency
// is unknown, or the graph has a cycle. No system is executed by Build.
// Every call returns a dispatcher with its own command buffers and stats; the
// system values themselves are shared.
func (b *DispatcherBuilder) Build() (*Dispatcher, error) {
	entries := make([]*systemEntry, len(b.entries))
	for i, e := range b.entries {
		entries[i] = &systemEntry{
			name:     e.name,
			system:   e.system,
			after:    e.after,
			index:    e.index,
			commands: newCommands(),
			stats:    systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
		}
	}

	byName := make(map[string]*systemEntry, len(entries))
	for _, e := range entries {
		if e.name == "" {
			return nil, &SystemGraphError{Kind: GraphEmptyName}
		}
		if _, dup := byName[e.name]; dup {
			return nil, &SystemGraphError{Kind: GraphDuplicateName, System: e.name}
		}
		byName[e.name] = e
	}

	for _, e := range entries {
		for _, dep := range e.after {
			target, ok := byName[dep]
			if !ok {
				return nil, &SystemGraphError{Kind: GraphUnknownDependency, System: e.name, Dependency: dep}
			}
			e.deps = append(e.deps, target)
		}
		e.access = collectAccess(e.system)
	}

	order, err := topologicalOrder(entries)
	if err != nil {
		return nil, err
	}

	stages := planStages(order)

	return &Dispatcher{
		order:   order,
		stages:  stages,
		workers: b.workers,
	}, nil
}

// topologicalOrder runs Kahn's algorithm; among ready systems the one registered
// first goes first, so the order is stable for an unchanged graph.
func topologicalOrder(entries []*systemEntry) ([]*systemEntry, error) {
	indegree := make([]int, len(entries))
	dependents := make([][]*systemEntry, len(entries))
	for _, e := range entries {
		indegree[e.index] = len(e.deps)
		for _, dep := range e.deps {
			dependents[dep.index] = append(dependents[dep.index], e)
		}
	}

	done := make([]bool, len(entries))
	order := make([]*systemEntry, 0, len(entries))
	for len(order) < len(entries) {
		next := -1
		for i := range entries {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			return nil, &SystemGraphError{Kind: GraphCycle, Cycle: findCycle(entries, done)}
		}

		done[next] = true
		order = append(order, entries[next])
		for _, dependent := range dependents[next] {
			indegree[dependent.index]--
		}
	}
	return order, nil
}

// findCycle walks "runs after" edges among the unfinished systems until a system
// repeats. Every unfinished system has an unfinished dependency, so the walk
// always closes.
func findCycle(entries []*systemEntry, done []bool) []string {
	var start *systemEntry
	for i, e := range entries {
		if !done[i] {
			start = e
			break
		}
	}

	seen := make(map[*systemEntry]int)
	var path []*systemEntry
	for cur := start; ; {
		if at, ok := seen[cur]; ok {
			cycle := make([]string, 0, len(path)-at+1)
			for _, e := range path[at:] {
				cycle = append(cycle, e.name)
			}
			return append(cycle, cur.name)
		}
		seen[cur] = len(path)
		path = append(path, cur)

		for _, dep := range cur.deps {
			if !done[dep.index] {
				cur = dep
				break
			}
		}
	}
}

// planStages places every system in the first stage after its dependencies and
// after every earlier system it conflicts with. Systems sharing a stage have
// disjoint access and may run concurrently.
func planStages(order []*systemEntry) [][]*systemEntry {
	var stages [][]*systemEntry
	for i, e := range order {
		stage := 0
		for _, dep := range e.deps {
			stage = max(stage, dep.stage+1)
		}
		for _, prev := range order[:i] {
			if prev.access.Conflicts(e.access) {
				stage = max(stage, prev.stage+1)
			}
		}
		e.stage = stage
		for len(stages) <= stage {
			stages = append(stages, nil)
		}
		stages[stage] = append(stages[stage], e)
	}
	return stages
}

// Dispatcher executes a fixed set of systems once per tick in dependency order.
type Dispatcher struct {
	order   []*systemEntry
	stages  [][]*systemEntry
	workers int
	storage *Storage
	ticks   uint64
}

// Setup binds the dispatcher to storage. It runs every system's Setup hook,
// initialises Query and Singleton fields and checks that every declared
// component type has a table. Calling it again with the same storage is a no-op.
func (d *Dispatcher) Setup(storage *Storage) error {
	if d.storage != nil {
		if d.storage == storage {
			return nil
		}
		return ErrAlreadySetUp
	}

	for _, e := range d.order {
		if setupper, ok := e.system.(Setupper); ok {
			setupper.Setup(storage)
		}
	}

	for _, e := range d.order {
		for _, t := range e.access.Components() {
			if !storage.IsRegistered(t) {
				return fmt.Errorf("system %q: %w: %s", e.name, ErrUnregisteredComponent, t)
			}
		}
	}

	for _, e := range d.order {
		e.queries = initializeFields(e.system, storage)
	}

	d.storage = storage
	return nil
}

// Storage returns the storage bound by Setup, or nil.
func (d *Dispatcher) Storage() *Storage {
	return d.storage
}

// Order returns the system names in execution order.
func (d *Dispatcher) Order() []string {
	names := make([]string, len(d.order))
	for i, e := range d.order {
		names[i] = e.name
	}
	return names
}

// Stages returns the system names grouped by stage. Systems of one stage may run
// concurrently; stages run one after another.
func (d *Dispatcher) Stages() [][]string {
	out := make([][]string, len(d.stages))
	for i, stage := range d.stages {
		for _, e := range stage {
			out[i] = append(out[i], e.name)
		}
	}
	return out
}

// Dispatch executes all systems once with the given delta time. Queries are
// refreshed when the tick starts and every system's commands are flushed in
// execution order once the last stage finished, so structural changes made
// during tick N are visible from tick N+1.
//
// A panicking system is not recovered.
func (d *Dispatcher) Dispatch(dt float64) {
	if d.storage == nil {
		panic(ErrNotSetUp)
	}

	d.ticks++
	tick := d.ticks

	for _, e := range d.order {
		for _, q := range e.queries {
			q.Execute()
		}
	}

	for _, stage := range d.stages {
		if len(stage) == 1 || d.workers <= 1 {
			for _, e := range stage {
				d.execute(e, dt, tick)
			}
			continue
		}

		var g errgroup.Group
		g.SetLimit(d.workers)
		for _, e := range stage {
			g.Go(func() error {
				d.execute(e, dt, tick)
				return nil
			})
		}
		_ = g.Wait()
	}

	for _, e := range d.order {
		e.commands.Flush(d.storage)
	}
}

func (d *Dispatcher) execute(e *systemEntry, dt float64, tick uint64) {
	frame := newUpdateFrame(dt, tick, e.commands, d.storage)

	start := time.Now()
	e.system.Execute(frame)
	duration := time.Since(start)

	stats := &e.stats
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration
	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			d.Dispatch(dt)
		}
	}
}

// GetStats returns statistics about system execution.
// It must not be called while Dispatch is running.
func (d *Dispatcher) GetStats() *DispatcherStats {
	stats := &DispatcherStats{
		SystemCount: len(d.order),
		StageCount:  len(d.stages),
		Ticks:       d.ticks,
		Systems:     make([]SystemStats, len(d.order)),
	}

	var totalExecs int64
	for i, e := range d.order {
		internal := e.stats
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           e.name,
			Stage:          e.stage,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
