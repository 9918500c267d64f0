package main

import (
	"cmp"
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/firebitsbr/singularity/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Entities   int
	Components int
	Systems    int
	Workers    int
	Stages     int

	// Results
	FinalEntities  int
	SlowSystems    []ecs.SystemStats
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats summarises the per-dispatch durations.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P50     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}
	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	s.P50 = percentile(sorted, 50)
	s.P99 = percentile(sorted, 99)
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	return sorted[max(rank-1, 0)]
}

// TicksPerSecond is the achieved dispatch rate.
func (r *Report) TicksPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.TotalUpdates) / r.TotalTime.Seconds()
}

// SetSystemStats keeps the n systems with the largest total duration.
func (r *Report) SetSystemStats(stats *ecs.DispatcherStats, n int) {
	systems := slices.Clone(stats.Systems)
	slices.SortFunc(systems, func(a, b ecs.SystemStats) int {
		return cmp.Compare(b.TotalDuration, a.TotalDuration)
	})
	r.SlowSystems = systems[:min(n, len(systems))]
}

const reportTemplate = `
# Dispatcher Stress Report

## Setup
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}} ({{.FinalEntities}} at the end)
- **Component Types:** {{.Components}}
- **Systems:** {{.Systems}} in {{.Stages}} stages on {{.Workers}} workers

## Dispatch
- **Ticks:** {{.TotalUpdates}} in {{.TotalTime}} ({{printf "%.1f" .TicksPerSecond}}/s)
- **Duration:** avg {{.UpdateTime.Avg}}, p50 {{.UpdateTime.P50}}, p99 {{.UpdateTime.P99}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}

## Slowest Systems
{{range .SlowSystems}}- {{.Name}} (stage {{.Stage}}): avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}
## Memory
| | start | end | delta |
| --- | --- | --- | --- |
| heap alloc | {{mib .MemStatsStart.HeapAlloc}} | {{mib .MemStatsEnd.HeapAlloc}} | {{delta .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} |
| total alloc | {{mib .MemStatsStart.TotalAlloc}} | {{mib .MemStatsEnd.TotalAlloc}} | {{delta .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} |
| sys | {{mib .MemStatsStart.Sys}} | {{mib .MemStatsEnd.Sys}} | {{delta .MemStatsEnd.Sys .MemStatsStart.Sys}} |
- **GC cycles:** {{gcs .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}- **Total GC pause:** {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`

var reportFuncs = template.FuncMap{
	"mib": func(b uint64) string {
		return formatMiB(int64(b))
	},
	"delta": func(end, start uint64) string {
		return formatMiB(int64(end) - int64(start))
	},
	"gcs": func(end, start uint32) uint32 {
		return end - start
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

func formatMiB(b int64) string {
	return fmt.Sprintf("%.2f MiB", float64(b)/(1<<20))
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
