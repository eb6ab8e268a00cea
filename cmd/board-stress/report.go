package main

import (
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/gemboard/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Boards   int
	Width    uint32
	Height   uint32
	GemTypes uint32

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Tally          Tally
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// merge folds one worker into the report. Systems with the same name are
// summed.
func (r *Report) merge(w workerResult) {
	r.TotalUpdates += w.Updates
	r.UpdateTime.Samples = append(r.UpdateTime.Samples, w.Samples...)
	r.Tally.add(w.Tally)

	for _, sys := range w.Systems {
		i := sort.Search(len(r.Systems), func(i int) bool { return r.Systems[i].Name >= sys.Name })
		if i < len(r.Systems) && r.Systems[i].Name == sys.Name {
			existing := &r.Systems[i]
			existing.ExecutionCount += sys.ExecutionCount
			existing.SkipCount += sys.SkipCount
			existing.TotalDuration += sys.TotalDuration
			existing.MaxDuration = max(existing.MaxDuration, sys.MaxDuration)
			if existing.ExecutionCount > 0 {
				existing.AvgDuration = existing.TotalDuration / time.Duration(existing.ExecutionCount)
			}
			continue
		}
		r.Systems = append(r.Systems, ecs.SystemStats{})
		copy(r.Systems[i+1:], r.Systems[i:])
		r.Systems[i] = sys
	}
}

const reportTemplate = `
# Board Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Boards:** {{.Boards}}
- **Board Size:** {{.Width}}x{{.Height}}, {{.GemTypes}} gem types

## Board Activity
- **Swaps:** {{.Tally.Swaps}} accepted, {{.Tally.FailedSwaps}} reverted
- **Gems Popped:** {{.Tally.Popped}}
- **Shuffles:** {{.Tally.Shuffles}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
