package debugui

import (
	"github.com/plus3/gemboard/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// StageStats is the scheduler snapshot of one app stage.
type StageStats struct {
	Stage string
	Stats *ecs.SchedulerStats
}

// StatsSource is the singleton the performance window reads system timings
// from.
type StatsSource struct {
	Stages func() []StageStats
}
