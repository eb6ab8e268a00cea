package ecs

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats summarises system execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds timing for one registered system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	SkipCount      int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// SystemOption customises a system at registration.
type SystemOption func(*registeredSystem)

// RunIf skips the system on frames where cond returns false.
func RunIf(cond Condition) SystemOption {
	return func(r *registeredSystem) {
		r.conditions = append(r.conditions, cond)
	}
}

// Named overrides the name reported in stats.
func Named(name string) SystemOption {
	return func(r *registeredSystem) {
		r.stats.Name = name
	}
}

type queryExecutor interface {
	Execute()
}

type registeredSystem struct {
	system     System
	queries    []queryExecutor
	conditions []Condition
	stats      SystemStats
}

// Scheduler runs registered systems in order and flushes their commands
// once per frame.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
}

func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage systems run against.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register appends system and wires its Query and Singleton fields.
func (s *Scheduler) Register(system System, opts ...SystemOption) {
	r := &registeredSystem{
		system: system,
		stats: SystemStats{
			Name:        systemName(system),
			MinDuration: time.Duration(1<<63 - 1),
		},
	}
	r.queries = s.initializeFields(system)
	for _, opt := range opts {
		opt(r)
	}
	s.systems = append(s.systems, r)
}

func systemName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		// Drop the type arguments of generic systems.
		if i := strings.IndexByte(name, '['); i >= 0 {
			return name[:i]
		}
		return name
	}
	return t.String()
}

// initializeFields calls Init on every exported Query[...] and Singleton[...]
// field and returns the queries so they can be refreshed before each run.
func (s *Scheduler) initializeFields(system System) []queryExecutor {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryExecutor
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		init := field.Addr().MethodByName("Init")
		if !init.IsValid() {
			panic("ecs: Init method not found on field " + value.Type().Field(i).Name)
		}
		init.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if q, ok := field.Addr().Interface().(queryExecutor); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

func (r *registeredSystem) ready(storage *Storage) bool {
	for _, cond := range r.conditions {
		if !cond(storage) {
			return false
		}
	}
	return true
}

// Once runs every system once with delta time dt, then flushes commands.
// If a system calls frame.Fail the remaining systems are skipped, commands
// are still flushed, and the error is returned.
func (s *Scheduler) Once(dt float64) error {
	frame := newUpdateFrame(dt, s.storage)

	var failed string
	for _, r := range s.systems {
		if !r.ready(s.storage) {
			r.stats.SkipCount++
			continue
		}

		for _, q := range r.queries {
			q.Execute()
		}

		start := time.Now()
		r.system.Execute(frame)
		r.record(time.Since(start))

		if frame.err != nil {
			failed = r.stats.Name
			break
		}
	}

	frame.Commands.Flush(s.storage)

	if frame.err != nil {
		return fmt.Errorf("%s: %w", failed, frame.err)
	}
	return nil
}

func (r *registeredSystem) record(d time.Duration) {
	r.stats.ExecutionCount++
	r.stats.LastDuration = d
	r.stats.TotalDuration += d
	r.stats.MinDuration = min(r.stats.MinDuration, d)
	r.stats.MaxDuration = max(r.stats.MaxDuration, d)
}

// Run calls Once every interval until ctx is cancelled or a frame fails.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := s.Once(dt); err != nil {
				return err
			}
		}
	}
}

// GetStats returns a snapshot of execution statistics.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, r := range s.systems {
		st := r.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		} else {
			st.MinDuration = 0
		}
		stats.Systems[i] = st
		stats.TotalExecutions += st.ExecutionCount
	}
	return stats
}
