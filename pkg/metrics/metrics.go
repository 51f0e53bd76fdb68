// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides run-level metrics collection for scenario
// drivers, adapted from the teacher's HTTP request/response collector to
// the scheduler-domain events of spec.md §4: admissions, shrinks,
// evictions, drops, and per-job scores.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/plan"
)

// Collector is the interface for scheduler metrics collection.
type Collector interface {
	RecordAdmission(algorithm string, j *job.Job)
	RecordShrink(algorithm string, j *job.Job)
	RecordEviction(algorithm string, evicted, by *job.Job)
	RecordDrop(algorithm string, j *job.Job)
	RecordFinish(algorithm string, j *job.Job)
	GetStats() *Stats
	Reset()
}

// Stats contains aggregated run statistics.
type Stats struct {
	TotalAdmissions int64
	TotalShrinks    int64
	TotalEvictions  int64
	TotalDrops      int64
	TotalFinishes   int64

	AdmissionsByAlgorithm map[string]int64
	FinishesByPriority    map[string]int64
	ScoreStats            ScoreStats

	StartTime time.Time
	Duration  time.Duration
}

// ScoreStats aggregates the score distribution of spec.md §4.7 across all
// finished jobs, regardless of priority.
type ScoreStats struct {
	Count   int64
	Total   int64
	Min     int64
	Max     int64
	Average float64
}

// InMemoryCollector is an in-memory Collector implementation safe for
// concurrent use by pkg/pool's scenario workers.
type InMemoryCollector struct {
	mu sync.RWMutex

	totalAdmissions int64
	totalShrinks    int64
	totalEvictions  int64
	totalDrops      int64
	totalFinishes   int64

	admissionsByAlgorithm map[string]*int64
	finishesByPriority    map[string]*int64
	scores                *scoreAggregator

	startTime time.Time
}

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		admissionsByAlgorithm: make(map[string]*int64),
		finishesByPriority:    make(map[string]*int64),
		scores:                newScoreAggregator(),
		startTime:             time.Now(),
	}
}

func (c *InMemoryCollector) RecordAdmission(algorithm string, j *job.Job) {
	atomic.AddInt64(&c.totalAdmissions, 1)
	incrementMapCounter(&c.mu, c.admissionsByAlgorithm, algorithm)
}

func (c *InMemoryCollector) RecordShrink(algorithm string, j *job.Job) {
	atomic.AddInt64(&c.totalShrinks, 1)
}

func (c *InMemoryCollector) RecordEviction(algorithm string, evicted, by *job.Job) {
	atomic.AddInt64(&c.totalEvictions, 1)
}

func (c *InMemoryCollector) RecordDrop(algorithm string, j *job.Job) {
	atomic.AddInt64(&c.totalDrops, 1)
}

func (c *InMemoryCollector) RecordFinish(algorithm string, j *job.Job) {
	atomic.AddInt64(&c.totalFinishes, 1)
	incrementMapCounter(&c.mu, c.finishesByPriority, j.Priority.String())
	c.scores.add(int64(j.Score))
}

// GetStats returns current metrics statistics.
func (c *InMemoryCollector) GetStats() *Stats {
	return &Stats{
		TotalAdmissions:       atomic.LoadInt64(&c.totalAdmissions),
		TotalShrinks:          atomic.LoadInt64(&c.totalShrinks),
		TotalEvictions:        atomic.LoadInt64(&c.totalEvictions),
		TotalDrops:            atomic.LoadInt64(&c.totalDrops),
		TotalFinishes:         atomic.LoadInt64(&c.totalFinishes),
		AdmissionsByAlgorithm: c.copyMapCounters(c.admissionsByAlgorithm),
		FinishesByPriority:    c.copyMapCounters(c.finishesByPriority),
		ScoreStats:            c.scores.stats(),
		StartTime:             c.startTime,
		Duration:              time.Since(c.startTime),
	}
}

// Reset resets all metrics.
func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.totalAdmissions, 0)
	atomic.StoreInt64(&c.totalShrinks, 0)
	atomic.StoreInt64(&c.totalEvictions, 0)
	atomic.StoreInt64(&c.totalDrops, 0)
	atomic.StoreInt64(&c.totalFinishes, 0)

	c.admissionsByAlgorithm = make(map[string]*int64)
	c.finishesByPriority = make(map[string]*int64)
	c.scores = newScoreAggregator()
	c.startTime = time.Now()
}

func incrementMapCounter(mu *sync.RWMutex, m map[string]*int64, key string) {
	mu.Lock()
	counter, exists := m[key]
	if !exists {
		var v int64
		counter = &v
		m[key] = counter
	}
	mu.Unlock()
	atomic.AddInt64(counter, 1)
}

func (c *InMemoryCollector) copyMapCounters(m map[string]*int64) map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]int64, len(m))
	for k, v := range m {
		result[k] = atomic.LoadInt64(v)
	}
	return result
}

// scoreAggregator aggregates the score distribution across finished jobs.
type scoreAggregator struct {
	mu    sync.Mutex
	count int64
	total int64
	min   int64
	max   int64
}

func newScoreAggregator() *scoreAggregator {
	return &scoreAggregator{min: int64(1<<63 - 1)}
}

func (a *scoreAggregator) add(score int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	a.total += score
	if score < a.min {
		a.min = score
	}
	if score > a.max {
		a.max = score
	}
}

func (a *scoreAggregator) stats() ScoreStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats := ScoreStats{Count: a.count, Total: a.total, Min: a.min, Max: a.max}
	if a.count == 0 {
		stats.Min = 0
	} else {
		stats.Average = float64(a.total) / float64(a.count)
	}
	return stats
}

// NoOpCollector discards every recorded event.
type NoOpCollector struct{}

func (NoOpCollector) RecordAdmission(algorithm string, j *job.Job)          {}
func (NoOpCollector) RecordShrink(algorithm string, j *job.Job)             {}
func (NoOpCollector) RecordEviction(algorithm string, evicted, by *job.Job) {}
func (NoOpCollector) RecordDrop(algorithm string, j *job.Job)               {}
func (NoOpCollector) RecordFinish(algorithm string, j *job.Job)             {}
func (NoOpCollector) GetStats() *Stats                                     { return &Stats{} }
func (NoOpCollector) Reset()                                               {}

var defaultCollector Collector = &NoOpCollector{}

// SetDefaultCollector sets the package-level default collector.
func SetDefaultCollector(collector Collector) {
	if collector == nil {
		collector = &NoOpCollector{}
	}
	defaultCollector = collector
}

// GetDefaultCollector returns the package-level default collector.
func GetDefaultCollector() Collector {
	return defaultCollector
}

// RecordPlan replays a finished plan's completed and dropped jobs
// through c. The engine itself stays free of metrics concerns (spec.md
// §5): this is the one seam where per-run outcomes are observed, after
// the fact, from the plan an algorithm produced. Shared by pkg/pool's
// concurrent scenario runs and cmd/bwsched's single-run reporting so
// both replay the same events the same way.
func RecordPlan(c Collector, algorithm string, p *plan.ExecutionPlan) {
	if p == nil {
		return
	}
	for _, j := range p.Completed {
		c.RecordAdmission(algorithm, j)
		if j.IsShrunk() {
			c.RecordShrink(algorithm, j)
		}
		for range j.PreemptionLog {
			c.RecordEviction(algorithm, j, nil)
		}
		c.RecordFinish(algorithm, j)
	}
	for _, j := range p.Dropped {
		c.RecordDrop(algorithm, j)
	}
}
