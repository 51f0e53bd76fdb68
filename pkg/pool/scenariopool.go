// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package pool provides the scenario driver's worker pool: the only place
// in this module where independent (algorithm, workload) pairs execute
// concurrently (spec.md §5 — the engine itself is strictly single-threaded
// per instance). Adapted from the teacher's HTTP connection pool, keyed by
// algorithm tag instead of endpoint.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/logging"
	"github.com/jontk/bwsched/pkg/metrics"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// Scenario is one (algorithm, workload, capacity) unit of work submitted
// to the pool. Each scenario owns its Workload exclusively (spec.md §5);
// callers must pass independent copies (workload.Workload.Clone) when the
// same base workload feeds multiple scenarios.
type Scenario struct {
	Name      string
	Algorithm engine.Algorithm
	Workload  *workload.Workload
	Capacity  int
	Options   engine.Options
}

// Result is a completed scenario's outcome.
type Result struct {
	Scenario Scenario
	Plan     *plan.ExecutionPlan
	Err      error
	Duration time.Duration
}

// ScenarioPool runs a bounded number of scenarios concurrently, mirroring
// the fixed-size worker pool shape of the teacher's connection pool and
// the priority-queue worker pool in this module's pack (SPEC_FULL.md §3.4).
type ScenarioPool struct {
	workers int
	logger  logging.Logger
	metrics metrics.Collector

	mu    sync.Mutex
	usage map[engine.Algorithm]*algorithmStats
}

type algorithmStats struct {
	runCount int64
	lastRun  time.Time
}

// PoolConfig configures a ScenarioPool.
type PoolConfig struct {
	// Workers is the number of concurrent scenario executions. Defaults
	// to 4 if <= 0.
	Workers int
}

// DefaultPoolConfig returns a small, CI-friendly worker count.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{Workers: 4}
}

// New creates a ScenarioPool. Metrics are recorded through the
// package-level default collector (pkg/metrics.SetDefaultCollector);
// callers that want isolated counts per pool should call SetCollector.
func New(config *PoolConfig, logger logging.Logger) *ScenarioPool {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ScenarioPool{
		workers: config.Workers,
		logger:  logger,
		metrics: metrics.GetDefaultCollector(),
		usage:   make(map[engine.Algorithm]*algorithmStats),
	}
}

// SetCollector overrides the metrics collector used for this pool's runs.
func (p *ScenarioPool) SetCollector(c metrics.Collector) {
	if c == nil {
		c = metrics.NoOpCollector{}
	}
	p.metrics = c
}

// Run executes every scenario, at most p.workers concurrently, and
// returns results in the same order as the input (spec.md §8
// Determinism: each scenario's own outcome is unaffected by how many
// others ran alongside it, since instances share nothing).
func (p *ScenarioPool) Run(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, len(scenarios))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc Scenario) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{Scenario: sc, Err: ctx.Err()}
				return
			}
			results[i] = p.runOne(sc)
		}(i, sc)
	}

	wg.Wait()
	return results
}

func (p *ScenarioPool) runOne(sc Scenario) Result {
	start := time.Now()
	sched, err := engine.New(sc.Algorithm, sc.Options)
	if err != nil {
		return Result{Scenario: sc, Err: err, Duration: time.Since(start)}
	}

	executionPlan, err := sched.Run(sc.Workload, sc.Capacity)
	duration := time.Since(start)

	p.recordUsage(sc.Algorithm)
	if err != nil {
		p.logger.Error("scenario failed", "scenario", sc.Name, "algorithm", sc.Algorithm, "error", err.Error())
	} else {
		p.logger.Debug("scenario completed", "scenario", sc.Name, "algorithm", sc.Algorithm, "duration_ms", duration.Milliseconds())
		metrics.RecordPlan(p.metrics, string(sc.Algorithm), executionPlan)
	}

	return Result{Scenario: sc, Plan: executionPlan, Err: err, Duration: duration}
}

func (p *ScenarioPool) recordUsage(algo engine.Algorithm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	stats, ok := p.usage[algo]
	if !ok {
		stats = &algorithmStats{}
		p.usage[algo] = stats
	}
	stats.runCount++
	stats.lastRun = time.Now()
}

// Stats reports how many scenarios have run per algorithm.
func (p *ScenarioPool) Stats() map[engine.Algorithm]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[engine.Algorithm]int64, len(p.usage))
	for algo, s := range p.usage {
		out[algo] = s.runCount
	}
	return out
}
