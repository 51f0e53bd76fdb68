// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the discrete-time simulation loop shared by
// all three scheduling algorithms (spec.md §4.1-§4.6) plus the total
// comparator that every "pick best job" decision in the spec reduces to.
package engine

import (
	"errors"
	"fmt"
	"sort"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/logging"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// Algorithm selects one of the three scheduling strategies (spec.md §6.1).
type Algorithm string

const (
	SimpleGreedy       Algorithm = "SG"
	GreedyCompression  Algorithm = "GC"
	PreemptivePriority Algorithm = "PP"
)

// Scheduler is the contract shared by all three algorithms (spec.md §4.1).
type Scheduler interface {
	Run(w *workload.Workload, capacity int) (*plan.ExecutionPlan, error)
}

// Options configures a single Run beyond the mandatory workload/capacity
// pair, carrying the ambient and Non-goal-adjacent knobs of spec.md §5,
// §9 open question 3, and the logging described in SPEC_FULL.md §2.1.
type Options struct {
	// Horizon, if > 0, causes any job whose projected end would exceed it
	// to be marked DROPPED instead of admitted (spec.md §9 open question 3).
	Horizon int
	// MaxTicks, if > 0, bounds the simulation loop. Exceeding it is a
	// caller-level error (spec.md §5), not an engine invariant breach.
	MaxTicks int
	// Logger receives tick-level admission/shrink/eviction/retirement
	// events at Debug and a run summary at Info. Defaults to a no-op.
	Logger logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NoOpLogger{}
	}
	return o.Logger
}

// New resolves the Scheduler implementation for an algorithm tag,
// shared by pkg/pool and cmd/bwsched so neither has to re-derive the
// (algorithm string -> Scheduler) mapping.
func New(algo Algorithm, opts Options) (Scheduler, error) {
	switch algo {
	case SimpleGreedy:
		return &SimpleGreedyScheduler{Options: opts}, nil
	case GreedyCompression:
		return &GreedyCompressionScheduler{Options: opts}, nil
	case PreemptivePriority:
		return &PreemptivePriorityScheduler{Options: opts}, nil
	default:
		return nil, fmt.Errorf("engine: unknown algorithm %q", algo)
	}
}

// ErrMaxTicksExceeded is returned by Run when the simulation would exceed
// Options.MaxTicks without draining. It is a driver-level concern, never
// an invariant breach (spec.md §5).
var ErrMaxTicksExceeded = errors.New("engine: max tick budget exceeded without draining waiting/in-progress sets")

// compare implements the total, deterministic ordering of spec.md §4.1:
// higher priority first, then earlier arrival, then lower id. It is used
// for every admission decision. Eviction and compression candidates are
// ordered differently, by ascending priority then longest remaining
// duration (see evictionCandidates in preemptive.go and
// compressionCandidates in compression.go).
func compare(a, b *job.Job) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.CreatedTime != b.CreatedTime {
		return a.CreatedTime < b.CreatedTime
	}
	return a.ID < b.ID
}

// sortByAdmissionOrder orders a slice of jobs using compare, in place.
func sortByAdmissionOrder(jobs []*job.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return compare(jobs[i], jobs[k])
	})
}

// runtime bundles the waiting/running/completed/dropped collections that
// every algorithm's tick loop threads through, replacing the source's
// nonlocal closures over scheduler state with ordinary struct fields
// (spec.md §9 design note).
type runtime struct {
	capacity  int
	used      int
	waiting   []*job.Job
	running   []*job.Job
	completed []*job.Job
	dropped   []*job.Job
	opts      Options
}

func newRuntime(w *workload.Workload, capacity int, opts Options) *runtime {
	waiting := make([]*job.Job, len(w.Jobs))
	copy(waiting, w.Jobs)
	return &runtime{
		capacity: capacity,
		waiting:  waiting,
		opts:     opts,
	}
}

func (rt *runtime) free() int {
	return rt.capacity - rt.used
}

// applyHorizon drops any waiting job whose projected end would exceed the
// configured horizon (spec.md §4.6, §7.4, §9 open question 3). Every
// Scheduler.Run calls this exactly once, against ProjectedEnd() as of
// CreatedTime, before the tick loop starts; it is not re-evaluated per
// tick. A job deferred past its creation tick can grow its projected end
// beyond the horizon mid-run without being caught here — only the
// once-only, pre-loop check is implemented.
func (rt *runtime) applyHorizon() error {
	if rt.opts.Horizon <= 0 {
		return nil
	}
	kept := rt.waiting[:0:0]
	for _, j := range rt.waiting {
		if j.ProjectedEnd() > rt.opts.Horizon {
			if err := j.Drop(); err != nil {
				return err
			}
			rt.dropped = append(rt.dropped, j)
			rt.opts.logger().Debug("job dropped: horizon exceeded",
				"job_id", j.ID, "projected_end", j.ProjectedEnd(), "horizon", rt.opts.Horizon)
			continue
		}
		kept = append(kept, j)
	}
	rt.waiting = kept
	return nil
}

// retireDue moves every running job whose remaining duration reaches zero
// this tick to FINISHED and returns capacity (spec.md §4.2 step 1, §9
// open question 2: decrement happens here, at the top of each tick).
func (rt *runtime) retireDue(t int) error {
	still := rt.running[:0:0]
	for _, j := range rt.running {
		finished, err := j.Retire(t)
		if err != nil {
			return err
		}
		if finished {
			rt.used -= j.Bandwidth
			if rt.used < 0 {
				return bwerrors.NewInvariantBreach("capacity underflow on retirement")
			}
			rt.completed = append(rt.completed, j)
			rt.opts.logger().Debug("job finished", "job_id", j.ID, "end", t)
			continue
		}
		still = append(still, j)
	}
	rt.running = still
	return nil
}

// admit puts j IN_PROGRESS at tick t and accounts for its bandwidth.
func (rt *runtime) admit(j *job.Job, t int) error {
	if j.Bandwidth > rt.free() {
		return bwerrors.NewInvariantBreach("admit called without sufficient free capacity")
	}
	if err := j.Admit(t); err != nil {
		return err
	}
	rt.used += j.Bandwidth
	rt.running = append(rt.running, j)
	rt.opts.logger().Debug("job admitted", "job_id", j.ID, "start", t, "bandwidth", j.Bandwidth)
	return nil
}

// drained reports the termination condition of spec.md §4.2:
// both the waiting set and the in-progress set are empty.
func (rt *runtime) drained() bool {
	return len(rt.waiting) == 0 && len(rt.running) == 0
}

// buildPlan assembles the ExecutionPlan from the runtime's terminal state.
func (rt *runtime) buildPlan() *plan.ExecutionPlan {
	p := plan.New(rt.capacity)
	p.Completed = rt.completed
	p.Dropped = rt.dropped
	rt.opts.logger().Info("run complete", "completed", len(p.Completed), "dropped", len(p.Dropped))
	return p
}

// dueAt partitions waiting into jobs eligible for consideration at tick t
// (ActualStartTime == t) and the rest, in spec.md §4.1 admission order.
func dueAt(waiting []*job.Job, t int) (due []*job.Job, rest []*job.Job) {
	for _, j := range waiting {
		if j.ActualStartTime == t {
			due = append(due, j)
		} else {
			rest = append(rest, j)
		}
	}
	sortByAdmissionOrder(due)
	return due, rest
}
