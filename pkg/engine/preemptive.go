// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sort"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// PreemptivePriorityScheduler implements spec.md §4.5: a due job that does
// not fit may evict running jobs whose priority is less than or equal to
// its own (spec.md §9 open question 1, pinned to "<=" per §4.1 step 3),
// lowest priority first, then longest remaining duration first. Eviction
// is atomic, mirroring GreedyCompression's shrink-or-revert shape.
type PreemptivePriorityScheduler struct {
	Options Options
}

var _ Scheduler = (*PreemptivePriorityScheduler)(nil)

func (s *PreemptivePriorityScheduler) Run(w *workload.Workload, capacity int) (*plan.ExecutionPlan, error) {
	rt := newRuntime(w, capacity, s.Options)
	if err := rt.applyHorizon(); err != nil {
		return nil, err
	}

	for t := 0; !rt.drained(); t++ {
		if rt.opts.MaxTicks > 0 && t > rt.opts.MaxTicks {
			return nil, ErrMaxTicksExceeded
		}
		if err := rt.retireDue(t); err != nil {
			return nil, err
		}
		if err := rt.tickAdmitWithPreemption(t); err != nil {
			return nil, err
		}
	}
	return rt.buildPlan(), nil
}

// evictionCandidates orders running jobs eligible to be evicted in favor
// of j: priority <= j.priority, ascending priority then descending
// remaining duration, then id (spec.md §4.1 step 3, §4.5 step 1).
func evictionCandidates(running []*job.Job, j *job.Job) []*job.Job {
	candidates := make([]*job.Job, 0, len(running))
	for _, c := range running {
		if c.Priority <= j.Priority {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, k int) bool {
		a, b := candidates[i], candidates[k]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.RemainingDuration != b.RemainingDuration {
			return a.RemainingDuration > b.RemainingDuration
		}
		return a.ID < b.ID
	})
	return candidates
}

// tickAdmitWithPreemption implements spec.md §4.5: plain admit first, a
// preemption sweep on failure, then defer.
func (rt *runtime) tickAdmitWithPreemption(t int) error {
	due, rest := dueAt(rt.waiting, t)
	// tryPreempt re-queues evicted jobs by appending to rt.waiting; start it
	// empty here so those jobs are merged with rest below instead of lost.
	rt.waiting = nil
	for _, j := range due {
		if j.Bandwidth <= rt.free() {
			if err := rt.admit(j, t); err != nil {
				return err
			}
			continue
		}
		fit, err := rt.tryPreempt(j, t)
		if err != nil {
			return err
		}
		if fit {
			if err := rt.admit(j, t); err != nil {
				return err
			}
			continue
		}
		j.Defer()
		rest = append(rest, j)
	}
	rt.waiting = append(rest, rt.waiting...)
	return nil
}

// tryPreempt evicts running jobs in evictionCandidates order until j fits
// or the eligible set is exhausted. On success, evictions are committed:
// each evicted job's completed segment is logged, it returns to PENDING
// with its remaining duration intact and resumes at t+1 (spec.md §4.5
// step 3). On failure, nothing changes (bookkeeping was only tentative).
func (rt *runtime) tryPreempt(j *job.Job, t int) (bool, error) {
	candidates := evictionCandidates(rt.running, j)
	freed := 0
	evicted := make([]*job.Job, 0, len(candidates))

	for _, c := range candidates {
		if j.Bandwidth <= rt.free()+freed {
			break
		}
		freed += c.Bandwidth
		evicted = append(evicted, c)
	}

	if j.Bandwidth > rt.free()+freed {
		return false, nil
	}

	evictedSet := make(map[int]bool, len(evicted))
	for _, c := range evicted {
		evictedSet[c.ID] = true
	}
	still := rt.running[:0:0]
	for _, c := range rt.running {
		if evictedSet[c.ID] {
			continue
		}
		still = append(still, c)
	}
	rt.running = still

	for _, c := range evicted {
		lastStart := c.ActualStartTime
		if err := c.Evict(lastStart, t); err != nil {
			return false, bwerrors.NewInvariantBreach(err.Error())
		}
		rt.used -= c.Bandwidth
		rt.waiting = append(rt.waiting, c)
		rt.opts.logger().Debug("job evicted", "evicted_job_id", c.ID, "by_job_id", j.ID, "tick", t)
	}
	return true, nil
}
