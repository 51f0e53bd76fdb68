// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sort"

	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// GreedyCompressionScheduler implements spec.md §4.4: when a due job does
// not fit, running jobs are tentatively shrunk to their floor, lowest
// priority and longest remaining duration first, until the job fits or
// the sweep is exhausted. The shrink-and-admit is atomic: either some
// subset of running jobs permanently shrinks and the job is admitted, or
// nothing changes.
type GreedyCompressionScheduler struct {
	Options Options
}

var _ Scheduler = (*GreedyCompressionScheduler)(nil)

func (s *GreedyCompressionScheduler) Run(w *workload.Workload, capacity int) (*plan.ExecutionPlan, error) {
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
		if err := rt.tickAdmitWithCompression(t); err != nil {
			return nil, err
		}
	}
	return rt.buildPlan(), nil
}

// compressionCandidates orders running jobs for shrink consideration:
// lowest priority first, then longest remaining duration first (spec.md
// §4.4 step 1). Already-shrunk jobs are excluded; they are never
// double-shrunk.
func compressionCandidates(running []*job.Job) []*job.Job {
	candidates := make([]*job.Job, 0, len(running))
	for _, j := range running {
		if !j.IsShrunk() {
			candidates = append(candidates, j)
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

// tickAdmitWithCompression implements spec.md §4.4: try a plain admit
// first; on failure, attempt a compression sweep before deferring.
func (rt *runtime) tickAdmitWithCompression(t int) error {
	due, rest := dueAt(rt.waiting, t)
	for _, j := range due {
		if j.Bandwidth <= rt.free() {
			if err := rt.admit(j, t); err != nil {
				return err
			}
			continue
		}
		fit, err := rt.tryCompress(j, t)
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
	rt.waiting = rest
	return nil
}

// tryCompress attempts to free enough capacity for j by shrinking running
// jobs to their floor, one at a time, in compressionCandidates order.
// Returns true if j now fits; shrinks are committed permanently in that
// case, or fully reverted otherwise (spec.md §4.4 steps 2-4).
func (rt *runtime) tryCompress(j *job.Job, t int) (bool, error) {
	candidates := compressionCandidates(rt.running)
	freed := 0
	shrunk := make([]*job.Job, 0, len(candidates))

	for _, c := range candidates {
		if j.Bandwidth <= rt.free()+freed {
			break
		}
		delta := c.Bandwidth - c.MinBandwidth
		ok, err := c.Shrink(t)
		if err != nil {
			// min_bandwidth exceeds current bandwidth: not a candidate, skip it.
			rt.opts.logger().Debug("compression candidate skipped: insufficient bandwidth", "job_id", c.ID)
			continue
		}
		if !ok {
			continue
		}
		freed += delta
		shrunk = append(shrunk, c)
	}

	if j.Bandwidth > rt.free()+freed {
		for _, c := range shrunk {
			c.Restore()
		}
		return false, nil
	}

	for _, c := range shrunk {
		rt.used -= (c.OriginalBandwidth - c.Bandwidth)
		rt.opts.logger().Debug("job shrunk", "job_id", c.ID, "bandwidth", c.Bandwidth, "tick", t)
	}
	return true, nil
}
