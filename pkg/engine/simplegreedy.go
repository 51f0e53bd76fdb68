// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// SimpleGreedyScheduler implements spec.md §4.3: at every tick, admit the
// highest-ranked due job that fits in the currently free capacity
// unmodified, or defer it by one tick otherwise. It never shrinks or
// evicts anything.
type SimpleGreedyScheduler struct {
	Options Options
}

var _ Scheduler = (*SimpleGreedyScheduler)(nil)

// Run drives the tick loop to completion and returns the resulting plan.
func (s *SimpleGreedyScheduler) Run(w *workload.Workload, capacity int) (*plan.ExecutionPlan, error) {
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
		if err := rt.tickAdmit(t); err != nil {
			return nil, err
		}
	}
	return rt.buildPlan(), nil
}

// tickAdmit implements the admission pass of spec.md §4.3 step 2: scan
// due jobs in admission order, admit what fits, defer what does not.
func (rt *runtime) tickAdmit(t int) error {
	due, rest := dueAt(rt.waiting, t)
	for _, j := range due {
		if j.Bandwidth <= rt.free() {
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
