// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package bwsched

import (
	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/logging"
	"github.com/jontk/bwsched/pkg/plan"
	"github.com/jontk/bwsched/pkg/workload"
)

// Scheduler is the root-level convenience wrapper cmd/bwsched and
// embedders build against instead of reaching into pkg/engine directly,
// the same role the teacher's top-level Client plays over its internal
// factory/transport packages.
type Scheduler struct {
	algorithm engine.Algorithm
	options   engine.Options
}

// New resolves algo to a concrete pkg/engine implementation and returns
// a Scheduler configured with opts. It is a thin adapter over
// engine.New: the error it can return is exactly engine.New's "unknown
// algorithm" error.
func New(algo engine.Algorithm, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{algorithm: algo, options: engine.Options{Logger: logging.NoOpLogger{}}}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := engine.New(algo, s.options); err != nil {
		return nil, err
	}
	return s, nil
}

// Run schedules w against capacity using the algorithm and options this
// Scheduler was built with (spec.md §4.1-§4.6). Each call re-resolves a
// fresh engine.Scheduler, so a single bwsched.Scheduler value is safe to
// reuse across independent runs the way the teacher's Client is safe to
// reuse across requests.
func (s *Scheduler) Run(w *workload.Workload, capacity int) (*plan.ExecutionPlan, error) {
	sched, err := engine.New(s.algorithm, s.options)
	if err != nil {
		return nil, err
	}
	return sched.Run(w, capacity)
}

// Algorithm reports the algorithm tag this Scheduler was built with.
func (s *Scheduler) Algorithm() engine.Algorithm {
	return s.algorithm
}

// Run is the one-shot form of New+Scheduler.Run for callers that only
// need a single execution and don't want to hold onto a Scheduler value.
func Run(algo engine.Algorithm, w *workload.Workload, capacity int, opts ...Option) (*plan.ExecutionPlan, error) {
	s, err := New(algo, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(w, capacity)
}
