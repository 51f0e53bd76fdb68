// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package bwsched

import "github.com/jontk/bwsched/pkg/logging"

// Option configures a Scheduler built by New, in the functional-options
// style of the teacher's ClientOption.
type Option func(*Scheduler)

// WithHorizon sets the tick beyond which a job's projected end drops it
// instead of admitting it (spec.md §9 open question 3).
func WithHorizon(horizon int) Option {
	return func(s *Scheduler) {
		s.options.Horizon = horizon
	}
}

// WithMaxTicks bounds the simulation loop; exceeding it surfaces as a
// caller-level error rather than an engine invariant breach (spec.md §5).
func WithMaxTicks(maxTicks int) Option {
	return func(s *Scheduler) {
		s.options.MaxTicks = maxTicks
	}
}

// WithLogger attaches a logger that receives tick-level events. Defaults
// to a no-op logger when omitted.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) {
		if logger == nil {
			logger = logging.NoOpLogger{}
		}
		s.options.Logger = logger
	}
}
