// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package plan

import "github.com/jontk/bwsched/pkg/job"

// PriorityAverage is the per-priority aggregate outcome metric of
// spec.md §4.7: the mean score across every FINISHED job of that
// priority in the plan.
type PriorityAverage struct {
	Priority job.Priority
	Count    int
	Average  float64
}

// AveragesByPriority computes the aggregate outcome metric across the
// plan's completed jobs, grouped by priority.
func (p *ExecutionPlan) AveragesByPriority() []PriorityAverage {
	sums := make(map[job.Priority]int)
	counts := make(map[job.Priority]int)
	for _, j := range p.Completed {
		sums[j.Priority] += j.Score
		counts[j.Priority]++
	}

	var out []PriorityAverage
	for _, pr := range []job.Priority{job.Regular, job.Premium, job.Enterprise} {
		if counts[pr] == 0 {
			continue
		}
		out = append(out, PriorityAverage{
			Priority: pr,
			Count:    counts[pr],
			Average:  float64(sums[pr]) / float64(counts[pr]),
		})
	}
	return out
}

// TotalJobs returns completed + dropped, which must equal the size of the
// original workload (spec.md §8 Totality property).
func (p *ExecutionPlan) TotalJobs() int {
	return len(p.Completed) + len(p.Dropped)
}
