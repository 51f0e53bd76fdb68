// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package plan defines the ExecutionPlan produced by every scheduler
// (spec.md §3.3): the completed/dropped job lists and the lazily built
// capacity grid used for scoring and visualization.
package plan

import (
	"fmt"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
)

// ExecutionPlan is the output of Scheduler.Run (spec.md §4.1).
type ExecutionPlan struct {
	Completed []*job.Job
	Dropped   []*job.Job
	Capacity  int

	grid [][]int // lazily built by Grid()
}

// New returns an empty plan for the given capacity.
func New(capacity int) *ExecutionPlan {
	return &ExecutionPlan{Capacity: capacity}
}

// MaxEndTime returns the last tick occupied by any completed job, or -1
// if the plan has no completed jobs.
func (p *ExecutionPlan) MaxEndTime() int {
	max := -1
	for _, j := range p.Completed {
		if j.ActualEndTime > max {
			max = j.ActualEndTime
		}
	}
	return max
}

// Grid lazily builds and caches the capacity x time visualization grid
// described in spec.md §3.3 and §4.8. Cell (row, t) holds a job id, or 0
// for idle. Columns are sorted ascending for a stable rendering.
func (p *ExecutionPlan) Grid() ([][]int, error) {
	if p.grid != nil {
		return p.grid, nil
	}

	maxEnd := p.MaxEndTime()
	if maxEnd < 0 {
		p.grid = make([][]int, p.Capacity)
		for r := range p.grid {
			p.grid[r] = []int{}
		}
		return p.grid, nil
	}

	width := maxEnd + 1
	grid := make([][]int, p.Capacity)
	for r := range grid {
		grid[r] = make([]int, width)
	}

	for _, j := range p.Completed {
		for _, seg := range j.Segments() {
			for t := seg.Start; t <= seg.End; t++ {
				if t < 0 || t >= width {
					continue
				}
				if err := placeJob(grid, j, t); err != nil {
					return nil, err
				}
			}
		}
	}

	for t := 0; t < width; t++ {
		col := make([]int, p.Capacity)
		for r := 0; r < p.Capacity; r++ {
			col[r] = grid[r][t]
		}
		sortColumn(col)
		for r := 0; r < p.Capacity; r++ {
			grid[r][t] = col[r]
		}
	}

	p.grid = grid
	return grid, nil
}

// placeJob fills the first contiguous block of free (zero) rows in column
// t with j.BandwidthAt(t) cells holding j.ID, per spec.md §4.8. A failure to
// find a contiguous block means the capacity invariant was violated
// earlier in the run: a fatal implementation bug, surfaced as
// CodeInvariantBreach rather than silently corrupting the grid.
func placeJob(grid [][]int, j *job.Job, t int) error {
	capacity := len(grid)
	demand := j.BandwidthAt(t)
	if demand == 0 {
		return nil
	}
	start := -1
	run := 0
	for r := 0; r < capacity; r++ {
		if grid[r][t] == 0 {
			if start == -1 {
				start = r
			}
			run++
			if run == demand {
				for k := start; k < start+demand; k++ {
					grid[k][t] = j.ID
				}
				return nil
			}
		} else {
			start = -1
			run = 0
		}
	}
	return bwerrors.NewInvariantBreach(fmt.Sprintf("no contiguous block of %d free rows at tick %d for job %d: capacity invariant was violated", demand, t, j.ID))
}

// sortColumn sorts a single grid column ascending, treating 0 (idle) as
// the lowest value so idle rows sink to the top (spec.md §4.8: "each
// column is sorted ascending").
func sortColumn(col []int) {
	for i := 1; i < len(col); i++ {
		v := col[i]
		k := i - 1
		for k >= 0 && col[k] > v {
			col[k+1] = col[k]
			k--
		}
		col[k+1] = v
	}
}
