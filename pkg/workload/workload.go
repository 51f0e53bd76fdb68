// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package workload defines an ordered batch of jobs (spec.md §3.2) plus
// the id allocation and validation that keep a batch well-formed before
// any scheduler runs against it.
package workload

import (
	"fmt"
	"sort"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
)

// Workload is an ordered sequence of jobs, conventionally sorted by
// CreatedTime ascending. IDs are unique within a Workload (spec.md §3.2).
type Workload struct {
	Jobs []*job.Job
}

// IDAllocator assigns monotonically increasing ids to jobs constructed
// for a single Workload, replacing the source's global id counter (spec.md
// §9 design note) so that parallel scenario runs stay deterministic
// without sharing mutable global state.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator starting at 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// Next returns the next id and advances the allocator.
func (a *IDAllocator) Next() int {
	id := a.next
	a.next++
	return id
}

// New returns an empty Workload.
func New() *Workload {
	return &Workload{}
}

// Add appends a job to the workload.
func (w *Workload) Add(j *job.Job) {
	w.Jobs = append(w.Jobs, j)
}

// SortByArrival orders jobs by CreatedTime ascending, breaking ties by id
// for determinism (spec.md §4.1 tie-break 4).
func (w *Workload) SortByArrival() {
	sort.SliceStable(w.Jobs, func(i, k int) bool {
		if w.Jobs[i].CreatedTime != w.Jobs[k].CreatedTime {
			return w.Jobs[i].CreatedTime < w.Jobs[k].CreatedTime
		}
		return w.Jobs[i].ID < w.Jobs[k].ID
	})
}

// Validate rejects a workload at entry per spec.md §7.3: duplicate ids,
// negative fields, or min_bandwidth > original_bandwidth. Job.New already
// enforces per-job invariants at construction time; Validate re-checks a
// Workload assembled by other means (e.g. deserialized from a record).
func (w *Workload) Validate() error {
	seen := make(map[int]struct{}, len(w.Jobs))
	for _, j := range w.Jobs {
		if _, dup := seen[j.ID]; dup {
			return bwerrors.NewMalformedWorkload(fmt.Sprintf("duplicate job id %d", j.ID), nil)
		}
		seen[j.ID] = struct{}{}

		if j.CreatedTime < 0 {
			return bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: negative created_time", j.ID), nil)
		}
		if j.Duration <= 0 {
			return bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: duration must be > 0", j.ID), nil)
		}
		if j.MinBandwidth < 0 || j.MinBandwidth > j.OriginalBandwidth {
			return bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: min_bandwidth %d out of range [0, %d]", j.ID, j.MinBandwidth, j.OriginalBandwidth), nil)
		}
		if j.Bandwidth < j.MinBandwidth || j.Bandwidth > j.OriginalBandwidth {
			return bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: bandwidth %d out of range [%d, %d]", j.ID, j.Bandwidth, j.MinBandwidth, j.OriginalBandwidth), nil)
		}
	}
	return nil
}

// Len returns the number of jobs in the workload.
func (w *Workload) Len() int {
	return len(w.Jobs)
}

// Clone deep-copies the workload so multiple algorithms can run against
// independent copies of the same input batch (spec.md §5: "Each scheduler
// instance owns its Workload...exclusively").
func (w *Workload) Clone() *Workload {
	clone := &Workload{Jobs: make([]*job.Job, len(w.Jobs))}
	for i, j := range w.Jobs {
		cp := *j
		cp.PreemptionLog = append([]job.Segment(nil), j.PreemptionLog...)
		clone.Jobs[i] = &cp
	}
	return clone
}
