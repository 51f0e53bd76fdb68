// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/jontk/bwsched/pkg/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPreemptionEvictsLowerPriority is spec.md §8 concrete scenario 4.
func TestPreemptionEvictsLowerPriority(t *testing.T) {
	j1 := mustJob(t, 1, 0, 10, job.Regular, 8, 8, 8)
	j2 := mustJob(t, 2, 2, 3, job.Enterprise, 8, 8, 8)
	w := newWorkload(t, j1, j2)

	p, err := (&PreemptivePriorityScheduler{}).Run(w, 10)
	require.NoError(t, err)
	require.Len(t, p.Completed, 2)

	var got1, got2 *job.Job
	for _, j := range p.Completed {
		switch j.ID {
		case 1:
			got1 = j
		case 2:
			got2 = j
		}
	}
	require.NotNil(t, got1)
	require.NotNil(t, got2)

	assert.Equal(t, 2, got2.ActualStartTime)
	assert.Equal(t, 4, got2.ActualEndTime)

	require.Len(t, got1.PreemptionLog, 1)
	assert.Equal(t, job.Segment{Start: 0, End: 1}, got1.PreemptionLog[0])
	assert.Equal(t, 5, got1.ActualStartTime, "job 1 resumes once job 2 finishes")
	assert.Equal(t, 12, got1.ActualEndTime)

	totalTicks := 0
	for _, seg := range got1.PreemptionLog {
		totalTicks += seg.Length()
	}
	totalTicks += got1.ActualEndTime - got1.ActualStartTime + 1
	assert.Equal(t, 10, totalTicks, "evicted job's total run time must equal its original duration")
	assert.True(t, got1.Conserved())
}

// TestPreemptionEqualPriorityEvictionAllowed pins spec.md §9 open question
// 1: eviction uses priority <= (not strict <), so an equal-priority
// arrival may evict a running job of the same priority (scenario 5).
func TestPreemptionEqualPriorityEvictionAllowed(t *testing.T) {
	j1 := mustJob(t, 1, 0, 5, job.Premium, 10, 10, 10)
	j2 := mustJob(t, 2, 1, 1, job.Premium, 10, 10, 10)
	w := newWorkload(t, j1, j2)

	p, err := (&PreemptivePriorityScheduler{}).Run(w, 10)
	require.NoError(t, err)
	require.Len(t, p.Completed, 2)

	var got1, got2 *job.Job
	for _, j := range p.Completed {
		switch j.ID {
		case 1:
			got1 = j
		case 2:
			got2 = j
		}
	}
	require.NotNil(t, got1)
	require.NotNil(t, got2)

	assert.Equal(t, 1, got2.ActualStartTime, "equal-priority job 2 evicts job 1 and runs immediately")
	require.Len(t, got1.PreemptionLog, 1)
	assert.Equal(t, job.Segment{Start: 0, End: 0}, got1.PreemptionLog[0])
}

func TestEvictionCandidatesExcludeHigherPriority(t *testing.T) {
	low := mustJob(t, 1, 0, 5, job.Regular, 5, 5, 5)
	high := mustJob(t, 2, 0, 5, job.Enterprise, 5, 5, 5)
	arriving := mustJob(t, 3, 0, 1, job.Premium, 5, 5, 5)

	candidates := evictionCandidates([]*job.Job{low, high}, arriving)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, candidates[0].ID)
}
