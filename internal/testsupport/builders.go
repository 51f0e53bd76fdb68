// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package testsupport provides job/workload builders shared across this
// module's package tests, grounded on the teacher's tests/helpers package
// but narrowed to this domain's two recurring needs: a valid job in one
// line, and a job driven all the way to FINISHED for plan/metrics tests.
package testsupport

import (
	"testing"

	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/workload"
	"github.com/stretchr/testify/require"
)

// MustJob builds a valid Job or fails the test immediately.
func MustJob(t *testing.T, id, created, duration int, priority job.Priority, bandwidth, minBandwidth, originalBandwidth int) *job.Job {
	t.Helper()
	j, err := job.New(id, created, duration, priority, bandwidth, minBandwidth, originalBandwidth)
	require.NoError(t, err)
	return j
}

// MustFinishedJob builds a job and runs it to FINISHED as if it had been
// admitted at its created_time and never interrupted, for tests that need
// a ready-made Completed entry.
func MustFinishedJob(t *testing.T, id, created, duration int, priority job.Priority, bandwidth int) *job.Job {
	t.Helper()
	j := MustJob(t, id, created, duration, priority, bandwidth, bandwidth, bandwidth)
	require.NoError(t, j.Admit(created))
	for tick := created + 1; tick <= created+duration; tick++ {
		_, err := j.Retire(tick)
		require.NoError(t, err)
	}
	return j
}

// NewWorkload builds a Workload from a variadic job list, for tests that
// want to assemble a scenario in a single expression.
func NewWorkload(jobs ...*job.Job) *workload.Workload {
	w := workload.New()
	for _, j := range jobs {
		w.Add(j)
	}
	return w
}
