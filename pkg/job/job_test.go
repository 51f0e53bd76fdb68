// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package job

import (
	"testing"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadInvariants(t *testing.T) {
	_, err := New(1, 0, 0, Regular, 4, 4, 4)
	require.Error(t, err)
	assert.True(t, bwerrors.IsCode(err, bwerrors.CodeMalformedWorkload))

	_, err = New(1, -1, 5, Regular, 4, 4, 4)
	require.Error(t, err)

	_, err = New(1, 0, 5, Regular, 4, 6, 4)
	require.Error(t, err)

	_, err = New(1, 0, 5, Regular, 2, 3, 4)
	require.Error(t, err)
}

func TestLifecycleAdmitRetireFinishes(t *testing.T) {
	j, err := New(1, 0, 3, Regular, 4, 4, 4)
	require.NoError(t, err)

	require.NoError(t, j.Admit(0))
	assert.Equal(t, InProgress, j.Status)

	for t := 1; t <= 2; t++ {
		finished, err := j.Retire(t)
		require.NoError(t, err)
		assert.False(t, finished)
	}
	finished, err := j.Retire(3)
	require.NoError(t, err)
	assert.True(t, finished)
	assert.Equal(t, Finished, j.Status)
	assert.Equal(t, 2, j.ActualEndTime)
	assert.Equal(t, 0, j.Score)
	assert.True(t, j.Conserved())
}

func TestShrinkAndRestore(t *testing.T) {
	j, err := New(1, 0, 10, Enterprise, 7, 3, 7)
	require.NoError(t, err)

	shrunk, err := j.Shrink(1)
	require.NoError(t, err)
	assert.True(t, shrunk)
	assert.Equal(t, 3, j.Bandwidth)
	assert.True(t, j.IsShrunk())

	shrunk, err = j.Shrink(1)
	require.NoError(t, err)
	assert.False(t, shrunk, "already-shrunk job is a no-op")

	j.Restore()
	assert.Equal(t, 7, j.Bandwidth)
	assert.False(t, j.IsShrunk())
}

func TestShrinkBelowFloorIsInsufficientBandwidth(t *testing.T) {
	j, err := New(1, 0, 10, Enterprise, 7, 3, 7)
	require.NoError(t, err)
	// New rejects bandwidth below the floor, so force the state directly.
	j.Bandwidth = 2
	_, err = j.Shrink(1)
	require.Error(t, err)
	assert.True(t, bwerrors.IsCode(err, bwerrors.CodeInsufficientBandwidth))
}

func TestEvictPreservesRemainingDurationAndLogsSegment(t *testing.T) {
	j, err := New(1, 0, 10, Regular, 8, 8, 8)
	require.NoError(t, err)
	require.NoError(t, j.Admit(0))
	for t := 1; t <= 2; t++ {
		_, err := j.Retire(t)
		require.NoError(t, err)
	}
	// job 1 ran ticks 0,1 (2 ticks) then is evicted at t=2
	require.NoError(t, j.Evict(0, 2))
	assert.Equal(t, Pending, j.Status)
	assert.Equal(t, 8, j.RemainingDuration)
	require.Len(t, j.PreemptionLog, 1)
	assert.Equal(t, Segment{Start: 0, End: 1}, j.PreemptionLog[0])
	assert.Equal(t, 3, j.ActualStartTime)
}

func TestDeferBumpsStartTime(t *testing.T) {
	j, err := New(1, 0, 3, Regular, 4, 4, 4)
	require.NoError(t, err)
	j.Defer()
	j.Defer()
	assert.Equal(t, 2, j.ActualStartTime)
}

func TestDropOnlyFromPending(t *testing.T) {
	j, err := New(1, 0, 3, Regular, 4, 4, 4)
	require.NoError(t, err)
	require.NoError(t, j.Drop())
	assert.Equal(t, Dropped, j.Status)

	j2, _ := New(2, 0, 3, Regular, 4, 4, 4)
	require.NoError(t, j2.Admit(0))
	assert.Error(t, j2.Drop())
}

func TestScoreLatencyAndStretch(t *testing.T) {
	j, err := New(2, 0, 5, Regular, 7, 7, 7)
	require.NoError(t, err)
	require.NoError(t, j.Admit(5))
	for t := 6; t <= 10; t++ {
		j.Retire(t)
	}
	assert.Equal(t, 5, j.Score)
}

func TestPriorityStringAndParseRoundTrip(t *testing.T) {
	for _, p := range []Priority{Regular, Premium, Enterprise} {
		parsed, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePriority("BOGUS")
	assert.Error(t, err)
}
