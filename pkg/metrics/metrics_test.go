// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"testing"

	"github.com/jontk/bwsched/pkg/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedJob(t *testing.T, priority job.Priority, score int) *job.Job {
	t.Helper()
	j, err := job.New(1, 0, 3, priority, 4, 4, 4)
	require.NoError(t, err)
	require.NoError(t, j.Admit(0))
	for i := 0; i < 3; i++ {
		j.Retire(i + 1)
	}
	j.Score = score
	return j
}

func TestNewInMemoryCollector(t *testing.T) {
	collector := NewInMemoryCollector()

	require.NotNil(t, collector)
	assert.NotNil(t, collector.admissionsByAlgorithm)
	assert.NotNil(t, collector.finishesByPriority)
	assert.NotNil(t, collector.scores)
	assert.False(t, collector.startTime.IsZero())
}

func TestInMemoryCollector_RecordAdmission(t *testing.T) {
	collector := NewInMemoryCollector()
	j := finishedJob(t, job.Regular, 0)

	collector.RecordAdmission("simple_greedy", j)
	collector.RecordAdmission("preemptive_priority", j)
	collector.RecordAdmission("simple_greedy", j)

	stats := collector.GetStats()
	assert.Equal(t, int64(3), stats.TotalAdmissions)
	assert.Equal(t, int64(2), stats.AdmissionsByAlgorithm["simple_greedy"])
	assert.Equal(t, int64(1), stats.AdmissionsByAlgorithm["preemptive_priority"])
}

func TestInMemoryCollector_RecordShrinkAndEviction(t *testing.T) {
	collector := NewInMemoryCollector()
	shrunk := finishedJob(t, job.Regular, 0)
	evicted := finishedJob(t, job.Premium, 0)

	collector.RecordShrink("greedy_compression", shrunk)
	collector.RecordEviction("preemptive_priority", evicted, nil)
	collector.RecordEviction("preemptive_priority", evicted, nil)

	stats := collector.GetStats()
	assert.Equal(t, int64(1), stats.TotalShrinks)
	assert.Equal(t, int64(2), stats.TotalEvictions)
}

func TestInMemoryCollector_RecordDrop(t *testing.T) {
	collector := NewInMemoryCollector()
	dropped := finishedJob(t, job.Enterprise, 0)

	collector.RecordDrop("simple_greedy", dropped)

	stats := collector.GetStats()
	assert.Equal(t, int64(1), stats.TotalDrops)
}

func TestInMemoryCollector_RecordFinishAggregatesScores(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordFinish("simple_greedy", finishedJob(t, job.Regular, 5))
	collector.RecordFinish("simple_greedy", finishedJob(t, job.Regular, 1))
	collector.RecordFinish("simple_greedy", finishedJob(t, job.Premium, 9))

	stats := collector.GetStats()
	assert.Equal(t, int64(3), stats.TotalFinishes)
	assert.Equal(t, int64(2), stats.FinishesByPriority["REGULAR"])
	assert.Equal(t, int64(1), stats.FinishesByPriority["PREMIUM"])

	assert.Equal(t, int64(3), stats.ScoreStats.Count)
	assert.Equal(t, int64(15), stats.ScoreStats.Total)
	assert.Equal(t, int64(1), stats.ScoreStats.Min)
	assert.Equal(t, int64(9), stats.ScoreStats.Max)
	assert.Equal(t, 5.0, stats.ScoreStats.Average)
}

func TestInMemoryCollector_Reset(t *testing.T) {
	collector := NewInMemoryCollector()

	collector.RecordAdmission("simple_greedy", finishedJob(t, job.Regular, 0))
	collector.RecordShrink("greedy_compression", finishedJob(t, job.Regular, 0))
	collector.RecordEviction("preemptive_priority", finishedJob(t, job.Regular, 0), nil)
	collector.RecordDrop("simple_greedy", finishedJob(t, job.Regular, 0))
	collector.RecordFinish("simple_greedy", finishedJob(t, job.Regular, 3))

	stats := collector.GetStats()
	assert.Positive(t, stats.TotalAdmissions)
	assert.Positive(t, stats.TotalShrinks)
	assert.Positive(t, stats.TotalEvictions)
	assert.Positive(t, stats.TotalDrops)
	assert.Positive(t, stats.TotalFinishes)

	collector.Reset()

	stats = collector.GetStats()
	assert.Equal(t, int64(0), stats.TotalAdmissions)
	assert.Equal(t, int64(0), stats.TotalShrinks)
	assert.Equal(t, int64(0), stats.TotalEvictions)
	assert.Equal(t, int64(0), stats.TotalDrops)
	assert.Equal(t, int64(0), stats.TotalFinishes)
	assert.Empty(t, stats.AdmissionsByAlgorithm)
	assert.Empty(t, stats.FinishesByPriority)
	assert.Equal(t, int64(0), stats.ScoreStats.Count)
}

func TestScoreAggregator(t *testing.T) {
	agg := newScoreAggregator()

	t.Run("initial state", func(t *testing.T) {
		stats := agg.stats()
		assert.Equal(t, int64(0), stats.Count)
		assert.Equal(t, int64(0), stats.Min)
		assert.Equal(t, int64(0), stats.Max)
		assert.Equal(t, 0.0, stats.Average)
	})

	t.Run("single value", func(t *testing.T) {
		agg.add(7)
		stats := agg.stats()
		assert.Equal(t, int64(1), stats.Count)
		assert.Equal(t, int64(7), stats.Total)
		assert.Equal(t, int64(7), stats.Min)
		assert.Equal(t, int64(7), stats.Max)
		assert.Equal(t, 7.0, stats.Average)
	})

	t.Run("multiple values", func(t *testing.T) {
		agg.add(0)
		agg.add(20)
		stats := agg.stats()
		assert.Equal(t, int64(3), stats.Count)
		assert.Equal(t, int64(27), stats.Total)
		assert.Equal(t, int64(0), stats.Min)
		assert.Equal(t, int64(20), stats.Max)
		assert.InDelta(t, 9.0, stats.Average, 0.001)
	})
}

func TestInMemoryCollector_Concurrency(t *testing.T) {
	collector := NewInMemoryCollector()

	const numGoroutines = 10
	const numOperations = 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				collector.RecordAdmission("simple_greedy", finishedJob(t, job.Regular, 0))
				collector.RecordFinish("simple_greedy", finishedJob(t, job.Regular, j))
			}
		}(i)
	}
	wg.Wait()

	stats := collector.GetStats()
	assert.Equal(t, int64(numGoroutines*numOperations), stats.TotalAdmissions)
	assert.Equal(t, int64(numGoroutines*numOperations), stats.TotalFinishes)
}

func TestNoOpCollector(t *testing.T) {
	collector := NoOpCollector{}
	j := finishedJob(t, job.Regular, 0)

	collector.RecordAdmission("simple_greedy", j)
	collector.RecordShrink("greedy_compression", j)
	collector.RecordEviction("preemptive_priority", j, nil)
	collector.RecordDrop("simple_greedy", j)
	collector.RecordFinish("simple_greedy", j)

	stats := collector.GetStats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.TotalAdmissions)

	collector.Reset()
}

func TestDefaultCollector(t *testing.T) {
	defaultCol := GetDefaultCollector()
	assert.IsType(t, &NoOpCollector{}, defaultCol)

	newCollector := NewInMemoryCollector()
	SetDefaultCollector(newCollector)
	assert.Equal(t, newCollector, GetDefaultCollector())

	SetDefaultCollector(nil)
	assert.IsType(t, &NoOpCollector{}, GetDefaultCollector())

	SetDefaultCollector(&NoOpCollector{})
}

func TestCollectorInterface(t *testing.T) {
	var _ Collector = (*InMemoryCollector)(nil)
	var _ Collector = NoOpCollector{}
}
