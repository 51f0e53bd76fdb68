// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package pool

import (
	"context"
	"testing"

	"github.com/jontk/bwsched/pkg/engine"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneJobWorkload(t *testing.T) *workload.Workload {
	t.Helper()
	j, err := job.New(1, 0, 3, job.Regular, 4, 4, 4)
	require.NoError(t, err)
	w := workload.New()
	w.Add(j)
	return w
}

func TestScenarioPoolRunsAllScenariosConcurrently(t *testing.T) {
	p := New(&PoolConfig{Workers: 2}, nil)

	scenarios := []Scenario{
		{Name: "sg", Algorithm: engine.SimpleGreedy, Workload: oneJobWorkload(t), Capacity: 10},
		{Name: "gc", Algorithm: engine.GreedyCompression, Workload: oneJobWorkload(t), Capacity: 10},
		{Name: "pp", Algorithm: engine.PreemptivePriority, Workload: oneJobWorkload(t), Capacity: 10},
	}

	results := p.Run(context.Background(), scenarios)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NoError(t, r.Err)
		require.NotNil(t, r.Plan)
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		assert.Len(t, r.Plan.Completed, 1)
	}

	stats := p.Stats()
	assert.Equal(t, int64(1), stats[engine.SimpleGreedy])
	assert.Equal(t, int64(1), stats[engine.GreedyCompression])
	assert.Equal(t, int64(1), stats[engine.PreemptivePriority])
}

func TestScenarioPoolReportsUnknownAlgorithm(t *testing.T) {
	p := New(nil, nil)
	results := p.Run(context.Background(), []Scenario{
		{Name: "bogus", Algorithm: "XX", Workload: oneJobWorkload(t), Capacity: 10},
	})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestScenarioPoolRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&PoolConfig{Workers: 1}, nil)
	results := p.Run(ctx, []Scenario{
		{Name: "sg", Algorithm: engine.SimpleGreedy, Workload: oneJobWorkload(t), Capacity: 10},
	})
	require.Len(t, results, 1)
	// either it raced and completed, or it was cancelled; both are valid
	// outcomes under a pre-cancelled context racing the single worker slot.
	if results[0].Err != nil {
		assert.ErrorIs(t, results[0].Err, context.Canceled)
	}
}
