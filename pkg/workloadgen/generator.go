// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package workloadgen produces synthetic workloads for scenario drivers
// and benchmarks, parameterized per spec.md §6.3. It is an external
// collaborator of the scheduling core: nothing in pkg/engine imports it.
package workloadgen

import (
	"context"
	"fmt"
	"math/rand"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
	"github.com/jontk/bwsched/pkg/job"
	"github.com/jontk/bwsched/pkg/retry"
	"github.com/jontk/bwsched/pkg/workload"
)

// PriorityPolicy selects how generated jobs are assigned a priority
// (spec.md §6.3).
type PriorityPolicy string

const (
	PolicyRandom                       PriorityPolicy = "random"
	PolicyAscendingByPriority          PriorityPolicy = "ascending_by_priority"
	PolicyRegularPremiumThenEnterprise PriorityPolicy = "regular_premium_then_enterprise"
	PolicyHighBandwidthChunks          PriorityPolicy = "high_bandwidth_chunks"
)

// Params configures a single generation run.
type Params struct {
	Count          int
	CapacityCap    int
	StartTime      int
	EndTime        int
	PriorityPolicy PriorityPolicy
	MaxDuration    int // defaults to 10 if unset
	Seed           int64
	RetryPolicy    retry.Policy // defaults to a bounded exponential backoff
}

// Generator produces Workloads from Params. It owns the random source,
// seeded by New, and each Generate call uses a fresh id allocator, so two
// Generators with the same seed produce byte-identical workloads (spec.md
// §9 design note). Params.Seed is not read.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded for reproducibility.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a Workload of p.Count jobs per the requested priority
// policy (spec.md §6.3). Each candidate job's random draw is validated
// against job.New's invariants and regenerated, bounded by RetryPolicy, on
// failure — mirroring the bounded-retry shape pkg/retry exists to serve.
func (g *Generator) Generate(ctx context.Context, p Params) (*workload.Workload, error) {
	if p.Count <= 0 {
		return nil, bwerrors.NewInvalidConfiguration("count must be > 0")
	}
	if p.CapacityCap <= 0 {
		return nil, bwerrors.NewInvalidConfiguration("capacity_cap must be > 0")
	}
	if p.EndTime < p.StartTime {
		return nil, bwerrors.NewInvalidConfiguration("end_time must be >= start_time")
	}
	if p.MaxDuration <= 0 {
		p.MaxDuration = 10
	}
	if p.RetryPolicy == nil {
		p.RetryPolicy = retry.NewExponentialBackoff().WithMaxRetries(5)
	}

	priorities := g.assignPriorities(p)

	ids := workload.NewIDAllocator()
	w := workload.New()
	for i := 0; i < p.Count; i++ {
		var j *job.Job
		err := retry.Do(ctx, p.RetryPolicy, func(attempt int) error {
			var genErr error
			j, genErr = g.draw(ids, p, priorities[i], i)
			return genErr
		})
		if err != nil {
			return nil, fmt.Errorf("workloadgen: job %d: %w", i, err)
		}
		w.Add(j)
	}
	w.SortByArrival()
	return w, nil
}

// draw produces one candidate job. high_bandwidth_chunks overrides the
// bandwidth shape entirely (spec.md §6.3); every other policy draws
// uniformly within safe bounds.
func (g *Generator) draw(ids *workload.IDAllocator, p Params, priority job.Priority, index int) (*job.Job, error) {
	created := g.createdTimeFor(p, index)
	duration := 1 + g.rng.Intn(p.MaxDuration)

	var bandwidth, minBandwidth, original int
	if p.PriorityPolicy == PolicyHighBandwidthChunks {
		bandwidth, minBandwidth, original = highBandwidthChunkDemand(p.CapacityCap, index)
		created = g.createdTimeFor(p, index/3) + (index/3)*p.MaxDuration
	} else {
		original = 1 + g.rng.Intn(p.CapacityCap)
		minBandwidth = 1 + g.rng.Intn(original)
		bandwidth = minBandwidth + g.rng.Intn(original-minBandwidth+1)
	}

	return job.New(ids.Next(), created, duration, priority, bandwidth, minBandwidth, original)
}

// createdTimeFor spreads jobs uniformly across [StartTime, EndTime].
func (g *Generator) createdTimeFor(p Params, index int) int {
	window := p.EndTime - p.StartTime
	if window <= 0 {
		return p.StartTime
	}
	return p.StartTime + g.rng.Intn(window+1)
}

// assignPriorities implements the four policies of spec.md §6.3.
func (g *Generator) assignPriorities(p Params) []job.Priority {
	out := make([]job.Priority, p.Count)
	switch p.PriorityPolicy {
	case PolicyAscendingByPriority:
		thirds := []job.Priority{job.Regular, job.Premium, job.Enterprise}
		for i := range out {
			out[i] = thirds[(i*3)/p.Count]
		}
	case PolicyRegularPremiumThenEnterprise:
		cutoff := (p.Count * 2) / 3
		for i := range out {
			if i < cutoff {
				if i%2 == 0 {
					out[i] = job.Regular
				} else {
					out[i] = job.Premium
				}
			} else {
				out[i] = job.Enterprise
			}
		}
	case PolicyHighBandwidthChunks:
		priorities := []job.Priority{job.Regular, job.Premium, job.Enterprise}
		for i := range out {
			group := i / 3
			out[i] = priorities[group%len(priorities)]
		}
	case PolicyRandom, "":
		priorities := []job.Priority{job.Regular, job.Premium, job.Enterprise}
		for i := range out {
			out[i] = priorities[g.rng.Intn(len(priorities))]
		}
	default:
		priorities := []job.Priority{job.Regular, job.Premium, job.Enterprise}
		for i := range out {
			out[i] = priorities[g.rng.Intn(len(priorities))]
		}
	}
	return out
}

// highBandwidthChunkDemand implements the (0.6*cap, 0.5*cap, 0.5*cap)
// shape of spec.md §6.3 for the high_bandwidth_chunks policy, cycling
// through the three slots of each group of three jobs.
func highBandwidthChunkDemand(capacityCap, index int) (bandwidth, minBandwidth, original int) {
	slot := index % 3
	var frac float64
	switch slot {
	case 0:
		frac = 0.6
	default:
		frac = 0.5
	}
	demand := int(frac * float64(capacityCap))
	if demand < 1 {
		demand = 1
	}
	return demand, demand, demand
}
