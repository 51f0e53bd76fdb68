// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package bwsched implements a discrete-time bandwidth scheduler: a set
// of three algorithms (SimpleGreedy, GreedyCompression, PreemptivePriority)
// that admit, shrink, preempt, and retire jobs against a shared capacity
// tick by tick, plus the ambient tooling a scheduling service needs
// around that core loop.
//
// # Overview
//
// The package root exposes a small convenience API — New, Run, and the
// Scheduler type — over the lower-level packages that do the actual
// work:
//
//	pkg/job        job lifecycle and the PENDING/IN_PROGRESS/FINISHED/DROPPED state machine
//	pkg/workload   the job set an algorithm runs against, plus YAML (de)serialization
//	pkg/plan       the ExecutionPlan an algorithm produces: completed jobs, dropped jobs, scores
//	pkg/engine     the three scheduling algorithms and the tick loop they share
//	pkg/errors     the structured error taxonomy used across every package
//	pkg/config     run configuration with an environment-variable overlay
//	pkg/logging    the structured logger every package logs through
//	pkg/retry      bounded retry with exponential backoff for fallible I/O
//	pkg/metrics    admission/shrink/eviction/drop/finish counters, replayed from a finished plan
//	pkg/pool       the bounded worker pool that runs independent scenarios concurrently
//	pkg/schema     OpenAPI-based validation of on-disk workload documents
//	pkg/visualize  a read-only HTTP and websocket view of a finished plan
//	pkg/workloadgen synthetic workload generation for scenario testing
//
// cmd/bwsched wires these into a CLI (generate, run, score, serve); most
// embedders will only need the root package:
//
//	sched, err := bwsched.New(engine.SimpleGreedy, bwsched.WithHorizon(50))
//	if err != nil {
//		// unknown algorithm tag
//	}
//	executionPlan, err := sched.Run(w, capacity)
//
// # Algorithms
//
// SimpleGreedy admits the highest-priority pending job that fits within
// capacity as-is; GreedyCompression additionally shrinks running jobs to
// their minimum bandwidth to make room for a job that does not fit;
// PreemptivePriority instead evicts running jobs of lower or equal
// priority to admit it. Each of the two extends SimpleGreedy's admission
// rule; PreemptivePriority never shrinks jobs (spec.md §4.4-§4.6).
//
// # Determinism
//
// A Scheduler built with the same algorithm and options produces the
// same ExecutionPlan for the same workload every time: the tick loop has
// no wall-clock or goroutine-scheduling dependence. pkg/pool runs many
// (algorithm, workload) pairs concurrently, but each pair owns its
// workload exclusively and never shares scheduler state with another.
//
// # Error handling
//
// Job, workload, plan, and scheduling failures are returned as a
// *errors.SchedulerError carrying a Code (e.g. CodeInvariantBreach,
// CodeInsufficientBandwidth, CodeMalformedWorkload) that callers can
// branch on with errors.IsCode, rather than matching against formatted
// strings. A few errors are plain values instead: pkg/config's Validate
// returns its sentinel errors, engine.New returns a plain error for an
// unknown algorithm tag, and exceeding MaxTicks returns
// engine.ErrMaxTicksExceeded.
//
// # Thread safety
//
// A *Scheduler is safe for concurrent use: Run re-resolves a fresh
// pkg/engine implementation on every call and never mutates shared
// state between runs. The workload and plan values a Run call touches
// are not safe to share across concurrent Run calls — clone a workload
// (workload.Workload.Clone) before handing it to more than one
// Scheduler.
package bwsched
