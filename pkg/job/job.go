// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package job defines the mutable scheduling entity shared by every
// algorithm in this repository: identity, demand, timing, priority,
// status, and the score assigned once a job finishes.
package job

import (
	"fmt"

	bwerrors "github.com/jontk/bwsched/pkg/errors"
)

// Priority ranks a job's importance. Higher values win ties.
type Priority int

const (
	Regular Priority = iota + 1
	Premium
	Enterprise
)

// String renders the priority the way it round-trips through persistence.
func (p Priority) String() string {
	switch p {
	case Regular:
		return "REGULAR"
	case Premium:
		return "PREMIUM"
	case Enterprise:
		return "ENTERPRISE"
	default:
		return fmt.Sprintf("PRIORITY(%d)", int(p))
	}
}

// ParsePriority parses the string form used at the persistence boundary.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "REGULAR":
		return Regular, nil
	case "PREMIUM":
		return Premium, nil
	case "ENTERPRISE":
		return Enterprise, nil
	default:
		return 0, bwerrors.NewMalformedWorkload(fmt.Sprintf("unknown priority %q", s), nil)
	}
}

// Status is one of the externally observable job states (spec.md §4.6).
// Suspended is transient/internal to eviction processing and is never
// left set on a job once a tick finishes.
type Status int

const (
	Pending Status = iota
	InProgress
	Suspended
	Finished
	Dropped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case InProgress:
		return "IN_PROGRESS"
	case Suspended:
		return "SUSPENDED"
	case Finished:
		return "FINISHED"
	case Dropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// Segment is a maximal interval during which a job was continuously
// IN_PROGRESS, expressed as inclusive tick bounds.
type Segment struct {
	Start int
	End   int
}

// Length returns the number of ticks covered by the segment.
func (s Segment) Length() int {
	return s.End - s.Start + 1
}

// Job is the mutable scheduling entity. All fields are exported so that
// engine, plan, and persistence code in this module can read and update
// them directly; external callers should prefer the accessor methods
// that enforce the invariants of spec.md §3.1.
type Job struct {
	ID                int
	CreatedTime       int
	Duration          int
	Priority          Priority
	Bandwidth         int
	OriginalBandwidth int
	MinBandwidth      int
	Status            Status
	ActualStartTime   int
	RemainingDuration int
	ActualEndTime     int
	Score             int
	PreemptionLog     []Segment
	ShrunkAtTick      int // tick at which Shrink took effect, or -1 if never shrunk
	scoreComputed     bool
}

// New constructs a Job in the PENDING state, validating the invariants of
// spec.md §3.1.1 that must hold for the lifetime of the job.
func New(id, createdTime, duration int, priority Priority, bandwidth, minBandwidth, originalBandwidth int) (*Job, error) {
	if duration <= 0 {
		return nil, bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: duration must be > 0, got %d", id, duration), nil)
	}
	if createdTime < 0 {
		return nil, bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: created_time must be >= 0, got %d", id, createdTime), nil)
	}
	if minBandwidth < 0 || minBandwidth > originalBandwidth {
		return nil, bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: min_bandwidth %d must be within [0, original_bandwidth %d]", id, minBandwidth, originalBandwidth), nil)
	}
	if bandwidth < minBandwidth || bandwidth > originalBandwidth {
		return nil, bwerrors.NewMalformedWorkload(fmt.Sprintf("job %d: bandwidth %d must be within [min_bandwidth %d, original_bandwidth %d]", id, bandwidth, minBandwidth, originalBandwidth), nil)
	}
	return &Job{
		ID:                id,
		CreatedTime:       createdTime,
		Duration:          duration,
		Priority:          priority,
		Bandwidth:         bandwidth,
		OriginalBandwidth: originalBandwidth,
		MinBandwidth:      minBandwidth,
		Status:            Pending,
		ActualStartTime:   createdTime,
		RemainingDuration: duration,
		ShrunkAtTick:      -1,
	}, nil
}

// Shrink sets the job's bandwidth to its floor as of tick t, returning
// CodeInsufficientBandwidth if the job is already below that floor
// (spec.md §4.4, §7.2). It is a no-op, returning false with no error, if
// the job's bandwidth already equals its floor.
func (j *Job) Shrink(t int) (bool, error) {
	if j.Bandwidth == j.MinBandwidth {
		return false, nil
	}
	if j.MinBandwidth > j.Bandwidth {
		return false, bwerrors.NewInsufficientBandwidth(fmt.Sprintf("job %d: min_bandwidth %d exceeds current bandwidth %d", j.ID, j.MinBandwidth, j.Bandwidth))
	}
	j.Bandwidth = j.MinBandwidth
	j.ShrunkAtTick = t
	return true, nil
}

// Restore resets bandwidth to the immutable baseline. GreedyCompression
// never calls this mid-run (spec.md §4.4: "it is not restored mid-run");
// it exists for revert paths where a tentative shrink must be undone.
func (j *Job) Restore() {
	j.Bandwidth = j.OriginalBandwidth
	j.ShrunkAtTick = -1
}

// BandwidthAt returns the demand in force during the segment containing
// tick t (spec.md §3.3 Grid invariant): the original demand before a
// shrink took effect, and the shrunk demand from that tick onward.
func (j *Job) BandwidthAt(t int) int {
	if j.ShrunkAtTick >= 0 && t >= j.ShrunkAtTick {
		return j.Bandwidth
	}
	return j.OriginalBandwidth
}

// IsShrunk reports whether the job currently runs below its baseline demand.
func (j *Job) IsShrunk() bool {
	return j.Bandwidth < j.OriginalBandwidth
}

// Admit transitions PENDING -> IN_PROGRESS at tick t (spec.md §4.6).
func (j *Job) Admit(t int) error {
	if j.Status != Pending {
		return bwerrors.NewInvariantBreach(fmt.Sprintf("job %d: admit requires PENDING, got %s", j.ID, j.Status))
	}
	j.Status = InProgress
	j.ActualStartTime = t
	return nil
}

// Retire decrements remaining duration by one tick and transitions to
// FINISHED the instant it reaches zero (spec.md §9 open question #2: the
// decrement happens at the start of the retire step, not compared against
// actual_end_time). The decrement made at tick t accounts for work done
// during tick t-1, so a job that finishes here last ran at t-1: that is
// its actual_end_time. Returns true if the job finished this tick.
func (j *Job) Retire(t int) (bool, error) {
	if j.Status != InProgress {
		return false, bwerrors.NewInvariantBreach(fmt.Sprintf("job %d: retire requires IN_PROGRESS, got %s", j.ID, j.Status))
	}
	j.RemainingDuration--
	if j.RemainingDuration < 0 {
		return false, bwerrors.NewInvariantBreach(fmt.Sprintf("job %d: remaining_duration went negative", j.ID))
	}
	if j.RemainingDuration == 0 {
		j.Status = Finished
		j.ActualEndTime = t - 1
		j.computeScore()
		return true, nil
	}
	return false, nil
}

// Evict suspends a running job, appending its completed run segment to
// the preemption log and resuming it (as PENDING) at t+1 with remaining
// duration preserved (spec.md §4.5 step 3).
func (j *Job) Evict(lastStart, t int) error {
	if j.Status != InProgress {
		return bwerrors.NewInvariantBreach(fmt.Sprintf("job %d: evict requires IN_PROGRESS, got %s", j.ID, j.Status))
	}
	j.Status = Suspended
	j.PreemptionLog = append(j.PreemptionLog, Segment{Start: lastStart, End: t - 1})
	j.Status = Pending
	j.ActualStartTime = t + 1
	return nil
}

// Drop marks a job DROPPED because its projected end would exceed a
// caller-configured horizon (spec.md §4.6, §7.4). Only valid from PENDING.
func (j *Job) Drop() error {
	if j.Status != Pending {
		return bwerrors.NewInvariantBreach(fmt.Sprintf("job %d: drop requires PENDING, got %s", j.ID, j.Status))
	}
	j.Status = Dropped
	return nil
}

// Defer bumps the next-eligible tick by one; used whenever admission,
// compression, or preemption all fail to fit the job (spec.md §4.1-§4.5).
// Every rejection strictly advances actual_start_time, which is what
// guarantees workload drain (spec.md §4.9).
func (j *Job) Defer() {
	j.ActualStartTime++
}

// ProjectedEnd returns the tick at which the job would finish if admitted
// now and run to completion without further interruption.
func (j *Job) ProjectedEnd() int {
	return j.ActualStartTime + j.Duration - 1
}

// computeScore implements spec.md §4.7. Only called once, from Retire,
// the instant a job transitions to FINISHED.
func (j *Job) computeScore() {
	if j.scoreComputed {
		return
	}
	latency := j.ActualStartTime - j.CreatedTime
	stretch := (j.ActualEndTime - j.ActualStartTime) - j.Duration
	if stretch < 0 {
		stretch = 0
	}
	j.Score = latency + stretch
	j.scoreComputed = true
}

// Segments returns the full run history of the job: the preemption log
// plus, if the job ever ran (finished or currently in progress), its
// current/tail segment. Used by plan.Grid construction (spec.md §4.8).
func (j *Job) Segments() []Segment {
	segs := make([]Segment, len(j.PreemptionLog), len(j.PreemptionLog)+1)
	copy(segs, j.PreemptionLog)
	if j.Status == Finished {
		segs = append(segs, Segment{Start: j.ActualStartTime, End: j.ActualEndTime})
	}
	return segs
}

// Conserved reports whether remaining_duration plus every logged segment
// length equals the original duration (spec.md §8 Conservation property).
func (j *Job) Conserved() bool {
	total := j.RemainingDuration
	for _, seg := range j.PreemptionLog {
		total += seg.Length()
	}
	if j.Status == Finished {
		for _, seg := range j.Segments()[len(j.PreemptionLog):] {
			total += seg.Length()
		}
	}
	return total == j.Duration
}
