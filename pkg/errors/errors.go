// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the structured error taxonomy of spec.md §7,
// adapted from the teacher's network/HTTP SlurmError hierarchy to the
// four scheduler-domain conditions: invariant breaches, insufficient
// bandwidth, malformed workloads, and horizon exceedance.
package errors

import (
	"fmt"
	"time"
)

// Code identifies which of the four §7 conditions an error represents, or
// CodeInvalidConfiguration for a rejected run or generator configuration.
type Code string

const (
	CodeInvariantBreach       Code = "INVARIANT_BREACH"
	CodeInsufficientBandwidth Code = "INSUFFICIENT_BANDWIDTH"
	CodeMalformedWorkload     Code = "MALFORMED_WORKLOAD"
	CodeHorizonExceeded       Code = "HORIZON_EXCEEDED"
	CodeInvalidConfiguration  Code = "INVALID_CONFIGURATION"
)

// Category groups codes by how a caller must react.
type Category string

const (
	// CategoryFatal errors abort the run immediately; no partial plan is
	// returned (spec.md §7 propagation policy).
	CategoryFatal Category = "FATAL"
	// CategoryRecoverable errors are returned as ordinary values and
	// handled locally by the algorithm that triggered them.
	CategoryRecoverable Category = "RECOVERABLE"
	// CategoryRejected errors reject a workload before any tick runs.
	CategoryRejected Category = "REJECTED"
	// CategoryDropped is informational: a job was marked DROPPED, not an
	// error condition propagated to a caller.
	CategoryDropped Category = "DROPPED"
)

// SchedulerError is the structured error type returned across this
// module, mirroring the shape (not the content) of the teacher's
// SlurmError: a code, a category, a human message, optional details, a
// timestamp, and an optional wrapped cause.
type SchedulerError struct {
	Code      Code
	Category  Category
	Message   string
	Details   string
	Timestamp time.Time
	Cause     error
}

func (e *SchedulerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SchedulerError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so callers can use errors.Is(err, ErrInsufficientBandwidth)-style sentinels.
func (e *SchedulerError) Is(target error) bool {
	t, ok := target.(*SchedulerError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func categoryFor(code Code) Category {
	switch code {
	case CodeInvariantBreach:
		return CategoryFatal
	case CodeInsufficientBandwidth:
		return CategoryRecoverable
	case CodeMalformedWorkload, CodeInvalidConfiguration:
		return CategoryRejected
	case CodeHorizonExceeded:
		return CategoryDropped
	default:
		return CategoryRejected
	}
}

func newError(code Code, message string, cause error) *SchedulerError {
	return &SchedulerError{
		Code:      code,
		Category:  categoryFor(code),
		Message:   message,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewInvariantBreach builds a fatal error for a capacity, ordering, or
// state-machine invariant violation (spec.md §7.1).
func NewInvariantBreach(message string) *SchedulerError {
	return newError(CodeInvariantBreach, message, nil)
}

// NewInsufficientBandwidth builds a recoverable error for a shrink
// request that would fall below a job's floor (spec.md §7.2).
func NewInsufficientBandwidth(message string) *SchedulerError {
	return newError(CodeInsufficientBandwidth, message, nil)
}

// NewMalformedWorkload builds a rejected-at-entry error (spec.md §7.3).
func NewMalformedWorkload(message string, cause error) *SchedulerError {
	return newError(CodeMalformedWorkload, message, cause)
}

// NewInvalidConfiguration builds a rejected-at-entry error for a
// configuration that fails validation before any work starts.
func NewInvalidConfiguration(message string) *SchedulerError {
	return newError(CodeInvalidConfiguration, message, nil)
}

// NewHorizonExceeded builds the informational condition attached to a
// DROPPED job (spec.md §7.4). It is never returned as a function error.
// The engine does not attach it to anything: a horizon-dropped job carries
// only its DROPPED status and is listed in plan.Dropped.
func NewHorizonExceeded(message string) *SchedulerError {
	return newError(CodeHorizonExceeded, message, nil)
}

// IsCode reports whether err is a *SchedulerError with the given code.
func IsCode(err error, code Code) bool {
	se, ok := err.(*SchedulerError)
	if !ok {
		return false
	}
	return se.Code == code
}
