// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidCapacity is returned when capacity is not positive.
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")

	// ErrInvalidAlgorithm is returned when the algorithm tag is unrecognized.
	ErrInvalidAlgorithm = errors.New("algorithm must be one of SG, GC, PP")

	// ErrInvalidHorizon is returned when horizon is negative.
	ErrInvalidHorizon = errors.New("horizon must be >= 0")

	// ErrInvalidMaxTicks is returned when max_ticks is negative.
	ErrInvalidMaxTicks = errors.New("max_ticks must be >= 0")
)
