// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import "errors"

var (
	// ErrNilSurface is returned by SetOutputSurface for a nil surface.
	ErrNilSurface = errors.New("decoder: nil output surface")

	// ErrAlreadyRunning is returned by Start on a running decoder.
	ErrAlreadyRunning = errors.New("decoder: already running")

	// ErrInvalidConfig is returned for configurations a decoder cannot use.
	ErrInvalidConfig = errors.New("decoder: invalid config")

	// ErrEndOfStream marks a source that stopped because its media ran out.
	ErrEndOfStream = errors.New("decoder: end of stream")

	// ErrNoSourceAvailable is returned when no registered source is usable.
	ErrNoSourceAvailable = errors.New("decoder: no source available")
)

// SourceNotFoundError indicates a named source is not registered.
type SourceNotFoundError struct {
	Name string
}

func (e *SourceNotFoundError) Error() string {
	return "decoder: source not found: " + e.Name
}

// SourceUnavailableError indicates a source is registered but cannot run
// on this system.
type SourceUnavailableError struct {
	Name string
}

func (e *SourceUnavailableError) Error() string {
	return "decoder: source unavailable: " + e.Name
}
