// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import "sync/atomic"

// FrameReadySignal is a single-slot flag between a frame producer and the
// render loop. Any number of Set calls between two Drain calls are
// observed as exactly one true.
//
// Set and Drain are safe to call from different goroutines. The zero value
// is a clear signal.
type FrameReadySignal struct {
	ready atomic.Bool

	signaled  atomic.Uint64
	coalesced atomic.Uint64
}

// Set marks a frame as ready. Called from the producer side.
func (s *FrameReadySignal) Set() {
	s.signaled.Add(1)
	if s.ready.Swap(true) {
		s.coalesced.Add(1)
	}
}

// Drain reports whether a frame became ready since the previous Drain and
// clears the flag in the same atomic step.
func (s *FrameReadySignal) Drain() bool {
	return s.ready.Swap(false)
}

// Pending reports the flag without clearing it.
func (s *FrameReadySignal) Pending() bool {
	return s.ready.Load()
}

// Signaled returns the total number of Set calls.
func (s *FrameReadySignal) Signaled() uint64 {
	return s.signaled.Load()
}

// Coalesced returns the number of Set calls that found the flag already set.
func (s *FrameReadySignal) Coalesced() uint64 {
	return s.coalesced.Load()
}
