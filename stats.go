// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import "fmt"

// BindingStats is a point-in-time snapshot of a binding's counters.
// Counters accumulate across the binding's whole lifetime, including
// after Release.
type BindingStats struct {
	// FramesSignaled counts frame-available notifications from the surface.
	FramesSignaled uint64

	// SignalsCoalesced counts notifications that found a frame already
	// pending. Each one is a frame the renderer never saw.
	SignalsCoalesced uint64

	// Promotions counts Synchronize calls that returned Updated. A
	// notification can arrive after its frame was already uploaded by the
	// previous promotion; the next call still reports Updated and counts
	// here, like Android's updateTexImage. The surface's own counters
	// track actual uploads.
	Promotions uint64

	// UnchangedTicks counts Synchronize calls with nothing new.
	UnchangedTicks uint64

	// PromoteErrors counts failed promotions.
	PromoteErrors uint64
}

// String formats the stats for log output.
func (s BindingStats) String() string {
	return fmt.Sprintf("signaled=%d coalesced=%d promotions=%d unchanged=%d errors=%d",
		s.FramesSignaled, s.SignalsCoalesced, s.Promotions, s.UnchangedTicks, s.PromoteErrors)
}

// DropRate returns the fraction of signaled frames that were coalesced
// away, in [0, 1].
func (s BindingStats) DropRate() float64 {
	if s.FramesSignaled == 0 {
		return 0
	}
	return float64(s.SignalsCoalesced) / float64(s.FramesSignaled)
}
