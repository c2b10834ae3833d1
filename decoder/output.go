// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/videotex"
)

// Output is the decoder side of a binding: the surface frames are queued
// into. Decoders embed one and forward SetOutputSurface and
// DetachOutputSurface to it.
//
// Queue holds a read lock while calling QueueBuffer, and Detach takes the
// write lock, so once Detach returns no QueueBuffer on the old surface is
// still running.
type Output struct {
	mu      sync.RWMutex
	surface videotex.Surface

	queued    atomic.Uint64
	discarded atomic.Uint64
}

// SetOutputSurface directs frames to s, replacing any previous surface.
func (o *Output) SetOutputSurface(s videotex.Surface) error {
	if s == nil {
		return ErrNilSurface
	}
	o.mu.Lock()
	o.surface = s
	o.mu.Unlock()
	return nil
}

// DetachOutputSurface stops frame delivery and waits for an in-flight
// Queue to finish.
func (o *Output) DetachOutputSurface() {
	o.mu.Lock()
	o.surface = nil
	o.mu.Unlock()
}

// Attached reports whether a surface is set.
func (o *Output) Attached() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.surface != nil
}

// Queue hands buf to the current surface. With no surface attached the
// frame is discarded and Queue returns false.
func (o *Output) Queue(buf videotex.Buffer) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.surface == nil {
		o.discarded.Add(1)
		return false, nil
	}
	if err := o.surface.QueueBuffer(buf); err != nil {
		return false, err
	}
	o.queued.Add(1)
	return true, nil
}

// Queued returns the number of frames delivered to a surface.
func (o *Output) Queued() uint64 { return o.queued.Load() }

// Discarded returns the number of frames produced with no surface attached.
func (o *Output) Discarded() uint64 { return o.discarded.Load() }
