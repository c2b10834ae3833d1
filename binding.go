// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

type bindingState uint8

const (
	stateUnbound bindingState = iota
	stateBound
	stateReleased
)

func (s bindingState) String() string {
	switch s {
	case stateUnbound:
		return "unbound"
	case stateBound:
		return "bound"
	case stateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// SurfaceBinding connects a decoder to a renderer-owned texture through a
// platform surface. A binding is bound at most once and released at most
// once; it is not reusable after Release.
//
// Bind, Synchronize and Release must be called from the render goroutine.
// SurfaceBinding is NOT safe for concurrent use by multiple consumers.
// Stats reads atomic counters and follows the same rule.
type SurfaceBinding struct {
	platform Platform
	decoder  Decoder
	opts     bindingOptions

	state   bindingState
	texture ExternalTexture
	surface Surface
	signal  *FrameReadySignal

	// Signal counters folded in at Release.
	retiredSignaled  uint64
	retiredCoalesced uint64

	promotions    atomic.Uint64
	unchanged     atomic.Uint64
	promoteErrors atomic.Uint64
}

// NewSurfaceBinding creates an unbound binding. decoder may be nil when
// the caller drives the surface's QueueBuffer directly.
func NewSurfaceBinding(platform Platform, decoder Decoder, opts ...BindingOption) *SurfaceBinding {
	o := defaultBindingOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SurfaceBinding{
		platform: platform,
		decoder:  decoder,
		opts:     o,
	}
}

func (b *SurfaceBinding) logger() *slog.Logger {
	if b.opts.logger != nil {
		return b.opts.logger
	}
	return Logger()
}

// Bind creates a platform surface over tex, wires its frame-available
// listener to a fresh FrameReadySignal and registers the surface as the
// decoder's output.
//
// Bind on a bound or released binding returns ErrAlreadyBound and creates
// nothing. If the decoder rejects the surface, the surface is destroyed
// and the binding stays unbound.
func (b *SurfaceBinding) Bind(tex ExternalTexture) error {
	if b.state != stateUnbound {
		return fmt.Errorf("%w (state %s)", ErrAlreadyBound, b.state)
	}
	if b.platform == nil {
		return ErrNilPlatform
	}
	if err := tex.Validate(); err != nil {
		return err
	}

	s, err := b.platform.NewSurface(tex)
	if err != nil {
		return fmt.Errorf("videotex: create surface: %w", err)
	}

	sig := &FrameReadySignal{}
	s.SetOnFrameAvailable(sig.Set)

	if b.decoder != nil {
		if err := b.decoder.SetOutputSurface(s); err != nil {
			s.SetOnFrameAvailable(nil)
			s.Destroy()
			return fmt.Errorf("videotex: attach decoder output: %w", err)
		}
	}

	b.texture = tex
	b.surface = s
	b.signal = sig
	b.state = stateBound

	b.logger().Info("videotex: surface bound",
		"label", b.opts.label,
		"width", tex.Width(),
		"height", tex.Height(),
		"format", tex.Format.String(),
	)
	return nil
}

// MustBind is like Bind but panics on error.
// Use for call sites where a bind failure is a programming error.
func (b *SurfaceBinding) MustBind(tex ExternalTexture) {
	if err := b.Bind(tex); err != nil {
		panic(err)
	}
}

// Synchronize promotes the latest decoded frame into the texture if one
// arrived since the previous call.
//
// It returns Updated after exactly one promotion, or Unchanged with no
// platform call at all. A promotion whose frame was already uploaded by
// the previous call still returns Updated. It never blocks and does not allocate on success.
// Before Bind and after Release it returns ErrNotBound. A failed promotion
// returns Unchanged with the wrapped platform error; the texture keeps its
// previous contents.
func (b *SurfaceBinding) Synchronize() (FrameSyncResult, error) {
	if b.state != stateBound {
		return Unchanged, ErrNotBound
	}
	if !b.signal.Drain() {
		b.unchanged.Add(1)
		return Unchanged, nil
	}
	if err := b.surface.UpdateTexImage(); err != nil {
		b.promoteErrors.Add(1)
		b.logger().Debug("videotex: promotion failed", "label", b.opts.label, "error", err)
		return Unchanged, fmt.Errorf("videotex: update tex image: %w", err)
	}
	b.promotions.Add(1)
	return Updated, nil
}

// Release tears the binding down in order: unregister the listener,
// detach the surface from the decoder, destroy the surface. The texture is
// left alone and may be freed by the renderer afterwards.
//
// Release is idempotent. Release on a binding that was never bound does
// nothing.
func (b *SurfaceBinding) Release() {
	if b.state != stateBound {
		return
	}

	b.surface.SetOnFrameAvailable(nil)
	if b.decoder != nil {
		b.decoder.DetachOutputSurface()
	}
	b.surface.Destroy()

	b.retiredSignaled = b.signal.Signaled()
	b.retiredCoalesced = b.signal.Coalesced()

	b.surface = nil
	b.signal = nil
	b.texture = ExternalTexture{}
	b.state = stateReleased

	b.logger().Info("videotex: surface released",
		"label", b.opts.label,
		"promotions", b.promotions.Load(),
	)
}

// Bound reports whether the binding currently holds a surface.
func (b *SurfaceBinding) Bound() bool {
	return b.state == stateBound
}

// Texture returns the bound texture, or the zero value when not bound.
func (b *SurfaceBinding) Texture() ExternalTexture {
	return b.texture
}

// Surface returns the live surface, or nil when not bound.
func (b *SurfaceBinding) Surface() Surface {
	return b.surface
}

// Signal returns the binding's FrameReadySignal, or nil when not bound.
func (b *SurfaceBinding) Signal() *FrameReadySignal {
	return b.signal
}

// Stats returns a snapshot of the binding's counters.
func (b *SurfaceBinding) Stats() BindingStats {
	st := BindingStats{
		Promotions:     b.promotions.Load(),
		UnchangedTicks: b.unchanged.Load(),
		PromoteErrors:  b.promoteErrors.Load(),
	}
	if sig := b.signal; sig != nil {
		st.FramesSignaled = sig.Signaled()
		st.SignalsCoalesced = sig.Coalesced()
	} else {
		st.FramesSignaled = b.retiredSignaled
		st.SignalsCoalesced = b.retiredCoalesced
	}
	return st
}
