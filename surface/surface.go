// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/videotex"
	"golang.org/x/image/draw"
)

// Stats is a snapshot of a surface's counters.
type Stats struct {
	// Queued counts buffers accepted by QueueBuffer.
	Queued uint64

	// Dropped counts pending buffers replaced before promotion.
	Dropped uint64

	// Promoted counts frames uploaded by UpdateTexImage.
	Promoted uint64

	// LastSeq and LastPTS describe the most recently promoted frame.
	LastSeq uint64
	LastPTS time.Duration
}

// MaxDimension is the largest buffer width or height QueueBuffer accepts.
const MaxDimension = 16384

// Surface is a single-slot buffer queue in front of a texture.
//
// QueueBuffer is safe to call from any goroutine. UpdateTexImage,
// SetOnFrameAvailable and Destroy belong to the render goroutine.
type Surface struct {
	platform *Platform
	texture  videotex.ExternalTexture
	updater  gpucontext.TextureUpdater
	width    int
	height   int
	bgra     bool
	scaler   draw.Scaler

	pending  atomic.Pointer[frame]
	pool     chan *frame
	listener atomic.Pointer[func()]

	destroyed atomic.Bool

	// Render-side state.
	staging  image.RGBA
	lastSeq  uint64
	lastPTS  time.Duration
	promoted atomic.Uint64

	queued  atomic.Uint64
	dropped atomic.Uint64
}

var _ videotex.Surface = (*Surface)(nil)

func newSurface(p *Platform, tex videotex.ExternalTexture, o options) (*Surface, error) {
	if err := tex.Validate(); err != nil {
		return nil, err
	}
	updater, ok := tex.Texture.(gpucontext.TextureUpdater)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrTextureNotUpdatable, tex.Texture)
	}
	if !supportedFormat(tex.Format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, tex.Format)
	}

	w, h := tex.Width(), tex.Height()
	s := &Surface{
		platform: p,
		texture:  tex,
		updater:  updater,
		width:    w,
		height:   h,
		bgra:     isBGRA(tex.Format),
		scaler:   o.scaler,
		pool:     make(chan *frame, o.poolSize),
	}
	for range o.poolSize {
		f := &frame{}
		f.resize(w, h)
		s.pool <- f
	}
	return s, nil
}

// Width returns the texture width.
func (s *Surface) Width() int { return s.width }

// Height returns the texture height.
func (s *Surface) Height() int { return s.height }

// Texture returns the texture this surface uploads into.
func (s *Surface) Texture() videotex.ExternalTexture { return s.texture }

// SetOnFrameAvailable registers fn to run after each QueueBuffer, on the
// producer's goroutine. nil unregisters.
func (s *Surface) SetOnFrameAvailable(fn func()) {
	if fn == nil {
		s.listener.Store(nil)
		return
	}
	s.listener.Store(&fn)
}

// QueueBuffer copies buf into a pooled frame and makes it the pending
// frame. A frame still pending from an earlier call is dropped.
func (s *Surface) QueueBuffer(buf videotex.Buffer) error {
	if s.destroyed.Load() {
		return ErrSurfaceDestroyed
	}
	if buf.Width <= 0 || buf.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, buf.Width, buf.Height)
	}
	if buf.Width > MaxDimension || buf.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidBuffer, buf.Width, buf.Height, MaxDimension)
	}
	rowBytes := buf.Width * 4
	stride := buf.RowBytes()
	if stride < rowBytes {
		return fmt.Errorf("%w: stride %d < row %d", ErrInvalidBuffer, stride, rowBytes)
	}
	// Height is bounded, so only a huge stride can overflow the product.
	if buf.Height > 1 && stride > (math.MaxInt-rowBytes)/(buf.Height-1) {
		return fmt.Errorf("%w: stride %d too large", ErrInvalidBuffer, stride)
	}
	if need := stride*(buf.Height-1) + rowBytes; len(buf.Data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrInvalidBuffer, len(buf.Data), need)
	}

	f := s.acquire()
	f.resize(buf.Width, buf.Height)
	packRows(f.img.Pix, buf.Data, rowBytes, buf.Height, stride)
	f.pts = buf.PTS
	f.seq = buf.Seq

	if old := s.pending.Swap(f); old != nil {
		s.dropped.Add(1)
		s.recycle(old)
	}
	s.queued.Add(1)

	if fn := s.listener.Load(); fn != nil {
		(*fn)()
	}
	return nil
}

// UpdateTexImage uploads the pending frame into the texture. With no
// pending frame it does nothing and returns nil.
func (s *Surface) UpdateTexImage() error {
	if s.destroyed.Load() {
		return ErrSurfaceDestroyed
	}
	f := s.pending.Swap(nil)
	if f == nil {
		return nil
	}
	defer s.recycle(f)

	data := s.convert(f)
	if err := s.updater.UpdateData(data); err != nil {
		return fmt.Errorf("surface: upload frame %d: %w", f.seq, err)
	}

	s.lastSeq = f.seq
	s.lastPTS = f.pts
	s.promoted.Add(1)
	return nil
}

// convert returns texture-sized pixel data in the texture's channel order.
func (s *Surface) convert(f *frame) []byte {
	sameSize := f.img.Rect.Dx() == s.width && f.img.Rect.Dy() == s.height
	if sameSize {
		if s.bgra {
			// The frame is recycled after upload, so swizzle in place.
			swizzleRB(f.img.Pix)
		}
		return f.img.Pix
	}

	if s.staging.Pix == nil {
		s.staging.Pix = make([]byte, s.width*s.height*4)
		s.staging.Stride = s.width * 4
		s.staging.Rect = image.Rect(0, 0, s.width, s.height)
	}
	s.scaler.Scale(&s.staging, s.staging.Rect, &f.img, f.img.Rect, draw.Src, nil)
	if s.bgra {
		swizzleRB(s.staging.Pix)
	}
	return s.staging.Pix
}

// Destroy unregisters the listener and discards any pending frame. The
// texture is not touched. Destroy is idempotent.
func (s *Surface) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.listener.Store(nil)
	if f := s.pending.Swap(nil); f != nil {
		s.recycle(f)
	}
	if s.platform != nil {
		s.platform.surfaceDestroyed()
	}
	videotex.Logger().Debug("surface: destroyed",
		"width", s.width,
		"height", s.height,
		"queued", s.queued.Load(),
		"dropped", s.dropped.Load(),
	)
}

// Destroyed reports whether Destroy has been called.
func (s *Surface) Destroyed() bool { return s.destroyed.Load() }

// Stats returns a snapshot of the surface counters. LastSeq and LastPTS
// are only meaningful on the render goroutine.
func (s *Surface) Stats() Stats {
	return Stats{
		Queued:   s.queued.Load(),
		Dropped:  s.dropped.Load(),
		Promoted: s.promoted.Load(),
		LastSeq:  s.lastSeq,
		LastPTS:  s.lastPTS,
	}
}

func (s *Surface) acquire() *frame {
	select {
	case f := <-s.pool:
		return f
	default:
		return &frame{}
	}
}

func (s *Surface) recycle(f *frame) {
	select {
	case s.pool <- f:
	default:
	}
}
