// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ExternalTexture is the renderer-owned texture a SurfaceBinding streams
// decoded frames into. The binding references it and never frees it.
type ExternalTexture struct {
	// Texture is the GPU (or in-memory) texture. It must also implement
	// gpucontext.TextureUpdater for the surface to upload into it.
	Texture gpucontext.Texture

	// Format is the texture's pixel format. RGBA8 and BGRA8 variants are
	// supported by the surface package.
	Format gputypes.TextureFormat

	// Sampler is the sampling state the renderer uses for this texture.
	Sampler gputypes.SamplerDescriptor
}

// NewExternalTexture wraps tex with the default video sampler: nearest
// filtering and clamp-to-edge addressing.
func NewExternalTexture(tex gpucontext.Texture, format gputypes.TextureFormat) ExternalTexture {
	s := gputypes.DefaultSamplerDescriptor()
	s.Label = "videotex.external"
	return ExternalTexture{
		Texture: tex,
		Format:  format,
		Sampler: s,
	}
}

// Width returns the texture width, or 0 if there is no texture.
func (t ExternalTexture) Width() int {
	if t.Texture == nil {
		return 0
	}
	return t.Texture.Width()
}

// Height returns the texture height, or 0 if there is no texture.
func (t ExternalTexture) Height() int {
	if t.Texture == nil {
		return 0
	}
	return t.Texture.Height()
}

// Validate reports whether the texture can back a surface.
func (t ExternalTexture) Validate() error {
	if t.Texture == nil {
		return ErrNilTexture
	}
	w, h := t.Texture.Width(), t.Texture.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidTexture, w, h)
	}
	if t.Format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("%w: undefined format", ErrInvalidTexture)
	}
	return nil
}

// FrameSyncResult reports what a Synchronize call did.
type FrameSyncResult uint8

const (
	// Unchanged means no new frame arrived since the previous call. The
	// texture keeps its previous contents.
	Unchanged FrameSyncResult = iota

	// Updated means the texture now holds the most recent decoded frame.
	Updated
)

// String returns the result name.
func (r FrameSyncResult) String() string {
	switch r {
	case Unchanged:
		return "Unchanged"
	case Updated:
		return "Updated"
	default:
		return fmt.Sprintf("FrameSyncResult(%d)", uint8(r))
	}
}

// Buffer is one decoded RGBA8 frame handed to a Surface by a producer.
// The surface copies Data before QueueBuffer returns, so producers may
// reuse it.
type Buffer struct {
	Data   []byte
	Width  int
	Height int

	// Stride is the row pitch in bytes. Zero means Width*4.
	Stride int

	// PTS is the presentation timestamp relative to stream start.
	PTS time.Duration

	// Seq is a producer-assigned sequence number.
	Seq uint64
}

// RowBytes returns the effective row pitch.
func (b Buffer) RowBytes() int {
	if b.Stride > 0 {
		return b.Stride
	}
	return b.Width * 4
}

// Platform creates surfaces over external textures.
type Platform interface {
	NewSurface(tex ExternalTexture) (Surface, error)
}

// Surface is a producer/consumer endpoint wrapping one external texture.
//
// QueueBuffer is called from the producer goroutine and invokes the
// frame-available listener after the buffer is pending. UpdateTexImage,
// SetOnFrameAvailable and Destroy are called from the render goroutine.
type Surface interface {
	// QueueBuffer makes buf the pending frame, replacing any frame that
	// has not been promoted yet.
	QueueBuffer(buf Buffer) error

	// SetOnFrameAvailable registers fn as the frame-available listener.
	// A nil fn unregisters it.
	SetOnFrameAvailable(fn func())

	// UpdateTexImage promotes the pending frame into the texture.
	UpdateTexImage() error

	// Destroy releases the surface. The texture is not touched.
	Destroy()
}

// Decoder is the producer side of a binding.
type Decoder interface {
	// SetOutputSurface directs decoded frames to s.
	SetOutputSurface(s Surface) error

	// DetachOutputSurface stops frame delivery. When it returns no
	// QueueBuffer call on the previous surface is in flight.
	DetachOutputSurface()
}

// Runner is implemented by decoders that own a decode goroutine.
type Runner interface {
	Start(ctx context.Context) error
	Stop() error
}
