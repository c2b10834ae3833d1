// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// MemoryTexture is a CPU-resident texture. It stands in for a GPU texture
// in headless playback and tests.
//
// MemoryTexture is safe for concurrent use.
type MemoryTexture struct {
	mu        sync.Mutex
	width     int
	height    int
	format    gputypes.TextureFormat
	pix       []byte
	updates   int
	destroyed bool
}

var (
	_ gpucontext.Texture              = (*MemoryTexture)(nil)
	_ gpucontext.TextureUpdater       = (*MemoryTexture)(nil)
	_ gpucontext.TextureRegionUpdater = (*MemoryTexture)(nil)
)

// NewMemoryTexture allocates a zeroed width x height texture.
func NewMemoryTexture(width, height int, format gputypes.TextureFormat) *MemoryTexture {
	return &MemoryTexture{
		width:  width,
		height: height,
		format: format,
		pix:    make([]byte, max(width*height*4, 0)),
	}
}

// Width returns the texture width in pixels.
func (t *MemoryTexture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *MemoryTexture) Height() int { return t.height }

// Format returns the texture format.
func (t *MemoryTexture) Format() gputypes.TextureFormat { return t.format }

// UpdateData replaces the whole texture. len(data) must equal
// width*height*4.
func (t *MemoryTexture) UpdateData(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrSurfaceDestroyed
	}
	if len(data) != len(t.pix) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), len(t.pix))
	}
	copy(t.pix, data)
	t.updates++
	return nil
}

// UpdateRegion replaces a w x h rectangle at (x, y) with tightly packed data.
func (t *MemoryTexture) UpdateRegion(x, y, w, h int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrSurfaceDestroyed
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: region (%d,%d %dx%d) outside %dx%d",
			ErrDataSize, x, y, w, h, t.width, t.height)
	}
	if len(data) != w*h*4 {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), w*h*4)
	}
	stride := t.width * 4
	for row := range h {
		off := (y+row)*stride + x*4
		copy(t.pix[off:off+w*4], data[row*w*4:(row+1)*w*4])
	}
	t.updates++
	return nil
}

// Updates returns the number of successful uploads.
func (t *MemoryTexture) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Snapshot returns a copy of the texture as an RGBA image. BGRA textures
// are converted back to RGBA order.
func (t *MemoryTexture) Snapshot() *image.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.pix)
	if isBGRA(t.format) {
		swizzleRB(img.Pix)
	}
	return img
}

// Destroy frees the pixel storage. Further uploads fail.
func (t *MemoryTexture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
	t.pix = nil
}
