// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/videotex"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// TextureDevice is the part of hal.Device that creates and destroys
// textures.
type TextureDevice interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
}

// TextureQueue is the part of hal.Queue that uploads texels.
type TextureQueue interface {
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error
}

// HALProvider exposes the HAL handles behind a wgpu device.
type HALProvider interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

var _ HALProvider = (*wgpu.Device)(nil)

// TextureDescriptor describes a video texture.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture size in pixels.
	Width  int
	Height int

	// Format must be an 8-bit RGBA or BGRA format.
	Format gputypes.TextureFormat
}

// Texture is a 2D wgpu texture that frames are uploaded into.
//
// Uploads and Destroy may be called from different goroutines; a mutex
// serializes them.
type Texture struct {
	device TextureDevice
	queue  TextureQueue
	desc   TextureDescriptor

	mu        sync.Mutex
	hal       hal.Texture
	uploads   uint64
	destroyed bool
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// NewTexture creates the texture on device. It is usable as a copy
// destination and as a sampled texture.
func NewTexture(device TextureDevice, queue TextureQueue, desc TextureDescriptor) (*Texture, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, desc.Width, desc.Height)
	}
	if !supportedFormat(desc.Format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}

	halTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // checked positive above
			Height:             uint32(desc.Height), //nolint:gosec // checked positive above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	videotex.Logger().Debug("native: texture created",
		"label", desc.Label,
		"width", desc.Width,
		"height", desc.Height,
		"format", desc.Format.String(),
	)
	return &Texture{device: device, queue: queue, desc: desc, hal: halTex}, nil
}

// NewTextureForProvider creates a texture on the wgpu device behind p.
// p.Device() must expose HAL handles, as *wgpu.Device does.
func NewTextureForProvider(p gpucontext.DeviceProvider, desc TextureDescriptor) (*Texture, error) {
	if p == nil {
		return nil, ErrNilDevice
	}
	hp, ok := p.Device().(HALProvider)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNoHALDevice, p.Device())
	}
	device, queue := hp.HalDevice(), hp.HalQueue()
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = p.SurfaceFormat()
	}
	return NewTexture(device, queue, desc)
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.desc.Width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.desc.Height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.desc.Label }

// HAL returns the underlying texture, or nil after Destroy.
func (t *Texture) HAL() hal.Texture {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hal
}

// Uploads returns the number of successful writes.
func (t *Texture) Uploads() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uploads
}

// UpdateData replaces the whole texture. data holds tightly packed rows of
// Width*4 bytes.
func (t *Texture) UpdateData(data []byte) error {
	return t.UpdateRegion(0, 0, t.desc.Width, t.desc.Height, data)
}

// UpdateRegion writes a w by h block at (x, y). data holds tightly packed
// rows of w*4 bytes.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.desc.Width || y+h > t.desc.Height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d",
			ErrRegionOutOfBounds, w, h, x, y, t.desc.Width, t.desc.Height)
	}
	if want := w * h * 4; len(data) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), want)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}

	//nolint:gosec // bounds checked above
	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.hal,
			Origin:  hal.Origin3D{X: uint32(x), Y: uint32(y)},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("native: write texture %q: %w", t.desc.Label, err)
	}
	t.uploads++
	return nil
}

// Destroy releases the texture. Later uploads return ErrTextureDestroyed.
// Calling Destroy more than once is safe.
func (t *Texture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.hal != nil {
		t.device.DestroyTexture(t.hal)
		t.hal = nil
	}
	videotex.Logger().Debug("native: texture destroyed", "label", t.desc.Label, "uploads", t.uploads)
}

func supportedFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}
