// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/videotex"
	"github.com/gogpu/videotex/surface"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// =============================================================================
// Test doubles
// =============================================================================

// countingDevice wraps the noop HAL device and counts resource lifetimes.
type countingDevice struct {
	noop.Device

	failCreate bool
	lastDesc   hal.TextureDescriptor
	lastSamp   hal.SamplerDescriptor

	textures  atomic.Int32
	samplers  atomic.Int32
	shaders   atomic.Int32
	destroyed atomic.Int32
}

func (d *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failCreate {
		return nil, errors.New("out of device memory")
	}
	d.lastDesc = *desc
	d.textures.Add(1)
	return d.Device.CreateTexture(desc)
}

func (d *countingDevice) DestroyTexture(t hal.Texture) {
	d.destroyed.Add(1)
	d.Device.DestroyTexture(t)
}

func (d *countingDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	d.lastSamp = *desc
	d.samplers.Add(1)
	return d.Device.CreateSampler(desc)
}

func (d *countingDevice) DestroySampler(s hal.Sampler) {
	d.samplers.Add(-1)
	d.Device.DestroySampler(s)
}

func (d *countingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.shaders.Add(1)
	return d.Device.CreateShaderModule(desc)
}

func (d *countingDevice) DestroyShaderModule(m hal.ShaderModule) {
	d.shaders.Add(-1)
	d.Device.DestroyShaderModule(m)
}

// recordingQueue wraps the noop HAL queue and keeps the last write.
type recordingQueue struct {
	noop.Queue

	fail   error
	writes int
	dst    hal.ImageCopyTexture
	layout hal.ImageDataLayout
	size   hal.Extent3D
	bytes  int
}

func (q *recordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.fail != nil {
		return q.fail
	}
	q.writes++
	q.dst, q.layout, q.size, q.bytes = *dst, *layout, *size, len(data)
	return q.Queue.WriteTexture(dst, data, layout, size)
}

// halDevice stands in for *wgpu.Device.
type halDevice struct {
	device hal.Device
	queue  hal.Queue
}

func (h *halDevice) HalDevice() hal.Device { return h.device }
func (h *halDevice) HalQueue() hal.Queue   { return h.queue }

// testProvider is a gpucontext.DeviceProvider over a HAL device.
type testProvider struct {
	device gpucontext.Device
	format gputypes.TextureFormat
}

func (p *testProvider) Device() gpucontext.Device { return p.device }
func (p *testProvider) Queue() gpucontext.Queue { return nil }
func (p *testProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *testProvider) Adapter() gpucontext.Adapter { return nil }
func (p *testProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

func newTestTexture(t *testing.T, w, h int) (*Texture, *countingDevice, *recordingQueue) {
	t.Helper()
	dev, q := &countingDevice{}, &recordingQueue{}
	tex, err := NewTexture(dev, q, TextureDescriptor{
		Label:  "test",
		Width:  w,
		Height: h,
		Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	return tex, dev, q
}

// =============================================================================
// Texture
// =============================================================================

func TestNewTexture(t *testing.T) {
	tex, dev, _ := newTestTexture(t, 64, 32)

	if tex.Width() != 64 || tex.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", tex.Width(), tex.Height())
	}
	d := dev.lastDesc
	if d.Size.Width != 64 || d.Size.Height != 32 || d.Size.DepthOrArrayLayers != 1 {
		t.Errorf("descriptor size = %+v", d.Size)
	}
	if d.Dimension != gputypes.TextureDimension2D || d.MipLevelCount != 1 || d.SampleCount != 1 {
		t.Errorf("descriptor = %+v", d)
	}
	want := gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	if d.Usage != want {
		t.Errorf("usage = %v, want %v", d.Usage, want)
	}
	if tex.HAL() == nil {
		t.Error("HAL() is nil")
	}
}

func TestNewTexture_Errors(t *testing.T) {
	dev, q := &countingDevice{}, &recordingQueue{}
	rgba := gputypes.TextureFormatRGBA8Unorm

	tests := []struct {
		name   string
		device TextureDevice
		queue  TextureQueue
		desc   TextureDescriptor
		want   error
	}{
		{"nil device", nil, q, TextureDescriptor{Width: 1, Height: 1, Format: rgba}, ErrNilDevice},
		{"nil queue", dev, nil, TextureDescriptor{Width: 1, Height: 1, Format: rgba}, ErrNilQueue},
		{"zero width", dev, q, TextureDescriptor{Height: 1, Format: rgba}, ErrInvalidTextureSize},
		{"negative height", dev, q, TextureDescriptor{Width: 1, Height: -1, Format: rgba}, ErrInvalidTextureSize},
		{"r8", dev, q, TextureDescriptor{Width: 1, Height: 1, Format: gputypes.TextureFormatR8Unorm}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTexture(tt.device, tt.queue, tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("NewTexture() error = %v, want %v", err, tt.want)
			}
		})
	}

	dev.failCreate = true
	if _, err := NewTexture(dev, q, TextureDescriptor{Width: 1, Height: 1, Format: rgba}); err == nil {
		t.Error("NewTexture() should report device errors")
	}
}

func TestTexture_UpdateData(t *testing.T) {
	tex, _, q := newTestTexture(t, 8, 4)

	if err := tex.UpdateData(make([]byte, 8*4*4)); err != nil {
		t.Fatal(err)
	}
	if q.layout.BytesPerRow != 32 || q.layout.RowsPerImage != 4 {
		t.Errorf("layout = %+v, want 32 bytes x 4 rows", q.layout)
	}
	if q.size != (hal.Extent3D{Width: 8, Height: 4, DepthOrArrayLayers: 1}) {
		t.Errorf("size = %+v", q.size)
	}
	if q.dst.Aspect != gputypes.TextureAspectAll || q.dst.Texture != tex.HAL() {
		t.Errorf("destination = %+v", q.dst)
	}
	if tex.Uploads() != 1 {
		t.Errorf("Uploads() = %d, want 1", tex.Uploads())
	}

	if err := tex.UpdateData(make([]byte, 10)); !errors.Is(err, ErrDataSize) {
		t.Errorf("short data error = %v, want ErrDataSize", err)
	}
}

func TestTexture_UpdateRegion(t *testing.T) {
	tex, _, q := newTestTexture(t, 16, 16)

	if err := tex.UpdateRegion(4, 6, 2, 3, make([]byte, 2*3*4)); err != nil {
		t.Fatal(err)
	}
	if q.dst.Origin != (hal.Origin3D{X: 4, Y: 6}) {
		t.Errorf("origin = %+v, want (4,6)", q.dst.Origin)
	}
	if q.layout.BytesPerRow != 8 || q.size.Width != 2 || q.size.Height != 3 {
		t.Errorf("layout %+v size %+v", q.layout, q.size)
	}

	for _, r := range [][4]int{{-1, 0, 1, 1}, {15, 0, 2, 1}, {0, 0, 0, 1}, {0, 16, 1, 1}} {
		if err := tex.UpdateRegion(r[0], r[1], r[2], r[3], make([]byte, 4)); !errors.Is(err, ErrRegionOutOfBounds) {
			t.Errorf("UpdateRegion%v error = %v, want ErrRegionOutOfBounds", r, err)
		}
	}
}

func TestTexture_WriteError(t *testing.T) {
	tex, _, q := newTestTexture(t, 2, 2)
	q.fail = errors.New("queue lost")
	if err := tex.UpdateData(make([]byte, 16)); !errors.Is(err, q.fail) {
		t.Errorf("UpdateData() error = %v, want queue error", err)
	}
	if tex.Uploads() != 0 {
		t.Errorf("failed write counted as upload")
	}
}

func TestTexture_Destroy(t *testing.T) {
	tex, dev, _ := newTestTexture(t, 2, 2)
	tex.Destroy()
	tex.Destroy()

	if dev.destroyed.Load() != 1 {
		t.Errorf("DestroyTexture called %d times, want 1", dev.destroyed.Load())
	}
	if tex.HAL() != nil {
		t.Error("HAL() should be nil after Destroy")
	}
	if err := tex.UpdateData(make([]byte, 16)); !errors.Is(err, ErrTextureDestroyed) {
		t.Errorf("UpdateData() after Destroy = %v, want ErrTextureDestroyed", err)
	}
}

func TestNewTextureForProvider(t *testing.T) {
	p := &testProvider{
		device: &halDevice{device: &noop.Device{}, queue: &noop.Queue{}},
		format: gputypes.TextureFormatBGRA8Unorm,
	}
	tex, err := NewTextureForProvider(p, TextureDescriptor{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if tex.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want the surface format", tex.Format())
	}

	if _, err := NewTextureForProvider(&testProvider{device: struct{}{}}, TextureDescriptor{Width: 1, Height: 1}); !errors.Is(err, ErrNoHALDevice) {
		t.Errorf("non-HAL provider error = %v, want ErrNoHALDevice", err)
	}
	if _, err := NewTextureForProvider(nil, TextureDescriptor{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil provider error = %v, want ErrNilDevice", err)
	}
}

// A native Texture behind a surface receives every promoted frame.
func TestTexture_BehindSurface(t *testing.T) {
	tex, _, q := newTestTexture(t, 4, 4)
	platform := surface.NewPlatform()
	s, err := platform.NewSurface(videotex.NewExternalTexture(tex, tex.Format()))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Destroy()

	buf := videotex.Buffer{Data: make([]byte, 4*4*4), Width: 4, Height: 4}
	if err := s.QueueBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateTexImage(); err != nil {
		t.Fatal(err)
	}
	if q.writes != 1 || q.bytes != 64 {
		t.Errorf("writes = %d bytes = %d, want one 64-byte write", q.writes, q.bytes)
	}
}

// =============================================================================
// Samplers and shader modules
// =============================================================================

func TestSamplerDescriptor(t *testing.T) {
	d := SamplerDescriptor(gputypes.DefaultSamplerDescriptor())
	if d.MipmapFilter != gputypes.FilterModeNearest {
		t.Errorf("MipmapFilter = %v, want nearest", d.MipmapFilter)
	}
	if d.AddressModeU != gputypes.AddressModeClampToEdge || d.Anisotropy != 1 {
		t.Errorf("descriptor = %+v", d)
	}

	linear := gputypes.DefaultSamplerDescriptor()
	linear.MagFilter = gputypes.FilterModeLinear
	linear.MipmapFilter = gputypes.MipmapFilterModeLinear
	linear.MaxAnisotropy = 0
	d = SamplerDescriptor(linear)
	if d.MagFilter != gputypes.FilterModeLinear || d.MipmapFilter != gputypes.FilterModeLinear {
		t.Errorf("linear descriptor = %+v", d)
	}
	if d.Anisotropy != 1 {
		t.Errorf("Anisotropy = %d, want 1", d.Anisotropy)
	}
}

func TestResources(t *testing.T) {
	dev := &countingDevice{}
	tex, _, _ := newTestTexture(t, 2, 2)
	ext := videotex.NewExternalTexture(tex, tex.Format())

	sampler, err := NewSampler(dev, ext.Sampler)
	if err != nil {
		t.Fatal(err)
	}
	if dev.lastSamp.Label != ext.Sampler.Label {
		t.Errorf("sampler label = %q, want %q", dev.lastSamp.Label, ext.Sampler.Label)
	}
	shader, err := NewShaderModule(dev, "video", []uint32{0x07230203})
	if err != nil {
		t.Fatal(err)
	}

	r := &Resources{Device: dev, Sampler: sampler, Shader: shader}
	r.Destroy()
	r.Destroy()
	if dev.samplers.Load() != 0 || dev.shaders.Load() != 0 {
		t.Errorf("live samplers=%d shaders=%d after Destroy", dev.samplers.Load(), dev.shaders.Load())
	}

	if _, err := NewSampler(nil, ext.Sampler); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewSampler(nil) error = %v", err)
	}
	if _, err := NewShaderModule(nil, "x", nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("NewShaderModule(nil) error = %v", err)
	}
	(&Resources{}).Destroy()
}
