// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"2D", Mode2D},
		{"", Mode2D},
		{"3D-OU", ModeOverUnder},
		{"3d-sbs", ModeSideBySide},
		{" 3D-SBS ", ModeSideBySide},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if tt.in != "" && !strings.EqualFold(strings.TrimSpace(tt.in), got.String()) {
			t.Errorf("%v.String() = %q does not round-trip %q", got, got.String(), tt.in)
		}
	}
	if _, err := ParseMode("360"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(360) error = %v, want ErrUnknownMode", err)
	}
	if Mode2D.Stereo() || !ModeOverUnder.Stereo() || !ModeSideBySide.Stereo() {
		t.Error("Stereo() mismatch")
	}
}

func TestEyeRect(t *testing.T) {
	tests := []struct {
		mode  Mode
		eye   Eye
		want  Rect
		pixel [4]int // in a 1920x1080 frame
	}{
		{Mode2D, EyeLeft, Rect{0, 0, 1, 1}, [4]int{0, 0, 1920, 1080}},
		{Mode2D, EyeRight, Rect{0, 0, 1, 1}, [4]int{0, 0, 1920, 1080}},
		{ModeSideBySide, EyeLeft, Rect{0, 0, 0.5, 1}, [4]int{0, 0, 960, 1080}},
		{ModeSideBySide, EyeRight, Rect{0.5, 0, 0.5, 1}, [4]int{960, 0, 960, 1080}},
		{ModeOverUnder, EyeLeft, Rect{0, 0, 1, 0.5}, [4]int{0, 0, 1920, 540}},
		{ModeOverUnder, EyeRight, Rect{0, 0.5, 1, 0.5}, [4]int{0, 540, 1920, 540}},
	}
	for _, tt := range tests {
		got := EyeRect(tt.mode, tt.eye)
		if got != tt.want {
			t.Errorf("EyeRect(%v, %d) = %+v, want %+v", tt.mode, tt.eye, got, tt.want)
		}
		x, y, w, h := got.Pixels(1920, 1080)
		if [4]int{x, y, w, h} != tt.pixel {
			t.Errorf("EyeRect(%v, %d).Pixels = %v, want %v", tt.mode, tt.eye, [4]int{x, y, w, h}, tt.pixel)
		}
	}
}

func TestRectUniform(t *testing.T) {
	b := Rect{U: 0.5, V: 0, W: 0.5, H: 1}.Uniform()
	// 0.5 = 0x3F000000, 1.0 = 0x3F800000, little-endian.
	want := [UniformSize]byte{0, 0, 0, 0x3F, 0, 0, 0, 0, 0, 0, 0, 0x3F, 0, 0, 0x80, 0x3F}
	if b != want {
		t.Errorf("Uniform() = % x, want % x", b, want)
	}
}

func TestSource(t *testing.T) {
	src := Source()
	for _, s := range []string{"@vertex", "@fragment", VertexEntry, FragmentEntry, "texture_2d<f32>", "sampler", "textureSample", "var<uniform> eye"} {
		if !strings.Contains(src, s) {
			t.Errorf("video shader missing %q", s)
		}
	}
}

func compileOrSkip(t *testing.T) []uint32 {
	t.Helper()
	words, err := VideoSPIRV()
	if err != nil {
		// naga is still growing its WGSL front end.
		t.Skipf("Skipping: naga cannot compile the video shader yet: %v", err)
	}
	return words
}

func TestCompile(t *testing.T) {
	words := compileOrSkip(t)
	if len(words) < 5 {
		t.Fatalf("SPIR-V too short: %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", words[0])
	}
	t.Logf("video shader: %d SPIR-V words", len(words))
}

// moduleDevice records shader modules created on the noop device.
type moduleDevice struct {
	noop.Device
	last *hal.ShaderModuleDescriptor
}

func (d *moduleDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.last = desc
	return d.Device.CreateShaderModule(desc)
}

func TestNewModule(t *testing.T) {
	words := compileOrSkip(t)
	dev := &moduleDevice{}
	m, err := NewModule(dev, "video")
	if err != nil {
		t.Fatal(err)
	}
	defer dev.DestroyShaderModule(m)

	if dev.last == nil || dev.last.Label != "video" {
		t.Fatalf("descriptor = %+v", dev.last)
	}
	if len(dev.last.Source.SPIRV) != len(words) || dev.last.Source.WGSL != "" {
		t.Errorf("module source has %d words and WGSL %q", len(dev.last.Source.SPIRV), dev.last.Source.WGSL)
	}
}
