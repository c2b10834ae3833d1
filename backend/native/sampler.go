// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ResourceDevice creates and destroys the samplers and shader modules
// used to draw a video texture.
type ResourceDevice interface {
	CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error)
	DestroySampler(sampler hal.Sampler)
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
}

// SamplerDescriptor converts a gputypes sampler descriptor to its HAL
// form. An undefined mipmap filter becomes nearest, and an anisotropy of
// zero becomes one.
func SamplerDescriptor(d gputypes.SamplerDescriptor) hal.SamplerDescriptor {
	mip := gputypes.FilterModeNearest
	if d.MipmapFilter == gputypes.MipmapFilterModeLinear {
		mip = gputypes.FilterModeLinear
	}
	aniso := d.MaxAnisotropy
	if aniso == 0 {
		aniso = 1
	}
	return hal.SamplerDescriptor{
		Label:        d.Label,
		AddressModeU: d.AddressModeU,
		AddressModeV: d.AddressModeV,
		AddressModeW: d.AddressModeW,
		MagFilter:    d.MagFilter,
		MinFilter:    d.MinFilter,
		MipmapFilter: mip,
		LodMinClamp:  d.LodMinClamp,
		LodMaxClamp:  d.LodMaxClamp,
		Compare:      d.Compare,
		Anisotropy:   aniso,
	}
}

// NewSampler creates a sampler matching d.
func NewSampler(device ResourceDevice, d gputypes.SamplerDescriptor) (hal.Sampler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	desc := SamplerDescriptor(d)
	s, err := device.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("native: create sampler %q: %w", d.Label, err)
	}
	return s, nil
}

// NewShaderModule creates a shader module from SPIR-V words.
func NewShaderModule(device ResourceDevice, label string, spirv []uint32) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create shader module %q: %w", label, err)
	}
	return m, nil
}

// Resources groups what a video draw pass owns besides the texture.
type Resources struct {
	Device  ResourceDevice
	Sampler hal.Sampler
	Shader  hal.ShaderModule
}

// Destroy releases the sampler and shader module. It is safe to call on
// a partially filled Resources and more than once.
func (r *Resources) Destroy() {
	if r.Device == nil {
		return
	}
	if r.Sampler != nil {
		r.Device.DestroySampler(r.Sampler)
		r.Sampler = nil
	}
	if r.Shader != nil {
		r.Device.DestroyShaderModule(r.Shader)
		r.Shader = nil
	}
}
