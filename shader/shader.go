// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader holds the WGSL program that draws a video texture, one
// eye at a time, and the frame layouts it understands.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/videotex/backend/native"
	"github.com/gogpu/wgpu/hal"
)

// Entry points and bindings of the video program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"

	TextureBinding = 0
	SamplerBinding = 1
	EyeBinding     = 2
)

//go:embed video.wgsl
var videoSource string

var (
	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("shader: unknown video mode")

	// ErrBadSPIRV is returned when the compiler output is not whole
	// 32-bit words.
	ErrBadSPIRV = errors.New("shader: SPIR-V length not a multiple of 4")
)

// Source returns the WGSL source of the video program.
func Source() string { return videoSource }

// Compile compiles WGSL to SPIR-V words.
func Compile(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadSPIRV, len(spirv))
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words, nil
}

var (
	videoOnce  sync.Once
	videoSPIRV []uint32
	videoErr   error
)

// VideoSPIRV compiles the video program once per process.
func VideoSPIRV() ([]uint32, error) {
	videoOnce.Do(func() {
		videoSPIRV, videoErr = Compile(videoSource)
	})
	return videoSPIRV, videoErr
}

// NewModule creates the video program on device.
func NewModule(device native.ResourceDevice, label string) (hal.ShaderModule, error) {
	spirv, err := VideoSPIRV()
	if err != nil {
		return nil, err
	}
	return native.NewShaderModule(device, label, spirv)
}
