// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native puts decoded video frames into wgpu textures.
//
// Texture wraps a hal.Texture created on a wgpu HAL device and implements
// gpucontext.Texture, gpucontext.TextureUpdater and
// gpucontext.TextureRegionUpdater, so it can back a videotex
// ExternalTexture directly:
//
//	tex, err := native.NewTextureForProvider(provider, native.TextureDescriptor{
//		Label:  "video",
//		Width:  1280,
//		Height: 720,
//		Format: gputypes.TextureFormatRGBA8Unorm,
//	})
//	ext := videotex.NewExternalTexture(tex, tex.Format())
//
// Uploads go through hal.Queue.WriteTexture with tightly packed rows.
// Samplers and shader modules for drawing the texture are created with
// NewSampler and NewShaderModule and released with Resources.
package native
