// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface implements the platform side of a videotex binding: a
// buffer-queue surface over any gpucontext texture.
//
// A producer calls QueueBuffer from its own goroutine. The buffer is copied
// into a pooled slot and becomes the single pending frame, replacing (and
// counting as dropped) any frame the render loop has not promoted yet. The
// frame-available listener fires after the slot is published.
//
// The render loop calls UpdateTexImage, which takes the pending slot and
// uploads it through gpucontext.TextureUpdater. Frames whose size differs
// from the texture are rescaled with golang.org/x/image/draw; BGRA textures
// get a channel swizzle. Conversion reuses a staging buffer sized to the
// texture, so steady-state promotion does not allocate.
//
// # Textures
//
// Any texture implementing gpucontext.Texture and gpucontext.TextureUpdater
// works. MemoryTexture is a CPU-side implementation for headless playback
// and tests; backend/native provides a GPU one.
//
// # Usage
//
//	tex := surface.NewMemoryTexture(1280, 720, gputypes.TextureFormatRGBA8Unorm)
//	p := surface.NewPlatform(surface.WithScaler(draw.NearestNeighbor))
//	b := videotex.NewSurfaceBinding(p, dec)
//	b.MustBind(videotex.NewExternalTexture(tex, tex.Format()))
package surface
