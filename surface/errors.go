// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "errors"

var (
	// ErrSurfaceDestroyed is returned by operations on a destroyed surface.
	ErrSurfaceDestroyed = errors.New("surface: surface destroyed")

	// ErrTextureNotUpdatable is returned when the texture does not
	// implement gpucontext.TextureUpdater.
	ErrTextureNotUpdatable = errors.New("surface: texture does not accept uploads")

	// ErrUnsupportedFormat is returned for texture formats other than
	// 8-bit RGBA or BGRA.
	ErrUnsupportedFormat = errors.New("surface: unsupported texture format")

	// ErrInvalidBuffer is returned by QueueBuffer for buffers with bad
	// dimensions or too little data.
	ErrInvalidBuffer = errors.New("surface: invalid buffer")

	// ErrDataSize is returned by MemoryTexture for uploads of the wrong size.
	ErrDataSize = errors.New("surface: data size mismatch")
)
