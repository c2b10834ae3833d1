// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

var (
	// ErrNilDevice is returned when a texture or sampler is created
	// without a device.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNilQueue is returned when a texture is created without a queue.
	ErrNilQueue = errors.New("native: queue is nil")

	// ErrNoHALDevice is returned when a device provider does not expose
	// wgpu HAL handles.
	ErrNoHALDevice = errors.New("native: provider has no HAL device")

	// ErrTextureDestroyed is returned when uploading to a destroyed texture.
	ErrTextureDestroyed = errors.New("native: texture has been destroyed")

	// ErrInvalidTextureSize is returned when texture dimensions are invalid.
	ErrInvalidTextureSize = errors.New("native: invalid texture size")

	// ErrUnsupportedFormat is returned for formats other than 8-bit RGBA
	// and BGRA.
	ErrUnsupportedFormat = errors.New("native: unsupported texture format")

	// ErrDataSize is returned when upload data does not match the region.
	ErrDataSize = errors.New("native: data size mismatch")

	// ErrRegionOutOfBounds is returned when an upload region leaves the
	// texture.
	ErrRegionOutOfBounds = errors.New("native: region out of bounds")
)
