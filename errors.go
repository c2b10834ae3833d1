// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import "errors"

// Common errors returned by SurfaceBinding and Session.
var (
	// ErrAlreadyBound is returned by Bind on a binding that is bound or
	// has been released.
	ErrAlreadyBound = errors.New("videotex: surface binding already bound")

	// ErrNotBound is returned by Synchronize before Bind or after Release.
	ErrNotBound = errors.New("videotex: surface binding not bound")

	// ErrNilTexture is returned when an ExternalTexture has no texture.
	ErrNilTexture = errors.New("videotex: nil texture")

	// ErrInvalidTexture is returned for textures with non-positive size
	// or an undefined format.
	ErrInvalidTexture = errors.New("videotex: invalid texture")

	// ErrNilPlatform is returned when a binding has no Platform.
	ErrNilPlatform = errors.New("videotex: nil platform")

	// ErrSessionClosed is returned by Session operations after Close.
	ErrSessionClosed = errors.New("videotex: session closed")
)
