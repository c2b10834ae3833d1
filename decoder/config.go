// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import (
	"fmt"
	"time"
)

// DefaultAlignment is the macroblock alignment applied to output sizes.
const DefaultAlignment = 16

// Config describes what a source should decode and at what size.
type Config struct {
	// URI locates the media. File sources take a path; synthetic sources
	// ignore it.
	URI string

	// Width and Height are the requested output size before alignment.
	Width  int
	Height int

	// FPS is the frame rate for sources without their own timestamps.
	FPS float64

	// Frames stops the source after that many frames. Zero means no limit.
	Frames int

	// Loop restarts the media at end of stream.
	Loop bool

	// Align rounds Width and Height up to a multiple of it. Zero or one
	// disables alignment.
	Align int
}

// DefaultConfig returns a 1280x720 30 fps configuration aligned to 16.
func DefaultConfig() Config {
	return Config{
		Width:  1280,
		Height: 720,
		FPS:    30,
		Align:  DefaultAlignment,
	}
}

// Validate checks the fields every source relies on.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.FPS < 0 {
		return fmt.Errorf("%w: fps %v", ErrInvalidConfig, c.FPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	}
	return nil
}

// OutputSize returns the aligned output dimensions.
func (c Config) OutputSize() (width, height int) {
	return AlignDimensions(c.Width, c.Height, c.Align)
}

// FrameInterval returns the time between frames at c.FPS, or zero when FPS
// is unset.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.FPS)
}

// AlignDimensions rounds width and height up to a multiple of align.
// Decoders hand out buffers padded to whole macroblocks; textures sized
// with AlignDimensions receive them without rescaling.
func AlignDimensions(width, height, align int) (int, int) {
	if align <= 1 {
		return width, height
	}
	return alignUp(width, align), alignUp(height, align)
}

func alignUp(v, align int) int {
	if v <= 0 {
		return v
	}
	return (v + align - 1) / align * align
}
