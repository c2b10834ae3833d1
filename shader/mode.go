// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Mode is the frame layout of a video.
type Mode int

const (
	// Mode2D shows the whole frame to both eyes.
	Mode2D Mode = iota
	// ModeOverUnder packs the left eye in the top half and the right eye
	// in the bottom half ("3D-OU").
	ModeOverUnder
	// ModeSideBySide packs the left eye in the left half and the right
	// eye in the right half ("3D-SBS").
	ModeSideBySide
)

// String returns the name ParseMode accepts.
func (m Mode) String() string {
	switch m {
	case Mode2D:
		return "2D"
	case ModeOverUnder:
		return "3D-OU"
	case ModeSideBySide:
		return "3D-SBS"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "2D", "3D-OU" or "3D-SBS", ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2D", "":
		return Mode2D, nil
	case "3D-OU":
		return ModeOverUnder, nil
	case "3D-SBS":
		return ModeSideBySide, nil
	}
	return Mode2D, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Stereo reports whether m carries two views.
func (m Mode) Stereo() bool { return m == ModeOverUnder || m == ModeSideBySide }

// Eye selects one view of a stereo frame.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

// Rect is a region of the frame in texture coordinates, origin top-left.
type Rect struct {
	U, V float32 // offset
	W, H float32 // extent
}

// EyeRect returns the part of the frame eye sees in mode m.
func EyeRect(m Mode, eye Eye) Rect {
	switch m {
	case ModeSideBySide:
		if eye == EyeRight {
			return Rect{U: 0.5, V: 0, W: 0.5, H: 1}
		}
		return Rect{U: 0, V: 0, W: 0.5, H: 1}
	case ModeOverUnder:
		if eye == EyeRight {
			return Rect{U: 0, V: 0.5, W: 1, H: 0.5}
		}
		return Rect{U: 0, V: 0, W: 1, H: 0.5}
	default:
		return Rect{W: 1, H: 1}
	}
}

// UniformSize is the size of the EyeRect uniform in bytes.
const UniformSize = 16

// Uniform encodes r as the shader's EyeRect uniform: offset then scale,
// four little-endian float32 values.
func (r Rect) Uniform() [UniformSize]byte {
	var b [UniformSize]byte
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(r.U))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(r.V))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(r.W))
	binary.LittleEndian.PutUint32(b[12:], math.Float32bits(r.H))
	return b
}

// Pixels maps r onto a width by height frame, rounding to whole pixels.
func (r Rect) Pixels(width, height int) (x, y, w, h int) {
	x = int(math.Round(float64(r.U) * float64(width)))
	y = int(math.Round(float64(r.V) * float64(height)))
	w = int(math.Round(float64(r.W) * float64(width)))
	h = int(math.Round(float64(r.H) * float64(height)))
	return x, y, w, h
}
