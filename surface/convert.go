// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"time"

	"github.com/gogpu/gputypes"
)

// supportedFormat reports whether f is an 8-bit four-channel color format.
func supportedFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return true
	default:
		return false
	}
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// frame is a pooled, tightly packed RGBA8 copy of a queued buffer.
type frame struct {
	img image.RGBA
	pts time.Duration
	seq uint64
}

// resize makes the frame hold w*h pixels, reusing its backing array.
func (f *frame) resize(w, h int) {
	need := w * h * 4
	if cap(f.img.Pix) < need {
		f.img.Pix = make([]byte, need)
	}
	f.img.Pix = f.img.Pix[:need]
	f.img.Stride = w * 4
	f.img.Rect = image.Rect(0, 0, w, h)
}

// packRows copies h rows of rowBytes each from src with the given stride
// into dst, which must be tightly packed.
func packRows(dst, src []byte, rowBytes, h, stride int) {
	if stride == rowBytes {
		copy(dst, src[:rowBytes*h])
		return
	}
	for y := range h {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*stride:y*stride+rowBytes])
	}
}

// swizzleRB swaps the R and B channels of packed 4-byte pixels in place.
func swizzleRB(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		p[i], p[i+2] = p[i+2], p[i]
	}
}
