// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package decoder holds the pieces every videotex decoder shares: the
// output slot that guards the current surface, presentation-time pacing,
// dimension alignment and a registry of named sources.
//
// Concrete decoders live in sub-packages and register themselves:
//
//	import (
//	    "github.com/gogpu/videotex/decoder"
//	    _ "github.com/gogpu/videotex/decoder/gstreamer"
//	    _ "github.com/gogpu/videotex/decoder/pattern"
//	)
//
//	src, err := decoder.Open("gst", decoder.Config{URI: "movie.mp4", Width: 1280, Height: 720})
package decoder
