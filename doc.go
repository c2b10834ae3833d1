// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package videotex hands decoded video frames from an asynchronous producer
// to a render loop that samples them from a GPU texture.
//
// # Overview
//
// A decoder delivers frames on its own goroutine (or a native callback
// thread). A renderer samples the texture once per tick. videotex sits
// between the two with exactly two pieces of state:
//
//   - [SurfaceBinding] owns the platform surface that wraps the renderer's
//     texture and registers it as the decoder's output.
//   - [FrameReadySignal] is a single-slot atomic flag the producer sets and
//     the render loop drains.
//
// # Quick Start
//
//	tex := videotex.NewExternalTexture(memTex, gputypes.TextureFormatRGBA8Unorm)
//	b := videotex.NewSurfaceBinding(surface.NewPlatform(), dec)
//	if err := b.Bind(tex); err != nil {
//	    return err
//	}
//	defer b.Release()
//
//	for range ticker.C {
//	    res, err := b.Synchronize()
//	    if err != nil {
//	        return err
//	    }
//	    if res == videotex.Updated {
//	        // texture now holds the latest decoded frame
//	    }
//	    draw()
//	}
//
// # Semantics
//
// The handoff is single-slot and latest-wins. Any number of frames landing
// between two ticks are observed as one update, and the texture keeps the
// most recent one. A tick with nothing new returns [Unchanged] and leaves
// the texture contents as they were. Synchronize never blocks and never
// allocates.
//
// # Threading
//
// Bind, Synchronize and Release belong to the render goroutine.
// FrameReadySignal.Set is the only entry point used by the producer. The
// package spawns no goroutines of its own.
//
// # Sub-packages
//
//   - surface: buffer-queue surface over any gpucontext texture
//   - decoder: pacing and output-slot helpers shared by decoders
//   - decoder/pattern: synthetic test-pattern decoder
//   - decoder/gstreamer: GStreamer file decoder
//   - backend/native: GPU texture, sampler and shader module on wgpu/hal
//   - shader: stereo-aware sampling shader and video modes
package videotex
