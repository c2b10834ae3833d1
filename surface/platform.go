// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync/atomic"

	"github.com/gogpu/videotex"
)

// Platform creates buffer-queue surfaces. It implements videotex.Platform
// and tracks how many of its surfaces are still alive.
//
// Platform is safe for concurrent use.
type Platform struct {
	opts    options
	created atomic.Uint64
	live    atomic.Int64
}

var _ videotex.Platform = (*Platform)(nil)

// NewPlatform creates a platform whose surfaces use opts.
func NewPlatform(opts ...Option) *Platform {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Platform{opts: o}
}

// NewSurface creates a surface over tex. The texture must implement
// gpucontext.TextureUpdater and use an 8-bit RGBA or BGRA format.
func (p *Platform) NewSurface(tex videotex.ExternalTexture) (videotex.Surface, error) {
	s, err := newSurface(p, tex, p.opts)
	if err != nil {
		return nil, err
	}
	p.created.Add(1)
	p.live.Add(1)
	videotex.Logger().Debug("surface: created",
		"width", s.width,
		"height", s.height,
		"format", tex.Format.String(),
		"pool", p.opts.poolSize,
	)
	return s, nil
}

// Created returns the number of surfaces created so far.
func (p *Platform) Created() uint64 { return p.created.Load() }

// Live returns the number of surfaces not yet destroyed.
func (p *Platform) Live() int { return int(p.live.Load()) }

func (p *Platform) surfaceDestroyed() { p.live.Add(-1) }
