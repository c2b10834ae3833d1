// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gputypes"
)

var errMock = errors.New("mock failure")

// eventLog records teardown calls across mocks so tests can check order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// mockTexture implements gpucontext.Texture.
type mockTexture struct {
	width  int
	height int
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func newMockExternal(w, h int) ExternalTexture {
	return NewExternalTexture(&mockTexture{width: w, height: h}, gputypes.TextureFormatRGBA8Unorm)
}

// mockSurface implements Surface. QueueBuffer fires the listener the way a
// platform surface does when a frame lands.
type mockSurface struct {
	log *eventLog

	mu       sync.Mutex
	listener func()

	queued     int
	promotions int
	destroyed  int
	failUpdate bool
}

func (s *mockSurface) QueueBuffer(Buffer) error {
	s.mu.Lock()
	s.queued++
	fn := s.listener
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

func (s *mockSurface) SetOnFrameAvailable(fn func()) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
	if fn == nil {
		s.log.add("listener:nil")
	}
}

func (s *mockSurface) UpdateTexImage() error {
	if s.failUpdate {
		return errMock
	}
	s.promotions++
	return nil
}

func (s *mockSurface) Destroy() {
	s.destroyed++
	s.log.add("surface:destroy")
}

func (s *mockSurface) hasListener() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener != nil
}

// mockPlatform implements Platform and counts allocations.
type mockPlatform struct {
	log      *eventLog
	created  int
	surfaces []*mockSurface
	failNext bool
}

func (p *mockPlatform) NewSurface(ExternalTexture) (Surface, error) {
	if p.failNext {
		p.failNext = false
		return nil, errMock
	}
	p.created++
	s := &mockSurface{log: p.log}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func (p *mockPlatform) last() *mockSurface {
	return p.surfaces[len(p.surfaces)-1]
}

// mockDecoder implements Decoder and Runner.
type mockDecoder struct {
	log       *eventLog
	output    Surface
	attached  int
	detached  int
	failSet   bool
	failStart bool
	failStop  bool
	started   bool
	stopped   bool
}

func (d *mockDecoder) SetOutputSurface(s Surface) error {
	if d.failSet {
		return errMock
	}
	d.attached++
	d.output = s
	return nil
}

func (d *mockDecoder) DetachOutputSurface() {
	d.detached++
	d.output = nil
	d.log.add("decoder:detach")
}

func (d *mockDecoder) Start(context.Context) error {
	if d.failStart {
		return errMock
	}
	d.started = true
	return nil
}

func (d *mockDecoder) Stop() error {
	d.stopped = true
	d.log.add("decoder:stop")
	if d.failStop {
		return errMock
	}
	return nil
}

// plainDecoder implements Decoder only.
type plainDecoder struct {
	attached int
	detached int
}

func (d *plainDecoder) SetOutputSurface(Surface) error { d.attached++; return nil }
func (d *plainDecoder) DetachOutputSurface()           { d.detached++ }
