// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import (
	"context"
	"time"
)

// Pacer releases frames at their presentation time.
//
// The first frame anchors the stream: its PTS is mapped to the wall-clock
// time it arrived. Every later frame waits until anchor+PTS. Frames that
// are already late are released immediately; the pacer never skips.
//
// A Pacer belongs to one decode goroutine and is not safe for concurrent use.
type Pacer struct {
	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	anchor  time.Time
	started bool

	waited time.Duration
	late   uint64
}

// PacerOption configures a Pacer.
type PacerOption func(*Pacer)

// WithClock replaces the wall clock and sleep function. Tests use it to
// run pacing on a fake clock.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) PacerOption {
	return func(p *Pacer) {
		if now != nil {
			p.now = now
		}
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewPacer creates a pacer on the system clock.
func NewPacer(opts ...PacerOption) *Pacer {
	p := &Pacer{
		now:   time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks until the frame with presentation time pts is due, or ctx
// is done.
func (p *Pacer) Wait(ctx context.Context, pts time.Duration) error {
	now := p.now()
	if !p.started {
		p.anchor = now.Add(-pts)
		p.started = true
	}
	delay := p.anchor.Add(pts).Sub(now)
	if delay <= 0 {
		if delay < 0 {
			p.late++
		}
		return ctx.Err()
	}
	p.waited += delay
	return p.sleep(ctx, delay)
}

// Reset forgets the anchor. The next frame starts a new timeline; decoders
// call this when they loop back to the start of the media.
func (p *Pacer) Reset() {
	p.started = false
}

// Waited returns the total time spent sleeping.
func (p *Pacer) Waited() time.Duration { return p.waited }

// Late returns the number of frames released after their due time.
func (p *Pacer) Late() uint64 { return p.late }

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
