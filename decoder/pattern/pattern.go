// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pattern is a synthetic video source: scrolling color bars with a
// sweeping scan line, produced on a paced decode goroutine. It needs no
// media files or native libraries and registers itself as "pattern".
package pattern

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/videotex"
	"github.com/gogpu/videotex/decoder"
)

// Name is the registry name of this source.
const Name = "pattern"

// DefaultFPS is used when the config leaves FPS unset.
const DefaultFPS = 30

func init() {
	decoder.Register(Name, 10, func(cfg decoder.Config) (decoder.Source, error) {
		return New(cfg)
	}, nil)
}

// bars are the classic eight color bars, left to right.
var bars = [8][3]byte{
	{235, 235, 235},
	{235, 235, 16},
	{16, 235, 235},
	{16, 235, 16},
	{235, 16, 235},
	{235, 16, 16},
	{16, 16, 235},
	{16, 16, 16},
}

// Decoder generates frames at cfg.FPS into its output surface.
type Decoder struct {
	decoder.Output

	cfg      decoder.Config
	width    int
	height   int
	interval time.Duration
	pacer    *decoder.Pacer
	pix      []byte

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	frames atomic.Uint64
}

var _ decoder.Source = (*Decoder)(nil)

// Option configures a pattern Decoder.
type Option func(*Decoder)

// WithPacer replaces the wall-clock pacer.
func WithPacer(p *decoder.Pacer) Option {
	return func(d *Decoder) {
		if p != nil {
			d.pacer = p
		}
	}
}

// New creates a pattern source producing frames of cfg.OutputSize().
func New(cfg decoder.Config, opts ...Option) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.FPS == 0 {
		cfg.FPS = DefaultFPS
	}
	w, h := cfg.OutputSize()
	d := &Decoder{
		cfg:      cfg,
		width:    w,
		height:   h,
		interval: cfg.FrameInterval(),
		pacer:    decoder.NewPacer(),
		pix:      make([]byte, w*h*4),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Size returns the output frame size.
func (d *Decoder) Size() (width, height int) { return d.width, d.height }

// Frames returns the number of frames generated.
func (d *Decoder) Frames() uint64 { return d.frames.Load() }

// Done is closed when the current run ends, either because cfg.Frames were
// produced or because Stop was called. It is nil before Start.
func (d *Decoder) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Start launches the decode goroutine.
func (d *Decoder) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return decoder.ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(ctx, d.done)

	videotex.Logger().Info("pattern: started",
		"width", d.width,
		"height", d.height,
		"fps", d.cfg.FPS,
		"frames", d.cfg.Frames,
	)
	return nil
}

// Stop cancels the decode goroutine and waits for it to exit. Stop on a
// decoder that is not running returns nil.
func (d *Decoder) Stop() error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	videotex.Logger().Info("pattern: stopped",
		"frames", d.frames.Load(),
		"discarded", d.Discarded(),
		"late", d.pacer.Late(),
	)
	return nil
}

func (d *Decoder) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	d.pacer.Reset()

	limit := uint64(d.cfg.Frames)
	for seq := uint64(0); limit == 0 || seq < limit; seq++ {
		pts := time.Duration(seq) * d.interval
		if err := d.pacer.Wait(ctx, pts); err != nil {
			return
		}
		d.render(seq)
		buf := videotex.Buffer{
			Data:   d.pix,
			Width:  d.width,
			Height: d.height,
			PTS:    pts,
			Seq:    seq,
		}
		if _, err := d.Queue(buf); err != nil {
			videotex.Logger().Warn("pattern: queue failed", "seq", seq, "error", err)
		}
		d.frames.Add(1)
	}
	videotex.Logger().Debug("pattern: end of stream", "frames", limit)
}

// render draws frame seq: bars scrolled left by two pixels per frame and a
// white scan line moving down one row per frame.
func (d *Decoder) render(seq uint64) {
	w, h := d.width, d.height
	shift := int(seq*2) % w
	line := int(seq % uint64(h))
	for y := range h {
		row := d.pix[y*w*4 : (y+1)*w*4]
		for x := range w {
			p := row[x*4 : x*4+4]
			if y == line {
				p[0], p[1], p[2], p[3] = 255, 255, 255, 255
				continue
			}
			c := bars[((x+shift)%w)*len(bars)/w]
			p[0], p[1], p[2], p[3] = c[0], c[1], c[2], 255
		}
	}
}

// String describes the source for logs.
func (d *Decoder) String() string {
	return fmt.Sprintf("pattern %dx%d@%vfps", d.width, d.height, d.cfg.FPS)
}
