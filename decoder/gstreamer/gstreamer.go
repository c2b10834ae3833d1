// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gstreamer decodes media files through a GStreamer pipeline and
// queues RGBA frames into a videotex surface.
//
// The package registers itself as "gst" with priority 100, so OpenBest
// prefers it over synthetic sources whenever GStreamer and its base
// plugins are installed. A URI starting with "test://" plays
// GStreamer's videotestsrc instead of a file.
package gstreamer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/videotex"
	"github.com/gogpu/videotex/decoder"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// Name is the registry name of this source.
const Name = "gst"

// stopTimeout bounds how long Stop waits for the bus monitor.
var stopTimeout = 3 * time.Second

func init() {
	decoder.Register(Name, 100, func(cfg decoder.Config) (decoder.Source, error) {
		return New(cfg)
	}, Available)
}

var (
	availableOnce sync.Once
	availableErr  error
)

// Available reports whether GStreamer initializes and provides the
// elements every pipeline needs. The probe runs once per process.
func Available() bool {
	return probe() == nil
}

func probe() error {
	availableOnce.Do(func() {
		gst.Init(nil)
		for _, name := range []string{"videoconvert", "videoscale", "appsink"} {
			elem, err := gst.NewElement(name)
			if err != nil {
				availableErr = fmt.Errorf("%w: element %s: %w", ErrUnavailable, name, err)
				return
			}
			elem.SetState(gst.StateNull)
		}
	})
	return availableErr
}

// Decoder plays cfg.URI and queues each decoded frame into its output
// surface.
type Decoder struct {
	decoder.Output

	cfg    decoder.Config
	width  int
	height int

	mu       sync.Mutex
	elements *elements
	cancel   context.CancelFunc
	done     chan struct{}
	started  time.Time

	seq    atomic.Uint64
	frames atomic.Uint64
	loops  atomic.Uint64
	empty  atomic.Uint64
	errs   [numCategories]atomic.Uint64

	lastErr atomic.Pointer[error]
}

var _ decoder.Source = (*Decoder)(nil)

// New creates a decoder for cfg. It does not touch GStreamer until Start.
func New(cfg decoder.Config) (*Decoder, error) {
	if cfg.URI == "" {
		return nil, ErrMissingURI
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, h := cfg.OutputSize()
	return &Decoder{cfg: cfg, width: w, height: h}, nil
}

// Size returns the output frame size.
func (d *Decoder) Size() (width, height int) { return d.width, d.height }

// Frames returns the number of frames pulled from the appsink.
func (d *Decoder) Frames() uint64 { return d.frames.Load() }

// Loops returns how many times the media restarted because of cfg.Loop.
func (d *Decoder) Loops() uint64 { return d.loops.Load() }

// Errors returns the number of bus errors seen in category c.
func (d *Decoder) Errors(c ErrorCategory) uint64 {
	if c < 0 || c >= numCategories {
		return 0
	}
	return d.errs[c].Load()
}

// Err returns the error that ended playback: ErrEndOfStream, a
// *PipelineError, or nil while playback continues.
func (d *Decoder) Err() error {
	if p := d.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Start builds the pipeline, sets it to PLAYING and launches the bus
// monitor.
func (d *Decoder) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return decoder.ErrAlreadyRunning
	}
	if err := probe(); err != nil {
		return err
	}

	e, err := buildPipeline(pipelineConfig{
		uri:    d.cfg.URI,
		width:  d.width,
		height: d.height,
		fps:    d.cfg.FPS,
		frames: d.cfg.Frames,
	})
	if err != nil {
		return err
	}

	e.appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: d.onNewSample,
	})
	if e.decode != nil {
		convert := e.convert
		e.decode.Connect("pad-added", func(self *gst.Element, srcPad *gst.Pad) {
			onPadAdded(srcPad, convert)
		})
	}

	d.lastErr.Store(nil)
	d.seq.Store(0)
	d.started = time.Now()
	if err := e.pipeline.SetState(gst.StatePlaying); err != nil {
		_ = destroyPipeline(e)
		return fmt.Errorf("gstreamer: start pipeline: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.elements = e
	d.done = make(chan struct{})
	go d.monitor(ctx, e.pipeline, d.done)

	videotex.Logger().Info("gstreamer: started",
		"uri", d.cfg.URI,
		"width", d.width,
		"height", d.height,
		"loop", d.cfg.Loop,
	)
	return nil
}

// Stop cancels the bus monitor, waits up to three seconds for it to exit
// and sets the pipeline to NULL. Each run owns its monitor, so Start may
// follow a Stop that timed out. Stop on a decoder that is not running
// returns nil.
func (d *Decoder) Stop() error {
	d.mu.Lock()
	cancel, e, done := d.cancel, d.elements, d.done
	d.cancel, d.elements, d.done = nil, nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		videotex.Logger().Warn("gstreamer: bus monitor did not exit in time", "timeout", stopTimeout)
	}

	err := destroyPipeline(e)
	videotex.Logger().Info("gstreamer: stopped",
		"frames", d.frames.Load(),
		"discarded", d.Discarded(),
		"loops", d.loops.Load(),
		"uptime", time.Since(d.started),
	)
	return err
}

// onNewSample runs on a GStreamer streaming thread.
func (d *Decoder) onNewSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		videotex.Logger().Warn("gstreamer: failed to pull sample, skipping frame")
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		videotex.Logger().Warn("gstreamer: sample without buffer, skipping frame")
		return gst.FlowOK
	}

	data := buffer.Map(gst.MapRead).Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		d.empty.Add(1)
		return gst.FlowOK
	}

	seq := d.seq.Add(1) - 1
	buf := videotex.Buffer{
		Data:   data,
		Width:  d.width,
		Height: d.height,
		PTS:    time.Since(d.started),
		Seq:    seq,
	}
	// The surface copies the pixels before QueueBuffer returns.
	_, err := d.Queue(buf)
	buffer.Unmap()
	if err != nil {
		videotex.Logger().Warn("gstreamer: queue failed", "seq", seq, "error", err)
	}

	n := d.frames.Add(1)
	if limit := d.cfg.Frames; limit > 0 && n >= uint64(limit) && !d.cfg.Loop {
		return gst.FlowEOS
	}
	return gst.FlowOK
}

// monitor drains the pipeline bus until ctx is cancelled or playback ends.
func (d *Decoder) monitor(ctx context.Context, pipeline *gst.Pipeline, done chan struct{}) {
	defer close(done)
	bus := pipeline.GetPipelineBus()

	for {
		select {
		case <-ctx.Done():
			videotex.Logger().Debug("gstreamer: bus monitor stopped")
			return
		default:
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			if d.cfg.Loop {
				if err := d.restart(pipeline); err != nil {
					d.setErr(err)
					return
				}
				continue
			}
			videotex.Logger().Info("gstreamer: end of stream",
				"uri", d.cfg.URI,
				"frames", d.frames.Load(),
				"uptime", time.Since(d.started),
			)
			d.setErr(ErrEndOfStream)
			return

		case gst.MessageError:
			perr := newPipelineError(msg.ParseError())
			d.errs[perr.Category].Add(1)
			videotex.Logger().Error("gstreamer: pipeline error",
				"error", perr.Message,
				"debug", perr.Debug,
				"category", perr.Category.String(),
				"uri", d.cfg.URI,
				"frames", d.frames.Load(),
			)
			d.setErr(perr)
			return

		case gst.MessageStateChanged:
			if msg.Source() == pipeline.GetName() {
				old, cur := msg.ParseStateChanged()
				videotex.Logger().Debug("gstreamer: pipeline state changed",
					"from", old,
					"to", cur,
				)
			}
		}
	}
}

// restart rewinds the media by cycling the pipeline through READY.
func (d *Decoder) restart(pipeline *gst.Pipeline) error {
	if err := pipeline.SetState(gst.StateReady); err != nil {
		return fmt.Errorf("gstreamer: rewind: %w", err)
	}
	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("gstreamer: replay: %w", err)
	}
	n := d.loops.Add(1)
	videotex.Logger().Debug("gstreamer: looping", "loop", n)
	return nil
}

func (d *Decoder) setErr(err error) {
	d.lastErr.Store(&err)
}

// Ended reports whether playback ended on its own, by end of stream or
// by a pipeline error.
func (d *Decoder) Ended() bool {
	err := d.Err()
	var perr *PipelineError
	return errors.Is(err, ErrEndOfStream) || errors.As(err, &perr)
}

// String describes the source for logs.
func (d *Decoder) String() string {
	return fmt.Sprintf("gst %s %dx%d", d.cfg.URI, d.width, d.height)
}
