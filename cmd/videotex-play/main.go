// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command videotex-play plays a video source into an in-memory texture at
// a fixed render tick and reports how frames moved through the binding.
//
// Usage:
//
//	videotex-play -source pattern -frames 300 -snapshot last.png
//	videotex-play -source gst -uri movie.mp4 -mode 3D-SBS -duration 10s
//	videotex-play -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/videotex"
	"github.com/gogpu/videotex/decoder"
	_ "github.com/gogpu/videotex/decoder/gstreamer"
	_ "github.com/gogpu/videotex/decoder/pattern"
	"github.com/gogpu/videotex/shader"
	"github.com/gogpu/videotex/surface"
	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "videotex-play:", err)
		os.Exit(1)
	}
}

type options struct {
	source   string
	cfg      decoder.Config
	tick     time.Duration
	duration time.Duration
	mode     shader.Mode
	snapshot string
	level    slog.Level
	compile  bool
	list     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("videotex-play", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := decoder.DefaultConfig()
	var (
		source   = fs.String("source", "", "decoder name; empty picks the best available")
		uri      = fs.String("uri", "", "media file, or test:// for the GStreamer test source")
		width    = fs.Int("width", def.Width, "output width")
		height   = fs.Int("height", def.Height, "output height")
		fps      = fs.Float64("fps", def.FPS, "frame rate for sources without timestamps")
		frames   = fs.Int("frames", 0, "stop the source after this many frames (0 = unlimited)")
		loop     = fs.Bool("loop", false, "restart the media at end of stream")
		align    = fs.Int("align", def.Align, "round the output size up to a multiple of this")
		tickRate = fs.Float64("tick", 60, "render ticks per second")
		duration = fs.Duration("duration", 0, "stop after this long (0 = until the source ends)")
		mode     = fs.String("mode", "2D", "video layout: 2D, 3D-OU or 3D-SBS")
		snapshot = fs.String("snapshot", "", "write the left-eye view of the last frame to this PNG")
		level    = fs.String("log", "warn", "log level: debug, info, warn or error")
		compile  = fs.Bool("compile-shader", false, "compile the video shader and report its size")
		list     = fs.Bool("list", false, "list registered decoders and exit")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o := &options{
		source:   *source,
		snapshot: *snapshot,
		duration: *duration,
		compile:  *compile,
		list:     *list,
		cfg: decoder.Config{
			URI:    *uri,
			Width:  *width,
			Height: *height,
			FPS:    *fps,
			Frames: *frames,
			Loop:   *loop,
			Align:  *align,
		},
	}
	if *tickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %v", *tickRate)
	}
	o.tick = time.Duration(float64(time.Second) / *tickRate)

	var err error
	if o.mode, err = shader.ParseMode(*mode); err != nil {
		return nil, err
	}
	if err := o.level.UnmarshalText([]byte(*level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	videotex.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: o.level})))
	defer videotex.SetLogger(nil)

	p := message.NewPrinter(language.English)

	if o.list {
		return listDecoders(p, stdout)
	}
	if o.compile {
		words, err := shader.VideoSPIRV()
		if err != nil {
			return err
		}
		p.Fprintf(stdout, "video shader: %d SPIR-V words\n", len(words))
	}

	src, err := openSource(o)
	if err != nil {
		return err
	}

	width, height := o.cfg.OutputSize()
	tex := surface.NewMemoryTexture(width, height, gputypes.TextureFormatRGBA8Unorm)
	defer tex.Destroy()

	platform := surface.NewPlatform(surface.WithScaler(draw.ApproxBiLinear))
	sess := videotex.NewSession(platform, src)
	if err := sess.Start(ctx, videotex.NewExternalTexture(tex, tex.Format())); err != nil {
		return err
	}

	ticks, playErr := play(ctx, sess, src, o)
	closeErr := sess.Close()

	report(p, stdout, sess, src, ticks, o)

	if o.snapshot != "" && tex.Updates() > 0 {
		if err := writeSnapshot(o.snapshot, tex.Snapshot(), o.mode); err != nil {
			return err
		}
		p.Fprintf(stdout, "snapshot:          %s\n", o.snapshot)
	}
	return errors.Join(playErr, closeErr)
}

func listDecoders(p *message.Printer, w io.Writer) error {
	for _, name := range decoder.List() {
		e, ok := decoder.Get(name)
		if !ok {
			continue
		}
		state := "unavailable"
		if e.Available() {
			state = "available"
		}
		p.Fprintf(w, "%-10s priority %3d  %s\n", name, e.Priority, state)
	}
	return nil
}

func openSource(o *options) (decoder.Source, error) {
	if o.source == "" {
		return decoder.OpenBest(o.cfg)
	}
	return decoder.Open(o.source, o.cfg)
}

// finisher is implemented by sources that end on their own.
type finisher interface {
	Done() <-chan struct{}
}

// ender is implemented by sources that report end of stream by polling.
// Err tells a clean end of stream apart from a failure.
type ender interface {
	Ended() bool
	Err() error
}

// failure returns err unless it only marks the end of the media.
func failure(err error) error {
	if err == nil || errors.Is(err, decoder.ErrEndOfStream) {
		return nil
	}
	return err
}

// play ticks the session until the source ends, the duration passes or
// ctx is cancelled.
func play(ctx context.Context, sess *videotex.Session, src decoder.Source, o *options) (int, error) {
	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if o.duration > 0 {
		timer := time.NewTimer(o.duration)
		defer timer.Stop()
		deadline = timer.C
	}
	var done <-chan struct{}
	if f, ok := src.(finisher); ok {
		done = f.Done()
	}

	ticks := 0
	tick := func() error {
		ticks++
		_, err := sess.Tick()
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ticks, nil
		case <-deadline:
			return ticks, nil
		case <-done:
			// Promote the last queued frame before stopping.
			return ticks, tick()
		case <-ticker.C:
			if err := tick(); err != nil {
				return ticks, err
			}
			if e, ok := src.(ender); ok && e.Ended() {
				return ticks, errors.Join(tick(), failure(e.Err()))
			}
		}
	}
}

func report(p *message.Printer, w io.Writer, sess *videotex.Session, src decoder.Source, ticks int, o *options) {
	st := sess.Stats()
	width, height := o.cfg.OutputSize()
	p.Fprintf(w, "session:           %s\n", sess.ID())
	p.Fprintf(w, "source:            %v\n", src)
	p.Fprintf(w, "output:            %dx%d %s\n", width, height, o.mode)
	p.Fprintf(w, "ticks:             %d\n", ticks)
	p.Fprintf(w, "frames signaled:   %d\n", st.FramesSignaled)
	p.Fprintf(w, "frames promoted:   %d\n", st.Promotions)
	p.Fprintf(w, "signals coalesced: %d (%.1f%%)\n", st.SignalsCoalesced, st.DropRate()*100)
	p.Fprintf(w, "unchanged ticks:   %d\n", st.UnchangedTicks)
	if st.PromoteErrors > 0 {
		p.Fprintf(w, "promote errors:    %d\n", st.PromoteErrors)
	}
}

// writeSnapshot saves the left-eye view of img as a PNG.
func writeSnapshot(path string, img *image.RGBA, mode shader.Mode) error {
	b := img.Bounds()
	x, y, w, h := shader.EyeRect(mode, shader.EyeLeft).Pixels(b.Dx(), b.Dy())
	view := img.SubImage(image.Rect(x, y, x+w, y+h))

	f, err := os.Create(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, view); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return f.Close()
}
