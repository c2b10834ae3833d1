// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstreamer

import (
	"fmt"
	"strings"

	"github.com/gogpu/videotex"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// TestScheme selects GStreamer's videotestsrc instead of a file. Anything
// after the scheme is ignored.
const TestScheme = "test://"

// pipelineConfig is the resolved input to buildPipeline.
type pipelineConfig struct {
	uri    string
	width  int
	height int
	fps    float64
	frames int
}

// elements holds the pipeline and the elements callbacks need.
type elements struct {
	pipeline *gst.Pipeline
	appsink  *app.Sink
	convert  *gst.Element
	decode   *gst.Element // nil for test sources
}

// buildPipeline creates, but does not start:
//
//	filesrc ! decodebin ! videoconvert ! videoscale ! capsfilter ! appsink
//
// or, for test:// URIs:
//
//	videotestsrc ! videoconvert ! videoscale ! capsfilter ! appsink
//
// decodebin pads appear at runtime and are linked from a pad-added
// callback. The appsink keeps only the newest sample and syncs to the
// pipeline clock, so samples arrive at presentation time.
func buildPipeline(cfg pipelineConfig) (*elements, error) {
	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("gstreamer: create pipeline: %w", err)
	}

	var src, decode *gst.Element
	if strings.HasPrefix(cfg.uri, TestScheme) {
		src, err = gst.NewElement("videotestsrc")
		if err != nil {
			return nil, fmt.Errorf("gstreamer: create videotestsrc: %w", err)
		}
		if cfg.frames > 0 {
			src.SetProperty("num-buffers", cfg.frames)
		}
	} else {
		src, err = gst.NewElement("filesrc")
		if err != nil {
			return nil, fmt.Errorf("gstreamer: create filesrc: %w", err)
		}
		src.SetProperty("location", cfg.uri)

		decode, err = gst.NewElement("decodebin")
		if err != nil {
			return nil, fmt.Errorf("gstreamer: create decodebin: %w", err)
		}
	}

	convert, err := gst.NewElement("videoconvert")
	if err != nil {
		return nil, fmt.Errorf("gstreamer: create videoconvert: %w", err)
	}

	scale, err := gst.NewElement("videoscale")
	if err != nil {
		return nil, fmt.Errorf("gstreamer: create videoscale: %w", err)
	}

	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("gstreamer: create capsfilter: %w", err)
	}
	capsStr := buildCaps(cfg)
	capsfilter.SetProperty("caps", gst.NewCapsFromString(capsStr))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("gstreamer: create appsink: %w", err)
	}
	appsink.SetProperty("sync", true)
	appsink.SetProperty("max-buffers", 1)
	appsink.SetProperty("drop", true)

	if decode != nil {
		pipeline.AddMany(src, decode, convert, scale, capsfilter, appsink.Element)
		if err := gst.ElementLinkMany(src, decode); err != nil {
			return nil, fmt.Errorf("gstreamer: link filesrc to decodebin: %w", err)
		}
	} else {
		pipeline.AddMany(src, convert, scale, capsfilter, appsink.Element)
		if err := gst.ElementLinkMany(src, convert); err != nil {
			return nil, fmt.Errorf("gstreamer: link videotestsrc: %w", err)
		}
	}
	if err := gst.ElementLinkMany(convert, scale, capsfilter, appsink.Element); err != nil {
		return nil, fmt.Errorf("gstreamer: link conversion chain: %w", err)
	}

	videotex.Logger().Debug("gstreamer: pipeline created",
		"uri", cfg.uri,
		"caps", capsStr,
		"decodebin", decode != nil,
	)
	return &elements{
		pipeline: pipeline,
		appsink:  appsink,
		convert:  convert,
		decode:   decode,
	}, nil
}

// buildCaps returns the RGBA caps the appsink accepts. A framerate is
// only forced on test sources; files keep their own timing.
func buildCaps(cfg pipelineConfig) string {
	caps := fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d", cfg.width, cfg.height)
	if strings.HasPrefix(cfg.uri, TestScheme) && cfg.fps > 0 {
		caps += fmt.Sprintf(",framerate=%d/1000", int(cfg.fps*1000))
	}
	return caps
}

// onPadAdded links a new decodebin pad to videoconvert. Audio and other
// non-video pads fail to link against the video caps and are ignored.
func onPadAdded(srcPad *gst.Pad, convert *gst.Element) {
	sinkPad := convert.GetStaticPad("sink")
	if sinkPad == nil {
		videotex.Logger().Warn("gstreamer: videoconvert has no sink pad")
		return
	}
	if ret := srcPad.Link(sinkPad); ret != gst.PadLinkOK {
		videotex.Logger().Debug("gstreamer: pad not linked",
			"pad", srcPad.GetName(),
			"ret", ret,
		)
		return
	}
	videotex.Logger().Debug("gstreamer: decoded video pad linked", "pad", srcPad.GetName())
}

func destroyPipeline(e *elements) error {
	if e == nil || e.pipeline == nil {
		return nil
	}
	if err := e.pipeline.SetState(gst.StateNull); err != nil {
		return fmt.Errorf("gstreamer: set pipeline to NULL: %w", err)
	}
	return nil
}
