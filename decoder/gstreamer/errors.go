// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gstreamer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/videotex/decoder"
	"github.com/tinyzimmer/go-gst/gst"
)

var (
	// ErrUnavailable is returned when GStreamer cannot be initialized.
	ErrUnavailable = errors.New("gstreamer: GStreamer not available")

	// ErrEndOfStream is reported by Err after a non-looping stream ends.
	// It matches decoder.ErrEndOfStream.
	ErrEndOfStream = fmt.Errorf("gstreamer: %w", decoder.ErrEndOfStream)

	// ErrMissingURI is returned when the config has no media location.
	ErrMissingURI = errors.New("gstreamer: missing media URI")
)

// ErrorCategory classifies pipeline errors for telemetry.
type ErrorCategory int

const (
	// ErrCategorySource covers unreadable or missing media.
	ErrCategorySource ErrorCategory = iota
	// ErrCategoryCodec covers demux, decode and caps negotiation failures.
	ErrCategoryCodec
	// ErrCategoryResource covers memory and device exhaustion.
	ErrCategoryResource
	// ErrCategoryUnknown is everything else.
	ErrCategoryUnknown

	numCategories
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategorySource:
		return "source"
	case ErrCategoryCodec:
		return "codec"
	case ErrCategoryResource:
		return "resource"
	default:
		return "unknown"
	}
}

// PipelineError is a GStreamer bus error with its classification.
type PipelineError struct {
	Category ErrorCategory
	Message  string
	Debug    string
}

func (e *PipelineError) Error() string {
	return "gstreamer: pipeline error [" + e.Category.String() + "]: " + e.Message
}

// go-gst's GError exposes no domain, so classification matches on text.
var categoryKeywords = []struct {
	category ErrorCategory
	keywords []string
}{
	{ErrCategoryCodec, []string{
		"codec", "decode", "demux", "not negotiated", "not-negotiated", "negotiation",
		"no decoder", "missing plugin", "caps", "stream format", "type not found",
	}},
	{ErrCategorySource, []string{
		"no such file", "not found", "could not open", "permission denied",
		"resource not found", "could not read", "file",
	}},
	{ErrCategoryResource, []string{
		"out of memory", "allocate", "no space", "busy", "device",
	}},
}

// classify categorizes an error by its message and debug string.
func classify(message, debug string) ErrorCategory {
	combined := strings.ToLower(message + " " + debug)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(combined, kw) {
				return c.category
			}
		}
	}
	return ErrCategoryUnknown
}

// newPipelineError converts a bus error into a PipelineError.
func newPipelineError(gerr *gst.GError) *PipelineError {
	if gerr == nil {
		return &PipelineError{Category: ErrCategoryUnknown, Message: "unknown error"}
	}
	msg, dbg := gerr.Error(), gerr.DebugString()
	return &PipelineError{
		Category: classify(msg, dbg),
		Message:  msg,
		Debug:    dbg,
	}
}
