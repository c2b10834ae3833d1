// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import "log/slog"

// BindingOption configures a SurfaceBinding during creation.
//
// Example:
//
//	b := videotex.NewSurfaceBinding(platform, dec,
//	    videotex.WithLabel("left-eye"),
//	)
type BindingOption func(*bindingOptions)

type bindingOptions struct {
	label  string
	logger *slog.Logger
}

func defaultBindingOptions() bindingOptions {
	return bindingOptions{
		label: "video",
	}
}

// WithLabel names the binding in log output.
func WithLabel(label string) BindingOption {
	return func(o *bindingOptions) {
		if label != "" {
			o.label = label
		}
	}
}

// WithBindingLogger overrides the package logger for one binding.
// A nil logger keeps the package logger.
func WithBindingLogger(l *slog.Logger) BindingOption {
	return func(o *bindingOptions) {
		o.logger = l
	}
}

// SessionOption configures a Session during creation.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	id      string
	binding []BindingOption
}

// WithSessionID replaces the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(o *sessionOptions) {
		if id != "" {
			o.id = id
		}
	}
}

// WithBindingOptions passes options through to the session's binding.
func WithBindingOptions(opts ...BindingOption) SessionOption {
	return func(o *sessionOptions) {
		o.binding = append(o.binding, opts...)
	}
}
