// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "golang.org/x/image/draw"

// DefaultPoolSize is the number of frame slots per surface: one pending,
// one being uploaded, one being filled.
const DefaultPoolSize = 3

// Option configures surfaces created by a Platform.
type Option func(*options)

type options struct {
	scaler   draw.Scaler
	poolSize int
}

func defaultOptions() options {
	return options{
		scaler:   draw.ApproxBiLinear,
		poolSize: DefaultPoolSize,
	}
}

// WithScaler sets the scaler used when a frame's size differs from
// the texture. The default is draw.ApproxBiLinear.
func WithScaler(s draw.Scaler) Option {
	return func(o *options) {
		if s != nil {
			o.scaler = s
		}
	}
}

// WithPoolSize sets the number of pooled frame slots. Values below 2 are
// raised to 2.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = max(n, 2)
	}
}
