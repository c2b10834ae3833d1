// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package videotex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session ties one decoder to one binding for the length of a playback.
//
// Start binds the texture and starts the decoder if it is a Runner. Tick
// runs once per render frame. Close stops the decoder and releases the
// binding. All three belong to the render goroutine.
type Session struct {
	id      string
	binding *SurfaceBinding
	decoder Decoder

	started time.Time
	running bool
	closed  bool
}

// NewSession creates a session with a generated ID.
func NewSession(platform Platform, decoder Decoder, opts ...SessionOption) *Session {
	o := sessionOptions{id: uuid.NewString()}
	for _, opt := range opts {
		opt(&o)
	}
	bopts := append([]BindingOption{WithLabel(o.id)}, o.binding...)
	return &Session{
		id:      o.id,
		binding: NewSurfaceBinding(platform, decoder, bopts...),
		decoder: decoder,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Binding returns the session's binding.
func (s *Session) Binding() *SurfaceBinding { return s.binding }

// Start binds tex and starts the decoder. If the decoder fails to start the
// binding is released and the session cannot be restarted.
func (s *Session) Start(ctx context.Context, tex ExternalTexture) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.binding.Bind(tex); err != nil {
		return err
	}

	if r, ok := s.decoder.(Runner); ok {
		if err := r.Start(ctx); err != nil {
			s.binding.Release()
			s.closed = true
			return fmt.Errorf("videotex: start decoder: %w", err)
		}
		s.running = true
	}

	s.started = time.Now()
	Logger().Info("videotex: session started",
		"session", s.id,
		"runner", s.running,
	)
	return nil
}

// Tick synchronizes the texture with the latest decoded frame.
func (s *Session) Tick() (FrameSyncResult, error) {
	if s.closed {
		return Unchanged, ErrSessionClosed
	}
	return s.binding.Synchronize()
}

// Stats returns the binding counters.
func (s *Session) Stats() BindingStats {
	return s.binding.Stats()
}

// Uptime returns the time since Start, or 0 if not started.
func (s *Session) Uptime() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Close stops the decoder and releases the binding. It is idempotent and
// returns the decoder's stop error, if any.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.running {
		if err := s.decoder.(Runner).Stop(); err != nil {
			Logger().Warn("videotex: decoder stop failed", "session", s.id, "error", err)
			errs = append(errs, fmt.Errorf("videotex: stop decoder: %w", err))
		}
		s.running = false
	}
	s.binding.Release()

	st := s.binding.Stats()
	Logger().Info("videotex: session closed",
		"session", s.id,
		"uptime", s.Uptime(),
		"promotions", st.Promotions,
		"coalesced", st.SignalsCoalesced,
	)
	return errors.Join(errs...)
}
