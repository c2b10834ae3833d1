// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package decoder

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/videotex"
)

// recordingSurface counts queued buffers and can block inside QueueBuffer.
type recordingSurface struct {
	queued  atomic.Int64
	block   chan struct{}
	entered chan struct{}
	fail    error
}

func (s *recordingSurface) QueueBuffer(videotex.Buffer) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	if s.fail != nil {
		return s.fail
	}
	s.queued.Add(1)
	return nil
}
func (s *recordingSurface) SetOnFrameAvailable(func()) {}
func (s *recordingSurface) UpdateTexImage() error      { return nil }
func (s *recordingSurface) Destroy()                   {}

func TestOutput_DiscardsWithoutSurface(t *testing.T) {
	var o Output
	ok, err := o.Queue(videotex.Buffer{})
	if ok || err != nil {
		t.Errorf("Queue() = %v, %v, want false, nil", ok, err)
	}
	if o.Discarded() != 1 || o.Queued() != 0 {
		t.Errorf("discarded=%d queued=%d, want 1/0", o.Discarded(), o.Queued())
	}
}

func TestOutput_SetAndDetach(t *testing.T) {
	var o Output
	if err := o.SetOutputSurface(nil); !errors.Is(err, ErrNilSurface) {
		t.Errorf("SetOutputSurface(nil) error = %v, want ErrNilSurface", err)
	}

	s := &recordingSurface{}
	if err := o.SetOutputSurface(s); err != nil {
		t.Fatal(err)
	}
	if !o.Attached() {
		t.Error("Attached() = false after SetOutputSurface")
	}
	if ok, _ := o.Queue(videotex.Buffer{}); !ok {
		t.Error("Queue() = false with surface attached")
	}

	o.DetachOutputSurface()
	o.DetachOutputSurface()
	if o.Attached() {
		t.Error("Attached() = true after Detach")
	}
	if ok, _ := o.Queue(videotex.Buffer{}); ok {
		t.Error("Queue() delivered after Detach")
	}
	if s.queued.Load() != 1 {
		t.Errorf("surface received %d buffers, want 1", s.queued.Load())
	}
}

func TestOutput_QueueError(t *testing.T) {
	var o Output
	want := errors.New("surface gone")
	_ = o.SetOutputSurface(&recordingSurface{fail: want})
	if ok, err := o.Queue(videotex.Buffer{}); ok || !errors.Is(err, want) {
		t.Errorf("Queue() = %v, %v, want false, %v", ok, err, want)
	}
	if o.Queued() != 0 {
		t.Errorf("Queued() = %d, want 0", o.Queued())
	}
}

func TestOutput_DetachWaitsForInFlightQueue(t *testing.T) {
	var o Output
	s := &recordingSurface{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	_ = o.SetOutputSurface(s)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = o.Queue(videotex.Buffer{})
	}()
	<-s.entered

	detached := make(chan struct{})
	go func() {
		o.DetachOutputSurface()
		close(detached)
	}()

	select {
	case <-detached:
		t.Fatal("DetachOutputSurface returned while QueueBuffer was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(s.block)
	wg.Wait()
	select {
	case <-detached:
	case <-time.After(time.Second):
		t.Fatal("DetachOutputSurface did not return after QueueBuffer finished")
	}
}
