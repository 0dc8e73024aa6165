// SPDX-License-Identifier: EPL-2.0

// Package headless is a clock-driven stream backend with no audio device.
// Each started stream runs its callbacks from its own goroutine on a ticker,
// so input and output are independently clocked just like real hardware.
package headless

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/ldsp/stream"
)

// DefaultSampleRate is the native rate reported for requests asking for 0.
const DefaultSampleRate = 48000

// Options configures the simulated hardware.
type Options struct {
	// SampleRate is the native rate. Zero means DefaultSampleRate.
	SampleRate int
	// OutputBurst and InputBurst are the frames delivered per callback.
	// Zero means the requested frames per callback.
	OutputBurst int
	InputBurst  int
	// Generator fills captured input. Nil captures silence.
	Generator func(buf []float32, frames, channels int)
	// Sink receives every rendered output buffer on the output goroutine.
	// The slice is reused after Sink returns.
	Sink func(buf []float32)
}

// Backend implements stream.Backend.
type Backend struct {
	opts Options
	log  *slog.Logger
}

// New returns a headless backend. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	return &Backend{opts: opts, log: logger.With("component", "backend", "backend", "headless")}
}

func (b *Backend) Name() string { return "headless" }

func (b *Backend) Open(req stream.Request, fn stream.DataFunc) (stream.Stream, error) {
	if req.ChannelCount <= 0 {
		return nil, fmt.Errorf("headless: %d channels requested", req.ChannelCount)
	}
	if req.FramesPerCallback <= 0 {
		return nil, fmt.Errorf("headless: %d frames per callback requested", req.FramesPerCallback)
	}

	rate := req.SampleRate
	if rate <= 0 {
		rate = b.opts.SampleRate
	}
	burst := req.FramesPerCallback
	switch req.Direction {
	case stream.Output:
		if b.opts.OutputBurst > 0 {
			burst = b.opts.OutputBurst
		}
	case stream.Input:
		if b.opts.InputBurst > 0 {
			burst = b.opts.InputBurst
		}
	default:
		return nil, fmt.Errorf("headless: %w: %v", stream.ErrUnsupportedDirection, req.Direction)
	}

	s := &Stream{
		backend:  b,
		fn:       fn,
		req:      req,
		rate:     rate,
		burst:    burst,
		capacity: max(req.BufferCapacity, burst),
		size:     max(req.BufferSize, burst),
	}
	b.log.Debug("stream opened", "direction", req.Direction, "rate", rate, "burst", burst)
	return s, nil
}

// Stream is a simulated hardware stream.
type Stream struct {
	backend *Backend
	fn      stream.DataFunc
	req     stream.Request

	rate     int
	burst    int
	capacity int
	size     int

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

func (s *Stream) Direction() stream.Direction     { return s.req.Direction }
func (s *Stream) SampleRate() int                 { return s.rate }
func (s *Stream) ChannelCount() int               { return s.req.ChannelCount }
func (s *Stream) FramesPerCallback() int          { return s.req.FramesPerCallback }
func (s *Stream) FramesPerBurst() int             { return s.burst }
func (s *Stream) BufferCapacity() int             { return s.capacity }
func (s *Stream) BufferSize() int                 { return s.size }
func (s *Stream) SharingMode() stream.SharingMode { return s.req.SharingMode }

// Period is the wall-clock time between callbacks.
func (s *Stream) Period() time.Duration {
	return time.Duration(s.burst) * time.Second / time.Duration(s.rate)
}

func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("headless: start %s: stream closed", s.req.Direction)
	}
	if s.started {
		return nil
	}
	s.stop = make(chan struct{})
	s.started = true
	s.wg.Add(1)
	go s.run(s.stop)
	return nil
}

func (s *Stream) run(stop <-chan struct{}) {
	defer s.wg.Done()

	ch := s.req.ChannelCount
	buf := make([]float32, s.burst*ch)
	ticker := time.NewTicker(s.Period())
	defer ticker.Stop()

	gen := s.backend.opts.Generator
	sink := s.backend.opts.Sink

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if s.req.Direction == stream.Input {
			if gen != nil {
				gen(buf, s.burst, ch)
			} else {
				clear(buf)
			}
			s.fn(buf, s.burst)
			continue
		}

		s.fn(buf, s.burst)
		if sink != nil {
			sink(buf)
		}
	}
}

func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	close(s.stop)
	s.wg.Wait()
	s.started = false
	return nil
}

func (s *Stream) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
