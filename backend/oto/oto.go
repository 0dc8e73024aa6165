// SPDX-License-Identifier: EPL-2.0

// Package oto is an output-only stream backend. Oto pulls audio from an
// io.Reader on its own goroutine; the reader runs the stream callback.
//
// Oto allows a single context per process, so every stream opened through
// this package must use the same sample rate and channel count.
package oto

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	gooto "github.com/ebitengine/oto/v3"

	"github.com/ik5/ldsp/stream"
)

// DefaultSampleRate is used for requests asking for the native rate; oto has
// no way to query it.
const DefaultSampleRate = 48000

var ErrContextMismatch = errors.New("oto: context already created with a different format")

var (
	ctxMu       sync.Mutex
	ctx         *gooto.Context
	ctxRate     int
	ctxChannels int
)

// sharedContext creates the process-wide context on first use.
func sharedContext(rate, channels int, buffer time.Duration) (*gooto.Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()

	if ctx != nil {
		if rate != ctxRate || channels != ctxChannels {
			return nil, fmt.Errorf("%w: have %d Hz/%d ch, want %d Hz/%d ch", ErrContextMismatch, ctxRate, ctxChannels, rate, channels)
		}
		return ctx, nil
	}

	c, ready, err := gooto.NewContext(&gooto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       gooto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("oto: new context: %w", err)
	}
	<-ready

	ctx, ctxRate, ctxChannels = c, rate, channels
	return ctx, nil
}

// Backend implements stream.Backend for output streams.
type Backend struct {
	log *slog.Logger
}

// New returns an oto backend. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{log: logger.With("component", "backend", "backend", "oto")}
}

func (b *Backend) Name() string { return "oto" }

// bufferDuration converts a frame count to wall-clock time.
func bufferDuration(frames, rate int) time.Duration {
	if frames <= 0 || rate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(rate)
}

func (b *Backend) Open(req stream.Request, fn stream.DataFunc) (stream.Stream, error) {
	if req.Direction != stream.Output {
		return nil, fmt.Errorf("oto: %w: %v", stream.ErrUnsupportedDirection, req.Direction)
	}
	if req.ChannelCount != 1 && req.ChannelCount != 2 {
		return nil, fmt.Errorf("oto: %d channels requested, only mono and stereo are supported", req.ChannelCount)
	}

	rate := req.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	c, err := sharedContext(rate, req.ChannelCount, bufferDuration(req.BufferCapacity, rate))
	if err != nil {
		return nil, err
	}

	s := &Stream{
		req:     req,
		rate:    rate,
		fn:      fn,
		scratch: make([]float32, max(req.BufferCapacity, req.FramesPerCallback)*req.ChannelCount),
	}
	s.player = c.NewPlayer(s)
	if req.BufferSize > 0 {
		s.player.SetBufferSize(req.BufferSize * req.ChannelCount * 4)
	}
	b.log.Debug("player created", "rate", rate, "channels", req.ChannelCount)
	return s, nil
}

// Stream is an oto player driven by the stream callback.
type Stream struct {
	req    stream.Request
	rate   int
	fn     stream.DataFunc
	player *gooto.Player

	scratch  []float32
	running  atomic.Bool
	inflight atomic.Int32
}

// Read is called by oto on its mixing goroutine.
func (s *Stream) Read(p []byte) (int, error) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	frameBytes := 4 * s.req.ChannelCount
	frames := len(p) / frameBytes
	n := frames * frameBytes
	if frames == 0 {
		return 0, nil
	}
	if !s.running.Load() {
		clear(p[:n])
		return n, nil
	}

	samples := frames * s.req.ChannelCount
	if len(s.scratch) < samples {
		s.scratch = make([]float32, samples)
	}
	buf := s.scratch[:samples]
	s.fn(buf, frames)
	copy(p[:n], unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), n))
	return n, nil
}

func (s *Stream) Direction() stream.Direction     { return stream.Output }
func (s *Stream) SampleRate() int                 { return s.rate }
func (s *Stream) ChannelCount() int               { return s.req.ChannelCount }
func (s *Stream) FramesPerCallback() int          { return s.req.FramesPerCallback }
func (s *Stream) FramesPerBurst() int             { return s.req.FramesPerCallback }
func (s *Stream) BufferCapacity() int             { return s.req.BufferCapacity }
func (s *Stream) BufferSize() int                 { return s.req.BufferSize }
func (s *Stream) SharingMode() stream.SharingMode { return stream.SharingShared }

func (s *Stream) Start() error {
	if s.player == nil {
		return errors.New("oto: start closed stream")
	}
	s.running.Store(true)
	s.player.Play()
	return nil
}

// Stop pauses the player and waits for an in-flight Read to return.
func (s *Stream) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	for s.inflight.Load() != 0 {
		runtime.Gosched()
	}
	if s.player != nil {
		s.player.Pause()
	}
	return nil
}

func (s *Stream) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	if err != nil {
		return fmt.Errorf("oto: close player: %w", err)
	}
	return nil
}
