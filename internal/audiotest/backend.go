// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/ldsp/stream"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("injected failure")

// Backend is a deterministic stream.Backend. Nothing runs on its own: tests
// drive the callbacks with ManualStream.Tick and ManualStream.Push from the
// test goroutine.
//
// Exported fields configure the backend and must be set before the first
// Open.
type Backend struct {
	// NativeRate is reported when a request asks for rate 0. Defaults to
	// 48000.
	NativeRate int
	// ForceRate, when set, is reported instead of the requested rate for
	// the given direction.
	ForceRate map[stream.Direction]int
	// FramesPerCallback overrides the negotiated frames per callback of the
	// output stream.
	FramesPerCallback int
	// FramesPerBurst overrides the burst size per direction. Defaults to the
	// negotiated frames per callback.
	FramesPerBurst map[stream.Direction]int

	FailOpen  map[stream.Direction]error
	FailStart map[stream.Direction]error
	FailStop  map[stream.Direction]error
	FailClose map[stream.Direction]error

	mu       sync.Mutex
	events   []string
	requests []stream.Request
	streams  map[stream.Direction]*ManualStream
}

// NewBackend returns a backend with no failures injected.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "manual" }

func (b *Backend) Open(req stream.Request, fn stream.DataFunc) (stream.Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, req)
	b.events = append(b.events, "open "+req.Direction.String())
	if err := b.FailOpen[req.Direction]; err != nil {
		return nil, err
	}

	rate := req.SampleRate
	if rate == 0 {
		rate = b.NativeRate
		if rate == 0 {
			rate = 48000
		}
	}
	if r, ok := b.ForceRate[req.Direction]; ok {
		rate = r
	}

	fpc := req.FramesPerCallback
	if req.Direction == stream.Output && b.FramesPerCallback > 0 {
		fpc = b.FramesPerCallback
	}
	burst := fpc
	if v, ok := b.FramesPerBurst[req.Direction]; ok {
		burst = v
	}

	s := &ManualStream{
		backend:  b,
		fn:       fn,
		dir:      req.Direction,
		rate:     rate,
		channels: req.ChannelCount,
		fpc:      fpc,
		burst:    burst,
		capacity: req.BufferCapacity,
		size:     req.BufferSize,
		sharing:  req.SharingMode,
	}
	if b.streams == nil {
		b.streams = make(map[stream.Direction]*ManualStream)
	}
	b.streams[req.Direction] = s
	return s, nil
}

func (b *Backend) record(format string, args ...any) {
	b.mu.Lock()
	b.events = append(b.events, fmt.Sprintf(format, args...))
	b.mu.Unlock()
}

// Events returns every open, start, stop and close call in order, for
// example "open output" or "stop input".
func (b *Backend) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// Requests returns every request passed to Open.
func (b *Backend) Requests() []stream.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]stream.Request(nil), b.requests...)
}

// Stream returns the most recently opened stream for dir, or nil.
func (b *Backend) Stream(dir stream.Direction) *ManualStream {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.streams[dir]
}

// ManualStream is a stream.Stream whose callbacks are invoked by the test.
type ManualStream struct {
	backend *Backend
	fn      stream.DataFunc

	dir      stream.Direction
	rate     int
	channels int
	fpc      int
	burst    int
	capacity int
	size     int
	sharing  stream.SharingMode

	mu      sync.Mutex
	started bool
	closed  bool
}

func (s *ManualStream) Direction() stream.Direction     { return s.dir }
func (s *ManualStream) SampleRate() int                 { return s.rate }
func (s *ManualStream) ChannelCount() int               { return s.channels }
func (s *ManualStream) FramesPerCallback() int          { return s.fpc }
func (s *ManualStream) FramesPerBurst() int             { return s.burst }
func (s *ManualStream) BufferCapacity() int             { return s.capacity }
func (s *ManualStream) BufferSize() int                 { return s.size }
func (s *ManualStream) SharingMode() stream.SharingMode { return s.sharing }

func (s *ManualStream) Start() error {
	s.backend.record("start %s", s.dir)
	if err := s.backend.FailStart[s.dir]; err != nil {
		return err
	}
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *ManualStream) Stop() error {
	s.backend.record("stop %s", s.dir)
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	return s.backend.FailStop[s.dir]
}

func (s *ManualStream) Close() error {
	s.backend.record("close %s", s.dir)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.backend.FailClose[s.dir]
}

// Started reports whether the stream is between Start and Stop.
func (s *ManualStream) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Closed reports whether Close was called.
func (s *ManualStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Tick runs one output callback for frames frames and returns the rendered
// samples. It returns nil when the stream is not started.
func (s *ManualStream) Tick(frames int) []float32 {
	buf := make([]float32, frames*s.channels)
	if !s.TickInto(buf, frames) {
		return nil
	}
	return buf
}

// TickInto runs one output callback into buf. It reports false when the
// stream is not started.
func (s *ManualStream) TickInto(buf []float32, frames int) bool {
	if !s.Started() {
		return false
	}
	s.fn(buf, frames)
	return true
}

// Push runs one input callback with the interleaved samples. It reports
// false when the stream is not started.
func (s *ManualStream) Push(samples []float32) bool {
	if !s.Started() {
		return false
	}
	s.fn(samples, len(samples)/s.channels)
	return true
}
