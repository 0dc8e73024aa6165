// SPDX-License-Identifier: EPL-2.0

package stream

import "sync/atomic"

// ring is a single-producer single-consumer queue of interleaved samples.
// write is called from the input thread only; read, discard and
// available from the output thread only. Counts are always whole frames.
type ring struct {
	buf      []float32
	mask     uint64
	channels int

	_ [64]byte
	w atomic.Uint64
	_ [56]byte
	r atomic.Uint64
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// newRing holds at least frames frames of channels samples.
func newRing(frames, channels int) *ring {
	size := nextPow2(frames * channels)
	return &ring{
		buf:      make([]float32, size),
		mask:     uint64(size - 1),
		channels: channels,
	}
}

// capacityFrames is the number of whole frames the ring can hold.
func (rb *ring) capacityFrames() int {
	return len(rb.buf) / rb.channels
}

// available returns the number of whole frames queued.
func (rb *ring) available() int {
	return int(rb.w.Load()-rb.r.Load()) / rb.channels
}

// write queues as many whole frames of p as fit and returns the number of
// frames written.
func (rb *ring) write(p []float32) int {
	w := rb.w.Load()
	r := rb.r.Load()
	free := (rb.capacityFrames()*rb.channels - int(w-r)) / rb.channels
	frames := min(len(p)/rb.channels, free)
	if frames <= 0 {
		return 0
	}
	n := frames * rb.channels

	start := int(w & rb.mask)
	c := copy(rb.buf[start:], p[:n])
	if c < n {
		copy(rb.buf, p[c:n])
	}
	rb.w.Store(w + uint64(n))
	return frames
}

// read dequeues up to len(p)/channels frames into p and returns the number of
// frames read.
func (rb *ring) read(p []float32) int {
	r := rb.r.Load()
	w := rb.w.Load()
	frames := min(len(p)/rb.channels, int(w-r)/rb.channels)
	if frames <= 0 {
		return 0
	}
	n := frames * rb.channels

	start := int(r & rb.mask)
	c := copy(p[:n], rb.buf[start:])
	if c < n {
		copy(p[c:n], rb.buf)
	}
	rb.r.Store(r + uint64(n))
	return frames
}

// discard drops up to frames queued frames and returns how many were dropped.
func (rb *ring) discard(frames int) int {
	r := rb.r.Load()
	w := rb.w.Load()
	frames = min(frames, int(w-r)/rb.channels)
	if frames <= 0 {
		return 0
	}
	rb.r.Store(r + uint64(frames*rb.channels))
	return frames
}
