// SPDX-License-Identifier: EPL-2.0

package stream

import "fmt"

// Direction of a hardware stream.
type Direction int

const (
	Output Direction = iota
	Input
)

func (d Direction) String() string {
	switch d {
	case Output:
		return "output"
	case Input:
		return "input"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// SharingMode selects whether the stream may share the device.
type SharingMode int

const (
	SharingExclusive SharingMode = iota
	SharingShared
)

func (m SharingMode) String() string {
	switch m {
	case SharingExclusive:
		return "exclusive"
	case SharingShared:
		return "shared"
	default:
		return fmt.Sprintf("sharing(%d)", int(m))
	}
}

// PerformanceMode is a latency hint passed to the backend.
type PerformanceMode int

const (
	PerformanceLowLatency PerformanceMode = iota
	PerformancePowerSaving
	PerformanceNone
)

func (m PerformanceMode) String() string {
	switch m {
	case PerformanceLowLatency:
		return "low-latency"
	case PerformancePowerSaving:
		return "power-saving"
	case PerformanceNone:
		return "none"
	default:
		return fmt.Sprintf("performance(%d)", int(m))
	}
}

// Format is the sample format exchanged with the backend. Only 32-bit float
// is supported.
type Format int

const (
	FormatFloat32 Format = iota
)

// Request describes the stream a backend should open. Zero values mean
// "backend default": SampleRate 0 selects the native rate.
type Request struct {
	Direction         Direction
	PerformanceMode   PerformanceMode
	SharingMode       SharingMode
	Format            Format
	ChannelCount      int
	SampleRate        int
	FramesPerCallback int
	BufferCapacity    int
	BufferSize        int
}

// DataFunc receives audio on the backend's callback thread. buf holds frames
// interleaved frames. For an output stream the function fills buf, for an
// input stream it consumes it. buf is only valid during the call.
type DataFunc func(buf []float32, frames int)

// Stream is one opened hardware stream. The getters report negotiated values.
type Stream interface {
	Direction() Direction
	SampleRate() int
	ChannelCount() int
	FramesPerCallback() int
	FramesPerBurst() int
	BufferCapacity() int
	BufferSize() int
	SharingMode() SharingMode

	Start() error
	// Stop halts callbacks. When it returns no DataFunc call is in progress.
	// Stopping a stream that was never started returns nil.
	Stop() error
	Close() error
}

// Backend opens hardware streams.
type Backend interface {
	Name() string
	Open(req Request, fn DataFunc) (Stream, error)
}

// StreamInfo is a snapshot of the negotiated values of a stream.
type StreamInfo struct {
	Direction         Direction
	SampleRate        int
	ChannelCount      int
	FramesPerCallback int
	FramesPerBurst    int
	BufferCapacity    int
	BufferSize        int
	SharingMode       SharingMode
}

// InfoOf captures the negotiated values of s.
func InfoOf(s Stream) StreamInfo {
	return StreamInfo{
		Direction:         s.Direction(),
		SampleRate:        s.SampleRate(),
		ChannelCount:      s.ChannelCount(),
		FramesPerCallback: s.FramesPerCallback(),
		FramesPerBurst:    s.FramesPerBurst(),
		BufferCapacity:    s.BufferCapacity(),
		BufferSize:        s.BufferSize(),
		SharingMode:       s.SharingMode(),
	}
}

// Negotiated is what the coordinator ended up with after opening.
type Negotiated struct {
	FullDuplex bool
	SampleRate int
	// FramesPerBlock is the frame count of every render call.
	FramesPerBlock int
	// InputChannels is 0 in output-only mode.
	InputChannels  int
	OutputChannels int

	Output StreamInfo
	// Input is the zero value in output-only mode.
	Input StreamInfo
}
