// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// Source is a synthetic sample source. It satisfies sample.Source.
type Source struct {
	Rate   int
	Ch     int
	Frames int
	// Wave returns the value of channel ch at frame f.
	Wave func(f, ch int) float32
	// MaxRead caps the frames returned per ReadSamples call when positive.
	MaxRead int
	// ReadErr is returned once the source is exhausted instead of io.EOF.
	ReadErr error

	pos    int
	Closed bool
}

// NewSine returns a source of frames frames of a full-scale sine at freq Hz
// on every channel.
func NewSine(rate, channels, frames int, freq float64) *Source {
	return &Source{Rate: rate, Ch: channels, Frames: frames, Wave: func(f, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * freq * float64(f) / float64(rate)))
	}}
}

// NewConstant returns a source holding v on every sample.
func NewConstant(rate, channels, frames int, v float32) *Source {
	return &Source{Rate: rate, Ch: channels, Frames: frames, Wave: func(int, int) float32 { return v }}
}

// NewRamp returns a source whose channel ch at frame f is f + ch/10.
func NewRamp(rate, channels, frames int) *Source {
	return &Source{Rate: rate, Ch: channels, Frames: frames, Wave: func(f, ch int) float32 {
		return float32(f) + float32(ch)/10
	}}
}

func (s *Source) SampleRate() int { return s.Rate }
func (s *Source) Channels() int   { return s.Ch }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

// Rewind restarts the source from frame 0.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.Frames {
		if s.ReadErr != nil {
			return 0, s.ReadErr
		}
		return 0, io.EOF
	}
	n := min(len(dst)/s.Ch, s.Frames-s.pos)
	if s.MaxRead > 0 {
		n = min(n, s.MaxRead)
	}
	for f := range n {
		for ch := range s.Ch {
			dst[f*s.Ch+ch] = s.Wave(s.pos+f, ch)
		}
	}
	s.pos += n
	return n * s.Ch, nil
}
