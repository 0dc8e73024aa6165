// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// pcmReader is the part of the go-audio decoders the sources use.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intSource converts go-audio integer PCM to float samples.
type intSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int
	unsigned8  bool
	buf        goaudio.IntBuffer
}

func (s *intSource) SampleRate() int { return s.sampleRate }
func (s *intSource) Channels() int   { return s.channels }
func (s *intSource) Close() error    { return nil }

func (s *intSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(&s.buf)
	if err != nil {
		return 0, fmt.Errorf("sample: read pcm: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	// Keep whole frames only.
	n -= n % s.channels

	scale := intScale(s.bitDepth)
	for i, v := range s.buf.Data[:n] {
		if s.unsigned8 {
			v -= 128
		}
		dst[i] = float32(v) / scale
	}
	return n, nil
}

// WavDecoder decodes RIFF/WAVE PCM files.
type WavDecoder struct{}

func (WavDecoder) Decode(r io.Reader) (Source, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("sample: read wav: %w", err)
	}
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWav
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("sample: wav header: %w", err)
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: wav format tag %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit wav", ErrUnsupportedFormat, depth)
	}
	if dec.NumChans == 0 {
		return nil, ErrInvalidChannels
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("sample: wav data chunk: %w", err)
	}

	return &intSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   depth,
		unsigned8:  depth == 8,
	}, nil
}
