// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// mp3Source reads the 16-bit little-endian stereo stream go-mp3 produces.
type mp3Source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// pending holds a trailing partial sample between reads.
	pending []byte
}

func (s *mp3Source) SampleRate() int { return s.sampleRate }
func (s *mp3Source) Channels() int   { return 2 }
func (s *mp3Source) Close() error    { return nil }

func (s *mp3Source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	have := copy(s.buf, s.pending)
	s.pending = s.pending[:0]
	var err error
	for have < 4 && err == nil {
		var n int
		n, err = s.dec.Read(s.buf[have:])
		have += n
	}

	// Whole stereo frames only; 4 bytes each.
	whole := have - have%4
	s.pending = append(s.pending, s.buf[whole:have]...)
	for i := 0; i < whole/2; i++ {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
	}

	switch {
	case err == io.EOF && whole == 0:
		return 0, io.EOF
	case err == io.EOF:
		return whole / 2, nil
	case err != nil:
		return whole / 2, fmt.Errorf("sample: read mp3: %w", err)
	}
	return whole / 2, nil
}

// Mp3Decoder decodes MPEG-1/2 layer III streams. Output is always stereo.
type Mp3Decoder struct{}

func (Mp3Decoder) Decode(r io.Reader) (Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("sample: open mp3: %w", err)
	}
	return &mp3Source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
