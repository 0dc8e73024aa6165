// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"errors"
	"fmt"
	"io"
)

// Resampler converts a Source to another sample rate with Catmull-Rom
// interpolation. The channel count is preserved. When downsampling a
// one-pole low-pass filter is applied to the input.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64
	channels int

	// hist[0..3] are frames t-1, t0, t+1, t+2 around pos.
	hist   [4][]float32
	primed bool
	pos    float64
	eof    bool
	// tail counts frames appended past the end of the source.
	tail int

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowpass []float32
	lpInit  bool
	alpha   float32
}

// NewResampler returns a Resampler producing dstRate samples per second.
func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: ch,
		in:       make([]float32, 1024*ch),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, ch)
	}
	if r.ratio > 1 {
		r.lowpass = make([]float32, ch)
		r.alpha = float32(1 / r.ratio)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("sample: close resampler source: %w", err)
	}
	return nil
}

// nextFrame copies the next source frame into f. It reports false at the
// end of the source.
func (r *Resampler) nextFrame(f []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.srcEOF {
			return false, nil
		}
		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, err
		}
	}
	copy(f, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass != nil {
		if !r.lpInit {
			copy(r.lowpass, f)
			r.lpInit = true
		}
		for c := range f {
			r.lowpass[c] += r.alpha * (f[c] - r.lowpass[c])
			f[c] = r.lowpass[c]
		}
	}
	return true, nil
}

// advance shifts the history by one frame. At the end of the source the
// last frame is repeated so the final source frame is still reached.
func (r *Resampler) advance() error {
	h0 := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = h0

	ok, err := r.nextFrame(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
		r.tail++
		if r.tail > 2 {
			r.eof = true
		}
	}
	return nil
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.nextFrame(r.hist[1])
	if err != nil || !ok {
		return false, err
	}
	copy(r.hist[0], r.hist[1])
	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.hist[i])
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
			r.tail++
		}
	}
	r.primed = true
	return true, nil
}

// ReadSamples fills dst with samples at the target rate. len(dst) must be
// a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 && !r.eof {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		// hist[2] is a repeat once tail reaches 2; stop at the last real frame.
		if r.eof || (r.tail >= 2 && r.pos > 0) {
			r.eof = true
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, nil
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = cubic(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		written++
		r.pos += r.ratio
	}
	return written * r.channels, nil
}
